package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/logging"
)

// overlay is the popup currently covering the board.
type overlay int

const (
	overlayNone overlay = iota
	overlayStats
	overlaySave
	overlayLoad
	overlayWin
	overlayGameOver
)

const pickerHeight = 8

// Model is the Bubble Tea model for one game session.
type Model struct {
	game   *t2048.Game
	logger *log.Logger
	keys   GameKeyMap
	help   help.Model
	input  textinput.Model
	picker table.Model

	overlay   overlay
	status    string
	statusErr bool
	flash     map[engine.Position]bool
	flashID   int
	width     int
	height    int
	quitting  bool
}

// NewModel creates a model driving game.
func NewModel(game *t2048.Game, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}

	in := textinput.New()
	in.Placeholder = "my game"
	in.Prompt = "Name: "
	in.CharLimit = 40
	in.Width = 30

	return Model{
		game:   game,
		logger: logger,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		input:  in,
		width:  80,
		height: 24,
	}
}

// Init starts the clock that refreshes the elapsed time.
func (m Model) Init() tea.Cmd {
	return clockCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ClockMsg:
		return m, clockCmd()

	case flashDoneMsg:
		if msg.id == m.flashID {
			m.flash = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch m.overlay {
		case overlaySave:
			return m.updateSavePrompt(msg)
		case overlayLoad:
			return m.updateLoadPicker(msg)
		case overlayStats, overlayWin:
			// Any key dismisses; play continues
			m.overlay = overlayNone
			return m, nil
		case overlayGameOver:
			return m.updateGameOver(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes keys during normal play.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.game.NewGame()
		m.flash = nil
		m.setStatus("New game started.")
		return m, nil

	case key.Matches(msg, m.keys.Tutorial):
		if err := m.game.StartTutorial(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.flash = nil
		m.setStatus("Tutorial started. Press enter to continue.")
		return m, nil

	case key.Matches(msg, m.keys.Continue):
		m.game.AdvanceTutorial()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.game.InTutorial() {
			m.setError(t2048.ErrTutorialActive)
			return m, nil
		}
		m.overlay = overlaySave
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Load):
		return m.openLoadPicker()

	case key.Matches(msg, m.keys.Stats):
		m.overlay = overlayStats
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok {
		return m.move(dir)
	}
	return m, nil
}

// move plays one move and reacts to its outcome.
func (m Model) move(dir engine.Direction) (tea.Model, tea.Cmd) {
	out, err := m.game.Move(dir)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if !out.Moved {
		return m, nil
	}
	m.status = ""

	var cmd tea.Cmd
	if len(out.Merges) > 0 {
		m.flashID++
		m.flash = make(map[engine.Position]bool, len(out.Merges))
		for _, p := range out.Merges {
			m.flash[p] = true
		}
		cmd = flashCmd(m.flashID)
	}

	switch {
	case out.Lost:
		m.overlay = overlayGameOver
	case out.Won:
		m.overlay = overlayWin
	case out.TutorialDone:
		m.setStatus("Tutorial complete! Good luck.")
	case out.NewHighScore:
		m.setStatus("New high score!")
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.game.Finalize()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updateGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Restart), key.Matches(msg, m.keys.Continue):
		m.game.NewGame()
		m.overlay = overlayNone
		m.flash = nil
		m.setStatus("New game started.")
	case key.Matches(msg, m.keys.Load):
		m.overlay = overlayNone
		return m.openLoadPicker()
	}
	return m, nil
}

func (m Model) updateSavePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.overlay = overlayNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.overlay = overlayNone
		m.input.Blur()
		if name == "" {
			return m, nil // Cancelled
		}
		slot, err := m.game.Save(name)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Game saved as %s.", slot))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openLoadPicker() (tea.Model, tea.Cmd) {
	slots, err := m.game.SaveSlots()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if len(slots) == 0 {
		m.setStatus("No saved games found.")
		return m, nil
	}

	rows := make([]table.Row, len(slots))
	for i, s := range slots {
		rows[i] = table.Row{s}
	}
	m.picker = table.New(
		table.WithColumns([]table.Column{{Title: "Saved games", Width: 30}}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), pickerHeight)+1),
	)
	m.overlay = overlayLoad
	return m, nil
}

func (m Model) updateLoadPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.overlay = overlayNone
		return m, nil
	case tea.KeyEnter:
		m.overlay = overlayNone
		row := m.picker.SelectedRow()
		if row == nil {
			return m, nil
		}
		if err := m.game.Load(row[0]); err != nil {
			m.setError(err)
			return m, nil
		}
		m.flash = nil
		if m.game.Lost() {
			m.overlay = overlayGameOver
		}
		m.setStatus(fmt.Sprintf("Loaded %s.", row[0]))
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger.Warn("action failed", "err", err)
	switch {
	case errors.Is(err, t2048.ErrTutorialActive):
		m.status = "Cannot save game during tutorial mode."
	case errors.Is(err, engine.ErrInvalidOperation):
		m.status = "Game over. Press r to restart."
	default:
		m.status = err.Error()
	}
	m.statusErr = true
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.game.Snapshot()
	var b strings.Builder

	title := "2 0 4 8"
	if snap.Mode == t2048.ModeEndless {
		title += "  (endless)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(renderHUD(snap))
	b.WriteString("\n\n")

	switch m.overlay {
	case overlayNone:
		lit := m.flash
		if len(snap.Highlights) > 0 {
			lit = make(map[engine.Position]bool, len(snap.Highlights)+len(m.flash))
			for p := range m.flash {
				lit[p] = true
			}
			for _, p := range snap.Highlights {
				lit[p] = true
			}
		}
		b.WriteString(renderBoard(snap.Board, lit))
	default:
		b.WriteString(m.viewOverlay(snap))
	}
	b.WriteString("\n\n")

	if snap.Instruction != "" {
		b.WriteString(instructionStyle.Render(snap.Instruction))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) viewOverlay(snap t2048.Snapshot) string {
	stats := m.game.Stats()
	switch m.overlay {
	case overlayStats:
		return renderDialog("Game Statistics", statsLines(stats)...)
	case overlaySave:
		return renderDialog("Save Game", "Enter a name for your saved game:", "", m.input.View(), "", "enter: save  esc: cancel")
	case overlayLoad:
		return renderDialog("Load Game", m.picker.View(), "", "enter: load  esc: cancel")
	case overlayWin:
		return renderDialog(fmt.Sprintf("You reached %d!", snap.WinValue),
			fmt.Sprintf("Score: %d", stats.Score),
			fmt.Sprintf("Moves: %d", stats.Moves),
			fmt.Sprintf("Time Played: %s", t2048.FormatElapsed(stats.Elapsed)),
			"",
			"Press any key to continue playing.")
	case overlayGameOver:
		return renderDialog("Game Over!",
			fmt.Sprintf("Final Score: %d", stats.Score),
			fmt.Sprintf("Moves: %d", stats.Moves),
			fmt.Sprintf("Time Played: %s", t2048.FormatElapsed(stats.Elapsed)),
			"",
			"r: restart  ctrl+o: load  q: quit")
	}
	return ""
}

// Game returns the session driven by the model.
func (m Model) Game() *t2048.Game {
	return m.game
}

// Run starts the Bubble Tea program for game on the local terminal.
func Run(game *t2048.Game, logger *log.Logger) error {
	p := tea.NewProgram(
		NewModel(game, logger),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	game.Finalize()
	return err
}
