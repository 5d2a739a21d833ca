package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Selection holds the user's choice from the start menu.
type Selection struct {
	Mode       t2048.Mode
	Difficulty config.DifficultyPreset
	Tutorial   bool // Start with the tutorial
}

type menuEntry struct {
	label    string
	mode     t2048.Mode
	tutorial bool
}

var menuEntries = []menuEntry{
	{label: "Classic (reach the win tile)", mode: t2048.ModeClassic},
	{label: "Endless", mode: t2048.ModeEndless},
	{label: "Tutorial", mode: t2048.ModeClassic, tutorial: true},
}

// MenuModel lets users choose the game mode and difficulty.
type MenuModel struct {
	cursor       int
	diffCursor   int
	inDifficulty bool
	width        int
	height       int
	selection    Selection
	choosing     bool
	quitting     bool
}

// NewMenuModel creates a new start menu. The difficulty cursor starts on
// normal.
func NewMenuModel(width, height int) MenuModel {
	return MenuModel{
		diffCursor: 1,
		width:      width,
		height:     height,
		choosing:   true,
	}
}

// Init initializes the model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := MapKeyToMenuAction(msg)
		if m.inDifficulty {
			return m.handleDifficultyKey(action)
		}
		return m.handleModeKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m MenuModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		entry := menuEntries[m.cursor]
		m.selection = Selection{Mode: entry.mode, Tutorial: entry.tutorial}
		if entry.tutorial {
			m.selection.Difficulty = config.DifficultyNormal
			m.choosing = false
			return m, tea.Quit
		}
		m.inDifficulty = true
	}
	return m, nil
}

func (m MenuModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(config.Presets)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		m.selection.Difficulty = config.Presets[m.diffCursor]
		m.choosing = false
		return m, tea.Quit
	case MenuActionBack:
		m.inDifficulty = false
	}
	return m, nil
}

// View renders the mode or difficulty selection.
func (m MenuModel) View() string {
	if m.quitting || !m.choosing {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	if m.inDifficulty {
		b.WriteString(centerText("Select difficulty:", m.width))
		b.WriteString("\n\n")
		for i, p := range config.Presets {
			prob, _ := config.FourProbabilityForPreset(p)
			line := fmt.Sprintf("%-7s (%d%% fours)", p, int(prob*100))
			b.WriteString(centerText(cursorPrefix(i == m.diffCursor)+line, m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
		for i, e := range menuEntries {
			b.WriteString(centerText(cursorPrefix(i == m.cursor)+e.label, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// Selected returns the selection, or nil if still choosing or quit.
func (m MenuModel) Selected() *Selection {
	if m.choosing || m.quitting {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// RunMenu runs the start menu and returns the selection, or nil if the
// user quit.
func RunMenu(width, height int) (*Selection, error) {
	p := tea.NewProgram(
		NewMenuModel(width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
