package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	scoreLimit       = 100 // Entries loaded per variant
	minWidthForPanel = 96  // Stats panel goes beside the table from here on
	panelWidth       = 24
)

// ScoreSource supplies the score history. *storage.Store implements it.
type ScoreSource interface {
	Variants() ([]string, error)
	TopScores(variant string, limit int) ([]storage.ScoreEntry, error)
	Stats(variant string) (*storage.VariantStats, error)
}

// ScoreboardKeyMap defines the scoreboard bindings.
type ScoreboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevVariant key.Binding
	NextVariant key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevVariant, k.NextVariant, k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.PrevVariant, k.NextVariant}, {k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		PrevVariant: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev board")),
		NextVariant: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next board")),
		Back:        key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(backgroundColor).Background(highlightColor).Padding(0, 1)
	frameStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ScoreboardModel shows the finished games of one variant (mode and board
// size) at a time.
type ScoreboardModel struct {
	store    ScoreSource
	variants []string // e.g. "classic_4x4"
	current  int

	scores []storage.ScoreEntry
	stats  *storage.VariantStats
	err    error

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates the scoreboard. initial selects the variant
// shown first when it has scores.
func NewScoreboardModel(store ScoreSource, initial string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()

	if store == nil {
		return m
	}
	m.variants, m.err = store.Variants()
	for i, v := range m.variants {
		if v == initial {
			m.current = i
		}
	}
	m.load()
	return m
}

// newTable builds the score table sized for the terminal.
func (m ScoreboardModel) newTable() table.Model {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Tile", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Pts/mv", Width: 7},
		{Title: "Time", Width: 9},
		{Title: "Played", Width: 12},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(backgroundColor).Background(highlightColor).Bold(false)
	t.SetStyles(s)
	return t
}

// load fetches the current variant's scores and aggregates.
func (m *ScoreboardModel) load() {
	m.scores, m.stats = nil, nil
	if len(m.variants) == 0 {
		m.table.SetRows(nil)
		return
	}

	v := m.variants[m.current]
	scores, err := m.store.TopScores(v, scoreLimit)
	if err != nil {
		m.err = err
	} else {
		m.scores = scores
	}
	if stats, err := m.store.Stats(v); err == nil {
		m.stats = stats
	}

	rows := make([]table.Row, len(m.scores))
	for i, e := range m.scores {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.MaxTile),
			strconv.Itoa(e.Moves),
			pointsPerMove(e),
			t2048.FormatElapsed(e.Duration),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func pointsPerMove(e storage.ScoreEntry) string {
	if e.Moves == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", float64(e.Score)/float64(e.Moves))
}

// step moves the variant selection by delta, wrapping around.
func (m *ScoreboardModel) step(delta int) {
	n := len(m.variants)
	if n == 0 {
		return
	}
	m.current = (m.current + delta + n) % n
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextVariant):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevVariant):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		rows := m.table.Rows()
		m.table = m.newTable()
		m.table.SetRows(rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	sections := []string{
		titleStyle.Render("HIGH SCORES"),
		m.viewTabs(),
	}

	body := frameStyle.Render(m.viewTable())
	if len(m.scores) > 0 {
		panel := frameStyle.Width(panelWidth).Render(m.viewStats())
		if m.width >= minWidthForPanel {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", panel)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Center, body, panel)
		}
	}
	sections = append(sections, body, helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

// viewTabs lists the variants, collapsing to "< current >" when they do not
// fit.
func (m ScoreboardModel) viewTabs() string {
	if len(m.variants) == 0 {
		return ""
	}
	tabs := make([]string, len(m.variants))
	for i, v := range m.variants {
		style := tabStyle
		if i == m.current {
			style = activeTabStyle
		}
		tabs[i] = style.Render(variantTitle(v))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(line) > m.width-4 {
		line = activeTabStyle.Render("< " + variantTitle(m.variants[m.current]) + " >")
	}
	return line
}

func (m ScoreboardModel) viewTable() string {
	switch {
	case m.err != nil:
		return errorStyle.Padding(1, 2).Render("Could not load scores: " + m.err.Error())
	case len(m.scores) == 0:
		return statusStyle.Italic(true).Padding(1, 2).Render("No finished games yet.\nPlay one to set a high score!")
	}
	return m.table.View()
}

// viewStats summarizes the variant; the best tile is drawn like on the board.
func (m ScoreboardModel) viewStats() string {
	if m.stats == nil {
		return labelStyle.Render("No statistics")
	}
	s := m.stats
	line := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-11s", label)) + value
	}
	lines := []string{
		line("Games", strconv.Itoa(s.GamesCount)),
		line("Best score", strconv.Itoa(s.HighScore)),
		line("Average", fmt.Sprintf("%.0f", s.AvgScore)),
		line("Moves", strconv.FormatInt(s.TotalMoves, 10)),
	}
	if !s.LastPlayed.IsZero() {
		lines = append(lines, line("Last game", s.LastPlayed.Local().Format("Jan 02")))
	}
	if s.BestTile > 0 {
		tile := cellStyle(s.BestTile, false).Height(1).Render(strconv.Itoa(s.BestTile))
		lines = append(lines, "", line("Best tile", ""), tile)
	}
	return strings.Join(lines, "\n")
}

// IsGoingBack reports whether the user left with the back key.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// variantTitle turns "classic_4x4" into "Classic 4x4".
func variantTitle(v string) string {
	mode, size, ok := strings.Cut(v, "_")
	if !ok || mode == "" {
		return v
	}
	return strings.ToUpper(mode[:1]) + mode[1:] + " " + size
}

// RunScoreboard runs the scoreboard screen.
// Returns true if the user went back, false if they quit.
func RunScoreboard(store ScoreSource, initial string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, initial, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
