package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const (
	cellWidth  = 8 // Fits six digits with padding
	cellHeight = 3
)

// Palette
var (
	backgroundColor = lipgloss.Color("#121212")
	frameColor      = lipgloss.Color("#1E1E1E")
	emptyColor      = lipgloss.Color("#2D2D2D")
	textColor       = lipgloss.Color("#FFFFFF")
	highlightColor  = lipgloss.Color("#FFD700") // Merge flash and tutorial hints
	overflowColor   = lipgloss.Color("#3C3A32") // Tiles above 32768
)

// tileColors maps tile values to background colors.
var tileColors = map[int]lipgloss.Color{
	2:     "#A5CA6B",
	4:     "#7A9D4F",
	8:     "#EE6B6E",
	16:    "#F7B801",
	32:    "#96CDFA",
	64:    "#588B8B",
	128:   "#FF9F1C",
	256:   "#E71D36",
	512:   "#2EC4B6",
	1024:  "#011627",
	2048:  "#FF3366",
	4096:  "#9B59B6",
	8192:  "#1ABC9C",
	16384: "#D35400",
	32768: "#34495E",
}

// tileColor returns the background for a tile value.
func tileColor(v int) lipgloss.Color {
	if v == 0 {
		return emptyColor
	}
	if c, ok := tileColors[v]; ok {
		return c
	}
	return overflowColor
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudStyle         = lipgloss.NewStyle().Foreground(textColor).Background(frameColor).Padding(0, 1)
	boardStyle       = lipgloss.NewStyle().Background(frameColor).Padding(0, 1)
	instructionStyle = lipgloss.NewStyle().Foreground(highlightColor).Italic(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dialogStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(highlightColor).Padding(1, 3)
)

// cellStyle styles one cell. Flashing and highlighted cells use the
// highlight color.
func cellStyle(v int, lit bool) lipgloss.Style {
	bg := tileColor(v)
	fg := textColor
	if lit {
		bg = highlightColor
		fg = backgroundColor
	}
	return lipgloss.NewStyle().
		Width(cellWidth).
		Height(cellHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(true).
		Foreground(fg).
		Background(bg)
}

// renderBoard draws the grid. Cells in lit are highlighted.
func renderBoard(b engine.Board, lit map[engine.Position]bool) string {
	gap := lipgloss.NewStyle().Background(frameColor).Render(" ")
	rows := make([]string, 0, len(b))
	for r, row := range b {
		cells := make([]string, 0, 2*len(row))
		for c, v := range row {
			if c > 0 {
				cells = append(cells, gap)
			}
			text := ""
			if v != 0 {
				text = strconv.Itoa(v)
			}
			cells = append(cells, cellStyle(v, lit[engine.Position{Row: r, Col: c}]).Render(text))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHUD draws the score line.
func renderHUD(s t2048.Snapshot) string {
	parts := []string{
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("High Score: %d", s.HighScore),
		fmt.Sprintf("Moves: %d", s.Moves),
		t2048.FormatElapsed(s.Elapsed),
	}
	return hudStyle.Render(strings.Join(parts, "   "))
}

// renderDialog draws a bordered popup.
func renderDialog(title string, lines ...string) string {
	body := titleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	}
	return dialogStyle.Render(body)
}

// statsLines formats the statistics popup.
func statsLines(s t2048.Stats) []string {
	return []string{
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Moves: %d", s.Moves),
		fmt.Sprintf("Time Played: %s", t2048.FormatElapsed(s.Elapsed)),
		fmt.Sprintf("Max Tile: %d", s.MaxTile),
		"",
		fmt.Sprintf("High Score: %d", s.HighScore),
	}
}

// centerText centers text within width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
