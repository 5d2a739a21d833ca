// Package tui provides the Bubble Tea front end for 2048: the game screen,
// save and load dialogs, the scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashDuration is how long merged tiles stay highlighted.
const flashDuration = 100 * time.Millisecond

// flashDoneMsg ends the merge flash started by move id.
type flashDoneMsg struct{ id int }

// flashCmd clears the merge flash after flashDuration.
func flashCmd(id int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{id: id}
	})
}

// ClockMsg refreshes the elapsed-time display.
type ClockMsg time.Time

// clockCmd sends a ClockMsg once per second.
func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}
