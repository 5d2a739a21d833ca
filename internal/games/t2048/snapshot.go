package t2048

import (
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateWon      GameStateType = "won" // Win announced, play continues
	StateGameOver GameStateType = "game_over"
	StateTutorial GameStateType = "tutorial"
)

// Snapshot captures everything the UI draws.
type Snapshot struct {
	Mode        Mode
	Variant     string
	Board       engine.Board
	Score       int
	HighScore   int
	Moves       int
	MaxTile     int
	WinValue    int
	Elapsed     time.Duration
	State       GameStateType
	Tutorial    int // Step index, -1 outside the tutorial
	Instruction string
	Highlights  []engine.Position
}

// Snapshot returns the current session state.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tutorial:
		state = StateTutorial
	case g.lost:
		state = StateGameOver
	case g.won:
		state = StateWon
	}

	return Snapshot{
		Mode:        g.mode,
		Variant:     g.Variant(),
		Board:       g.eng.Board(),
		Score:       g.eng.Score(),
		HighScore:   g.highScore,
		Moves:       g.eng.MoveCount(),
		MaxTile:     g.eng.MaxTile(),
		WinValue:    g.winValue,
		Elapsed:     g.eng.Elapsed(),
		State:       state,
		Tutorial:    g.TutorialStep(),
		Instruction: g.TutorialInstruction(),
		Highlights:  g.Highlights(),
	}
}
