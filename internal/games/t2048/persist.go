package t2048

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/savegame"
)

// Save writes the current game to a named slot and returns the normalized
// slot name.
func (g *Game) Save(name string) (string, error) {
	if g.tutorial {
		return "", ErrTutorialActive
	}
	rec := savegame.FromState(g.eng.Snapshot(), g.highScore, g.now())
	slot, err := g.slots.Save(name, rec)
	if err != nil {
		return "", err
	}
	g.logger.Info("game saved", "slot", slot, "score", rec.Score)
	return slot, nil
}

// Load replaces the current game with a saved one. The record is validated
// first; on error the current game is left untouched. Loading ends the
// tutorial.
func (g *Game) Load(name string) error {
	rec, err := g.slots.Load(name)
	if err != nil {
		return err
	}
	state, err := rec.State(g.eng.Size(), g.now())
	if err != nil {
		return err
	}

	g.Finalize()
	if err := g.eng.Restore(state); err != nil {
		return err
	}

	g.tutorial = false
	g.tutorialStep = 0
	g.recorded = false
	g.won = g.mode == ModeClassic && g.eng.HasWon(g.winValue)
	g.lost = g.eng.IsLost()
	if g.lost {
		g.eng.Finish()
		g.recorded = true // Recorded by whoever played it to the end
	}
	if rec.HighScore > g.highScore {
		g.raiseHighScore(rec.HighScore)
	}
	g.logger.Info("game loaded", "slot", name, "score", rec.Score, "moves", rec.MovesCount)
	return nil
}

// SaveSlots lists the saved games.
func (g *Game) SaveSlots() ([]string, error) {
	return g.slots.List()
}

// DeleteSlot removes a saved game.
func (g *Game) DeleteSlot(name string) error {
	return g.slots.Delete(name)
}

// Stats summarizes the current game.
type Stats struct {
	Score     int
	Moves     int
	Elapsed   time.Duration
	HighScore int
	MaxTile   int
}

// Stats returns statistics for the current game.
func (g *Game) Stats() Stats {
	return Stats{
		Score:     g.eng.Score(),
		Moves:     g.eng.MoveCount(),
		Elapsed:   g.eng.Elapsed(),
		HighScore: g.highScore,
		MaxTile:   g.eng.MaxTile(),
	}
}

// FormatElapsed renders a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
