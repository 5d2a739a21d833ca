// Package savegame serializes engine state for save/load and keeps the
// persisted high score. Everything goes through a storage.KV.
package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrInvalidRecord wraps every decoding or validation failure.
var ErrInvalidRecord = errors.New("savegame: invalid record")

// maxElapsedSeconds is the longest elapsed_time a time.Duration can hold.
const maxElapsedSeconds = float64(math.MaxInt64 / int64(time.Second))

// Record is the on-disk game state.
type Record struct {
	Grid        [][]int `json:"grid"`
	Score       int     `json:"score"`
	HighScore   int     `json:"high_score"`
	MovesCount  int     `json:"moves_count"`
	StartTime   float64 `json:"start_time"`   // Unix seconds
	ElapsedTime float64 `json:"elapsed_time"` // Seconds
}

// FromState builds a record from an engine snapshot.
func FromState(s engine.GameState, highScore int, now time.Time) Record {
	elapsed := now.Sub(s.StartedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return Record{
		Grid:        s.Board.Clone(),
		Score:       s.Score,
		HighScore:   highScore,
		MovesCount:  s.MoveCount,
		StartTime:   unixSeconds(s.StartedAt),
		ElapsedTime: elapsed,
	}
}

// State converts the record back into an engine state for a board of the
// given size. The elapsed-time origin becomes now - elapsed_time.
func (r Record) State(size int, now time.Time) (engine.GameState, error) {
	if err := r.Validate(size); err != nil {
		return engine.GameState{}, err
	}
	elapsed := r.Elapsed()
	return engine.GameState{
		Board:     engine.Board(r.Grid).Clone(),
		Score:     r.Score,
		MoveCount: r.MovesCount,
		StartedAt: now.Add(-elapsed),
		Active:    true,
	}, nil
}

// Elapsed returns elapsed_time as a duration, clamped to what a duration
// can hold.
func (r Record) Elapsed() time.Duration {
	switch {
	case math.IsNaN(r.ElapsedTime) || r.ElapsedTime <= 0:
		return 0
	case r.ElapsedTime > maxElapsedSeconds:
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(r.ElapsedTime * float64(time.Second))
}

// Validate checks the record against a board size.
func (r Record) Validate(size int) error {
	if err := engine.Board(r.Grid).Validate(size); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"score", r.Score},
		{"high_score", r.HighScore},
		{"moves_count", r.MovesCount},
	} {
		if f.value < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidRecord,
				&engine.ValidationError{Field: f.name, Reason: fmt.Sprintf("negative value %d", f.value)})
		}
	}
	if r.ElapsedTime < 0 || r.ElapsedTime > maxElapsedSeconds || math.IsNaN(r.ElapsedTime) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord,
			&engine.ValidationError{Field: "elapsed_time", Reason: fmt.Sprintf("bad duration %v", r.ElapsedTime)})
	}
	return nil
}

// Encode marshals the record as indented JSON.
func Encode(r Record) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot encode record: %w", err)
	}
	return data, nil
}

// Decode parses a record. The grid, score and moves_count fields are required.
func Decode(data []byte) (Record, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	for _, field := range []string{"grid", "score", "moves_count"} {
		if _, ok := present[field]; !ok {
			return Record{}, fmt.Errorf("%w: missing field %q", ErrInvalidRecord, field)
		}
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return r, nil
}

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}
