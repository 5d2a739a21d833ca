package engine

import (
	"fmt"
	"time"
)

// DefaultSpawn4Prob is the probability that a spawned tile is a 4.
const DefaultSpawn4Prob = 0.3

// InitialTiles is the default number of tiles spawned at game start.
const InitialTiles = 2

// RandomSource supplies the randomness for tile spawning.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Config holds the fixed parameters of an engine.
type Config struct {
	Size       int              // Board dimension (N x N)
	Spawn4Prob float64          // Probability of spawning 4 instead of 2 (0.0-1.0)
	Initial    int              // Tiles spawned by Start; InitialTiles if zero
	Now        func() time.Time // Clock for the elapsed-time origin; time.Now if nil
}

// DefaultConfig returns the classic 4x4 configuration.
func DefaultConfig() Config {
	return Config{
		Size:       DefaultSize,
		Spawn4Prob: DefaultSpawn4Prob,
	}
}

// MoveResult describes the effect of a single move.
type MoveResult struct {
	Moved      bool       // Whether any cell changed
	Merges     []Position // Post-move positions of merged tiles
	ScoreDelta int        // Sum of the values created by merges
}

// GameState is a complete copy of the engine state.
type GameState struct {
	Board     Board
	Score     int
	MoveCount int
	StartedAt time.Time
	Active    bool
}

// Engine owns a board and its score.
type Engine struct {
	size      int
	spawn4    float64
	initial   int
	now       func() time.Time
	board     Board
	score     int
	moves     int
	startedAt time.Time
	active    bool
}

// New creates an engine with an empty, active board.
func New(cfg Config) (*Engine, error) {
	if cfg.Size < 2 {
		return nil, ErrInvalidSize
	}
	if cfg.Spawn4Prob < 0 || cfg.Spawn4Prob > 1 {
		return nil, fmt.Errorf("engine: spawn probability %v out of range [0,1]", cfg.Spawn4Prob)
	}
	if cfg.Initial < 0 || cfg.Initial > cfg.Size*cfg.Size {
		return nil, fmt.Errorf("engine: initial tile count %d out of range", cfg.Initial)
	}
	initial := cfg.Initial
	if initial == 0 {
		initial = InitialTiles
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		size:    cfg.Size,
		spawn4:  cfg.Spawn4Prob,
		initial: initial,
		now:     now,
	}
	e.Reset()
	return e, nil
}

// Reset clears the board, score and move count and restarts the clock.
func (e *Engine) Reset() {
	e.board = NewBoard(e.size)
	e.score = 0
	e.moves = 0
	e.startedAt = e.now()
	e.active = true
}

// Start resets the engine and spawns the initial tiles.
func (e *Engine) Start(r RandomSource) {
	e.Reset()
	for range e.initial {
		e.SpawnRandomTile(r)
	}
}

// Size returns the board dimension.
func (e *Engine) Size() int { return e.size }

// Score returns the cumulative score.
func (e *Engine) Score() int { return e.score }

// MoveCount returns the number of moves that changed the board.
func (e *Engine) MoveCount() int { return e.moves }

// Active reports whether moves are accepted.
func (e *Engine) Active() bool { return e.active }

// StartedAt returns the elapsed-time origin.
func (e *Engine) StartedAt() time.Time { return e.startedAt }

// Elapsed returns the time since the game started.
func (e *Engine) Elapsed() time.Duration {
	return e.now().Sub(e.startedAt)
}

// Board returns a copy of the current board.
func (e *Engine) Board() Board { return e.board.Clone() }

// Cell returns the value at the given position.
func (e *Engine) Cell(p Position) int { return e.board[p.Row][p.Col] }

// MaxTile returns the highest tile on the board.
func (e *Engine) MaxTile() int { return e.board.MaxTile() }

// EmptyCells returns the positions of all empty cells.
func (e *Engine) EmptyCells() []Position { return e.board.EmptyCells() }

// CanMove returns true if any direction would change the board.
func (e *Engine) CanMove() bool {
	return e.board.HasEmptyCell() || e.board.HasPossibleMerge()
}

// ExecuteMove slides every line toward dir and merges equal neighbours.
// The board and score are updated in place; the move count grows only when
// the board changed. Returns ErrInvalidOperation once the game has ended.
func (e *Engine) ExecuteMove(dir Direction) (MoveResult, error) {
	if !e.active {
		return MoveResult{}, ErrInvalidOperation
	}
	if _, ok := sweepFor(dir); !ok {
		return MoveResult{}, fmt.Errorf("engine: unknown direction %d", dir)
	}

	res := slide(e.board, dir)
	if res.Moved {
		e.score += res.ScoreDelta
		e.moves++
	}
	return res, nil
}

// SpawnRandomTile places a 2 or 4 on a uniformly chosen empty cell.
// Returns false if the board is full.
func (e *Engine) SpawnRandomTile(r RandomSource) (Position, bool) {
	empty := e.board.EmptyCells()
	if len(empty) == 0 {
		return Position{}, false
	}

	p := empty[r.Intn(len(empty))]
	value := 2
	if r.Float64() < e.spawn4 {
		value = 4
	}
	e.board[p.Row][p.Col] = value
	return p, true
}

// IsLost returns true if the board is full and no neighbours are equal.
func (e *Engine) IsLost() bool {
	return !e.CanMove()
}

// HasWon returns true if any tile has reached threshold.
func (e *Engine) HasWon(threshold int) bool {
	return threshold > 0 && e.board.MaxTile() >= threshold
}

// BeatsHighScore reports whether the current score exceeds high.
func (e *Engine) BeatsHighScore(high int) bool {
	return e.score > high
}

// Finish marks the game as ended; further moves are rejected.
func (e *Engine) Finish() {
	e.active = false
}

// SetBoard replaces the board after validating it. Score and move count are
// kept. Used for scripted setups.
func (e *Engine) SetBoard(b Board) error {
	if err := b.Validate(e.size); err != nil {
		return err
	}
	e.board = b.Clone()
	return nil
}

// Snapshot returns a copy of the complete engine state.
func (e *Engine) Snapshot() GameState {
	return GameState{
		Board:     e.board.Clone(),
		Score:     e.score,
		MoveCount: e.moves,
		StartedAt: e.startedAt,
		Active:    e.active,
	}
}

// Restore replaces the engine state. The state is validated first; on error
// the engine is left untouched.
func (e *Engine) Restore(s GameState) error {
	if err := s.Board.Validate(e.size); err != nil {
		return err
	}
	if s.Score < 0 {
		return &ValidationError{Field: "score", Reason: fmt.Sprintf("negative value %d", s.Score)}
	}
	if s.MoveCount < 0 {
		return &ValidationError{Field: "moves_count", Reason: fmt.Sprintf("negative value %d", s.MoveCount)}
	}

	e.board = s.Board.Clone()
	e.score = s.Score
	e.moves = s.MoveCount
	e.startedAt = s.StartedAt
	e.active = s.Active
	return nil
}

// Clone returns an independent copy of the engine.
func (e *Engine) Clone() *Engine {
	c := *e
	c.board = e.board.Clone()
	return &c
}
