// Package autoplay plays 2048 games without a human, for benchmarking the
// engine and seeding the score history.
package autoplay

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Strategy picks the next move for a position. ok is false when no
// direction changes the board.
type Strategy interface {
	NextMove(e *engine.Engine) (dir engine.Direction, ok bool)
}

// Random picks a random direction that changes the board.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random strategy with its own source.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (s *Random) NextMove(e *engine.Engine) (engine.Direction, bool) {
	for _, i := range s.rng.Perm(len(engine.Directions)) {
		d := engine.Directions[i]
		if res, err := e.Clone().ExecuteMove(d); err == nil && res.Moved {
			return d, true
		}
	}
	return 0, false
}

// Greedy looks one move ahead and scores the result by merge score, free
// cells and whether the largest tile sits in a corner.
type Greedy struct {
	EmptyWeight  int
	CornerWeight int
}

// NewGreedy returns a greedy strategy with default weights.
func NewGreedy() Greedy {
	return Greedy{EmptyWeight: 10, CornerWeight: 50}
}

func (s Greedy) NextMove(e *engine.Engine) (engine.Direction, bool) {
	var (
		best  engine.Direction
		score int
		found bool
	)
	for _, d := range engine.Directions {
		c := e.Clone()
		res, err := c.ExecuteMove(d)
		if err != nil || !res.Moved {
			continue
		}
		v := s.evaluate(c, res)
		if !found || v > score {
			best, score, found = d, v, true
		}
	}
	return best, found
}

func (s Greedy) evaluate(e *engine.Engine, res engine.MoveResult) int {
	v := res.ScoreDelta + s.EmptyWeight*len(e.EmptyCells())
	if maxInCorner(e.Board()) {
		v += s.CornerWeight
	}
	return v
}

func maxInCorner(b engine.Board) bool {
	n := b.Size()
	m := b.MaxTile()
	return b[0][0] == m || b[0][n-1] == m || b[n-1][0] == m || b[n-1][n-1] == m
}

// Result summarizes one automated game.
type Result struct {
	Score   int
	MaxTile int
	Moves   int
	Won     bool // Reached the win value at some point
	Lost    bool // Ended with no moves left
}

// Play runs s against g until the game is lost or maxMoves moves were made
// (0 means no limit). The game is finalized so its score is recorded.
func Play(g *t2048.Game, s Strategy, maxMoves int) (Result, error) {
	var res Result
	for !g.Lost() && (maxMoves <= 0 || g.Moves() < maxMoves) {
		dir, ok := s.NextMove(g.EngineClone())
		if !ok {
			break
		}
		out, err := g.Move(dir)
		if err != nil {
			return res, err
		}
		if !out.Moved {
			// Strategy and game disagree; stop rather than spin.
			break
		}
		if out.Won {
			res.Won = true
		}
	}
	g.Finalize()

	res.Score = g.Score()
	res.MaxTile = g.Board().MaxTile()
	res.Moves = g.Moves()
	res.Lost = g.Lost()
	res.Won = res.Won || g.Won()
	return res, nil
}
