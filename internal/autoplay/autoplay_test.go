package autoplay

import (
	"testing"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type recorder struct{ entries []storage.ScoreEntry }

func (r *recorder) SaveScore(e storage.ScoreEntry) (int64, error) {
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

func engineWith(t *testing.T, b engine.Board) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{Size: b.Size()})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Restore(engine.GameState{Board: b, Active: true}); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestGreedyPrefersMerge(t *testing.T) {
	e := engineWith(t, engine.Board{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{64, 64, 2, 0},
	})

	dir, ok := NewGreedy().NextMove(e)
	if !ok {
		t.Fatal("NextMove() found no move")
	}
	if dir != engine.DirLeft && dir != engine.DirRight {
		t.Errorf("NextMove() = %v, want a horizontal merge", dir)
	}

	// The engine passed in is not modified
	if e.MoveCount() != 0 || e.Cell(engine.Position{Row: 3, Col: 0}) != 64 {
		t.Error("NextMove() mutated the engine")
	}
}

func TestStrategiesOnlyReturnMovingDirections(t *testing.T) {
	// Only DOWN and RIGHT change this board
	b := engine.Board{
		{2, 4, 0},
		{8, 0, 0},
		{0, 0, 0},
	}
	for name, s := range map[string]Strategy{"greedy": NewGreedy(), "random": NewRandom(7)} {
		for i := 0; i < 20; i++ {
			dir, ok := s.NextMove(engineWith(t, b))
			if !ok || (dir != engine.DirDown && dir != engine.DirRight) {
				t.Errorf("%s: NextMove() = %v, %v", name, dir, ok)
			}
		}
	}
}

func TestNoMoveOnLostBoard(t *testing.T) {
	e := engineWith(t, engine.Board{
		{2, 4},
		{4, 2},
	})
	if _, ok := NewGreedy().NextMove(e); ok {
		t.Error("greedy found a move on a lost board")
	}
	if _, ok := NewRandom(1).NextMove(e); ok {
		t.Error("random found a move on a lost board")
	}
}

func TestPlayUntilLoss(t *testing.T) {
	rec := &recorder{}
	g, err := t2048.New(t2048.Options{Size: 3, Seed: 3, Scores: rec})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Play(g, NewGreedy(), 0)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if !res.Lost || res.Moves == 0 || res.Score != g.Score() {
		t.Errorf("Play() = %+v", res)
	}
	if len(rec.entries) != 1 || rec.entries[0].Score != res.Score || rec.entries[0].Variant != "classic_3x3" {
		t.Errorf("recorded entries = %+v", rec.entries)
	}
}

func TestPlayMoveLimit(t *testing.T) {
	rec := &recorder{}
	g, err := t2048.New(t2048.Options{Seed: 9, Scores: rec})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Play(g, NewRandom(9), 10)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if res.Moves != 10 || res.Lost {
		t.Errorf("Play() with limit = %+v", res)
	}
	if len(rec.entries) != 1 {
		t.Errorf("recorded %d entries, want 1", len(rec.entries))
	}
}

func TestPlayDeterministic(t *testing.T) {
	run := func() Result {
		g, err := t2048.New(t2048.Options{Seed: 11})
		if err != nil {
			t.Fatal(err)
		}
		res, err := Play(g, NewGreedy(), 200)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed gave different results: %+v vs %+v", a, b)
	}
}
