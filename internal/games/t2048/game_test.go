package t2048

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/savegame"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type recorder struct{ entries []storage.ScoreEntry }

func (r *recorder) SaveScore(e storage.ScoreEntry) (int64, error) {
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

type testEnv struct {
	game  *Game
	kv    *storage.MemoryStore
	rec   *recorder
	clock *fakeClock
}

func newTestGame(t *testing.T, mode Mode) *testEnv {
	t.Helper()
	env := &testEnv{
		kv:    storage.NewMemoryStore(),
		rec:   &recorder{},
		clock: &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	g, err := New(Options{
		Size:            4,
		FourProbability: 0.3,
		WinValue:        2048,
		Mode:            mode,
		Seed:            42,
		Store:           env.kv,
		Scores:          env.rec,
		Now:             env.clock.Now,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	env.game = g
	return env
}

func setBoard(t *testing.T, g *Game, b engine.Board, score int) {
	t.Helper()
	if err := g.eng.Restore(engine.GameState{Board: b, Score: score, Active: true, StartedAt: g.now()}); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
}

func countTiles(b engine.Board) int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// almostLost becomes a lost board after moving right.
func almostLost() engine.Board {
	return engine.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{16, 4, 2, 4},
		{8, 16, 8, 0},
	}
}

func TestNewStartsWithInitialTiles(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	snap := env.game.Snapshot()

	if got := countTiles(snap.Board); got != 2 {
		t.Errorf("initial tiles = %d, want 2", got)
	}
	if snap.State != StatePlaying || snap.Score != 0 || snap.Moves != 0 {
		t.Errorf("initial snapshot = %+v", snap)
	}
	if snap.Variant != "classic_4x4" || snap.Tutorial != -1 {
		t.Errorf("Variant = %q, Tutorial = %d", snap.Variant, snap.Tutorial)
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(Options{Mode: "zen"}); err == nil {
		t.Error("New() should reject an unknown mode")
	}
	if _, err := New(Options{Size: 1}); !errors.Is(err, engine.ErrInvalidSize) {
		t.Errorf("New() with size 1 err = %v, want ErrInvalidSize", err)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := newTestGame(t, ModeClassic).game
	b := newTestGame(t, ModeClassic).game

	for i := 0; i < 50; i++ {
		dir := engine.Directions[i%len(engine.Directions)]
		oa, errA := a.Move(dir)
		ob, errB := b.Move(dir)
		if (errA != nil) != (errB != nil) || oa.Spawned != ob.Spawned {
			t.Fatalf("move %d diverged", i)
		}
	}
	if !a.Board().Equal(b.Board()) || a.Score() != b.Score() {
		t.Errorf("same seed produced different games:\n%v\n%v", a.Board(), b.Board())
	}
}

func TestMoveSpawnsOnlyWhenBoardChanges(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	setBoard(t, g, engine.Board{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	out, err := g.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if out.Moved || out.DidSpawn || g.Moves() != 0 {
		t.Errorf("no-op move: %+v, moves = %d", out, g.Moves())
	}

	out, err = g.Move(engine.DirRight)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !out.Moved || !out.DidSpawn {
		t.Fatalf("move right: %+v", out)
	}
	if countTiles(g.Board()) != 2 {
		t.Errorf("tiles after move = %d, want 2", countTiles(g.Board()))
	}
	if v := g.Board()[out.Spawned.Row][out.Spawned.Col]; v != 2 && v != 4 {
		t.Errorf("spawned value = %d", v)
	}
	if g.Moves() != 1 {
		t.Errorf("Moves() = %d, want 1", g.Moves())
	}
}

func TestHighScorePersisted(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	setBoard(t, g, engine.Board{
		{8, 8, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	out, err := g.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !out.NewHighScore || g.HighScore() != 16 {
		t.Errorf("NewHighScore = %v, HighScore = %d", out.NewHighScore, g.HighScore())
	}

	stored, err := savegame.NewHighScores(env.kv).Load()
	if err != nil || stored != 16 {
		t.Errorf("stored high score = %d, %v; want 16", stored, err)
	}

	// A new session on the same store starts from the stored value
	next, err := New(Options{Seed: 1, Store: env.kv})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if next.HighScore() != 16 {
		t.Errorf("new session HighScore = %d, want 16", next.HighScore())
	}
}

func TestSharedStoreHighScoreNeverDrops(t *testing.T) {
	kv := storage.NewMemoryStore()
	a, err := New(Options{Seed: 1, Store: kv})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, err := New(Options{Seed: 2, Store: kv})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	pair := func(v int) engine.Board {
		return engine.Board{
			{v, v, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
	}

	// b sets 500 after a read 0 at startup
	setBoard(t, b, pair(4), 492)
	if out, _ := b.Move(engine.DirLeft); !out.NewHighScore || b.HighScore() != 500 {
		t.Fatalf("b: NewHighScore = %v, HighScore = %d", out.NewHighScore, b.HighScore())
	}

	// a beats its stale 0 but not the stored 500
	setBoard(t, a, pair(4), 96)
	out, err := a.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if a.Score() != 104 {
		t.Fatalf("a score = %d, want 104", a.Score())
	}
	if out.NewHighScore {
		t.Error("a should not report a new high score below the stored one")
	}
	if a.HighScore() != 500 {
		t.Errorf("a HighScore() = %d, want the stored 500", a.HighScore())
	}
	if stored, _ := savegame.NewHighScores(kv).Load(); stored != 500 {
		t.Errorf("stored high score = %d, want 500", stored)
	}
}

func TestCorruptHighScoreStartsAtZero(t *testing.T) {
	kv := storage.NewMemoryStore()
	kv.Put("highscore", []byte("garbage"))

	g, err := New(Options{Seed: 1, Store: kv})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if g.HighScore() != 0 {
		t.Errorf("HighScore() = %d, want 0", g.HighScore())
	}
}

func TestLossFinishesAndRecords(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	setBoard(t, g, almostLost(), 500)

	out, err := g.Move(engine.DirRight)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !out.Lost || !g.Lost() {
		t.Fatalf("expected loss, got %+v\n%v", out, g.Board())
	}
	if g.Snapshot().State != StateGameOver {
		t.Errorf("State = %v, want game_over", g.Snapshot().State)
	}

	if len(env.rec.entries) != 1 {
		t.Fatalf("recorded %d scores, want 1", len(env.rec.entries))
	}
	e := env.rec.entries[0]
	if e.Variant != "classic_4x4" || e.Score != 500 || e.MaxTile != 16 || e.Moves != 1 {
		t.Errorf("recorded entry = %+v", e)
	}

	if _, err := g.Move(engine.DirLeft); !errors.Is(err, engine.ErrInvalidOperation) {
		t.Errorf("Move() after loss err = %v, want ErrInvalidOperation", err)
	}

	// Restart does not record the finished game twice
	g.NewGame()
	if len(env.rec.entries) != 1 {
		t.Errorf("recorded %d scores after restart, want 1", len(env.rec.entries))
	}
	if g.Lost() || g.Snapshot().State != StatePlaying {
		t.Error("NewGame() should clear the loss")
	}
}

func TestNewGameRecordsAbandonedGame(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game

	// Unplayed games are not recorded
	g.NewGame()
	if len(env.rec.entries) != 0 {
		t.Fatalf("unplayed game recorded: %+v", env.rec.entries)
	}

	for _, d := range engine.Directions {
		g.Move(d)
	}
	if g.Moves() == 0 {
		t.Fatal("no move changed the board")
	}
	g.Finalize()
	g.Finalize()
	g.NewGame()

	if len(env.rec.entries) != 1 {
		t.Errorf("recorded %d scores, want 1", len(env.rec.entries))
	}
}

func TestWinAnnouncedOnce(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	setBoard(t, g, engine.Board{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	out, err := g.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !out.Won || !g.Won() {
		t.Fatalf("expected win, got %+v", out)
	}
	if g.Snapshot().State != StateWon {
		t.Errorf("State = %v, want won", g.Snapshot().State)
	}

	// Play continues without a second announcement
	out, err = g.Move(engine.DirRight)
	if err != nil {
		t.Fatalf("Move() after win failed: %v", err)
	}
	if !out.Moved || out.Won {
		t.Errorf("second move after win: %+v", out)
	}
}

func TestEndlessNeverAnnouncesWin(t *testing.T) {
	env := newTestGame(t, ModeEndless)
	g := env.game
	setBoard(t, g, engine.Board{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	out, _ := g.Move(engine.DirLeft)
	if out.Won || g.Won() {
		t.Error("endless mode announced a win")
	}
	if g.Variant() != "endless_4x4" {
		t.Errorf("Variant() = %q", g.Variant())
	}
}

func TestTutorialScript(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game

	if err := g.StartTutorial(); err != nil {
		t.Fatalf("StartTutorial() failed: %v", err)
	}
	want := engine.Board{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if !g.Board().Equal(want) || g.TutorialStep() != 0 {
		t.Fatalf("tutorial start:\n%v step %d", g.Board(), g.TutorialStep())
	}
	if g.Snapshot().State != StateTutorial || g.TutorialInstruction() != TutorialSteps[0].Instruction {
		t.Errorf("snapshot = %+v", g.Snapshot())
	}
	if _, err := g.Save("nope"); !errors.Is(err, ErrTutorialActive) {
		t.Errorf("Save() during tutorial err = %v, want ErrTutorialActive", err)
	}

	// Step 0 is informational
	if !g.AdvanceTutorial() || g.TutorialStep() != 1 {
		t.Fatalf("AdvanceTutorial() did not reach step 1")
	}
	hl := g.Highlights()
	if len(hl) != 2 || hl[0] != (engine.Position{Row: 0, Col: 0}) || hl[1] != (engine.Position{Row: 0, Col: 1}) {
		t.Errorf("step 1 highlights = %v", hl)
	}

	// Step 1 waits for RIGHT
	if g.AdvanceTutorial() {
		t.Error("AdvanceTutorial() skipped a step waiting for a move")
	}
	out, _ := g.Move(engine.DirUp)
	if out.Moved || out.TutorialStep != 1 {
		t.Errorf("no-op UP at step 1: %+v", out)
	}
	out, _ = g.Move(engine.DirRight)
	if !out.Moved || out.DidSpawn || out.TutorialStep != 2 {
		t.Fatalf("RIGHT at step 1: %+v", out)
	}
	want = engine.Board{
		{0, 0, 0, 4},
		{0, 0, 0, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if !g.Board().Equal(want) {
		t.Fatalf("board after RIGHT:\n%v", g.Board())
	}

	g.AdvanceTutorial()
	if g.TutorialStep() != 3 {
		t.Fatalf("step = %d, want 3", g.TutorialStep())
	}
	hl = g.Highlights()
	if len(hl) != 2 || hl[0] != (engine.Position{Row: 0, Col: 3}) || hl[1] != (engine.Position{Row: 1, Col: 3}) {
		t.Errorf("step 3 highlights = %v", hl)
	}

	out, _ = g.Move(engine.DirUp)
	if !out.Moved || out.DidSpawn || out.TutorialStep != 4 || out.ScoreDelta != 8 {
		t.Fatalf("UP at step 3: %+v", out)
	}

	// Informational steps also advance on a move, still without spawning
	out, _ = g.Move(engine.DirLeft)
	if !out.Moved || out.DidSpawn || out.TutorialStep != 5 {
		t.Fatalf("LEFT at step 4: %+v", out)
	}

	// The move after the last step ends the tutorial and spawns
	out, _ = g.Move(engine.DirDown)
	if !out.Moved || !out.DidSpawn || !out.TutorialDone || out.TutorialStep != -1 {
		t.Fatalf("DOWN at step 5: %+v", out)
	}
	if g.InTutorial() || g.Snapshot().State != StatePlaying {
		t.Error("tutorial should be over")
	}
	if _, err := g.Save("after"); err != nil {
		t.Errorf("Save() after tutorial failed: %v", err)
	}
}

func TestTutorialNotRecorded(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	g.StartTutorial()
	g.AdvanceTutorial()
	g.Move(engine.DirRight)
	g.NewGame()

	if len(env.rec.entries) != 0 {
		t.Errorf("tutorial game recorded: %+v", env.rec.entries)
	}
}

func TestAdvanceTutorialPastLastStep(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	g.StartTutorial()
	g.tutorialStep = len(TutorialSteps) - 1

	if !g.AdvanceTutorial() || g.InTutorial() {
		t.Error("advancing past the last step should end the tutorial")
	}
	if g.AdvanceTutorial() {
		t.Error("AdvanceTutorial() outside the tutorial should do nothing")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	saved := engine.Board{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 0, 0},
	}
	g.eng.Restore(engine.GameState{Board: saved, Score: 1234, MoveCount: 77, StartedAt: env.clock.t, Active: true})
	env.clock.t = env.clock.t.Add(95 * time.Second)

	slot, err := g.Save("my game")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if slot != "my game.json" {
		t.Errorf("slot = %q", slot)
	}

	g.NewGame()
	env.clock.t = env.clock.t.Add(time.Hour)

	if err := g.Load("my game.json"); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !g.Board().Equal(saved) || g.Score() != 1234 || g.Moves() != 77 {
		t.Errorf("loaded game:\n%v score %d moves %d", g.Board(), g.Score(), g.Moves())
	}
	if got := g.Stats().Elapsed; got != 95*time.Second {
		t.Errorf("elapsed after load = %v, want 95s", got)
	}

	slots, err := g.SaveSlots()
	if err != nil || len(slots) != 1 || slots[0] != "my game.json" {
		t.Errorf("SaveSlots() = %v, %v", slots, err)
	}
	if err := g.DeleteSlot("my game"); err != nil {
		t.Errorf("DeleteSlot() failed: %v", err)
	}
}

func TestLoadFailureLeavesGameUntouched(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	before := g.Board()

	if err := g.Load("missing"); !errors.Is(err, savegame.ErrSlotNotFound) {
		t.Errorf("Load(missing) err = %v, want ErrSlotNotFound", err)
	}

	env.kv.Put("save/bad.json", []byte(`{"grid": [[3,0],[0,0]], "score": 1, "moves_count": 1}`))
	if err := g.Load("bad"); !errors.Is(err, savegame.ErrInvalidRecord) {
		t.Errorf("Load(bad) err = %v, want ErrInvalidRecord", err)
	}

	env.kv.Put("save/partial.json", []byte(`{"grid": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]]}`))
	if err := g.Load("partial"); !errors.Is(err, savegame.ErrInvalidRecord) {
		t.Errorf("Load(partial) err = %v, want ErrInvalidRecord", err)
	}

	if !g.Board().Equal(before) || g.Score() != 0 {
		t.Error("failed load modified the game")
	}
}

func TestLoadLostGame(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	lost := engine.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	rec := savegame.Record{Grid: lost, Score: 10, MovesCount: 5}
	if _, err := savegame.NewSlots(env.kv).Save("done", rec); err != nil {
		t.Fatal(err)
	}

	if err := g.Load("done"); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !g.Lost() || g.Snapshot().State != StateGameOver {
		t.Error("loading a lost board should end the game")
	}
	if _, err := g.Move(engine.DirUp); !errors.Is(err, engine.ErrInvalidOperation) {
		t.Errorf("Move() on loaded lost game err = %v", err)
	}
}

func TestLoadWinningBoardInEndless(t *testing.T) {
	for _, tt := range []struct {
		mode Mode
		want GameStateType
	}{
		{ModeClassic, StateWon},
		{ModeEndless, StatePlaying},
	} {
		env := newTestGame(t, tt.mode)
		g := env.game
		rec := savegame.Record{Grid: engine.Board{
			{2048, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 2, 0, 0},
			{0, 0, 0, 0},
		}, Score: 20000, MovesCount: 900}
		if _, err := savegame.NewSlots(env.kv).Save("big", rec); err != nil {
			t.Fatal(err)
		}
		if err := g.Load("big"); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if got := g.Snapshot().State; got != tt.want {
			t.Errorf("%s: state after load = %q, want %q", tt.mode, got, tt.want)
		}
		if tt.mode == ModeEndless && g.Won() {
			t.Error("endless game should never be won")
		}
	}
}

func TestLoadPersistsRecordHighScore(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	rec := savegame.Record{Grid: engine.NewBoard(4), Score: 64, HighScore: 9000, MovesCount: 12}
	rec.Grid[0][0] = 32
	rec.Grid[1][1] = 32
	if _, err := savegame.NewSlots(env.kv).Save("old", rec); err != nil {
		t.Fatal(err)
	}

	if err := env.game.Load("old"); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if env.game.HighScore() != 9000 {
		t.Errorf("HighScore() = %d, want 9000", env.game.HighScore())
	}
	if stored, _ := savegame.NewHighScores(env.kv).Load(); stored != 9000 {
		t.Errorf("stored high score = %d, want 9000", stored)
	}

	// A lower record high score leaves the stored value alone
	rec.HighScore = 10
	savegame.NewSlots(env.kv).Save("low", rec)
	env.game.Load("low")
	if stored, _ := savegame.NewHighScores(env.kv).Load(); stored != 9000 {
		t.Errorf("stored high score after low record = %d, want 9000", stored)
	}
}

func TestLoadEndsTutorial(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	g.Move(engine.DirUp)
	g.Move(engine.DirLeft)
	if _, err := g.Save("s"); err != nil {
		t.Fatal(err)
	}

	g.StartTutorial()
	if err := g.Load("s"); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if g.InTutorial() {
		t.Error("Load() should end the tutorial")
	}
}

func TestStats(t *testing.T) {
	env := newTestGame(t, ModeClassic)
	g := env.game
	setBoard(t, g, engine.Board{
		{64, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 300)
	env.clock.t = env.clock.t.Add(3725 * time.Second)

	s := g.Stats()
	if s.Score != 300 || s.MaxTile != 64 || s.Elapsed != 3725*time.Second {
		t.Errorf("Stats() = %+v", s)
	}
	if got := FormatElapsed(s.Elapsed); got != "01:02:05" {
		t.Errorf("FormatElapsed() = %q, want 01:02:05", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61*time.Second + 900*time.Millisecond, "00:01:01"},
		{100 * time.Hour, "100:00:00"},
		{-time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
