// Package t2048 runs 2048 game sessions on top of the grid engine: tile
// spawning, win and loss detection, the tutorial, saves, the high score and
// the score history.
package t2048

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/savegame"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = config.ModeClassic
	ModeEndless Mode = config.ModeEndless
)

// ErrTutorialActive is returned when saving during the tutorial.
var ErrTutorialActive = errors.New("t2048: cannot save during the tutorial")

// ScoreRecorder stores finished games. *storage.Store implements it.
type ScoreRecorder interface {
	SaveScore(e storage.ScoreEntry) (int64, error)
}

// Options configures a Game.
type Options struct {
	Size            int
	InitialTiles    int
	FourProbability float64
	WinValue        int
	Mode            Mode
	Seed            int64 // 0 = random based on time

	Store  storage.KV    // Saves and the high score; in-memory if nil
	Scores ScoreRecorder // Score history; optional
	Logger *log.Logger   // Discarded if nil
	Now    func() time.Time
}

// OptionsFromConfig builds options from a loaded configuration.
func OptionsFromConfig(cfg config.T2048Config, seed int64) Options {
	return Options{
		Size:            cfg.Board.Size,
		InitialTiles:    cfg.Board.InitialTiles,
		FourProbability: cfg.Spawn.FourProbability,
		WinValue:        cfg.Rules.WinValue,
		Mode:            Mode(cfg.Rules.Mode),
		Seed:            seed,
	}
}

// Game is one player's session. It is not safe for concurrent use.
type Game struct {
	eng      *engine.Engine
	rng      *rand.Rand
	mode     Mode
	winValue int
	now      func() time.Time
	logger   *log.Logger

	slots      *savegame.Slots
	highScores *savegame.HighScores
	scores     ScoreRecorder
	highScore  int

	won      bool // Win already announced this game
	lost     bool
	recorded bool // Final score written to the history

	tutorial     bool
	tutorialStep int
}

// Outcome describes what a move did to the session.
type Outcome struct {
	engine.MoveResult
	Spawned      engine.Position
	DidSpawn     bool
	NewHighScore bool
	Won          bool // Win threshold reached by this move
	Lost         bool
	TutorialStep int  // Step after the move; -1 outside the tutorial
	TutorialDone bool // Tutorial ended by this move
}

// New creates a session and starts the first game.
func New(opts Options) (*Game, error) {
	if opts.Size == 0 {
		opts.Size = engine.DefaultSize
	}
	if opts.WinValue == 0 {
		opts.WinValue = 2048
	}
	if opts.Mode == "" {
		opts.Mode = ModeClassic
	}
	if opts.Mode != ModeClassic && opts.Mode != ModeEndless {
		return nil, fmt.Errorf("t2048: unknown mode %q", opts.Mode)
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	eng, err := engine.New(engine.Config{
		Size:       opts.Size,
		Spawn4Prob: opts.FourProbability,
		Initial:    opts.InitialTiles,
		Now:        opts.Now,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		eng:        eng,
		rng:        rand.New(rand.NewSource(seed)),
		mode:       opts.Mode,
		winValue:   opts.WinValue,
		now:        opts.Now,
		logger:     opts.Logger,
		slots:      savegame.NewSlots(opts.Store),
		highScores: savegame.NewHighScores(opts.Store),
		scores:     opts.Scores,
	}

	high, err := g.highScores.Load()
	if err != nil {
		g.logger.Warn("high score unavailable, starting from 0", "err", err)
	}
	g.highScore = high

	g.start()
	return g, nil
}

// start resets the per-game flags and spawns the initial tiles.
func (g *Game) start() {
	g.eng.Start(g.rng)
	g.won = false
	g.lost = false
	g.recorded = false
	g.tutorial = false
	g.tutorialStep = 0
}

// NewGame records the current game if it was played and starts a fresh one.
func (g *Game) NewGame() {
	g.Finalize()
	g.start()
	g.logger.Debug("new game", "variant", g.Variant())
}

// Move plays one move. A move that changes nothing returns an Outcome with
// Moved false and no other effect. Moves after a loss return
// engine.ErrInvalidOperation.
func (g *Game) Move(dir engine.Direction) (Outcome, error) {
	res, err := g.eng.ExecuteMove(dir)
	if err != nil {
		return Outcome{TutorialStep: g.TutorialStep()}, err
	}
	out := Outcome{MoveResult: res}
	if !res.Moved {
		out.TutorialStep = g.TutorialStep()
		return out, nil
	}

	spawn := true
	if g.tutorial {
		spawn, out.TutorialDone = g.advanceTutorialOnMove(dir)
	}
	if spawn {
		out.Spawned, out.DidSpawn = g.eng.SpawnRandomTile(g.rng)
	}

	if g.eng.BeatsHighScore(g.highScore) {
		out.NewHighScore = g.raiseHighScore(g.eng.Score())
	}

	if !g.tutorial {
		switch {
		case g.eng.IsLost():
			g.eng.Finish()
			g.lost = true
			out.Lost = true
			g.logger.Info("game over", "score", g.eng.Score(), "moves", g.eng.MoveCount(), "max_tile", g.eng.MaxTile())
			g.Finalize()
		case g.mode == ModeClassic && !g.won && g.eng.HasWon(g.winValue):
			g.won = true
			out.Won = true
			g.logger.Info("win threshold reached", "tile", g.winValue, "score", g.eng.Score())
		}
	}

	out.TutorialStep = g.TutorialStep()
	return out, nil
}

// raiseHighScore offers score to the shared high-score store. Another
// session may have stored a better score since this one last looked, in
// which case that score is adopted and false returned. If the store fails,
// the score is kept in memory only.
func (g *Game) raiseHighScore(score int) bool {
	high, raised, err := g.highScores.Raise(score)
	if err != nil {
		g.logger.Warn("cannot persist high score", "err", err)
		high, raised = score, score > g.highScore
	}
	if high > g.highScore {
		g.highScore = high
	}
	return raised
}

// Finalize records the current game in the score history. It runs at most
// once per game and skips unplayed games and the tutorial.
func (g *Game) Finalize() {
	if g.recorded || g.tutorial || g.eng.MoveCount() == 0 {
		return
	}
	g.recorded = true
	if g.scores == nil {
		return
	}
	_, err := g.scores.SaveScore(storage.ScoreEntry{
		Variant:  g.Variant(),
		Score:    g.eng.Score(),
		MaxTile:  g.eng.MaxTile(),
		Moves:    g.eng.MoveCount(),
		Duration: g.eng.Elapsed(),
	})
	if err != nil {
		g.logger.Warn("cannot record score", "err", err)
	}
}

// Variant identifies the score table, e.g. "classic_4x4".
func (g *Game) Variant() string {
	n := g.eng.Size()
	return fmt.Sprintf("%s_%dx%d", g.mode, n, n)
}

// Mode returns the game mode.
func (g *Game) Mode() Mode { return g.mode }

// WinValue returns the tile that wins a classic game.
func (g *Game) WinValue() int { return g.winValue }

// Size returns the board dimension.
func (g *Game) Size() int { return g.eng.Size() }

// Board returns a copy of the board.
func (g *Game) Board() engine.Board { return g.eng.Board() }

// Score returns the current score.
func (g *Game) Score() int { return g.eng.Score() }

// HighScore returns the best score known to this session.
func (g *Game) HighScore() int { return g.highScore }

// Moves returns the number of moves that changed the board.
func (g *Game) Moves() int { return g.eng.MoveCount() }

// Won reports whether the win has been announced this game.
func (g *Game) Won() bool { return g.won }

// Lost reports whether the game is over.
func (g *Game) Lost() bool { return g.lost }

// EngineClone returns an independent copy of the engine for lookahead.
func (g *Game) EngineClone() *engine.Engine { return g.eng.Clone() }
