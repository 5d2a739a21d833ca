package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/autoplay"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/logging"
)

var (
	flagAutoGames    int
	flagAutoStrategy string
	flagAutoMaxMoves int
	flagAutoRecord   bool
	flagAutoMode     string
	flagAutoPreset   string
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play headless games with a built-in strategy",
	Long: `Play games without a terminal UI and print one line per game.

Strategies:
  greedy - look one move ahead, favour merges, free cells and a corner max tile
  random - any move that changes the board

With --seed the run is reproducible: game i uses seed+i.

Examples:
  t2048 autoplay
  t2048 autoplay --games 50 --strategy random --seed 1
  t2048 autoplay --games 5 --record`,
	Args: cobra.NoArgs,
	RunE: runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagAutoGames, "games", 10, "Number of games to play")
	autoplayCmd.Flags().StringVar(&flagAutoStrategy, "strategy", "greedy", "Strategy: greedy, random")
	autoplayCmd.Flags().IntVar(&flagAutoMaxMoves, "max-moves", 0, "Stop a game after this many moves (0 = until lost)")
	autoplayCmd.Flags().BoolVar(&flagAutoRecord, "record", false, "Record finished games in the score history")
	autoplayCmd.Flags().StringVar(&flagAutoMode, "mode", "", "Game mode: classic, endless")
	autoplayCmd.Flags().StringVar(&flagAutoPreset, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runAutoplay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagAutoMode != "" {
		cfg.Rules.Mode = flagAutoMode
	}
	if err := config.ApplyPreset(&cfg, config.DifficultyPreset(flagAutoPreset)); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flagAutoGames <= 0 {
		return fmt.Errorf("--games must be positive, got %d", flagAutoGames)
	}

	logger := logging.New(os.Stderr, "autoplay", cfg.Log.Level)

	base := flagSeed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	opts := t2048.OptionsFromConfig(cfg, 0)
	opts.Logger = logger
	if flagAutoRecord {
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()
		opts.Store = store
		opts.Scores = store
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Game", "Score", "Max", "Moves", "Result")

	var total, best, wins int
	for i := range flagAutoGames {
		seed := base + int64(i)
		strategy, err := newStrategy(flagAutoStrategy, seed)
		if err != nil {
			return err
		}

		opts.Seed = seed
		game, err := t2048.New(opts)
		if err != nil {
			return err
		}

		res, err := autoplay.Play(game, strategy, flagAutoMaxMoves)
		if err != nil {
			return err
		}
		logger.Debug("game finished", "seed", seed, "score", res.Score, "max_tile", res.MaxTile)

		outcome := "stopped"
		if res.Lost {
			outcome = "lost"
		}
		if res.Won {
			outcome += ", won"
			wins++
		}
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %s\n", i+1, res.Score, res.MaxTile, res.Moves, outcome)

		total += res.Score
		best = max(best, res.Score)
	}

	fmt.Println()
	fmt.Printf("Games: %d  Best: %d  Average: %.0f  Wins: %d\n",
		flagAutoGames, best, float64(total)/float64(flagAutoGames), wins)
	return nil
}

func newStrategy(name string, seed int64) (autoplay.Strategy, error) {
	switch name {
	case "greedy":
		return autoplay.NewGreedy(), nil
	case "random":
		return autoplay.NewRandom(seed), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want greedy or random)", name)
}
