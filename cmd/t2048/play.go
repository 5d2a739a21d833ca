package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagMode       string
	flagDifficulty string
	flagTutorial   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game of 2048. Without --mode, --difficulty or --tutorial a
start menu asks for the mode and difficulty.

Controls:
  Arrows/WASD/8426 - Move tiles
  R                - Restart
  T                - Tutorial
  Enter            - Continue tutorial
  Ctrl+S / Ctrl+O  - Save / load game
  I                - Statistics
  0/Q              - Quit

Difficulty options (chance that a new tile is a 4):
  easy   - 10%
  normal - 30%
  hard   - 50%

Examples:
  t2048 play
  t2048 play --mode endless
  t2048 play --difficulty hard --seed 42
  t2048 play --tutorial
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: classic, endless")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagTutorial, "tutorial", false, "Start with the tutorial")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Get terminal size early for the start menu
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	sel := tui.Selection{
		Mode:       t2048.Mode(cfg.Rules.Mode),
		Difficulty: config.DifficultyPreset(flagDifficulty),
		Tutorial:   flagTutorial,
	}
	if flagMode != "" {
		sel.Mode = t2048.Mode(flagMode)
	}

	if !cmd.Flags().Changed("mode") && !cmd.Flags().Changed("difficulty") && !flagTutorial {
		chosen, menuErr := tui.RunMenu(width, height)
		if menuErr != nil {
			return menuErr
		}
		// User quit
		if chosen == nil {
			return nil
		}
		sel = *chosen
	}

	cfg.Rules.Mode = string(sel.Mode)
	if err := config.ApplyPreset(&cfg, sel.Difficulty); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to a file; stderr would corrupt the alternate screen
	logger := logging.Discard()
	if cfg.Log.File != "" {
		f, logErr := logging.OpenFile(cfg.Log.File)
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", logErr)
		} else {
			defer f.Close()
			logger = logging.New(f, "t2048", cfg.Log.Level)
		}
	}

	opts := t2048.OptionsFromConfig(cfg, flagSeed)
	opts.Logger = logger

	// Open storage
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		fmt.Fprintln(os.Stderr, "Saves and scores will not outlive this session.")
		logger.Warn("storage unavailable", "path", cfg.Storage.DBPath, "err", err)
		// Continue without storage - game still works in memory
	} else {
		defer store.Close()
		opts.Store = store
		opts.Scores = store
	}

	game, err := t2048.New(opts)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	if sel.Tutorial {
		if err := game.StartTutorial(); err != nil {
			logger.Warn("cannot start tutorial", "err", err)
		}
	}

	logger.Info("game started", "variant", game.Variant(), "difficulty", sel.Difficulty, "seed", flagSeed)
	if err := tui.Run(game, logger); err != nil {
		logger.Error("game aborted", "err", err)
		return fmt.Errorf("running game: %w", err)
	}
	logger.Info("game ended", "score", game.Score(), "high_score", game.HighScore(), "moves", game.Moves())
	return nil
}
