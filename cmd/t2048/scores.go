package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show the score history",
	Long: `Display the best finished games, per variant. A variant is the mode
and board size, e.g. classic_4x4 or endless_5x5.

Without --plain an interactive scoreboard opens; use left/right to switch
variants.

Examples:
  t2048 scores
  t2048 scores classic_4x4 --plain
  t2048 scores endless_4x4 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to print with --plain")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print scores instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the history of the given variant")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	variant := cfg.Variant()
	if len(args) == 1 {
		variant = args[0]
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if len(args) == 0 {
			return errors.New("--clear needs a variant argument")
		}
		if err := store.ClearScores(variant); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", variant)
		return nil
	}

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(store, variant, width, height)
		return err
	}

	return printScores(store, variant)
}

func printScores(store *storage.Store, variant string) error {
	scores, err := store.TopScores(variant, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", variant)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %s\n", "Rank", "Score", "Max", "Moves", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %s\n", "----", "-----", "---", "-----", "----", "----")

	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-8s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, t2048.FormatElapsed(e.Duration), e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(variant)
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Average: %.0f  Best tile: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestTile)
	}
	return nil
}
