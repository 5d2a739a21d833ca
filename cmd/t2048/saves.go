package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/savegame"
)

var flagSavesDelete string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved games",
	Long: `List the games saved with Ctrl+S, or delete one.

Examples:
  t2048 saves
  t2048 saves --delete mygame`,
	Args: cobra.NoArgs,
	RunE: runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagSavesDelete, "delete", "", "Name of the saved game to delete")
}

func runSaves(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	slots := savegame.NewSlots(store)

	if flagSavesDelete != "" {
		if err := slots.Delete(flagSavesDelete); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", flagSavesDelete)
		return nil
	}

	names, err := slots.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No saved games found.")
		return nil
	}

	fmt.Printf("  %-24s  %-8s  %-6s  %s\n", "Name", "Score", "Moves", "Time")
	fmt.Printf("  %-24s  %-8s  %-6s  %s\n", "----", "-----", "-----", "----")
	for _, name := range names {
		rec, err := slots.Load(name)
		if err != nil {
			fmt.Printf("  %-24s  (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("  %-24s  %-8d  %-6d  %s\n", name, rec.Score, rec.MovesCount, t2048.FormatElapsed(rec.Elapsed()))
	}
	return nil
}
