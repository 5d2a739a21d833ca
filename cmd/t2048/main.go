// t2048 is the 2048 sliding-tile game for the terminal.
//
// Usage:
//
//	t2048 play               - Play 2048 (start menu unless --mode is given)
//	t2048 serve              - Start SSH server for remote play
//	t2048 scores [variant]   - Show the score history
//	t2048 saves              - List or delete saved games
//	t2048 autoplay           - Let a strategy play headless games
//
// Global flags:
//
//	--config <path>     - Custom config YAML
//	--db <path>         - Database path (default from config: ~/.t2048/t2048.db)
//	--seed <value>      - RNG seed for reproducible games
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 puzzle for the terminal. Slide the board, merge
equal tiles and try to reach 2048.

Available commands:
  play      - Play a game
  serve     - Start SSH server for remote play
  scores    - View the score history
  saves     - Manage saved games
  autoplay  - Watch a strategy play headless games

Examples:
  t2048 play
  t2048 play --mode endless --difficulty hard
  t2048 serve --ssh :2222
  t2048 scores classic_4x4
  t2048 autoplay --games 20 --strategy greedy`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (config.T2048Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// openStore opens the database named by cfg.
func openStore(cfg config.T2048Config) (*storage.Store, error) {
	return storage.Open(cfg.Storage.DBPath)
}
