// Package config provides YAML-based configuration loading and difficulty
// presets for the 2048 game.
package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Game modes.
const (
	ModeClassic = "classic" // Win announced at Rules.WinValue, play continues
	ModeEndless = "endless" // No win announcement
)

// T2048Config contains all configuration for the game.
type T2048Config struct {
	Board   BoardConfig   `yaml:"board"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Rules   RulesConfig   `yaml:"rules"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Size         int `yaml:"size"`
	InitialTiles int `yaml:"initial_tiles"`
}

// SpawnConfig defines random tile generation.
type SpawnConfig struct {
	FourProbability float64 `yaml:"four_probability"`
}

// RulesConfig defines win conditions.
type RulesConfig struct {
	Mode     string `yaml:"mode"`
	WinValue int    `yaml:"win_value"`
}

// StorageConfig defines where saves, the high score and history live.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logging for the interactive client.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address        string `yaml:"address"`
	HostKeyPath    string `yaml:"host_key_path"`
	IdleTimeoutMin int    `yaml:"idle_timeout_minutes"`
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks that the configuration can drive a game.
func (c T2048Config) Validate() error {
	if c.Board.Size < 2 {
		return fmt.Errorf("%w: board.size must be at least 2, got %d", ErrInvalidConfig, c.Board.Size)
	}
	if c.Board.InitialTiles < 0 || c.Board.InitialTiles > c.Board.Size*c.Board.Size {
		return fmt.Errorf("%w: board.initial_tiles %d out of range", ErrInvalidConfig, c.Board.InitialTiles)
	}
	if p := c.Spawn.FourProbability; p < 0 || p > 1 {
		return fmt.Errorf("%w: spawn.four_probability must be in [0,1], got %v", ErrInvalidConfig, p)
	}
	if w := c.Rules.WinValue; w < 4 || w&(w-1) != 0 {
		return fmt.Errorf("%w: rules.win_value must be a power of two >= 4, got %d", ErrInvalidConfig, w)
	}
	switch c.Rules.Mode {
	case ModeClassic, ModeEndless:
	default:
		return fmt.Errorf("%w: unknown rules.mode %q", ErrInvalidConfig, c.Rules.Mode)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q: %w", ErrInvalidConfig, c.Log.Level, err)
	}
	return nil
}

// Variant identifies the score table for this configuration, e.g. "classic_4x4".
func (c T2048Config) Variant() string {
	return fmt.Sprintf("%s_%dx%d", c.Rules.Mode, c.Board.Size, c.Board.Size)
}
