package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the hardcoded default configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Size:         4,
			InitialTiles: 2,
		},
		Spawn: SpawnConfig{
			FourProbability: 0.3,
		},
		Rules: RulesConfig{
			Mode:     ModeClassic,
			WinValue: 2048,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/t2048.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.t2048/t2048.log",
		},
		Server: ServerConfig{
			Address:        ":23234",
			IdleTimeoutMin: 30,
		},
	}
}
