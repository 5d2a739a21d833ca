package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets in increasing difficulty.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// FourProbabilityForPreset returns the chance of spawning a 4 for a preset.
// More 4s fill the board faster.
func FourProbabilityForPreset(preset DifficultyPreset) (float64, error) {
	switch preset {
	case DifficultyEasy:
		return 0.1, nil
	case DifficultyNormal:
		return 0.3, nil
	case DifficultyHard:
		return 0.5, nil
	default:
		return 0, fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", preset)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config unchanged.
func ApplyPreset(cfg *T2048Config, preset DifficultyPreset) error {
	if preset == "" {
		return nil
	}
	p, err := FourProbabilityForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Spawn.FourProbability = p
	return nil
}
