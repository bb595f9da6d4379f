package config

import "fmt"

// ParsePreset converts a CLI value to a Preset. The empty string means no preset.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetEasy, PresetNormal, PresetHard:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("config: unknown preset %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset modifies the asteroid population and drift for a curriculum preset.
// PresetNormal restores the default obstacle settings.
func ApplyPreset(cfg *RescueConfig, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Asteroids.Count = 4
		cfg.Asteroids.ForceMin = 25
		cfg.Asteroids.ForceMax = 50
	case PresetNormal:
		def := DefaultRescueConfig().Asteroids
		cfg.Asteroids.Count = def.Count
		cfg.Asteroids.ForceMin = def.ForceMin
		cfg.Asteroids.ForceMax = def.ForceMax
	case PresetHard:
		cfg.Asteroids.Count = 12
		cfg.Asteroids.ForceMin = 75
		cfg.Asteroids.ForceMax = 150
	}
}
