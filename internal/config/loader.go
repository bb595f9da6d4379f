package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "rescue.yaml"

// Load loads the rescue configuration. Values missing from a file keep their defaults.
// Search order: customPath -> ~/.rescue/configs/rescue.yaml -> ./configs/rescue.yaml -> embedded default
func Load(customPath string) (RescueConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RescueConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RescueConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultRescueYAML)
	if err != nil {
		return DefaultRescueConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the default configuration and validates the result.
func Parse(data []byte) (RescueConfig, error) {
	cfg := DefaultRescueConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RescueConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RescueConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg RescueConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks the values the simulation relies on.
func (c RescueConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.World.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.World.TickRate))
	}
	if c.Physics.PixelsPerMeter <= 0 {
		errs = append(errs, fmt.Errorf("pixels_per_meter must be positive, got %g", c.Physics.PixelsPerMeter))
	}
	if c.Physics.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("max_speed must be positive, got %g", c.Physics.MaxSpeed))
	}
	if c.Asteroids.Count < 0 {
		errs = append(errs, fmt.Errorf("asteroid count must not be negative, got %d", c.Asteroids.Count))
	}
	if len(c.Asteroids.Scales) == 0 {
		errs = append(errs, errors.New("asteroid scales must not be empty"))
	}
	if c.Asteroids.MarginMin > c.Asteroids.MarginMax {
		errs = append(errs, fmt.Errorf("asteroid margin range [%d, %d] is empty", c.Asteroids.MarginMin, c.Asteroids.MarginMax))
	}
	if c.Asteroids.ForceMin > c.Asteroids.ForceMax {
		errs = append(errs, fmt.Errorf("asteroid force range [%d, %d] is empty", c.Asteroids.ForceMin, c.Asteroids.ForceMax))
	}
	if 2*c.Spawn.RescuerMargin > int(c.World.Height) || 2*c.Spawn.SiteMargin > int(c.World.Height) {
		errs = append(errs, errors.New("spawn margins do not fit the playfield"))
	}
	if c.Reward.Window <= 0 {
		errs = append(errs, fmt.Errorf("reward window must be positive, got %d", c.Reward.Window))
	}
	if c.Observation.PatchSize <= 0 {
		errs = append(errs, fmt.Errorf("patch_size must be positive, got %d", c.Observation.PatchSize))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rescue", "configs", filename)
}
