package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultRescueConfig()) {
		t.Errorf("embedded YAML and DefaultRescueConfig differ:\n%+v\n%+v", cfg, DefaultRescueConfig())
	}
}

func TestDefaultsReproduceScene(t *testing.T) {
	cfg := DefaultRescueConfig()

	if cfg.World.Width != 512 || cfg.World.Height != 512 {
		t.Errorf("playfield = %gx%g, expected 512x512", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Asteroids.Count != 8 {
		t.Errorf("asteroid count = %d, expected 8", cfg.Asteroids.Count)
	}
	if cfg.Physics.MaxSpeed != 400 {
		t.Errorf("max speed = %g, expected 400", cfg.Physics.MaxSpeed)
	}
	if cfg.Bodies.Target.Damping != 0.9 || cfg.Bodies.Rescuer.Damping != 1.0 {
		t.Error("target damping should be 0.9 and rescuer damping 1.0")
	}
	if cfg.Reward.Window != 10 || cfg.Reward.AvoidanceRange != 130 || cfg.Reward.MovementScale != 1000 {
		t.Errorf("unexpected reward defaults: %+v", cfg.Reward)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "asteroids:\n  count: 3\nreward:\n  avoidance_range: 90\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Asteroids.Count != 3 {
		t.Errorf("asteroid count = %d, expected 3", cfg.Asteroids.Count)
	}
	if cfg.Reward.AvoidanceRange != 90 {
		t.Errorf("avoidance range = %g, expected 90", cfg.Reward.AvoidanceRange)
	}
	// Untouched values keep defaults
	if cfg.World.Width != 512 || cfg.Reward.Window != 10 {
		t.Error("values missing from the file should keep their defaults")
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing custom path")
	}
	if !strings.Contains(err.Error(), "config:") {
		t.Errorf("error should carry the package prefix, got %q", err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "world:\n  width: 0\n"},
		{"empty scales", "asteroids:\n  scales: []\n"},
		{"inverted force range", "asteroids:\n  force_min: 10\n  force_max: 5\n"},
		{"zero window", "reward:\n  window: 0\n"},
		{"malformed", "world: [1, 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("Parse(%q) should fail", tc.yaml)
			}
		})
	}
}

func TestMarshalRoundTripKeepsValues(t *testing.T) {
	cfg := DefaultRescueConfig()
	cfg.Asteroids.Count = 5

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if back.Asteroids.Count != 5 {
		t.Errorf("asteroid count = %d after round trip, expected 5", back.Asteroids.Count)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset    Preset
		count     int
		forceMin  int
		forceMax  int
	}{
		{PresetEasy, 4, 25, 50},
		{PresetNormal, 8, 50, 100},
		{PresetHard, 12, 75, 150},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultRescueConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Asteroids.Count != tc.count {
				t.Errorf("count = %d, expected %d", cfg.Asteroids.Count, tc.count)
			}
			if cfg.Asteroids.ForceMin != tc.forceMin || cfg.Asteroids.ForceMax != tc.forceMax {
				t.Errorf("force range = [%d, %d], expected [%d, %d]",
					cfg.Asteroids.ForceMin, cfg.Asteroids.ForceMax, tc.forceMin, tc.forceMax)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produced invalid config: %v", err)
			}
		})
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset should reject unknown presets")
	}
	if p, err := ParsePreset(""); err != nil || p != "" {
		t.Error("empty preset should parse to no preset")
	}
}
