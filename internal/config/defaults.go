package config

import (
	_ "embed"
)

//go:embed defaults/rescue.yaml
var defaultRescueYAML []byte

// DefaultRescueConfig returns the default rescue configuration.
// It mirrors defaults/rescue.yaml and is used when the embedded file cannot be parsed.
func DefaultRescueConfig() RescueConfig {
	return RescueConfig{
		World: WorldConfig{
			Width:    512,
			Height:   512,
			TickRate: 60,
		},
		Physics: PhysicsConfig{
			PixelsPerMeter:     30,
			VelocityIterations: 8,
			PositionIterations: 3,
			MaxSpeed:           400,
		},
		Bodies: BodiesConfig{
			Rescuer:    BodyConfig{Size: 64, Friction: 0.2, Damping: 1.0},
			Target:     BodyConfig{Size: 25.6, Friction: 0.0, Damping: 0.9},
			Mothership: BodyConfig{Size: 32, Friction: 0.2, Damping: 1.0},
			Resource:   BodyConfig{Size: 21.333, Friction: 0.0, Damping: 1.0},
			Asteroid:   BodyConfig{Size: 42.667, Friction: 0.0, Damping: 1.0},
			Wall:       BodyConfig{Size: 64, Friction: 0.0, Damping: 1.0},
		},
		Asteroids: AsteroidConfig{
			Count:     8,
			Scales:    []int{1, 2, 3},
			MarginMin: 15,
			MarginMax: 50,
			ForceMin:  50,
			ForceMax:  100,
		},
		Spawn: SpawnConfig{
			RescuerMargin:   100,
			SiteMargin:      50,
			MinSiteDistance: 200,
			SiteAttempts:    100,
		},
		Actions: ActionConfig{
			Impulse: 250,
		},
		Reward: RewardConfig{
			Window:         10,
			AvoidanceRange: 130,
			MovementScale:  1000,
			Mistake:        -10,
			Success:        10,
		},
		Observation: ObservationConfig{
			PatchSize: 300,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRescueYAML
}
