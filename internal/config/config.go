// Package config provides YAML-based scene configuration loading and
// curriculum presets for the rescue simulation.
package config

// RescueConfig contains all configuration for a rescue episode.
type RescueConfig struct {
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Bodies      BodiesConfig      `yaml:"bodies"`
	Asteroids   AsteroidConfig    `yaml:"asteroids"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Actions     ActionConfig      `yaml:"actions"`
	Reward      RewardConfig      `yaml:"reward"`
	Observation ObservationConfig `yaml:"observation"`
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	TickRate int     `yaml:"tick_rate"` // Physics steps per simulated second; dt = 1/TickRate
}

// PhysicsConfig defines rigid-body engine parameters.
type PhysicsConfig struct {
	PixelsPerMeter     float64 `yaml:"pixels_per_meter"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	MaxSpeed           float64 `yaml:"max_speed"` // Pixels per second
}

// BodyConfig defines the hitbox edge length and contact parameters of one category.
type BodyConfig struct {
	Size     float64 `yaml:"size"`
	Friction float64 `yaml:"friction"`
	Damping  float64 `yaml:"damping"` // Fraction of velocity kept per second; 1 means no decay
}

// BodiesConfig groups per-category body parameters.
type BodiesConfig struct {
	Rescuer    BodyConfig `yaml:"rescuer"`
	Target     BodyConfig `yaml:"target"`
	Mothership BodyConfig `yaml:"mothership"`
	Resource   BodyConfig `yaml:"resource"`
	Asteroid   BodyConfig `yaml:"asteroid"` // Size is multiplied by a scale from AsteroidConfig.Scales
	Wall       BodyConfig `yaml:"wall"`
}

// AsteroidConfig defines the obstacle population and its border spawns.
type AsteroidConfig struct {
	Count     int   `yaml:"count"`
	Scales    []int `yaml:"scales"`
	MarginMin int   `yaml:"margin_min"`
	MarginMax int   `yaml:"margin_max"`
	ForceMin  int   `yaml:"force_min"`
	ForceMax  int   `yaml:"force_max"`
}

// SpawnConfig defines where the rescuer, target and mothership appear on reset.
type SpawnConfig struct {
	RescuerMargin   int     `yaml:"rescuer_margin"`
	SiteMargin      int     `yaml:"site_margin"`
	MinSiteDistance float64 `yaml:"min_site_distance"`
	SiteAttempts    int     `yaml:"site_attempts"`
}

// ActionConfig defines the movement impulse magnitude.
type ActionConfig struct {
	Impulse float64 `yaml:"impulse"`
}

// RewardConfig defines the reward shaper.
type RewardConfig struct {
	Window         int     `yaml:"window"`
	AvoidanceRange float64 `yaml:"avoidance_range"`
	MovementScale  float64 `yaml:"movement_scale"`
	Mistake        float64 `yaml:"mistake"`
	Success        float64 `yaml:"success"`
}

// ObservationConfig defines the image channel.
type ObservationConfig struct {
	PatchSize int `yaml:"patch_size"`
}

// Preset represents a named curriculum level.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)
