package reward

import (
	"gonum.org/v1/gonum/floats"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/core"
)

// Shaper turns consecutive observations into a scalar reward. It keeps the
// previous distances and one window per signal, all cleared by Reset.
type Shaper struct {
	cfg config.RewardConfig

	movement  *Window
	avoidance *Window

	prevMovement     float64
	hasPrevMovement  bool
	prevAvoidance    float64
	hasPrevAvoidance bool
}

// NewShaper creates a shaper with empty history.
func NewShaper(cfg config.RewardConfig) *Shaper {
	return &Shaper{
		cfg:       cfg,
		movement:  NewWindow(cfg.Window),
		avoidance: NewWindow(cfg.Window),
	}
}

// Reset forgets all history. Called at the start of every episode.
func (s *Shaper) Reset() {
	s.movement.Clear()
	s.avoidance.Clear()
	s.prevMovement, s.hasPrevMovement = 0, false
	s.prevAvoidance, s.hasPrevAvoidance = 0, false
}

// Movement rewards closing the distance between the goal and the rescuer.
// numeric is [goal.x, goal.y, rescuer.x, rescuer.y]. Progress is zero on the
// first call after Reset.
func (s *Shaper) Movement(numeric [4]float64) float64 {
	curr := core.Distance(numeric[0], numeric[1], numeric[2], numeric[3])

	progress := 0.0
	if s.hasPrevMovement {
		progress = s.prevMovement - curr
	}
	s.prevMovement, s.hasPrevMovement = curr, true

	return s.movement.Smooth(progress)
}

// Avoidance rewards moving away from the nearest asteroid. Only distances
// below the avoidance range count. With none in range the window is cleared
// and the signal is zero; the last recorded distance is kept.
func (s *Shaper) Avoidance(distances []float64) float64 {
	near := make([]float64, 0, len(distances))
	for _, d := range distances {
		if d < s.cfg.AvoidanceRange {
			near = append(near, d)
		}
	}
	if len(near) == 0 {
		s.avoidance.Clear()
		return 0
	}

	curr := floats.Min(near)
	progress := 0.0
	if s.hasPrevAvoidance {
		progress = curr - s.prevAvoidance
	}
	s.prevAvoidance, s.hasPrevAvoidance = curr, true

	return s.avoidance.Smooth(progress)
}

// Reward combines both signals. The movement signal works on width-normalised
// coordinates and is scaled up to match the pixel-based avoidance signal.
func (s *Shaper) Reward(numeric [4]float64, distances []float64) float64 {
	return s.cfg.MovementScale*s.Movement(numeric) + s.Avoidance(distances)
}

// Terminal returns the fixed reward of a terminal tick.
func (s *Shaper) Terminal(success bool) float64 {
	if success {
		return s.cfg.Success
	}
	return s.cfg.Mistake
}

// MovementWindow exposes the movement history.
func (s *Shaper) MovementWindow() *Window {
	return s.movement
}

// AvoidanceWindow exposes the avoidance history.
func (s *Shaper) AvoidanceWindow() *Window {
	return s.avoidance
}

// AsteroidDistances returns the minimum vertex distance from the rescuer
// hitbox to each asteroid hitbox.
func AsteroidDistances(rescuer core.Polygon, asteroids []core.Polygon) []float64 {
	out := make([]float64, len(asteroids))
	for i, a := range asteroids {
		out[i] = core.MinVertexDistance(rescuer, a)
	}
	return out
}

