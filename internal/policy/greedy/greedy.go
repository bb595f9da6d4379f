// Package greedy implements a goal-seeking baseline policy. It steers the
// rescuer straight at the current goal using only the numeric observation and
// ignores asteroids entirely.
package greedy

import (
	"math"

	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/observe"
	"github.com/IllumuIll/rescue-ai/internal/registry"
)

// Default tuning in normalised units per tick. One impulse of 250 px/s on a
// 512px field at 60 ticks per second moves the rescuer about 0.0081 per tick.
const (
	DefaultGain     = 0.1
	DefaultStep     = 0.0081
	DefaultMaxSpeed = 0.0081
)

// Policy is a proportional controller on each axis. It estimates the
// rescuer's velocity from consecutive observations and pushes whenever the
// estimate lags the desired velocity by more than half an impulse.
type Policy struct {
	Gain     float64 // Desired velocity per unit of distance
	Step     float64 // Velocity change of one impulse
	MaxSpeed float64 // Cruise velocity cap

	prev    [2]float64
	hasPrev bool
}

// New creates a greedy policy with default tuning.
func New() *Policy {
	return &Policy{
		Gain:     DefaultGain,
		Step:     DefaultStep,
		MaxSpeed: DefaultMaxSpeed,
	}
}

// ID returns the policy identifier.
func (p *Policy) ID() string {
	return "greedy"
}

// Title returns the display name.
func (p *Policy) Title() string {
	return "Greedy Goal Seeker"
}

// Reset forgets the previous position.
func (p *Policy) Reset(_ int64) {
	p.hasPrev = false
}

// Act returns at most one action per axis.
func (p *Policy) Act(obs *observe.Observation) []int {
	if obs == nil {
		p.hasPrev = false
		return nil
	}

	goal := [2]float64{obs.Numeric[0], obs.Numeric[1]}
	pos := [2]float64{obs.Numeric[2], obs.Numeric[3]}

	var vel [2]float64
	if p.hasPrev {
		vel = [2]float64{pos[0] - p.prev[0], pos[1] - p.prev[1]}
	}
	p.prev, p.hasPrev = pos, true

	axes := [2][2]core.Action{
		{core.ActionLeft, core.ActionRight},
		{core.ActionDown, core.ActionUp},
	}
	actions := make([]int, 0, 2)
	for i := range goal {
		desired := clamp(p.Gain*(goal[i]-pos[i]), p.MaxSpeed)
		switch diff := desired - vel[i]; {
		case diff > p.Step/2:
			actions = append(actions, int(axes[i][1]))
		case diff < -p.Step/2:
			actions = append(actions, int(axes[i][0]))
		}
	}
	return actions
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

func init() {
	registry.Register("greedy", func() registry.Policy {
		return New()
	})
}
