// Package env exposes the rescue world through a reset/step interface:
// discrete action ids go in, observations, rewards and termination flags
// come out.
package env

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/observe"
	"github.com/IllumuIll/rescue-ai/internal/render"
	"github.com/IllumuIll/rescue-ai/internal/reward"
	"github.com/IllumuIll/rescue-ai/internal/sim"
)

// StepResult is the outcome of one Step call.
type StepResult struct {
	Observation *observe.Observation // nil on a terminal step
	Reward      float64
	Terminated  bool
	Truncated   bool // Always false; episodes only end by termination
	Info        map[string]any
	Outcome     sim.Outcome
}

// Episode summarises the current episode.
type Episode struct {
	Seed        int64
	Steps       int
	TotalReward float64
	Outcome     sim.Outcome
	Stats       sim.Stats // Events since the last Reset
}

// Done reports whether the episode has terminated.
func (e Episode) Done() bool {
	return e.Outcome.Terminal()
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger shared with the world.
func WithLogger(l *log.Logger) Option {
	return func(e *Env) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRenderer replaces the scene renderer of the image channel.
// A nil renderer leaves the image all zeros, which is much faster.
func WithRenderer(r observe.Renderer) Option {
	return func(e *Env) {
		e.renderer = r
		e.customRenderer = true
	}
}

// Env wraps a World with the observation builder and reward shaper.
// It is not safe for concurrent use.
type Env struct {
	cfg    config.RescueConfig
	logger *log.Logger

	renderer       observe.Renderer
	customRenderer bool

	world   *sim.World
	builder *observe.Builder
	shaper  *reward.Shaper

	episode Episode
	start   sim.Stats
}

// New creates an environment. Reset must be called before Step.
func New(cfg config.RescueConfig, opts ...Option) *Env {
	e := &Env{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.customRenderer {
		e.renderer = render.NewCanvas(int(cfg.World.Width), int(cfg.World.Height))
	}

	e.world = sim.NewWorld(cfg, sim.WithLogger(e.logger))
	e.builder = observe.NewBuilder(cfg, e.renderer)
	e.shaper = reward.NewShaper(cfg.Reward)
	return e
}

// Reset seeds a new episode, clears the reward history and returns the
// initial observation.
func (e *Env) Reset(seed int64) *observe.Observation {
	e.world.Reset(seed)
	e.shaper.Reset()
	e.start = e.world.Stats()
	e.episode = Episode{Seed: seed}

	return e.builder.Build(e.world)
}

// Step applies the actions in order to the rescuer and advances one tick.
// Ids 0..3 map to left, down, right and up impulses.
//
// A mistake yields the mistake reward and a delivery the success reward, both
// with a nil observation. Otherwise the shaped reward is computed from the
// new observation.
//
// Step panics on an unknown action id or when the world does not hold exactly
// one rescuer and one mothership.
func (e *Env) Step(actions []int) StepResult {
	rescuer := e.world.Rescuer()
	for _, id := range actions {
		a := core.Action(id)
		if !a.Valid() {
			panic(fmt.Sprintf("sim: unknown action id %d", id))
		}
		e.world.Move(rescuer.ID, a.Impulse(e.cfg.Actions.Impulse))
	}

	outcome := e.world.Step()

	res := StepResult{
		Info:    map[string]any{},
		Outcome: outcome,
	}
	switch outcome {
	case sim.OutcomeMistake:
		res.Reward = e.shaper.Terminal(false)
		res.Terminated = true
	case sim.OutcomeSuccess:
		res.Reward = e.shaper.Terminal(true)
		res.Terminated = true
	default:
		res.Observation = e.builder.Build(e.world)
		res.Reward = e.shaper.Reward(res.Observation.Numeric, e.asteroidDistances())
	}

	e.episode.Steps++
	e.episode.TotalReward += res.Reward
	e.episode.Outcome = outcome
	e.episode.Stats = e.world.Stats().Sub(e.start)

	if res.Terminated {
		e.logger.Debug("episode terminated",
			"seed", e.episode.Seed,
			"steps", e.episode.Steps,
			"outcome", outcome,
			"reward", res.Reward,
		)
	}
	return res
}

// Observe builds the observation for the current world state without
// advancing it.
func (e *Env) Observe() *observe.Observation {
	return e.builder.Build(e.world)
}

func (e *Env) asteroidDistances() []float64 {
	asteroids := e.world.Asteroids()
	hitboxes := make([]core.Polygon, len(asteroids))
	for i, a := range asteroids {
		hitboxes[i] = a.Hitbox()
	}
	return reward.AsteroidDistances(e.world.Rescuer().Hitbox(), hitboxes)
}

// Episode returns the summary of the current episode.
func (e *Env) Episode() Episode {
	return e.episode
}

// World returns the underlying world.
func (e *Env) World() *sim.World {
	return e.world
}

// Config returns the scene configuration.
func (e *Env) Config() config.RescueConfig {
	return e.cfg
}

// NumActions returns the size of the discrete action space.
func (e *Env) NumActions() int {
	return core.NumActions
}
