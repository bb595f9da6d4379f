package env

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/sim"
)

// newFastEnv skips rasterisation; the image channel stays zero.
func newFastEnv(cfg config.RescueConfig) *Env {
	return New(cfg, WithRenderer(nil))
}

func quietConfig() config.RescueConfig {
	cfg := config.DefaultRescueConfig()
	cfg.Asteroids.Count = 0
	return cfg
}

// arrange parks the rescuer in the centre, away from the target and mothership.
func arrange(e *Env) {
	w := e.World()
	p := w.Physics()
	p.Teleport(w.Rescuer(), r2.Vec{X: 256, Y: 256})
	p.SetVelocity(w.Rescuer(), r2.Vec{})
	p.Teleport(w.Target(), r2.Vec{X: 100, Y: 420})
	p.SetVelocity(w.Target(), r2.Vec{})
	p.Teleport(w.Mothership(), r2.Vec{X: 420, Y: 100})
}

func TestResetReturnsObservation(t *testing.T) {
	e := New(config.DefaultRescueConfig())
	obs := e.Reset(3)

	if obs == nil {
		t.Fatal("Reset() should return an observation")
	}
	rows, cols := obs.Image.Dims()
	if rows != 300 || cols != 300 {
		t.Errorf("image dims = %dx%d, expected 300x300", rows, cols)
	}

	w := e.World()
	if obs.Numeric[2] != w.Rescuer().Pos.X/512 || obs.Numeric[3] != w.Rescuer().Pos.Y/512 {
		t.Errorf("rescuer coords = (%g, %g), expected the normalised rescuer position",
			obs.Numeric[2], obs.Numeric[3])
	}
	if obs.Numeric[0] != w.Target().Pos.X/512 {
		t.Errorf("goal x = %g, expected the target", obs.Numeric[0])
	}
}

func TestStepContract(t *testing.T) {
	e := newFastEnv(quietConfig())
	e.Reset(5)
	arrange(e)

	res := e.Step([]int{2})
	if res.Truncated {
		t.Error("Truncated should always be false")
	}
	if res.Info == nil || len(res.Info) != 0 {
		t.Errorf("Info = %v, expected an empty map", res.Info)
	}
	if res.Terminated || res.Observation == nil {
		t.Fatal("a quiet step should continue with an observation")
	}
	if res.Outcome != sim.OutcomeContinue {
		t.Errorf("Outcome = %v, expected continue", res.Outcome)
	}
	// First shaped reward has no progress on either signal
	if res.Reward != 0 {
		t.Errorf("first Reward = %g, expected 0", res.Reward)
	}
	if got := e.World().Rescuer().Vel.X; got < 249.999 || got > 250.001 {
		t.Errorf("action 2 should push right by 250, vx = %g", got)
	}
}

func TestActionMapping(t *testing.T) {
	tests := []struct {
		id       int
		expected r2.Vec
	}{
		{0, r2.Vec{X: -250}},
		{1, r2.Vec{Y: -250}},
		{2, r2.Vec{X: 250}},
		{3, r2.Vec{Y: 250}},
	}

	for _, tc := range tests {
		e := newFastEnv(quietConfig())
		e.Reset(6)
		arrange(e)

		e.Step([]int{tc.id})
		v := e.World().Rescuer().Vel
		if r2.Norm(r2.Sub(v, tc.expected)) > 1e-6 {
			t.Errorf("action %d: velocity = %v, expected %v", tc.id, v, tc.expected)
		}
	}
}

func TestStepUnknownActionPanics(t *testing.T) {
	e := newFastEnv(quietConfig())
	e.Reset(1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for action 4")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "unknown action") {
			t.Errorf("panic = %v, expected unknown action message", r)
		}
	}()
	e.Step([]int{4})
}

func TestStepBeforeResetPanics(t *testing.T) {
	e := newFastEnv(quietConfig())
	defer func() {
		if recover() == nil {
			t.Fatal("Step before Reset should panic")
		}
	}()
	e.Step(nil)
}

func TestMistakeReward(t *testing.T) {
	cfg := config.DefaultRescueConfig()
	cfg.Asteroids.Count = 1
	cfg.Asteroids.Scales = []int{1}
	e := newFastEnv(cfg)
	e.Reset(10)
	arrange(e)
	w := e.World()

	rock := w.Asteroids()[0]
	w.Physics().Teleport(rock, r2.Vec{X: 256, Y: 440})
	w.Physics().SetVelocity(rock, r2.Vec{})

	// Warm up the shaped reward so it would be non-zero
	for i := 0; i < 2; i++ {
		if res := e.Step([]int{0}); res.Terminated {
			t.Fatalf("warm-up step %d terminated with %v", i, res.Outcome)
		}
	}

	w.Physics().Teleport(rock, w.Rescuer().Pos)
	w.Physics().SetVelocity(rock, r2.Vec{})

	res := e.Step([]int{3, 3})
	if !res.Terminated {
		t.Fatal("overlapping an asteroid should terminate")
	}
	if res.Reward != -10 {
		t.Errorf("Reward = %g, expected exactly -10", res.Reward)
	}
	if res.Observation != nil {
		t.Error("terminal step should return no observation")
	}
	if e.Episode().Outcome != sim.OutcomeMistake {
		t.Errorf("episode outcome = %v, expected mistake", e.Episode().Outcome)
	}
	if e.Episode().Stats.Collisions != 1 {
		t.Errorf("episode collisions = %d, expected 1", e.Episode().Stats.Collisions)
	}
}

func TestSuccessReward(t *testing.T) {
	e := newFastEnv(quietConfig())
	e.Reset(11)
	w := e.World()
	p := w.Physics()
	rescuer, mothership := w.Rescuer(), w.Mothership()

	p.Teleport(rescuer, r2.Vec{X: 256, Y: 256})
	p.Teleport(mothership, r2.Vec{X: 420, Y: 100})
	p.Teleport(w.Target(), r2.Vec{X: 296, Y: 256})

	for i := 0; i < 5 && !rescuer.Rescuer.CarriesResource; i++ {
		if res := e.Step(nil); res.Terminated {
			t.Fatalf("pickup step %d terminated with %v", i, res.Outcome)
		}
	}
	if !rescuer.Rescuer.CarriesResource {
		t.Fatal("setup: rescuer should carry the resource")
	}

	p.Teleport(rescuer, r2.Vec{X: mothership.Pos.X - 40, Y: mothership.Pos.Y})
	p.SetVelocity(rescuer, r2.Vec{})

	var res StepResult
	for i := 0; i < 5; i++ {
		res = e.Step(nil)
		if res.Terminated {
			break
		}
	}
	if res.Outcome != sim.OutcomeSuccess {
		t.Fatalf("Outcome = %v, expected success", res.Outcome)
	}
	if res.Reward != 10 {
		t.Errorf("Reward = %g, expected exactly 10", res.Reward)
	}
	if res.Observation != nil {
		t.Error("terminal step should return no observation")
	}

	ep := e.Episode()
	if ep.Stats.Pickups != 1 || ep.Stats.Deliveries != 1 {
		t.Errorf("episode stats = %+v, expected one pickup and one delivery", ep.Stats)
	}
	if !ep.Done() {
		t.Error("episode should be done")
	}
}

func TestEnvDeterminism(t *testing.T) {
	run := func() []float64 {
		e := newFastEnv(config.DefaultRescueConfig())
		e.Reset(2024)
		var rewards []float64
		for i := 0; i < 200; i++ {
			res := e.Step([]int{i % 4, (i / 7) % 4})
			rewards = append(rewards, res.Reward)
			if res.Terminated {
				break
			}
		}
		return rewards
	}

	r1, r2 := run(), run()
	if len(r1) != len(r2) {
		t.Fatalf("episode lengths differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Fatalf("reward %d differs: %g vs %g", i, r1[i], r2[i])
		}
	}
}

func TestResetClearsRewardHistory(t *testing.T) {
	actions := [][]int{{2}, {2}, {3}, {0}, {1}, {2}}

	e := newFastEnv(config.DefaultRescueConfig())
	e.Reset(99)
	for _, a := range actions {
		if e.Step(a).Terminated {
			break
		}
	}

	e.Reset(42)
	var again []float64
	for _, a := range actions {
		res := e.Step(a)
		again = append(again, res.Reward)
		if res.Terminated {
			break
		}
	}

	fresh := newFastEnv(config.DefaultRescueConfig())
	fresh.Reset(42)
	for i, a := range actions[:len(again)] {
		if got := fresh.Step(a).Reward; got != again[i] {
			t.Fatalf("step %d: reward after Reset = %g, fresh env = %g", i, again[i], got)
		}
	}

	if e.Episode().Seed != 42 || e.Episode().Steps != len(again) {
		t.Errorf("episode = %+v, expected seed 42 and %d steps", e.Episode(), len(again))
	}
}
