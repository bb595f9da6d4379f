package random

import (
	"testing"

	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/observe"
	"github.com/IllumuIll/rescue-ai/internal/registry"
)

func TestActReturnsValidAction(t *testing.T) {
	p := New()
	p.Reset(11)
	obs := &observe.Observation{}

	seen := make(map[int]bool)
	for i := 0; i < 400; i++ {
		acts := p.Act(obs)
		if len(acts) != 1 {
			t.Fatalf("Act returned %d actions, expected 1", len(acts))
		}
		if !core.Action(acts[0]).Valid() {
			t.Fatalf("Act returned invalid action %d", acts[0])
		}
		seen[acts[0]] = true
	}
	if len(seen) != core.NumActions {
		t.Errorf("saw %d distinct actions in 400 draws, expected %d", len(seen), core.NumActions)
	}
}

func TestActAfterTerminal(t *testing.T) {
	if acts := New().Act(nil); acts != nil {
		t.Errorf("Act(nil) = %v, expected no actions", acts)
	}
}

func TestResetIsReproducible(t *testing.T) {
	a, b := New(), New()
	a.Reset(42)
	b.Reset(42)
	obs := &observe.Observation{}

	for i := 0; i < 50; i++ {
		x, y := a.Act(obs), b.Act(obs)
		if x[0] != y[0] {
			t.Fatalf("draw %d differs: %d vs %d", i, x[0], y[0])
		}
	}
}

func TestRegistered(t *testing.T) {
	p, err := registry.Create("random")
	if err != nil {
		t.Fatalf("random policy not registered: %v", err)
	}
	if p.ID() != "random" {
		t.Errorf("ID = %q, expected random", p.ID())
	}
}
