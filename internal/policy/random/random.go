// Package random implements a uniformly random baseline policy.
package random

import (
	"math/rand"

	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/observe"
	"github.com/IllumuIll/rescue-ai/internal/registry"
)

// Policy submits one uniformly drawn movement action per tick.
type Policy struct {
	rng *rand.Rand
}

// New creates a random policy seeded with 0. Reset reseeds it.
func New() *Policy {
	return &Policy{rng: rand.New(rand.NewSource(0))}
}

// ID returns the policy identifier.
func (p *Policy) ID() string {
	return "random"
}

// Title returns the display name.
func (p *Policy) Title() string {
	return "Uniform Random"
}

// Reset reseeds the generator so an episode is reproducible from its seed.
func (p *Policy) Reset(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

// Act draws one action id in [0, NumActions).
func (p *Policy) Act(obs *observe.Observation) []int {
	if obs == nil {
		return nil
	}
	return []int{p.rng.Intn(core.NumActions)}
}

func init() {
	registry.Register("random", func() registry.Policy {
		return New()
	})
}
