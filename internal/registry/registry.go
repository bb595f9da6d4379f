// Package registry provides a global registry for policy factories.
// Policies register themselves in init() functions, allowing the episode
// driver and the viewer to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/IllumuIll/rescue-ai/internal/observe"
)

// Policy maps observations to discrete action ids.
// Policies hold no reference to the world; everything they know comes from
// the observation handed to Act.
type Policy interface {
	// ID returns a unique identifier for this policy (e.g., "random", "greedy").
	// Used for CLI flags and episode storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset prepares the policy for a new episode.
	// Stochastic policies reseed their generator from seed.
	Reset(seed int64)

	// Act returns the action ids to submit for the next tick, in order.
	// obs is nil after a terminal step; policies must return no actions then.
	Act(obs *observe.Observation) []int
}

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a policy.
type Factory func() Policy

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a policy factory to the registry.
// Typically called from a policy's init() function.
// Panics if a policy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered policies, sorted by ID.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PolicyInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the policy ID is not registered.
func Create(id string) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return f(), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
