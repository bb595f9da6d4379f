package sim

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry()
	a := r.Create(CategoryRescuer, r2.Vec{X: 1, Y: 2}, r2.Vec{X: 4, Y: 4})
	b := r.Create(CategoryAsteroid, r2.Vec{}, r2.Vec{X: 8, Y: 8})

	if a.ID == b.ID {
		t.Fatal("entities should receive distinct IDs")
	}
	if a.Rescuer == nil {
		t.Error("rescuer should carry a RescuerState payload")
	}
	if b.Rescuer != nil || b.Resource != nil {
		t.Error("asteroid should carry no payload")
	}

	got, ok := r.Get(a.ID)
	if !ok || got != a {
		t.Errorf("Get(%d) = %v, %v, expected the rescuer", a.ID, got, ok)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", r.Len())
	}
}

func TestRegistryDeferredRemoval(t *testing.T) {
	r := NewRegistry()
	var ids []EntityID
	for i := 0; i < 4; i++ {
		ids = append(ids, r.Create(CategoryAsteroid, r2.Vec{X: float64(i)}, r2.Vec{X: 1, Y: 1}).ID)
	}

	r.Remove(ids[1])
	r.Remove(ids[1]) // Second removal is a no-op

	if _, ok := r.Get(ids[1]); ok {
		t.Error("removed entity should not resolve before Sweep")
	}
	if got := r.Count(CategoryAsteroid); got != 3 {
		t.Errorf("Count() = %d, expected 3 after Remove", got)
	}
	if r.Pending() != 1 {
		t.Errorf("Pending() = %d, expected 1", r.Pending())
	}

	swept := r.Sweep()
	if len(swept) != 1 || swept[0].ID != ids[1] {
		t.Fatalf("Sweep() returned %v, expected entity %d", swept, ids[1])
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after Sweep, expected 0", r.Pending())
	}

	all := r.All()
	expected := []EntityID{ids[0], ids[2], ids[3]}
	if len(all) != len(expected) {
		t.Fatalf("All() has %d entities, expected %d", len(all), len(expected))
	}
	for i, e := range all {
		if e.ID != expected[i] {
			t.Errorf("All()[%d] = %d, expected %d (creation order)", i, e.ID, expected[i])
		}
	}
}

func TestRegistryEachDuringMutation(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		r.Create(CategoryAsteroid, r2.Vec{}, r2.Vec{X: 1, Y: 1})
	}
	r.Create(CategoryWall, r2.Vec{}, r2.Vec{X: 1, Y: 1})

	visited := 0
	r.Each(CategoryAsteroid, func(e *Entity) bool {
		visited++
		// Replace every asteroid while iterating
		r.Remove(e.ID)
		r.Create(CategoryAsteroid, r2.Vec{X: 100}, r2.Vec{X: 1, Y: 1})
		return true
	})

	if visited != 3 {
		t.Errorf("visited %d asteroids, expected 3 (new entities are not visited)", visited)
	}
	if got := r.Count(CategoryAsteroid); got != 3 {
		t.Errorf("Count() = %d during pass, expected 3", got)
	}

	r.Sweep()
	if got := r.Count(CategoryAsteroid); got != 3 {
		t.Errorf("Count() = %d after Sweep, expected 3", got)
	}
	r.Each(CategoryAsteroid, func(e *Entity) bool {
		if e.Pos.X != 100 {
			t.Errorf("asteroid %d survived the sweep", e.ID)
		}
		return true
	})
}

func TestRegistryFirstAndClear(t *testing.T) {
	r := NewRegistry()
	if r.First(CategoryTarget) != nil {
		t.Error("First() on empty registry should be nil")
	}

	first := r.Create(CategoryTarget, r2.Vec{}, r2.Vec{X: 1, Y: 1})
	r.Create(CategoryTarget, r2.Vec{}, r2.Vec{X: 1, Y: 1})
	if r.First(CategoryTarget) != first {
		t.Error("First() should return the oldest entity")
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Clear, expected 0", r.Len())
	}
	if e := r.Create(CategoryTarget, r2.Vec{}, r2.Vec{X: 1, Y: 1}); e.ID != 1 {
		t.Errorf("ID after Clear = %d, expected 1", e.ID)
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat      Category
		expected string
	}{
		{CategoryRescuer, "rescuer"},
		{CategoryTarget, "target"},
		{CategoryMothership, "mothership"},
		{CategoryResource, "resource"},
		{CategoryAsteroid, "asteroid"},
		{CategoryWall, "wall"},
		{Category(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.cat.String(); got != tc.expected {
			t.Errorf("Category(%d).String() = %q, expected %q", tc.cat, got, tc.expected)
		}
	}
}
