package sim

import "gonum.org/v1/gonum/spatial/r2"

// Registry owns every entity of a World. Removal is two-phase: Remove marks an
// entity as pending and hides it from lookups and iteration, and Sweep purges
// pending entities once the pass that removed them has finished.
type Registry struct {
	nextID  EntityID
	order   []*Entity // Creation order; iteration is deterministic
	byID    map[EntityID]*Entity
	pending []EntityID
	removed map[EntityID]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Clear()
	return r
}

// Clear drops every entity and restarts ID allocation.
func (r *Registry) Clear() {
	r.nextID = 1
	r.order = r.order[:0]
	r.byID = make(map[EntityID]*Entity)
	r.pending = r.pending[:0]
	r.removed = make(map[EntityID]bool)
}

// Create adds a new entity of the given category.
func (r *Registry) Create(cat Category, pos, size r2.Vec) *Entity {
	e := &Entity{
		ID:       r.nextID,
		Category: cat,
		Pos:      pos,
		Size:     size,
		Scale:    1,
	}
	r.nextID++

	switch cat {
	case CategoryRescuer:
		e.Rescuer = &RescuerState{}
	case CategoryResource:
		e.Resource = &ResourceState{}
	}

	r.order = append(r.order, e)
	r.byID[e.ID] = e
	return e
}

// Get returns the live entity with the given ID.
// Entities pending removal are reported as absent.
func (r *Registry) Get(id EntityID) (*Entity, bool) {
	e, ok := r.byID[id]
	if !ok || r.removed[id] {
		return nil, false
	}
	return e, true
}

// Remove marks an entity for removal at the next Sweep.
// Removing an unknown or already removed entity is a no-op.
func (r *Registry) Remove(id EntityID) {
	if _, ok := r.byID[id]; !ok || r.removed[id] {
		return
	}
	r.removed[id] = true
	r.pending = append(r.pending, id)
}

// Pending returns the number of entities waiting for a Sweep.
func (r *Registry) Pending() int {
	return len(r.pending)
}

// Sweep purges pending entities and returns them in removal order so the
// caller can release their physics bodies.
func (r *Registry) Sweep() []*Entity {
	if len(r.pending) == 0 {
		return nil
	}

	swept := make([]*Entity, 0, len(r.pending))
	for _, id := range r.pending {
		swept = append(swept, r.byID[id])
		delete(r.byID, id)
	}

	kept := r.order[:0]
	for _, e := range r.order {
		if !r.removed[e.ID] {
			kept = append(kept, e)
		}
	}
	// Release references held by the tail of the backing array
	for i := len(kept); i < len(r.order); i++ {
		r.order[i] = nil
	}
	r.order = kept

	r.pending = r.pending[:0]
	r.removed = make(map[EntityID]bool)
	return swept
}

// Each calls fn for every live entity of the category in creation order until
// fn returns false. Entities created during the pass are not visited.
func (r *Registry) Each(cat Category, fn func(e *Entity) bool) {
	n := len(r.order)
	for i := 0; i < n; i++ {
		e := r.order[i]
		if e.Category != cat || r.removed[e.ID] {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// All returns the live entities in creation order.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, e := range r.order {
		if !r.removed[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of live entities of the category.
func (r *Registry) Count(cat Category) int {
	n := 0
	r.Each(cat, func(*Entity) bool {
		n++
		return true
	})
	return n
}

// First returns the oldest live entity of the category, or nil.
func (r *Registry) First(cat Category) *Entity {
	var found *Entity
	r.Each(cat, func(e *Entity) bool {
		found = e
		return false
	})
	return found
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.byID) - len(r.pending)
}
