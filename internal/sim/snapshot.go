package sim

import "math"

// Snapshot is a flat, read-only copy of the world state used to compare runs.
// Uses primitive types only so two snapshots can be compared field by field.
type Snapshot struct {
	Tick            int
	Seed            int64
	CarriesResource bool
	Stats           Stats

	// Each entity is 7 values: Category, X, Y, VX, VY, W, H
	EntityCount int
	EntityData  []float64
}

// Snapshot returns the current world state as a Snapshot.
func (w *World) Snapshot() Snapshot {
	entities := w.reg.All()
	data := make([]float64, 0, len(entities)*7)
	for _, e := range entities {
		data = append(data,
			float64(e.Category),
			e.Pos.X, e.Pos.Y,
			e.Vel.X, e.Vel.Y,
			e.Size.X, e.Size.Y,
		)
	}

	snap := Snapshot{
		Tick:        w.tick,
		Seed:        w.seed,
		Stats:       w.stats,
		EntityCount: len(entities),
		EntityData:  data,
	}
	if r := w.reg.First(CategoryRescuer); r != nil {
		snap.CarriesResource = r.Rescuer.CarriesResource
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Tick)              //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Seed)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EntityCount) //#nosec G115 -- hash computation
	if snap.CarriesResource {
		h = h*31 + 1
	}
	h = h*31 + uint64(snap.Stats.Pickups)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Stats.Deliveries) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Stats.Collisions) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Stats.Respawns)   //#nosec G115 -- hash computation

	for _, v := range snap.EntityData {
		h = h*31 + math.Float64bits(v)
	}
	return h
}
