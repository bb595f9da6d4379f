package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// ActionKind identifies what an Action does.
type ActionKind int

const (
	ActionMove ActionKind = iota // Impulse on the target entity
)

// Action is a command buffered until the next Step.
type Action struct {
	Kind   ActionKind
	Target EntityID
	Force  r2.Vec
}

// Outcome is the result of one tick.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeMistake          // Rescuer hit an asteroid or left the playfield
	OutcomeSuccess          // Resource delivered this tick
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeMistake:
		return "mistake"
	case OutcomeSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the episode.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue
}

// Enqueue buffers an action for the next Step. Actions are applied in
// enqueue order, and several moves on one entity accumulate.
func (w *World) Enqueue(a Action) {
	w.queue = append(w.queue, a)
}

// Move buffers an impulse on the target entity.
func (w *World) Move(target EntityID, force r2.Vec) {
	w.Enqueue(Action{Kind: ActionMove, Target: target, Force: force})
}

// QueueLen returns the number of buffered actions.
func (w *World) QueueLen() int {
	return len(w.queue)
}

// Step advances the world by one tick: buffered actions are applied and
// cleared, physics integrates and dispatches contacts, asteroids that left the
// field are replaced, and the tick is classified. Any delivery during the tick
// is a success, and a mistake takes precedence over it.
//
// Step panics if the world does not hold exactly one rescuer and one mothership.
func (w *World) Step() Outcome {
	rescuer := w.mustSingle(CategoryRescuer)
	w.mustSingle(CategoryMothership)

	deliveries := w.stats.Deliveries

	w.applyActions()

	w.phys.Step()
	w.sweep()

	if n := w.maintainAsteroids(); n > 0 {
		w.logger.Debug("asteroids respawned", "tick", w.tick, "count", n)
	}
	w.sweep()
	w.tick++

	mistake := w.detectMistake(rescuer)
	// A pickup and a delivery in the same step leave the rescuer empty-handed
	// as before the tick, so the counter is the only trace of the delivery.
	delivered := w.stats.Deliveries > deliveries

	switch {
	case mistake:
		return OutcomeMistake
	case delivered:
		return OutcomeSuccess
	default:
		return OutcomeContinue
	}
}

// applyActions drains the queue. Actions whose target was removed are dropped.
// A carried resource is re-anchored below its carrier as the carrier moves.
func (w *World) applyActions() {
	for _, a := range w.queue {
		e, ok := w.reg.Get(a.Target)
		if !ok {
			continue
		}

		switch a.Kind {
		case ActionMove:
			w.phys.ApplyImpulse(e, a.Force)
		}

		if e.Rescuer == nil || !e.Rescuer.CarriesResource {
			continue
		}
		if res, ok := w.reg.Get(e.Rescuer.Carried); ok && res.Resource.Stuck {
			res.Pos = r2.Vec{X: e.Pos.X, Y: e.Pos.Y - 20}
		}
	}
	w.queue = w.queue[:0]
}

// detectMistake reports whether the rescuer overlaps an asteroid or has
// crossed a border.
func (w *World) detectMistake(rescuer *Entity) bool {
	hitbox := rescuer.Hitbox()
	collided := false
	w.reg.Each(CategoryAsteroid, func(a *Entity) bool {
		if hitbox.Intersects(a.Hitbox()) {
			collided = true
			return false
		}
		return true
	})
	if collided {
		w.stats.Collisions++
		w.logger.Debug("collision", "tick", w.tick)
	}

	return collided || w.outsideField(rescuer)
}
