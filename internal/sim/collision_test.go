package sim

import (
	"testing"

	"github.com/IllumuIll/rescue-ai/internal/config"
)

func TestDispatcherOrdersArguments(t *testing.T) {
	d := NewDispatcher()
	var gotA, gotB Category
	d.Handle(CategoryRescuer, CategoryTarget, func(w *World, a, b *Entity) {
		gotA, gotB = a.Category, b.Category
	})

	rescuer := &Entity{Category: CategoryRescuer}
	target := &Entity{Category: CategoryTarget}

	if !d.Dispatch(nil, target, rescuer) {
		t.Fatal("Dispatch() should find the rescuer/target handler")
	}
	if gotA != CategoryRescuer || gotB != CategoryTarget {
		t.Errorf("handler got (%s, %s), expected (rescuer, target)", gotA, gotB)
	}

	if d.Dispatch(nil, rescuer, &Entity{Category: CategoryWall}) {
		t.Error("Dispatch() should report false for an unregistered pair")
	}
}

func TestDefaultDispatcherTable(t *testing.T) {
	d := DefaultDispatcher()

	tests := []struct {
		a, b       Category
		suppressed bool
	}{
		{CategoryWall, CategoryAsteroid, true},
		{CategoryAsteroid, CategoryWall, true},
		{CategoryRescuer, CategoryWall, false},
		{CategoryRescuer, CategoryAsteroid, false},
		{CategoryAsteroid, CategoryAsteroid, false},
	}
	for _, tc := range tests {
		if got := d.Suppressed(tc.a, tc.b); got != tc.suppressed {
			t.Errorf("Suppressed(%s, %s) = %v, expected %v", tc.a, tc.b, got, tc.suppressed)
		}
	}
}

func TestPickupIsIdempotent(t *testing.T) {
	w := NewWorld(quietConfig())
	w.Reset(11)
	rescuer, target, _ := arrange(w)

	handlePickup(w, rescuer, target)
	carried := rescuer.Rescuer.Carried
	snap := w.Snapshot()

	// A second contact while carrying changes nothing
	handlePickup(w, rescuer, target)

	after := w.Snapshot()
	if snap.Hash() != after.Hash() {
		t.Error("pickup while carrying should be a no-op")
	}
	if rescuer.Rescuer.Carried != carried {
		t.Error("carried reference should not change")
	}
	if w.Stats().Pickups != 1 {
		t.Errorf("Pickups = %d, expected 1", w.Stats().Pickups)
	}
	if err := w.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() after pickup: %v", err)
	}
}

func TestDeliveryWithoutCargoIsNoop(t *testing.T) {
	w := NewWorld(quietConfig())
	w.Reset(12)
	rescuer, _, mothership := arrange(w)

	before := w.Snapshot()
	for i := 0; i < 2; i++ {
		w.dispatch.Dispatch(w, mothership, rescuer)
	}
	after := w.Snapshot()

	if before.Hash() != after.Hash() {
		t.Error("delivery without cargo should not change the world")
	}
	if w.Stats().Deliveries != 0 {
		t.Errorf("Deliveries = %d, expected 0", w.Stats().Deliveries)
	}
	if w.Registry().Pending() != 0 {
		t.Error("delivery without cargo should not remove anything")
	}
}

func TestDeliveryRemovesResource(t *testing.T) {
	w := NewWorld(quietConfig())
	w.Reset(13)
	rescuer, target, mothership := arrange(w)

	handlePickup(w, rescuer, target)
	w.sweep()
	resourceID := rescuer.Rescuer.Carried

	w.dispatch.Dispatch(w, rescuer, mothership)
	w.sweep()

	if rescuer.Rescuer.CarriesResource {
		t.Error("rescuer should no longer carry")
	}
	if _, ok := w.Registry().Get(resourceID); ok {
		t.Error("resource should be removed on delivery")
	}
	if w.Target() != nil {
		t.Error("no target is recreated after delivery")
	}
	if err := w.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() after delivery: %v", err)
	}
}

func TestHandlersRespectCustomTable(t *testing.T) {
	d := NewDispatcher()
	d.Suppress(CategoryRescuer, CategoryTarget)

	w := NewWorld(quietConfig(), WithDispatcher(d))
	w.Reset(14)
	rescuer, target, _ := arrange(w)
	w.Physics().Teleport(target, rescuer.Pos)

	for i := 0; i < 5; i++ {
		w.Step()
	}
	if rescuer.Rescuer.CarriesResource {
		t.Error("without a pickup handler the target should never be collected")
	}
	if w.Target() == nil {
		t.Error("target should still exist")
	}
}

func TestNewWorldDefaults(t *testing.T) {
	w := NewWorld(config.DefaultRescueConfig(), WithLogger(nil), WithDispatcher(nil))
	if w.logger == nil || w.dispatch == nil {
		t.Error("nil options should keep the defaults")
	}
}
