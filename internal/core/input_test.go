package core

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestActionImpulse(t *testing.T) {
	tests := []struct {
		action   Action
		expected r2.Vec
	}{
		{ActionLeft, r2.Vec{X: -250, Y: 0}},
		{ActionDown, r2.Vec{X: 0, Y: -250}},
		{ActionRight, r2.Vec{X: 250, Y: 0}},
		{ActionUp, r2.Vec{X: 0, Y: 250}},
		{Action(7), r2.Vec{}},
	}

	for _, tc := range tests {
		t.Run(tc.action.String(), func(t *testing.T) {
			if got := tc.action.Impulse(250); got != tc.expected {
				t.Errorf("Impulse(250) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestActionIdentifiers(t *testing.T) {
	// Identifiers are part of the environment contract.
	if ActionLeft != 0 || ActionDown != 1 || ActionRight != 2 || ActionUp != 3 {
		t.Fatal("action identifiers must be 0..3 in Left, Down, Right, Up order")
	}
	if Action(-1).Valid() || Action(NumActions).Valid() {
		t.Error("out-of-range actions should be invalid")
	}
}

func TestInputFramePreservesOrder(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Push(ActionUp)
	f.Push(ActionLeft)
	f.Push(ActionUp)

	ids := f.IDs()
	expected := []int{3, 0, 3}
	if len(ids) != len(expected) {
		t.Fatalf("IDs() length = %d, expected %d", len(ids), len(expected))
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("IDs()[%d] = %d, expected %d", i, ids[i], expected[i])
		}
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
}
