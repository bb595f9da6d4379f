package core

import "gonum.org/v1/gonum/spatial/r2"

// Action is a discrete movement command for the rescuer. The numeric values are
// the action identifiers of the environment's Step contract.
type Action int

const (
	ActionLeft  Action = iota // 0: (-F, 0)
	ActionDown                // 1: (0, -F)
	ActionRight               // 2: (F, 0)
	ActionUp                  // 3: (0, F)
)

// NumActions is the size of the discrete action space.
const NumActions = 4

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "Left"
	case ActionDown:
		return "Down"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is one of the four movement actions.
func (a Action) Valid() bool {
	return a >= ActionLeft && a <= ActionUp
}

// Impulse returns the force vector for the action scaled to magnitude.
// Unknown actions map to the zero vector.
func (a Action) Impulse(magnitude float64) r2.Vec {
	switch a {
	case ActionLeft:
		return r2.Vec{X: -magnitude}
	case ActionDown:
		return r2.Vec{Y: -magnitude}
	case ActionRight:
		return r2.Vec{X: magnitude}
	case ActionUp:
		return r2.Vec{Y: magnitude}
	default:
		return r2.Vec{}
	}
}

// InputFrame collects the actions submitted for a single simulation tick.
// Order is preserved because impulses are applied in submission order.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make([]Action, 0, 4)}
}

// Push appends an action to the frame.
func (f *InputFrame) Push(a Action) {
	f.Actions = append(f.Actions, a)
}

// Empty reports whether no action was submitted this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// IDs returns the frame as environment action identifiers.
func (f InputFrame) IDs() []int {
	ids := make([]int, len(f.Actions))
	for i, a := range f.Actions {
		ids[i] = int(a)
	}
	return ids
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}
