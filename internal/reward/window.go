// Package reward computes the shaped reward: two smoothed differential
// signals, one for progress towards the goal and one for keeping clear of
// asteroids.
package reward

import "gonum.org/v1/gonum/floats"

// Window is a bounded FIFO of progress values.
type Window struct {
	values   []float64
	capacity int
}

// NewWindow creates an empty window holding at most capacity values.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Smooth pushes progress, evicting the oldest value when full, and returns
// 0.5*progress + 0.5*sum/n. The divisor n is the window length before the
// push, or 1 when the window was empty.
func (w *Window) Smooth(progress float64) float64 {
	n := len(w.values)
	if n == 0 {
		n = 1
	}
	if len(w.values) >= w.capacity {
		copy(w.values, w.values[1:])
		w.values = w.values[:len(w.values)-1]
	}
	w.values = append(w.values, progress)

	return 0.5*progress + 0.5*floats.Sum(w.values)/float64(n)
}

// Len returns the number of stored values.
func (w *Window) Len() int {
	return len(w.values)
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return w.capacity
}

// Values returns a copy of the stored values, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}

// Clear empties the window.
func (w *Window) Clear() {
	w.values = w.values[:0]
}
