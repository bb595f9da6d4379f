// Package core provides fundamental types and utilities shared by the simulation,
// the environment wrapper and the terminal viewer. It has no dependency on the
// physics engine or on Bubble Tea to keep geometry pure and testable.
package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect represents an integer cell rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Bounds is an axis-aligned bounding box in world space (y axis points up).
type Bounds struct {
	Left, Right float64
	Bottom, Top float64
}

// BoundsAround returns the box of the given size centred on c.
func BoundsAround(c r2.Vec, size r2.Vec) Bounds {
	hw, hh := size.X/2, size.Y/2
	return Bounds{
		Left:   c.X - hw,
		Right:  c.X + hw,
		Bottom: c.Y - hh,
		Top:    c.Y + hh,
	}
}

// OutsideField reports whether any edge of b lies beyond the playfield
// [0, width] x [0, height].
func (b Bounds) OutsideField(width, height float64) bool {
	return b.Left < 0 || b.Right > width || b.Bottom < 0 || b.Top > height
}

// Polygon is a convex hitbox given by its vertices in counter-clockwise order.
type Polygon []r2.Vec

// BoxPolygon returns the rectangular hitbox of the given size centred on c.
func BoxPolygon(c r2.Vec, size r2.Vec) Polygon {
	b := BoundsAround(c, size)
	return Polygon{
		{X: b.Left, Y: b.Bottom},
		{X: b.Right, Y: b.Bottom},
		{X: b.Right, Y: b.Top},
		{X: b.Left, Y: b.Top},
	}
}

// Intersects reports whether two convex polygons overlap using the separating
// axis test. Touching edges count as an overlap.
func (p Polygon) Intersects(other Polygon) bool {
	if len(p) == 0 || len(other) == 0 {
		return false
	}
	for _, poly := range [2]Polygon{p, other} {
		for i := range poly {
			edge := r2.Sub(poly[(i+1)%len(poly)], poly[i])
			axis := r2.Vec{X: -edge.Y, Y: edge.X}

			minA, maxA := project(p, axis)
			minB, maxB := project(other, axis)
			if maxA < minB || maxB < minA {
				return false
			}
		}
	}
	return true
}

// project returns the interval covered by poly along axis.
func project(poly Polygon, axis r2.Vec) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range poly {
		d := r2.Dot(v, axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// MinVertexDistance returns the smallest distance between any vertex of a and
// any vertex of b. It is a brute-force O(n*m) search over vertex pairs, not a
// true closest-point query, and is symmetric in its arguments.
func MinVertexDistance(a, b Polygon) float64 {
	best := math.Inf(1)
	for _, pa := range a {
		for _, pb := range b {
			if d := r2.Norm(r2.Sub(pa, pb)); d < best {
				best = d
			}
		}
	}
	return best
}

// Distance returns the Euclidean distance between (x1, y1) and (x2, y2).
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
