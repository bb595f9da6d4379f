// Package observe builds the observation handed to a policy: the goal and
// rescuer coordinates plus a grayscale patch of the scene around the rescuer.
package observe

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/sim"
)

// Observation is the per-tick view of the world.
type Observation struct {
	// Numeric is [goal.x, goal.y, rescuer.x, rescuer.y], every component
	// divided by the playfield width.
	Numeric [4]float64
	// Image is a Size x Size grayscale patch centred on the rescuer with
	// intensities in [0, 1]. Row 0 is the top of the patch.
	Image *mat.Dense
}

// Renderer produces the full scene raster. Row 0 of the image must be the
// top of the playfield.
type Renderer interface {
	Frame(w *sim.World) image.Image
}

// Builder projects a World into an Observation.
type Builder struct {
	width    float64
	height   float64
	patch    int
	renderer Renderer
}

// NewBuilder creates a builder. A nil renderer yields an all-zero image.
func NewBuilder(cfg config.RescueConfig, r Renderer) *Builder {
	return &Builder{
		width:    cfg.World.Width,
		height:   cfg.World.Height,
		patch:    cfg.Observation.PatchSize,
		renderer: r,
	}
}

// Build returns the observation for the current world state.
func (b *Builder) Build(w *sim.World) *Observation {
	obs := &Observation{
		Numeric: b.Numeric(w),
		Image:   mat.NewDense(b.patch, b.patch, nil),
	}
	if b.renderer != nil {
		b.crop(obs.Image, b.renderer.Frame(w), w.Rescuer().Pos.X, w.Rescuer().Pos.Y)
	}
	return obs
}

// Numeric returns the goal and rescuer coordinates. Both axes are divided by
// the width, including y.
func (b *Builder) Numeric(w *sim.World) [4]float64 {
	goal, rescuer := w.Goal(), w.Rescuer()
	return [4]float64{
		goal.Pos.X / b.width,
		goal.Pos.Y / b.width,
		rescuer.Pos.X / b.width,
		rescuer.Pos.Y / b.width,
	}
}

// crop copies the patch whose lower-left world corner is (cx-P/2, cy-P/2)
// into dst. Pixels outside the frame read as black.
func (b *Builder) crop(dst *mat.Dense, frame image.Image, cx, cy float64) {
	half := float64(b.patch) / 2
	x0 := int(math.Floor(cx - half))
	y0 := int(math.Floor(cy - half))
	bounds := frame.Bounds()
	frameH := bounds.Dy()

	// World row y0+P-1 is the top of the patch
	top := frameH - y0 - b.patch

	for i := 0; i < b.patch; i++ {
		sy := bounds.Min.Y + top + i
		for j := 0; j < b.patch; j++ {
			sx := bounds.Min.X + x0 + j
			if !(image.Point{X: sx, Y: sy}).In(bounds) {
				continue
			}
			g := color.GrayModel.Convert(frame.At(sx, sy)).(color.Gray)
			dst.Set(i, j, float64(g.Y)/255)
		}
	}
}
