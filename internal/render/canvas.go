// Package render draws the rescue scene. Canvas rasterises the world with gg
// and feeds the observation image channel; Project draws a coarse character
// view of the same scene for the terminal viewer.
package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/IllumuIll/rescue-ai/internal/sim"
)

// drawOrder lists the categories painted on the canvas, back to front.
// Walls are boundary markers and are not painted.
var drawOrder = []sim.Category{
	sim.CategoryRescuer,
	sim.CategoryMothership,
	sim.CategoryTarget,
	sim.CategoryResource,
	sim.CategoryAsteroid,
}

// fills maps each painted category to its colour.
var fills = map[sim.Category]color.RGBA{
	sim.CategoryRescuer:    {R: 64, G: 160, B: 255, A: 255},
	sim.CategoryMothership: {R: 230, G: 230, B: 230, A: 255},
	sim.CategoryTarget:     {R: 80, G: 220, B: 100, A: 255},
	sim.CategoryResource:   {R: 240, G: 200, B: 60, A: 255},
	sim.CategoryAsteroid:   {R: 150, G: 110, B: 80, A: 255},
}

// Canvas is an off-screen raster of the playfield with the y axis up.
// It reuses one gg context across frames.
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
}

// NewCanvas creates a canvas of the given pixel size.
func NewCanvas(width, height int) *Canvas {
	dc := gg.NewContext(width, height)
	dc.InvertY()
	return &Canvas{dc: dc, width: width, height: height}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Frame paints the world and returns the raster. Row 0 of the image is the
// top of the playfield. The image is overwritten by the next call.
func (c *Canvas) Frame(w *sim.World) image.Image {
	c.dc.SetRGB(0, 0, 0)
	c.dc.Clear()

	reg := w.Registry()
	for _, cat := range drawOrder {
		fill := fills[cat]
		c.dc.SetColor(fill)
		reg.Each(cat, func(e *sim.Entity) bool {
			b := e.Bounds()
			c.dc.DrawRectangle(b.Left, b.Bottom, b.Right-b.Left, b.Top-b.Bottom)
			c.dc.Fill()
			return true
		})
	}
	return c.dc.Image()
}

// SavePNG paints the world and writes the frame to path.
func (c *Canvas) SavePNG(w *sim.World, path string) error {
	c.Frame(w)
	return c.dc.SavePNG(path)
}
