package render

import (
	"math"

	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/sim"
)

// glyph is the character-cell appearance of a category.
type glyph struct {
	r rune
	c core.Color
}

// glyphs is drawn back to front so the rescuer is always visible.
var glyphs = []struct {
	cat sim.Category
	g   glyph
}{
	{sim.CategoryWall, glyph{'▒', core.ColorGray}},
	{sim.CategoryAsteroid, glyph{'●', core.ColorOrange}},
	{sim.CategoryMothership, glyph{'■', core.ColorMagenta}},
	{sim.CategoryTarget, glyph{'♦', core.ColorGreen}},
	{sim.CategoryResource, glyph{'♦', core.ColorYellow}},
	{sim.CategoryRescuer, glyph{'█', core.ColorCyan}},
}

// Project draws the playfield scaled to fill dst. Entities outside the
// playfield are clipped by the screen.
func Project(dst *core.Screen, w *sim.World) {
	cfg := w.Config().World
	sx := float64(dst.Width()) / cfg.Width
	sy := float64(dst.Height()) / cfg.Height

	reg := w.Registry()
	for _, entry := range glyphs {
		g := entry.g
		reg.Each(entry.cat, func(e *sim.Entity) bool {
			dst.DrawRect(cellRect(e.Bounds(), cfg.Height, sx, sy), g.r, g.c)
			return true
		})
	}
}

// cellRect maps world bounds to a screen rectangle of at least one cell.
func cellRect(b core.Bounds, height, sx, sy float64) core.Rect {
	x0 := int(math.Floor(b.Left * sx))
	x1 := int(math.Ceil(b.Right * sx))
	y0 := int(math.Floor((height - b.Top) * sy))
	y1 := int(math.Ceil((height - b.Bottom) * sy))
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// Overlay draws lines inside a box centered on dst, shrinking the box to fit
// small screens.
func Overlay(dst *core.Screen, lines ...string) {
	if len(lines) == 0 {
		return
	}
	inner := 0
	for _, l := range lines {
		inner = max(inner, len([]rune(l)))
	}

	w := core.Clamp(inner+4, 2, dst.Width())
	h := core.Clamp(len(lines)+2, 2, dst.Height())
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		if i >= h-2 {
			break
		}
		x := box.X + (w-len([]rune(l)))/2
		dst.DrawText(max(x, box.X+1), box.Y+1+i, l)
	}
}
