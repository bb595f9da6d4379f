package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Border edges for asteroid spawns. The names follow screen convention, so in
// y-up space "top" sits near y = 0.
const (
	edgeTop = iota
	edgeBottom
	edgeLeft
	edgeRight
)

// spawnAsteroid creates an asteroid body at pos scaled by the given multiplier.
func (w *World) spawnAsteroid(pos r2.Vec, scale int) *Entity {
	size := w.cfg.Bodies.Asteroid.Size * float64(scale)
	a := w.reg.Create(CategoryAsteroid, pos, w.squareSize(size))
	a.Scale = scale
	w.phys.AddBody(a, w.bodySpec(w.cfg.Bodies.Asteroid, BodyDynamic))
	return a
}

// borderPoint picks a random edge and a point on it, offset from the edge by
// a random margin.
func (w *World) borderPoint() r2.Vec {
	width, height := int(w.cfg.World.Width), int(w.cfg.World.Height)
	edge := w.rng.Intn(4)
	margin := w.randInt(w.cfg.Asteroids.MarginMin, w.cfg.Asteroids.MarginMax)

	var x, y int
	switch edge {
	case edgeTop:
		x, y = w.randInt(margin, width), margin
	case edgeBottom:
		x, y = w.randInt(margin, width), height-margin
	case edgeLeft:
		x, y = margin, w.randInt(margin, height)
	case edgeRight:
		x, y = width-margin, w.randInt(margin, height)
	}
	return r2.Vec{X: float64(x), Y: float64(y)}
}

// inwardForce returns a random push towards the centre of the playfield on
// both axes.
func (w *World) inwardForce(pos r2.Vec) r2.Vec {
	lo, hi := w.cfg.Asteroids.ForceMin, w.cfg.Asteroids.ForceMax
	fx := float64(w.randInt(lo, hi))
	if pos.X >= w.cfg.World.Width/2 {
		fx = -fx
	}
	fy := float64(w.randInt(lo, hi))
	if pos.Y >= w.cfg.World.Height/2 {
		fy = -fy
	}
	return r2.Vec{X: fx, Y: fy}
}

func (w *World) randScale() int {
	scales := w.cfg.Asteroids.Scales
	if len(scales) == 0 {
		return 1
	}
	return scales[w.rng.Intn(len(scales))]
}

// maintainAsteroids retires every asteroid that crossed a border and spawns a
// replacement with an inward impulse, keeping the population constant.
// Replacements are not checked until the next tick. It returns the number of
// asteroids replaced.
func (w *World) maintainAsteroids() int {
	replaced := 0
	w.reg.Each(CategoryAsteroid, func(a *Entity) bool {
		if !w.outsideField(a) {
			return true
		}
		w.reg.Remove(a.ID)

		pos := w.borderPoint()
		fresh := w.spawnAsteroid(pos, w.randScale())
		w.phys.ApplyImpulse(fresh, w.inwardForce(pos))
		replaced++
		return true
	})

	w.stats.Respawns += replaced
	return replaced
}
