package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/IllumuIll/rescue-ai/internal/config"
)

// Stats counts gameplay events over the lifetime of a World.
type Stats struct {
	Pickups    int
	Deliveries int
	Collisions int // Ticks on which the rescuer overlapped an asteroid
	Respawns   int // Asteroids retired at the border and replaced
}

// Sub returns the events counted since an earlier snapshot.
func (s Stats) Sub(earlier Stats) Stats {
	return Stats{
		Pickups:    s.Pickups - earlier.Pickups,
		Deliveries: s.Deliveries - earlier.Deliveries,
		Collisions: s.Collisions - earlier.Collisions,
		Respawns:   s.Respawns - earlier.Respawns,
	}
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for gameplay events.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDispatcher replaces the default collision rules.
func WithDispatcher(d *Dispatcher) Option {
	return func(w *World) {
		if d != nil {
			w.dispatch = d
		}
	}
}

// World is the simulation context. Every operation on the scene goes through it.
type World struct {
	cfg      config.RescueConfig
	logger   *log.Logger
	dispatch *Dispatcher

	rng   *rand.Rand
	seed  int64
	reg   *Registry
	phys  *Physics
	queue []Action
	stats Stats
	start Stats // counters at the last Reset
	tick  int
}

// NewWorld creates an empty world. Reset must be called before Step.
func NewWorld(cfg config.RescueConfig, opts ...Option) *World {
	w := &World{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		dispatch: DefaultDispatcher(),
		rng:      rand.New(rand.NewSource(0)),
		reg:      NewRegistry(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reset discards the scene and seeds a new episode: one rescuer, one
// mothership, one target, the configured asteroids and the border walls.
// The same seed always produces the same episode.
func (w *World) Reset(seed int64) {
	w.seed = seed
	w.rng = rand.New(rand.NewSource(seed))
	w.reg.Clear()
	w.queue = w.queue[:0]
	w.tick = 0
	w.start = w.stats

	w.phys = NewPhysics(
		w.cfg.Physics.PixelsPerMeter,
		1/float64(w.cfg.World.TickRate),
		w.cfg.Physics.VelocityIterations,
		w.cfg.Physics.PositionIterations,
	)
	w.phys.SetContactHandlers(w.suppressContact, w.handleContact)

	height := int(w.cfg.World.Height)
	rm := w.cfg.Spawn.RescuerMargin
	// Both rescuer coordinates are drawn against the height
	rescuerPos := r2.Vec{
		X: float64(w.randInt(rm, height-rm)),
		Y: float64(w.randInt(rm, height-rm)),
	}
	mothershipPos, targetPos := w.siteCoords()

	rescuer := w.reg.Create(CategoryRescuer, rescuerPos, w.squareSize(w.cfg.Bodies.Rescuer.Size))
	w.phys.AddBody(rescuer, w.bodySpec(w.cfg.Bodies.Rescuer, BodyDynamic))

	mothership := w.reg.Create(CategoryMothership, mothershipPos, w.squareSize(w.cfg.Bodies.Mothership.Size))
	w.phys.AddBody(mothership, w.bodySpec(w.cfg.Bodies.Mothership, BodyStatic))

	target := w.reg.Create(CategoryTarget, targetPos, w.squareSize(w.cfg.Bodies.Target.Size))
	w.phys.AddBody(target, w.bodySpec(w.cfg.Bodies.Target, BodyDynamic))

	asteroids := make([]*Entity, 0, w.cfg.Asteroids.Count)
	for i := 0; i < w.cfg.Asteroids.Count; i++ {
		asteroids = append(asteroids, w.spawnAsteroid(w.borderPoint(), w.randScale()))
	}
	for _, a := range asteroids {
		w.phys.ApplyForce(a, w.inwardForce(a.Pos))
	}

	w.placeWalls()

	w.mustSingle(CategoryRescuer)
	w.mustSingle(CategoryMothership)

	w.logger.Debug("episode seeded", "seed", seed, "entities", w.reg.Len())
}

// siteCoords draws mothership and target positions, retrying until they are
// far enough apart. The last draw is kept when every attempt fails.
func (w *World) siteCoords() (mothership, target r2.Vec) {
	height := int(w.cfg.World.Height)
	sm := w.cfg.Spawn.SiteMargin
	attempts := max(w.cfg.Spawn.SiteAttempts, 1)

	for i := 0; i < attempts; i++ {
		mothership = r2.Vec{X: float64(w.randInt(sm, height-sm)), Y: float64(w.randInt(sm, height-sm))}
		target = r2.Vec{X: float64(w.randInt(sm, height-sm)), Y: float64(w.randInt(sm, height-sm))}
		if r2.Norm(r2.Sub(target, mothership)) > w.cfg.Spawn.MinSiteDistance {
			break
		}
	}
	return mothership, target
}

// placeWalls lines the four borders with static wall tiles.
func (w *World) placeWalls() {
	width, height := int(w.cfg.World.Width), int(w.cfg.World.Height)
	step := max(int(w.cfg.Bodies.Wall.Size), 1)
	size := w.squareSize(w.cfg.Bodies.Wall.Size)
	spec := w.bodySpec(w.cfg.Bodies.Wall, BodyStatic)

	add := func(x, y int) {
		wall := w.reg.Create(CategoryWall, r2.Vec{X: float64(x), Y: float64(y)}, size)
		w.phys.AddBody(wall, spec)
	}
	for x := 0; x <= width; x += step {
		add(x, 0)
		add(x, height)
	}
	for y := step; y < height; y += step {
		add(0, y)
		add(width, y)
	}
}

func (w *World) bodySpec(b config.BodyConfig, kind BodyKind) BodySpec {
	spec := BodySpec{
		Kind:     kind,
		Friction: b.Friction,
		Damping:  b.Damping,
	}
	if kind == BodyDynamic {
		spec.MaxSpeed = w.cfg.Physics.MaxSpeed
	}
	return spec
}

func (w *World) squareSize(s float64) r2.Vec {
	return r2.Vec{X: s, Y: s}
}

// randInt returns a uniform integer in [lo, hi].
func (w *World) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + w.rng.Intn(hi-lo+1)
}

func (w *World) suppressContact(a, b *Entity) bool {
	return w.dispatch.Suppressed(a.Category, b.Category)
}

func (w *World) handleContact(a, b *Entity) {
	// An earlier handler in the same step may have removed one side
	if _, ok := w.reg.Get(a.ID); !ok {
		return
	}
	if _, ok := w.reg.Get(b.ID); !ok {
		return
	}
	w.dispatch.Dispatch(w, a, b)
}

// sweep purges removed entities and releases their bodies.
func (w *World) sweep() {
	for _, e := range w.reg.Sweep() {
		w.phys.RemoveBody(e)
	}
}

// mustSingle returns the only live entity of the category and panics when
// there is not exactly one.
func (w *World) mustSingle(cat Category) *Entity {
	if n := w.reg.Count(cat); n != 1 {
		panic(fmt.Sprintf("sim: expected exactly one %s, found %d", cat, n))
	}
	return w.reg.First(cat)
}

// Config returns the scene configuration.
func (w *World) Config() config.RescueConfig {
	return w.cfg
}

// Registry returns the entity registry.
func (w *World) Registry() *Registry {
	return w.reg
}

// Physics returns the physics layer of the current episode, or nil before Reset.
func (w *World) Physics() *Physics {
	return w.phys
}

// Rescuer returns the agent. It panics if the world is not seeded.
func (w *World) Rescuer() *Entity {
	return w.mustSingle(CategoryRescuer)
}

// Mothership returns the delivery site. It panics if the world is not seeded.
func (w *World) Mothership() *Entity {
	return w.mustSingle(CategoryMothership)
}

// Target returns the target, or nil once it has been picked up.
func (w *World) Target() *Entity {
	return w.reg.First(CategoryTarget)
}

// Goal returns the mothership while the rescuer carries the resource and the
// target otherwise. After a delivery there is no target and the mothership
// is returned.
func (w *World) Goal() *Entity {
	if w.Rescuer().Rescuer.CarriesResource {
		return w.Mothership()
	}
	if t := w.Target(); t != nil {
		return t
	}
	return w.Mothership()
}

// Asteroids returns the live asteroids in creation order.
func (w *World) Asteroids() []*Entity {
	out := make([]*Entity, 0, w.cfg.Asteroids.Count)
	w.reg.Each(CategoryAsteroid, func(e *Entity) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Stats returns the event counters accumulated since the world was created.
func (w *World) Stats() Stats {
	return w.stats
}

// Ticks returns the number of steps taken since the last Reset.
func (w *World) Ticks() int {
	return w.tick
}

// Seed returns the seed of the current episode.
func (w *World) Seed() int64 {
	return w.seed
}

// CheckInvariants verifies the population and carry invariants.
func (w *World) CheckInvariants() error {
	var errs []error

	for _, cat := range []Category{CategoryRescuer, CategoryMothership} {
		if n := w.reg.Count(cat); n != 1 {
			errs = append(errs, fmt.Errorf("%s count = %d, want 1", cat, n))
		}
	}
	if n := w.reg.Count(CategoryAsteroid); n != w.cfg.Asteroids.Count {
		errs = append(errs, fmt.Errorf("asteroid count = %d, want %d", n, w.cfg.Asteroids.Count))
	}

	resources := w.reg.Count(CategoryResource)
	targets := w.reg.Count(CategoryTarget)
	if rescuer := w.reg.First(CategoryRescuer); rescuer != nil {
		if rescuer.Rescuer.CarriesResource {
			if resources != 1 || targets != 0 {
				errs = append(errs, fmt.Errorf("carrying with %d resources and %d targets", resources, targets))
			}
			if _, ok := w.reg.Get(rescuer.Rescuer.Carried); !ok {
				errs = append(errs, errors.New("carried resource is not live"))
			}
		} else {
			// The target exists until it is picked up. Once delivered it is gone for good.
			wantTargets := 1
			if w.stats.Deliveries > w.start.Deliveries {
				wantTargets = 0
			}
			if resources != 0 || targets != wantTargets {
				errs = append(errs, fmt.Errorf("not carrying with %d resources and %d targets, want 0 and %d",
					resources, targets, wantTargets))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("sim: invariant violated: %w", err)
	}
	return nil
}

// outsideField reports whether e has crossed any edge of the playfield.
func (w *World) outsideField(e *Entity) bool {
	return e.Bounds().OutsideField(w.cfg.World.Width, w.cfg.World.Height)
}

