package sim

// Handler reacts to contact between two entities. Entities are passed in the
// category order the handler was registered with. Handlers may create and
// remove entities but must not iterate the registry.
type Handler func(w *World, a, b *Entity)

type categoryPair struct {
	lo, hi Category
}

func makeCategoryPair(a, b Category) categoryPair {
	if b < a {
		a, b = b, a
	}
	return categoryPair{lo: a, hi: b}
}

type handlerEntry struct {
	first Category
	fn    Handler
}

// Dispatcher maps unordered category pairs to contact handlers and to
// suppressed pairs whose contacts get no physical response.
type Dispatcher struct {
	handlers   map[categoryPair]handlerEntry
	suppressed map[categoryPair]bool
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers:   make(map[categoryPair]handlerEntry),
		suppressed: make(map[categoryPair]bool),
	}
}

// DefaultDispatcher returns the rescue rules: asteroids pass through walls,
// the rescuer picks up the target and delivers to the mothership.
func DefaultDispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Suppress(CategoryWall, CategoryAsteroid)
	d.Handle(CategoryRescuer, CategoryTarget, handlePickup)
	d.Handle(CategoryRescuer, CategoryMothership, handleDelivery)
	return d
}

// Handle registers fn for contacts between categories a and b.
// A later registration for the same pair replaces the earlier one.
func (d *Dispatcher) Handle(a, b Category, fn Handler) {
	d.handlers[makeCategoryPair(a, b)] = handlerEntry{first: a, fn: fn}
}

// Suppress disables the physical response between categories a and b.
func (d *Dispatcher) Suppress(a, b Category) {
	d.suppressed[makeCategoryPair(a, b)] = true
}

// Suppressed reports whether contacts between a and b are ignored by the solver.
func (d *Dispatcher) Suppressed(a, b Category) bool {
	return d.suppressed[makeCategoryPair(a, b)]
}

// Dispatch invokes the handler registered for the categories of x and y.
// It reports whether a handler ran.
func (d *Dispatcher) Dispatch(w *World, x, y *Entity) bool {
	h, ok := d.handlers[makeCategoryPair(x.Category, y.Category)]
	if !ok {
		return false
	}
	if x.Category != h.first {
		x, y = y, x
	}
	h.fn(w, x, y)
	return true
}

// handlePickup replaces the target with a resource stuck to the rescuer.
func handlePickup(w *World, rescuer, target *Entity) {
	if rescuer.Rescuer.CarriesResource {
		return
	}

	w.stats.Pickups++
	w.logger.Debug("collecting resource", "tick", w.tick, "x", rescuer.Pos.X, "y", rescuer.Pos.Y)

	w.reg.Remove(target.ID)

	pos := rescuer.Pos
	pos.X -= 10
	pos.Y -= 10
	resource := w.reg.Create(CategoryResource, pos, w.squareSize(w.cfg.Bodies.Resource.Size))
	resource.Resource.Stuck = true
	resource.Resource.Carrier = rescuer.ID

	rescuer.Rescuer.CarriesResource = true
	rescuer.Rescuer.Carried = resource.ID
}

// handleDelivery removes the carried resource at the mothership.
func handleDelivery(w *World, rescuer, _ *Entity) {
	if !rescuer.Rescuer.CarriesResource {
		return
	}

	w.stats.Deliveries++
	w.logger.Debug("delivering resource", "tick", w.tick)

	w.reg.Remove(rescuer.Rescuer.Carried)
	rescuer.Rescuer.CarriesResource = false
	rescuer.Rescuer.Carried = 0
}
