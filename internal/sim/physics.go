package sim

import (
	"math"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"
)

// BodySpec describes how an entity is registered with the physics engine.
type BodySpec struct {
	Kind     BodyKind
	Friction float64
	Damping  float64 // Fraction of velocity kept per second; 1 disables decay
	MaxSpeed float64 // Pixels per second; 0 disables clamping
}

// Physics wraps a box2d world. Entities live in pixel space with the y axis up,
// box2d works in meters, and every dynamic body has unit mass so an impulse of
// J pixel units changes velocity by J pixels per second.
type Physics struct {
	world    box2d.B2World
	scale    float64 // Pixels per meter
	dt       float64
	velIters int
	posIters int

	bodies []*physicsBody

	suppress  func(a, b *Entity) bool
	onContact func(a, b *Entity)
	contacts  []contactPair
	seen      map[contactPair]bool
}

type physicsBody struct {
	entity   *Entity
	damping  float64
	maxSpeed float64
}

type contactPair struct {
	a, b EntityID
}

func makeContactPair(a, b EntityID) contactPair {
	if b < a {
		a, b = b, a
	}
	return contactPair{a: a, b: b}
}

// NewPhysics creates a zero-gravity world stepped at a fixed dt.
func NewPhysics(pixelsPerMeter, dt float64, velIters, posIters int) *Physics {
	p := &Physics{
		world:    box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		scale:    pixelsPerMeter,
		dt:       dt,
		velIters: velIters,
		posIters: posIters,
		seen:     make(map[contactPair]bool),
	}
	p.world.SetContactListener(&contactBridge{p: p})
	return p
}

// SetContactHandlers installs the contact filter consulted before solving and
// the callback invoked once per touching pair after each step.
func (p *Physics) SetContactHandlers(suppress func(a, b *Entity) bool, onContact func(a, b *Entity)) {
	p.suppress = suppress
	p.onContact = onContact
}

// AddBody registers e with the engine as a box matching its hitbox.
// BodyNone entities are left unsimulated.
func (p *Physics) AddBody(e *Entity, spec BodySpec) {
	e.Kind = spec.Kind

	def := box2d.MakeB2BodyDef()
	switch spec.Kind {
	case BodyStatic:
		def.Type = box2d.B2BodyType.B2_staticBody
	case BodyDynamic:
		def.Type = box2d.B2BodyType.B2_dynamicBody
	default:
		return
	}
	def.Position = p.toMeters(e.Pos)
	def.FixedRotation = true
	def.AllowSleep = false

	body := p.world.CreateBody(&def)
	body.SetUserData(e)

	hw := e.Size.X / 2 / p.scale
	hh := e.Size.Y / 2 / p.scale
	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(hw, hh)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = shape
	fd.Friction = spec.Friction
	if spec.Kind == BodyDynamic {
		fd.Density = 1 / (4 * hw * hh)
	}
	body.CreateFixtureFromDef(&fd)

	e.body = body
	p.bodies = append(p.bodies, &physicsBody{
		entity:   e,
		damping:  spec.Damping,
		maxSpeed: spec.MaxSpeed,
	})
}

// RemoveBody destroys the body of e. It must not be called during Step.
func (p *Physics) RemoveBody(e *Entity) {
	if e.body == nil {
		return
	}
	p.world.DestroyBody(e.body)
	e.body = nil

	for i, pb := range p.bodies {
		if pb.entity == e {
			p.bodies = append(p.bodies[:i], p.bodies[i+1:]...)
			break
		}
	}
}

// ApplyImpulse changes the velocity of a dynamic body instantly.
func (p *Physics) ApplyImpulse(e *Entity, impulse r2.Vec) {
	if e.body == nil || e.Kind != BodyDynamic {
		return
	}
	m := e.body.GetMass()
	e.body.ApplyLinearImpulse(
		box2d.MakeB2Vec2(impulse.X/p.scale*m, impulse.Y/p.scale*m),
		e.body.GetWorldCenter(),
		true,
	)
	e.Vel = p.toPixels(e.body.GetLinearVelocity())
}

// ApplyForce accumulates a force on a dynamic body. box2d clears accumulated
// forces after every step, so the force acts for exactly one step.
func (p *Physics) ApplyForce(e *Entity, force r2.Vec) {
	if e.body == nil || e.Kind != BodyDynamic {
		return
	}
	m := e.body.GetMass()
	e.body.ApplyForceToCenter(box2d.MakeB2Vec2(force.X/p.scale*m, force.Y/p.scale*m), true)
}

// SetVelocity overrides the velocity of a dynamic body.
func (p *Physics) SetVelocity(e *Entity, vel r2.Vec) {
	if e.body == nil || e.Kind != BodyDynamic {
		return
	}
	e.body.SetLinearVelocity(p.toMeters(vel))
	e.Vel = vel
}

// Teleport moves a body to pos without changing its velocity.
func (p *Physics) Teleport(e *Entity, pos r2.Vec) {
	e.Pos = pos
	if e.body != nil {
		e.body.SetTransform(p.toMeters(pos), 0)
	}
}

// Step decays and clamps velocities, integrates the world by one fixed dt, copies
// body state back into the entities and then invokes the contact callback once
// for every pair that touched during the step, in solver order.
func (p *Physics) Step() {
	for _, pb := range p.bodies {
		if pb.entity.Kind != BodyDynamic {
			continue
		}
		v := pb.entity.body.GetLinearVelocity()
		if pb.damping != 1 {
			f := math.Pow(pb.damping, p.dt)
			v.X *= f
			v.Y *= f
		}
		if pb.maxSpeed > 0 {
			limit := pb.maxSpeed / p.scale
			if speed := v.Length(); speed > limit {
				v.X *= limit / speed
				v.Y *= limit / speed
			}
		}
		pb.entity.body.SetLinearVelocity(v)
	}

	p.contacts = p.contacts[:0]
	clear(p.seen)

	p.world.Step(p.dt, p.velIters, p.posIters)

	for _, pb := range p.bodies {
		pb.entity.Pos = p.toPixels(pb.entity.body.GetPosition())
		pb.entity.Vel = p.toPixels(pb.entity.body.GetLinearVelocity())
	}

	if p.onContact == nil {
		return
	}
	for _, c := range p.contacts {
		a, b := p.entity(c.a), p.entity(c.b)
		if a != nil && b != nil {
			p.onContact(a, b)
		}
	}
}

// BodyCount returns the number of bodies in the engine.
func (p *Physics) BodyCount() int {
	return p.world.GetBodyCount()
}

func (p *Physics) entity(id EntityID) *Entity {
	for _, pb := range p.bodies {
		if pb.entity.ID == id {
			return pb.entity
		}
	}
	return nil
}

func (p *Physics) toMeters(v r2.Vec) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X/p.scale, v.Y/p.scale)
}

func (p *Physics) toPixels(v box2d.B2Vec2) r2.Vec {
	return r2.Vec{X: v.X * p.scale, Y: v.Y * p.scale}
}

// contactBridge adapts box2d contact callbacks to the Physics handlers.
type contactBridge struct {
	p *Physics
}

func contactEntities(contact box2d.B2ContactInterface) (*Entity, *Entity) {
	a, _ := contact.GetFixtureA().GetBody().GetUserData().(*Entity)
	b, _ := contact.GetFixtureB().GetBody().GetUserData().(*Entity)
	return a, b
}

func (c *contactBridge) BeginContact(contact box2d.B2ContactInterface) {}

func (c *contactBridge) EndContact(contact box2d.B2ContactInterface) {}

// PreSolve disables the response for suppressed pairs. box2d re-enables
// contacts on every update, so this runs each step.
func (c *contactBridge) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
	a, b := contactEntities(contact)
	if a == nil || b == nil || c.p.suppress == nil {
		return
	}
	if c.p.suppress(a, b) {
		contact.SetEnabled(false)
	}
}

// PostSolve records the pair. Continuous collision can solve the same pair
// more than once per step; only the first report is kept.
func (c *contactBridge) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
	a, b := contactEntities(contact)
	if a == nil || b == nil {
		return
	}
	key := makeContactPair(a.ID, b.ID)
	if c.p.seen[key] {
		return
	}
	c.p.seen[key] = true
	c.p.contacts = append(c.p.contacts, contactPair{a: a.ID, b: b.ID})
}
