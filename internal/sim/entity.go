// Package sim implements the rescue world: an entity registry, a box2d-backed
// physics layer with typed collision dispatch, asteroid lifecycle maintenance,
// boundary detection and the per-tick step orchestrator.
//
// A World is a plain value owned by its caller. It holds no global state and is
// not safe for concurrent use; one goroutine drives one episode at a time.
package sim

import (
	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/IllumuIll/rescue-ai/internal/core"
)

// Category tags an entity with its role in the scene.
type Category int

const (
	CategoryRescuer Category = iota
	CategoryTarget
	CategoryMothership
	CategoryResource
	CategoryAsteroid
	CategoryWall
)

// NumCategories is the number of entity categories.
const NumCategories = 6

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryRescuer:
		return "rescuer"
	case CategoryTarget:
		return "target"
	case CategoryMothership:
		return "mothership"
	case CategoryResource:
		return "resource"
	case CategoryAsteroid:
		return "asteroid"
	case CategoryWall:
		return "wall"
	default:
		return "unknown"
	}
}

// EntityID identifies an entity within one episode. IDs are never reused
// within a World, so a stale ID simply fails to resolve.
type EntityID uint64

// BodyKind describes how an entity takes part in the physics simulation.
type BodyKind int

const (
	BodyNone    BodyKind = iota // Not simulated; position is set directly
	BodyStatic                  // Never moves under force
	BodyDynamic                 // Integrated every step
)

// RescuerState is the carry state of the agent.
type RescuerState struct {
	CarriesResource bool
	Carried         EntityID // Valid only while CarriesResource is true
}

// ResourceState is the state of a carried payload.
type ResourceState struct {
	Stuck   bool // Position follows the carrier instead of being integrated
	Carrier EntityID
}

// Entity is one simulated actor. Category-specific state lives in the
// Rescuer and Resource payloads, which are nil for every other category.
type Entity struct {
	ID       EntityID
	Category Category
	Kind     BodyKind
	Pos      r2.Vec // Centre in pixels, y axis up
	Vel      r2.Vec // Pixels per second
	Size     r2.Vec // Hitbox width and height in pixels
	Scale    int    // Asteroid size multiplier; 1 for everything else

	Rescuer  *RescuerState
	Resource *ResourceState

	body *box2d.B2Body
}

// Bounds returns the axis-aligned bounding box of the entity.
func (e *Entity) Bounds() core.Bounds {
	return core.BoundsAround(e.Pos, e.Size)
}

// Hitbox returns the polygon used for distance and overlap queries.
func (e *Entity) Hitbox() core.Polygon {
	return core.BoxPolygon(e.Pos, e.Size)
}

// Simulated reports whether the entity has a physics body.
func (e *Entity) Simulated() bool {
	return e.body != nil
}
