// Package physics wraps a Chipmunk2D space behind the small rigid-body
// surface the simulation consumes: circle bodies, a rectangular boundary,
// point queries, drag constraints and begin-contact notification.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Entity shapes report contacts; boundary segments use the default type.
const entityCollision cp.CollisionType = 1

// ContactListener receives one call per newly touching pair of bodies.
// It runs inside Step and must not create or destroy bodies.
type ContactListener interface {
	BeginContact(a, b *Body)
}

// World owns every body, shape and constraint of one simulation.
type World struct {
	space    *cp.Space
	bodies   map[uint64]*Body
	drags    map[*DragConstraint]struct{}
	listener ContactListener
	nextID   uint64
}

// NewWorld creates an empty world with the given gravity. Bodies sleep
// after resting for sleepThreshold seconds; zero disables sleeping.
func NewWorld(gravity Vec, sleepThreshold float64) *World {
	space := cp.NewSpace()
	space.SetGravity(gravity)
	if sleepThreshold > 0 {
		space.SleepTimeThreshold = sleepThreshold
	}

	w := &World{
		space:  space,
		bodies: make(map[uint64]*Body),
		drags:  make(map[*DragConstraint]struct{}),
	}

	handler := space.NewCollisionHandler(entityCollision, entityCollision)
	handler.BeginFunc = w.beginContact
	return w
}

func (w *World) beginContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if w.listener != nil {
		ba, bb := arb.Bodies()
		a, okA := ba.UserData.(*Body)
		b, okB := bb.UserData.(*Body)
		if okA && okB {
			w.listener.BeginContact(a, b)
		}
	}
	return true
}

// SetContactListener replaces the contact listener; nil disables notification.
func (w *World) SetContactListener(l ContactListener) {
	w.listener = l
}

// AddBoundary closes the world with four static segments around the origin.
func (w *World) AddBoundary(halfWidth, halfHeight, restitution, friction float64) {
	corners := []Vec{
		V(-halfWidth, -halfHeight),
		V(halfWidth, -halfHeight),
		V(halfWidth, halfHeight),
		V(-halfWidth, halfHeight),
	}
	for i := range corners {
		seg := cp.NewSegment(w.space.StaticBody, corners[i], corners[(i+1)%len(corners)], 0)
		seg.SetElasticity(restitution)
		seg.SetFriction(friction)
		w.space.AddShape(seg)
	}
}

// CreateBody adds a body without shape. Dynamic bodies get their mass from
// CreateFixture.
func (w *World) CreateBody(def BodyDef) *Body {
	var cb *cp.Body
	if def.Kind == Static {
		cb = cp.NewStaticBody()
	} else {
		cb = cp.NewBody(1, 1)
		cb.SetVelocityUpdateFunc(dampedVelocity(def.LinearDamping, def.AngularDamping))
	}
	cb.SetPosition(def.Position)
	w.space.AddBody(cb)

	w.nextID++
	b := &Body{id: w.nextID, kind: def.Kind, body: cb}
	cb.UserData = b
	w.bodies[b.id] = b
	return b
}

// CreateFixture attaches the body's circle. Radii below MinRadius are clamped.
func (w *World) CreateFixture(b *Body, def FixtureDef) {
	cb := b.live()
	if b.shape != nil {
		panic("physics: body already has a fixture")
	}

	r := math.Max(def.Radius, MinRadius)
	if b.kind == Dynamic {
		mass := circleMass(def.Density, r)
		cb.SetMass(mass)
		cb.SetMoment(cp.MomentForCircle(mass, 0, r, cp.Vector{}))
	}

	shape := cp.NewCircle(cb, r, cp.Vector{})
	shape.SetElasticity(def.Restitution)
	shape.SetFriction(def.Friction)
	shape.SetCollisionType(entityCollision)
	w.space.AddShape(shape)

	b.shape = shape
	b.radius = r
}

// DestroyBody removes a body, its shape and any drag constraint bound to it.
// The handle must not be used afterwards.
func (w *World) DestroyBody(b *Body) {
	cb := b.live()
	for d := range w.drags {
		if d.body == b {
			w.DestroyConstraint(d)
		}
	}
	if b.shape != nil {
		w.space.RemoveShape(b.shape)
		b.shape = nil
	}
	w.space.RemoveBody(cb)
	cb.UserData = nil
	delete(w.bodies, b.id)
	b.destroyed = true
}

// Step advances the world by dt seconds. Chipmunk runs a single solver loop,
// so the larger iteration count is used.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.space.Iterations = uint(max(velocityIterations, positionIterations, 1))
	w.space.Step(dt)
}

// BodyAt returns the body whose circle contains point, or nil.
func (w *World) BodyAt(point Vec) *Body {
	info := w.space.PointQueryNearest(point, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil
	}
	b, _ := info.Shape.Body().UserData.(*Body)
	return b
}

// BodyCount returns the number of live bodies, boundary excluded.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// ConstraintCount returns the number of active drag constraints.
func (w *World) ConstraintCount() int {
	return len(w.drags)
}
