package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vec is a 2D world-space vector.
type Vec = cp.Vector

// V builds a Vec.
func V(x, y float64) Vec { return cp.Vector{X: x, Y: y} }

// BodyKind distinguishes immovable bodies from simulated ones.
type BodyKind uint8

const (
	Static BodyKind = iota
	Dynamic
)

func (k BodyKind) String() string {
	if k == Static {
		return "static"
	}
	return "dynamic"
}

// MinRadius is the smallest circle a fixture will create.
const MinRadius = 0.01

// BodyDef describes a body before it has a fixture.
type BodyDef struct {
	Kind           BodyKind
	Position       Vec
	LinearDamping  float64
	AngularDamping float64
}

// FixtureDef describes the single circle attached to a body.
type FixtureDef struct {
	Radius      float64
	Density     float64
	Restitution float64
	Friction    float64
}

// Body is a handle to a rigid body owned by a World. Every accessor panics
// once the body has been destroyed.
type Body struct {
	id        uint64
	kind      BodyKind
	body      *cp.Body
	shape     *cp.Shape
	radius    float64
	destroyed bool
}

func (b *Body) live() *cp.Body {
	if b == nil || b.destroyed {
		panic("physics: use of destroyed body")
	}
	return b.body
}

// ID is unique within the World that created the body.
func (b *Body) ID() uint64 { return b.id }

func (b *Body) Kind() BodyKind { return b.kind }

func (b *Body) IsStatic() bool { return b.kind == Static }

// Destroyed reports whether the body has been removed from its World.
func (b *Body) Destroyed() bool { return b.destroyed }

func (b *Body) Position() Vec { return b.live().Position() }

func (b *Body) Angle() float64 { return b.live().Angle() }

func (b *Body) Velocity() Vec { return b.live().Velocity() }

// Mass is zero for static bodies.
func (b *Body) Mass() float64 {
	cb := b.live()
	if b.kind == Static {
		return 0
	}
	return cb.Mass()
}

// Radius of the attached circle, zero before CreateFixture.
func (b *Body) Radius() float64 {
	b.live()
	return b.radius
}

// ApplyForce applies a force at a world point for the next step.
func (b *Body) ApplyForce(force, point Vec) {
	cb := b.live()
	if b.kind == Static {
		return
	}
	cb.Activate()
	cb.ApplyForceAtWorldPoint(force, point)
}

// ApplyImpulse changes velocity immediately.
func (b *Body) ApplyImpulse(impulse, point Vec) {
	cb := b.live()
	if b.kind == Static {
		return
	}
	cb.Activate()
	cb.ApplyImpulseAtWorldPoint(impulse, point)
}

// dampedVelocity integrates velocity then applies per-body damping as
// v *= 1/(1 + dt*c).
func dampedVelocity(linear, angular float64) func(*cp.Body, cp.Vector, float64, float64) {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		body.SetVelocityVector(body.Velocity().Mult(1 / (1 + dt*linear)))
		body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*angular))
	}
}

func circleMass(density, radius float64) float64 {
	return density * math.Pi * radius * radius
}
