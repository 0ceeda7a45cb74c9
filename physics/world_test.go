package physics

import (
	"math"
	"testing"
)

type recordingListener struct {
	pairs [][2]*Body
}

func (r *recordingListener) BeginContact(a, b *Body) {
	r.pairs = append(r.pairs, [2]*Body{a, b})
}

func newTestWorld() *World {
	w := NewWorld(V(0, 0), 0.5)
	w.AddBoundary(8, 4, 1, 0.2)
	return w
}

func addCircle(w *World, kind BodyKind, x, y, r float64) *Body {
	b := w.CreateBody(BodyDef{Kind: kind, Position: V(x, y), LinearDamping: 0.3, AngularDamping: 0.05})
	w.CreateFixture(b, FixtureDef{Radius: r, Density: 1, Restitution: 0.95, Friction: 0.2})
	return b
}

func TestCreateFixtureMass(t *testing.T) {
	w := newTestWorld()

	tests := []struct {
		name   string
		kind   BodyKind
		radius float64
		mass   float64
		radOut float64
	}{
		{"dynamic", Dynamic, 0.2, math.Pi * 0.04, 0.2},
		{"dynamic zero radius clamps", Dynamic, 0, math.Pi * MinRadius * MinRadius, MinRadius},
		{"static has no mass", Static, 0.25, 0, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := addCircle(w, tt.kind, 0, 0, tt.radius)
			if math.Abs(b.Mass()-tt.mass) > 1e-9 {
				t.Errorf("Mass() = %v, want %v", b.Mass(), tt.mass)
			}
			if math.Abs(b.Radius()-tt.radOut) > 1e-12 {
				t.Errorf("Radius() = %v, want %v", b.Radius(), tt.radOut)
			}
		})
	}

	if w.BodyCount() != len(tests) {
		t.Errorf("BodyCount() = %d, want %d", w.BodyCount(), len(tests))
	}
}

func TestImpulseMovesDynamicOnly(t *testing.T) {
	w := newTestWorld()
	dyn := addCircle(w, Dynamic, -2, 0, 0.2)
	stat := addCircle(w, Static, 2, 0, 0.2)

	dyn.ApplyImpulse(V(dyn.Mass(), 0), dyn.Position())
	stat.ApplyImpulse(V(1, 0), stat.Position())
	for i := 0; i < 10; i++ {
		w.Step(0.02, 10, 5)
	}

	if p := dyn.Position(); p.X <= -2 {
		t.Errorf("dynamic body did not move: %+v", p)
	}
	if p := stat.Position(); p.X != 2 || p.Y != 0 {
		t.Errorf("static body moved: %+v", p)
	}
}

func TestDampingSlowsBody(t *testing.T) {
	w := newTestWorld()
	b := addCircle(w, Dynamic, 0, 0, 0.2)
	b.ApplyImpulse(V(b.Mass(), 0), b.Position())
	w.Step(0.02, 10, 5)
	v0 := b.Velocity().X
	for i := 0; i < 20; i++ {
		w.Step(0.02, 10, 5)
	}
	if v := b.Velocity().X; v >= v0 || v <= 0 {
		t.Errorf("velocity %v should decay below %v and stay positive", v, v0)
	}
}

func TestBeginContactFiresForOverlap(t *testing.T) {
	w := newTestWorld()
	l := &recordingListener{}
	w.SetContactListener(l)

	a := addCircle(w, Dynamic, 0, 0, 0.2)
	b := addCircle(w, Static, 0.1, 0, 0.2)
	addCircle(w, Dynamic, -3, 0, 0.2)

	w.Step(0.02, 10, 5)

	if len(l.pairs) != 1 {
		t.Fatalf("got %d contacts, want 1", len(l.pairs))
	}
	got := l.pairs[0]
	if !((got[0] == a && got[1] == b) || (got[0] == b && got[1] == a)) {
		t.Errorf("unexpected pair %v/%v", got[0].ID(), got[1].ID())
	}

	// The same touching pair is not reported again.
	w.Step(0.02, 10, 5)
	if len(l.pairs) != 1 {
		t.Errorf("contact reported again: %d", len(l.pairs))
	}
}

func TestBodyAt(t *testing.T) {
	w := newTestWorld()
	b := addCircle(w, Dynamic, 1, 1, 0.25)

	if got := w.BodyAt(V(1.1, 1)); got != b {
		t.Errorf("BodyAt inside circle = %v, want body %d", got, b.ID())
	}
	if got := w.BodyAt(V(-5, -2)); got != nil {
		t.Errorf("BodyAt empty point = %v, want nil", got.ID())
	}
}

func TestDestroyBody(t *testing.T) {
	w := newTestWorld()
	b := addCircle(w, Dynamic, 0, 0, 0.2)
	d := w.CreateDragConstraint(b, V(0, 0), 1000*b.Mass())
	if w.ConstraintCount() != 1 {
		t.Fatalf("ConstraintCount() = %d, want 1", w.ConstraintCount())
	}

	w.DestroyBody(b)

	if !b.Destroyed() {
		t.Error("body not marked destroyed")
	}
	if w.BodyCount() != 0 {
		t.Errorf("BodyCount() = %d, want 0", w.BodyCount())
	}
	if !d.Removed() || w.ConstraintCount() != 0 {
		t.Error("drag constraint should be removed with its body")
	}
	d.SetTarget(V(1, 1))
	w.DestroyConstraint(d)
	if w.BodyAt(V(0, 0)) != nil {
		t.Error("destroyed body still answers point queries")
	}
	w.Step(0.02, 10, 5)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on destroyed body access")
		}
	}()
	_ = b.Position()
}

func TestDragConstraintPullsBody(t *testing.T) {
	w := newTestWorld()
	b := addCircle(w, Dynamic, 0, 0, 0.2)
	d := w.CreateDragConstraint(b, V(0, 0), 1000*b.Mass())

	d.SetTarget(V(2, 1))
	for i := 0; i < 100; i++ {
		w.Step(0.02, 10, 5)
	}
	p := b.Position()
	if math.Hypot(p.X-2, p.Y-1) > 0.2 {
		t.Errorf("body at %+v, want near (2, 1)", p)
	}

	w.DestroyConstraint(d)
	w.DestroyConstraint(d)
	if w.ConstraintCount() != 0 {
		t.Errorf("ConstraintCount() = %d, want 0", w.ConstraintCount())
	}
}

func TestBoundaryContainsBodies(t *testing.T) {
	w := newTestWorld()
	b := addCircle(w, Dynamic, 7, 0, 0.2)
	b.ApplyImpulse(V(b.Mass()*5, 0), b.Position())
	for i := 0; i < 50; i++ {
		w.Step(0.02, 10, 5)
	}
	if x := b.Position().X; x > 8 {
		t.Errorf("body escaped the boundary: x = %v", x)
	}
}
