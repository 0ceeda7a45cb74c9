package game

import (
	"math"
	"testing"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/config"
)

func TestUserActions(t *testing.T) {
	g := newTestGame(t, nil)
	c := g.bodyMap.Get(firstOf(t, g, components.KindCreature)).Handle.Position()
	f := g.bodyMap.Get(firstOf(t, g, components.KindFood)).Handle.Position()

	// Updates and ends for unknown pointers are ignored.
	g.UserActionUpdate(9, 0, 0)
	g.UserActionEnd(9, 0, 0)

	g.UserActionStart(1, f.X, f.Y)
	if g.ActiveDrags() != 0 {
		t.Fatal("food was grabbed")
	}
	g.UserActionStart(1, 0, g.cfg.World.HalfHeight-0.1)
	if g.ActiveDrags() != 0 {
		t.Fatal("empty space was grabbed")
	}

	g.UserActionStart(1, c.X, c.Y)
	if g.ActiveDrags() != 1 {
		t.Fatalf("active drags = %d, want 1", g.ActiveDrags())
	}
	g.UserActionStart(1, c.X, c.Y)
	if g.ActiveDrags() != 1 || g.physics.ConstraintCount() != 1 {
		t.Fatal("restarting a pointer should replace its constraint")
	}
	g.UserActionStart(2, c.X, c.Y)
	if g.ActiveDrags() != 2 {
		t.Fatalf("active drags = %d, want 2", g.ActiveDrags())
	}

	g.UserActionUpdate(1, c.X+0.5, c.Y)
	g.UserActionEnd(1, 0, 0)
	g.UserActionEnd(2, 0, 0)
	if g.ActiveDrags() != 0 || g.physics.ConstraintCount() != 0 {
		t.Errorf("drags left after end: %d/%d", g.ActiveDrags(), g.physics.ConstraintCount())
	}
}

func TestDragReleasedWhenBodySwept(t *testing.T) {
	g := newTestGame(t, nil)
	e := firstOf(t, g, components.KindCreature)
	p := g.bodyMap.Get(e).Handle.Position()

	g.UserActionStart(1, p.X, p.Y)
	if g.ActiveDrags() != 1 {
		t.Fatal("creature not grabbed")
	}
	grabbed := g.physics.BodyAt(p)

	for _, le := range g.live {
		if g.bodyMap.Get(le).Handle == grabbed {
			g.energyMap.Get(le).Value = 0
		}
	}
	g.Update(0)

	if g.ActiveDrags() != 0 {
		t.Error("drag survived its body")
	}
	// Moving and ending a dead drag are no-ops.
	g.UserActionUpdate(1, 0, 0)
	g.UserActionEnd(1, 0, 0)
}

func TestApplyGlobalForceMovesOnlyCreatures(t *testing.T) {
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Creature.InitialCount = 1
	})

	food := make(map[uint32][2]float64)
	for _, h := range g.LiveEntities() {
		if h.IsStatic() {
			p := h.Position()
			food[h.ID()] = [2]float64{p.X, p.Y}
		}
	}

	g.ApplyGlobalForce(5, 0)
	g.Update(g.cfg.Physics.StepMillis)

	for _, h := range g.LiveEntities() {
		if h.IsStatic() {
			p := h.Position()
			if food[h.ID()] != [2]float64{p.X, p.Y} {
				t.Errorf("food %d moved", h.ID())
			}
			continue
		}
		v := g.bodyMap.Get(g.live[0]).Handle.Velocity()
		// a = 5 for any mass; one damped step.
		want := 5 * g.cfg.Derived.StepSeconds / (1 + g.cfg.Derived.StepSeconds*g.cfg.Creature.LinearDamping)
		if math.Abs(v.X-want) > 1e-6 || math.Abs(v.Y) > 1e-9 {
			t.Errorf("creature velocity = %v, want (%v, 0)", v, want)
		}
	}
}
