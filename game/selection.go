package game

import (
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// Selection is a copy of one entity's state, safe to read while the
// simulation keeps running.
type Selection struct {
	ID     uint32
	Kind   components.Kind
	Energy float64
	Mass   float64
	Radius float64
	X, Y   float64
	Color  color.RGBA
	Genes  []int

	// Creature only
	Age        int
	Generation int
	ParentID   uint32
	Strategy   genetics.Strategy
	Threshold  int
	RestCycles int
	Next       genetics.Instruction
	HasPeer    bool
	Meals      int
	Children   int
	PeakEnergy float64
}

// SelectAt returns the ID of the entity whose shape contains (x, y), in
// world coordinates.
func (g *Game) SelectAt(x, y float64) (uint32, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	body := g.physics.BodyAt(physics.V(x, y))
	if body == nil {
		return 0, false
	}
	e, ok := g.owners[body.ID()]
	if !ok {
		return 0, false
	}
	return g.entityID(e), true
}

// Inspect copies the state of the live entity with the given ID.
func (g *Game) Inspect(id uint32) (Selection, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range g.live {
		if g.entityID(e) == id {
			return g.selection(e), true
		}
	}
	return Selection{}, false
}

func (g *Game) entityID(e ecs.Entity) uint32 {
	if g.creatureMap.Has(e) {
		return g.creatureMap.Get(e).ID
	}
	return g.foodMap.Get(e).ID
}

func (g *Game) selection(e ecs.Entity) Selection {
	s := Selection{
		ID:     g.entityID(e),
		Kind:   components.KindFood,
		Energy: g.energyMap.Get(e).Value,
		Color:  FoodColor,
	}
	if b := g.bodyMap.Get(e).Handle; b != nil && !b.Destroyed() {
		p := b.Position()
		s.X, s.Y = p.X, p.Y
		s.Mass = b.Mass()
		s.Radius = b.Radius()
	}

	if !g.creatureMap.Has(e) {
		s.Genes = []int{g.foodMap.Get(e).DNA.Gene()}
		return s
	}

	cr := g.creatureMap.Get(e)
	s.Kind = components.KindCreature
	s.Color = cr.DNA.Color()
	s.Genes = cr.DNA.Genes()
	s.Age = cr.Age
	s.Generation = cr.Generation
	s.ParentID = cr.ParentID
	s.Strategy = cr.DNA.Strategy()
	s.Threshold = cr.DNA.ReproductionThreshold()
	s.RestCycles = cr.DNA.RestCycles()
	s.Next = cr.DNA.Instruction(cr.Cursor)
	s.HasPeer = cr.DNA.HasPeer()
	if ls := g.lifetime.Get(cr.ID); ls != nil {
		s.Meals = ls.Meals
		s.Children = ls.Children
		s.PeakEnergy = ls.PeakEnergy
	}
	return s
}
