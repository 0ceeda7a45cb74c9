package game

import (
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// FoodColor is the colour of every food entity.
var FoodColor = color.RGBA{R: 0xff, G: 0x66, B: 0xff, A: 0xff}

// Entity is a read handle to a live entity. Each accessor takes the game
// lock, so handles may be read while a Driver runs Updates. After the entity
// is swept it reads as dead with zero values.
type Entity struct {
	g *Game
	e ecs.Entity
}

// LiveEntities returns handles to the live generation in update order.
func (g *Game) LiveEntities() []Entity {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Entity, len(g.live))
	for i, e := range g.live {
		out[i] = Entity{g: g, e: e}
	}
	return out
}

// lock takes the game lock and reports whether the entity still exists.
// The returned func releases the lock.
func (h Entity) lock() (bool, func()) {
	if h.g == nil {
		return false, func() {}
	}
	h.g.mu.Lock()
	return h.g.world.Alive(h.e), h.g.mu.Unlock
}

// body must be called with the game lock held.
func (h Entity) body() *physics.Body {
	b := h.g.bodyMap.Get(h.e).Handle
	if b == nil || b.Destroyed() {
		return nil
	}
	return b
}

// ID is unique across creatures and food for the lifetime of the game.
func (h Entity) ID() uint32 {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return 0
	}
	return h.g.entityID(h.e)
}

func (h Entity) Kind() components.Kind {
	ok, unlock := h.lock()
	defer unlock()
	if ok && h.g.creatureMap.Has(h.e) {
		return components.KindCreature
	}
	return components.KindFood
}

func (h Entity) IsStatic() bool { return h.Kind() == components.KindFood }

// IsAlive reports whether the entity has positive energy.
func (h Entity) IsAlive() bool {
	ok, unlock := h.lock()
	defer unlock()
	return ok && h.g.energyMap.Get(h.e).Alive()
}

func (h Entity) Energy() float64 {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return 0
	}
	return h.g.energyMap.Get(h.e).Value
}

func (h Entity) Position() physics.Vec {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return physics.Vec{}
	}
	if b := h.body(); b != nil {
		return b.Position()
	}
	return physics.Vec{}
}

func (h Entity) Angle() float64 {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return 0
	}
	if b := h.body(); b != nil {
		return b.Angle()
	}
	return 0
}

func (h Entity) Radius() float64 {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return 0
	}
	if b := h.body(); b != nil {
		return b.Radius()
	}
	return 0
}

func (h Entity) Mass() float64 {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return 0
	}
	if b := h.body(); b != nil {
		return b.Mass()
	}
	return 0
}

// Color is the DNA colour of a creature or FoodColor.
func (h Entity) Color() color.RGBA {
	ok, unlock := h.lock()
	defer unlock()
	if ok && h.g.creatureMap.Has(h.e) {
		return h.g.creatureMap.Get(h.e).DNA.Color()
	}
	return FoodColor
}

// Genes returns a copy of the entity's genes. Food has a single radius gene.
func (h Entity) Genes() []int {
	ok, unlock := h.lock()
	defer unlock()
	if !ok {
		return nil
	}
	if h.g.creatureMap.Has(h.e) {
		return h.g.creatureMap.Get(h.e).DNA.Genes()
	}
	return []int{h.g.foodMap.Get(h.e).DNA.Gene()}
}

// Creature returns a copy of the creature state, or false for food.
func (h Entity) Creature() (components.Creature, bool) {
	ok, unlock := h.lock()
	defer unlock()
	if !ok || !h.g.creatureMap.Has(h.e) {
		return components.Creature{}, false
	}
	return *h.g.creatureMap.Get(h.e), true
}
