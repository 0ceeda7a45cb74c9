// Package components defines ECS components for the simulation.
package components

import (
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// Kind tags which variant an entity is.
type Kind uint8

const (
	KindCreature Kind = iota // Mobile, genetic, reproducing
	KindFood                 // Stationary energy source
)

func (k Kind) String() string {
	switch k {
	case KindCreature:
		return "creature"
	case KindFood:
		return "food"
	default:
		return "unknown"
	}
}

// Body holds the entity's physics handle. The handle is valid until the
// entity is swept.
type Body struct {
	Handle *physics.Body
}

// Energy is the entity's vitality. It may dip below zero between sweeps.
type Energy struct {
	Value float64
}

// Alive reports whether the entity still has energy.
func (e Energy) Alive() bool { return e.Value > 0 }

// Creature holds the state of a moving entity.
type Creature struct {
	ID         uint32
	DNA        *genetics.MovingDNA
	Age        int // Ticks since birth or last reproduction
	Steps      int // Ticks since the last movement instruction
	Cursor     int // Next movement gene
	Generation int
	ParentID   uint32
}

// Food holds the state of a fixed entity.
type Food struct {
	ID  uint32
	DNA genetics.StaticDNA
}
