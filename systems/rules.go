// Package systems holds the per-tick and per-contact rules that drive
// creatures and food.
package systems

import (
	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// Rules caches the constants the entity rules read every tick.
type Rules struct {
	ActivationDelay    int
	MinReproductionAge int
	HeartbeatCost      float64 // per unit mass per tick
	ImpulseFactor      float64 // impulse magnitude per unit mass
	MovementCost       float64 // per unit impulse per unit mass
	TransferFactor     float64 // energy per unit mass per contact
	FoodRegenRate      float64 // per unit radius per tick
}

// NewRules extracts the rule constants from cfg.
func NewRules(cfg *config.Config) Rules {
	return Rules{
		ActivationDelay:    cfg.Creature.ActivationDelay,
		MinReproductionAge: cfg.Creature.MinReproductionAge,
		HeartbeatCost:      cfg.Creature.HeartbeatCost,
		ImpulseFactor:      cfg.Creature.ImpulseFactor,
		MovementCost:       cfg.Creature.MovementCost,
		TransferFactor:     cfg.Energy.TransferFactor,
		FoodRegenRate:      cfg.Food.RegenRate,
	}
}

// Birth is a deferred reproduction request, materialized after the physics
// step that produced it.
type Birth struct {
	ParentID   uint32
	Generation int
	DNA        *genetics.MovingDNA
	Position   physics.Vec
	Energy     float64
}
