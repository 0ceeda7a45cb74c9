package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/physics"
	"github.com/kgilmer/PiccadillyLife/systems"
)

// BeginContact implements physics.ContactListener. Both sides of a pair see
// the other: first a collides with b, then b with a. Bodies that belong to
// no entity and food/food pairs are ignored.
func (g *Game) BeginContact(a, b *physics.Body) {
	ea, okA := g.owners[a.ID()]
	eb, okB := g.owners[b.ID()]
	if !okA || !okB {
		return
	}
	if a.IsStatic() && b.IsStatic() {
		return
	}

	g.collide(ea, a, eb, b)
	g.collide(eb, b, ea, a)
}

// collide applies the rules of self being struck by other.
func (g *Game) collide(self ecs.Entity, selfBody *physics.Body, other ecs.Entity, otherBody *physics.Body) {
	en := g.energyMap.Get(self)

	if !g.creatureMap.Has(self) {
		// Food only reacts to creatures.
		if g.creatureMap.Has(other) {
			systems.FoodStruck(en, otherBody.Mass(), g.rules)
		}
		return
	}

	cr := g.creatureMap.Get(self)
	if g.creatureMap.Has(other) {
		systems.CreatureMeets(cr, g.creatureMap.Get(other))
		g.collector.RecordEncounter()
		g.lifetime.RecordEncounter(cr.ID)
		return
	}

	birth, outcome := systems.CreatureEatsFood(cr, en, selfBody, g.rules, g.rng)
	g.collector.RecordMeal()
	g.lifetime.RecordMeal(cr.ID, en.Value)

	switch outcome {
	case systems.Reproduced:
		g.newborns = append(g.newborns, birth)
		g.collector.RecordBirth(cr.DNA.Strategy())
	case systems.BirthSkipped:
		g.collector.RecordSkippedBirth()
		slog.Debug("birth_skipped",
			"tick", g.tick,
			"creature", cr.ID,
			"strategy", cr.DNA.Strategy().String(),
			"energy", en.Value,
		)
	}
}
