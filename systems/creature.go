package systems

import (
	"math"
	"math/rand"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// StepCreature advances one tick: age, heartbeat cost and, every
// ActivationDelay ticks, the next movement instruction.
// Returns the instruction executed, or false if the creature only rested.
func StepCreature(cr *components.Creature, en *components.Energy, body *physics.Body, r Rules) (genetics.Instruction, bool) {
	cr.Age++
	cr.Steps++

	mass := body.Mass()
	en.Value -= r.HeartbeatCost * mass

	if cr.Steps < r.ActivationDelay {
		return genetics.Rest, false
	}
	cr.Steps = 0

	in := cr.DNA.Instruction(cr.Cursor)
	ix, iy := in.Impulse(mass * r.ImpulseFactor)
	if ix != 0 || iy != 0 {
		body.ApplyImpulse(physics.V(ix, iy), body.Position())
		en.Value -= (math.Abs(ix) + math.Abs(iy)) * mass * r.MovementCost
	}
	cr.Cursor = (cr.Cursor + 1) % genetics.MovementGenes
	return in, true
}

// EatOutcome reports what a creature/food contact did on the creature side.
type EatOutcome uint8

const (
	AteOnly      EatOutcome = iota // Energy gained, no reproduction
	Reproduced                     // Birth staged
	BirthSkipped                   // Admitted but the DNA produced no offspring
)

// CreatureEatsFood applies the creature side of a food contact: gain
// mass*TransferFactor, then reproduce when energy exceeds the DNA threshold
// and age exceeds MinReproductionAge. The returned Birth is valid only for
// the Reproduced outcome.
func CreatureEatsFood(cr *components.Creature, en *components.Energy, body *physics.Body, r Rules, rng *rand.Rand) (Birth, EatOutcome) {
	en.Value += body.Mass() * r.TransferFactor

	if en.Value <= float64(cr.DNA.ReproductionThreshold()) || cr.Age <= r.MinReproductionAge {
		return Birth{}, AteOnly
	}

	child := cr.DNA.Copy(rng)
	if child == nil {
		return Birth{}, BirthSkipped
	}

	en.Value /= 2
	cr.Age = 0
	return Birth{
		ParentID:   cr.ID,
		Generation: cr.Generation + 1,
		DNA:        child,
		Position:   body.Position(),
		Energy:     en.Value / 2,
	}, Reproduced
}

// CreatureMeets records other's genes as the last encountered peer.
func CreatureMeets(cr, other *components.Creature) {
	cr.DNA.PutLastEncounter(other.DNA.Genes())
}
