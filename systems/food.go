package systems

import (
	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/physics"
)

// StepFood regenerates energy in proportion to radius. Uncapped.
func StepFood(en *components.Energy, body *physics.Body, r Rules) {
	en.Value += r.FoodRegenRate * body.Radius()
}

// FoodStruck drains the energy a creature of strikerMass takes in a contact.
// The result may be negative; the sweep removes the food next pass.
func FoodStruck(en *components.Energy, strikerMass float64, r Rules) {
	en.Value -= strikerMass * r.TransferFactor
}
