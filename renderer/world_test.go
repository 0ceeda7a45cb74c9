package renderer

import (
	"image/color"
	"testing"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/game"
)

func TestEntityColor(t *testing.T) {
	dna := color.RGBA{R: 10, G: 20, B: 30, A: 0xff}

	tests := []struct {
		name string
		view game.EntityView
		want color.RGBA
	}{
		{"dead creature", game.EntityView{Kind: components.KindCreature, Color: dna, Energy: -1}, deadColor},
		{"dead food", game.EntityView{Kind: components.KindFood, Color: game.FoodColor}, deadColor},
		{"food", game.EntityView{Kind: components.KindFood, Color: game.FoodColor, Energy: 3, Alive: true}, game.FoodColor},
		{"low energy", game.EntityView{Kind: components.KindCreature, Color: dna, Energy: 2, Alive: true}, color.RGBA{R: 10, G: 20, B: 30, A: 64}},
		{"mid energy", game.EntityView{Kind: components.KindCreature, Color: dna, Energy: 30, Alive: true}, color.RGBA{R: 10, G: 20, B: 30, A: 120}},
		{"high energy", game.EntityView{Kind: components.KindCreature, Color: dna, Energy: 500, Alive: true}, color.RGBA{R: 10, G: 20, B: 30, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntityColor(tt.view); got != tt.want {
				t.Errorf("EntityColor() = %v, want %v", got, tt.want)
			}
		})
	}
}
