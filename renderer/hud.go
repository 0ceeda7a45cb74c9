package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kgilmer/PiccadillyLife/game"
)

// Controls holds the state of the on-screen controls between frames.
type Controls struct {
	Paused bool
	Tilt   float32 // Strength multiplier for arrow-key tilt, 0..1
}

// DrawHUD renders the population counts and status line.
func DrawHUD(f *game.Frame, paused bool) {
	if f == nil {
		return
	}
	rl.DrawText(fmt.Sprintf("Creatures: %d | Food: %d", f.Creatures, f.Food), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", f.Tick, rl.GetFPS()), 10, 35, 16, rl.LightGray)
	if paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the pause button and tilt slider in the top-right
// corner and updates c. It returns true when the pause state changed.
func DrawControls(c *Controls, screenW int32) bool {
	x := float32(screenW) - 230

	label := "Pause"
	if c.Paused {
		label = "Resume"
	}
	toggled := gui.Button(rl.Rectangle{X: x, Y: 10, Width: 100, Height: 28}, label)
	if toggled {
		c.Paused = !c.Paused
	}

	rl.DrawText("Tilt", int32(x), 48, 14, rl.Gray)
	c.Tilt = gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: 46, Width: 140, Height: 18},
		"", fmt.Sprintf("%.2f", c.Tilt),
		c.Tilt, 0, 1,
	)
	return toggled
}
