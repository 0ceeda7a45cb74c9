// Package renderer draws published simulation frames with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kgilmer/PiccadillyLife/camera"
	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/game"
)

var (
	backgroundColor = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}
	boundaryColor   = color.RGBA{R: 0x50, G: 0x50, B: 0x60, A: 0xff}
	deadColor       = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	headingColor    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xc0}
)

// Creature alpha tracks energy: 4 per unit, clamped.
const (
	minAlpha       = 64
	maxAlpha       = 255
	alphaPerEnergy = 4
)

// EntityColor returns the fill colour of an entity view. Dead entities are
// grey, food uses its fixed colour and creatures fade with energy.
func EntityColor(v game.EntityView) color.RGBA {
	if !v.Alive {
		return deadColor
	}
	if v.Kind == components.KindFood {
		return v.Color
	}
	c := v.Color
	c.A = uint8(math.Max(minAlpha, math.Min(maxAlpha, alphaPerEnergy*v.Energy)))
	return c
}

// WorldRenderer draws the arena and its entities through a camera.
type WorldRenderer struct {
	cam          *camera.Camera
	halfW, halfH float32
}

// NewWorldRenderer creates a renderer for a world of the given half extents.
func NewWorldRenderer(cam *camera.Camera, halfW, halfH float32) *WorldRenderer {
	return &WorldRenderer{cam: cam, halfW: halfW, halfH: halfH}
}

// Draw renders one frame. Must be called between BeginDrawing and EndDrawing.
func (r *WorldRenderer) Draw(f *game.Frame) {
	rl.ClearBackground(backgroundColor)
	if f == nil {
		return
	}

	x0, y0 := r.cam.WorldToScreen(-r.halfW, -r.halfH)
	x1, y1 := r.cam.WorldToScreen(r.halfW, r.halfH)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, boundaryColor)

	scale := r.cam.Scale()
	for _, v := range f.Entities {
		wx, wy, radius := float32(v.X), float32(v.Y), float32(v.Radius)
		if !r.cam.IsVisible(wx, wy, radius) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(wx, wy)
		sr := radius * scale
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, sr, EntityColor(v))

		// Heading line from the centre shows rotation.
		hx := sx + sr*float32(math.Cos(v.Angle))
		hy := sy + sr*float32(math.Sin(v.Angle))
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: hx, Y: hy}, headingColor)
	}
}
