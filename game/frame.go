package game

import (
	"image/color"

	"github.com/kgilmer/PiccadillyLife/components"
)

// EntityView is an immutable copy of one entity at publish time.
type EntityView struct {
	ID     uint32
	Kind   components.Kind
	X, Y   float64
	Angle  float64
	Radius float64
	Energy float64
	Alive  bool
	Color  color.RGBA
}

// Frame is a whole generation as seen at the end of an Update. Frames are
// never modified after publication.
type Frame struct {
	Tick      int32
	Entities  []EntityView
	Creatures int
	Food      int
}

// Frame returns the most recently published frame. Safe from any goroutine.
func (g *Game) Frame() *Frame {
	return g.frame.Load()
}

// publishFrame snapshots the live generation. Called with g.mu held.
func (g *Game) publishFrame() {
	f := &Frame{
		Tick:     g.tick,
		Entities: make([]EntityView, 0, len(g.live)),
	}
	for _, e := range g.live {
		body := g.bodyMap.Get(e).Handle
		en := g.energyMap.Get(e)
		pos := body.Position()

		v := EntityView{
			X:      pos.X,
			Y:      pos.Y,
			Angle:  body.Angle(),
			Radius: body.Radius(),
			Energy: en.Value,
			Alive:  en.Alive(),
		}
		if g.creatureMap.Has(e) {
			cr := g.creatureMap.Get(e)
			v.ID = cr.ID
			v.Kind = components.KindCreature
			v.Color = cr.DNA.Color()
			f.Creatures++
		} else {
			v.ID = g.foodMap.Get(e).ID
			v.Kind = components.KindFood
			v.Color = FoodColor
			f.Food++
		}
		f.Entities = append(f.Entities, v)
	}
	g.frame.Store(f)
}
