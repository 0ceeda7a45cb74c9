package game

import (
	"testing"

	"github.com/kgilmer/PiccadillyLife/components"
)

func TestSelectAtAndInspect(t *testing.T) {
	g := newTestGame(t, nil)

	for _, kind := range []components.Kind{components.KindCreature, components.KindFood} {
		t.Run(kind.String(), func(t *testing.T) {
			p := Entity{g: g, e: firstOf(t, g, kind)}.Position()

			id, ok := g.SelectAt(p.X, p.Y)
			if !ok {
				t.Fatalf("nothing selected at %v", p)
			}
			sel, ok := g.Inspect(id)
			if !ok {
				t.Fatalf("Inspect(%d) found nothing", id)
			}

			// Overlapping bodies may win the query; compare with whichever was hit.
			var h Entity
			for _, le := range g.LiveEntities() {
				if le.ID() == id {
					h = le
				}
			}
			if sel.Kind != kind || h.Kind() != kind {
				t.Errorf("kind = %s, want %s", sel.Kind, kind)
			}
			if sel.Energy != h.Energy() || sel.Radius != h.Radius() {
				t.Errorf("selection %+v disagrees with handle", sel)
			}
			if len(sel.Genes) != len(h.Genes()) {
				t.Errorf("genes = %d, want %d", len(sel.Genes), len(h.Genes()))
			}
			if kind == components.KindCreature {
				cr, _ := h.Creature()
				if sel.Threshold != cr.DNA.ReproductionThreshold() || sel.Generation != cr.Generation {
					t.Errorf("creature fields not copied: %+v", sel)
				}
			}
		})
	}
}

func TestSelectAtEmptySpace(t *testing.T) {
	g := newTestGame(t, nil)

	// Corners are outside every spawn area.
	if _, ok := g.SelectAt(7.9, 3.9); ok {
		t.Error("selected an entity in empty space")
	}
	if _, ok := g.Inspect(1 << 30); ok {
		t.Error("inspected an unknown id")
	}
}

func TestInspectAfterSweep(t *testing.T) {
	g := newTestGame(t, nil)
	e := firstOf(t, g, components.KindCreature)
	id := g.creatureMap.Get(e).ID

	g.energyMap.Get(e).Value = 0
	g.Update(0)

	if _, ok := g.Inspect(id); ok {
		t.Error("swept entity still inspectable")
	}
}
