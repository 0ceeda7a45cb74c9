package game

import (
	"sync"
	"testing"
)

func TestEntityReadsDuringUpdates(t *testing.T) {
	g := newTestGame(t, nil)
	handles := g.LiveEntities()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			g.Update(20)
		}
	}()

	for i := 0; i < 200; i++ {
		for _, h := range handles {
			if h.IsAlive() && h.Radius() < 0 {
				t.Fatalf("entity %d has negative radius", h.ID())
			}
			_ = h.Energy()
			_ = h.Position()
			_, _ = h.Creature()
		}
	}
	wg.Wait()

	// Entities swept during the run read as dead with zero values.
	for _, h := range handles {
		if !h.IsAlive() && h.Energy() > 0 {
			t.Errorf("entity %d reads dead with energy %v", h.ID(), h.Energy())
		}
	}
}
