package game

import "github.com/kgilmer/PiccadillyLife/physics"

// UserActionStart grabs the dynamic body under (x, y), in world coordinates,
// and drags it with the given pointer. Static bodies and empty space are
// ignored. Starting again with an active pointer replaces its constraint.
func (g *Game) UserActionStart(pointerID int, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	target := physics.V(x, y)
	body := g.physics.BodyAt(target)
	if body == nil || body.IsStatic() {
		return
	}

	if old, ok := g.drags[pointerID]; ok {
		g.physics.DestroyConstraint(old)
	}
	maxForce := g.cfg.Interaction.DragForceFactor * body.Mass()
	g.drags[pointerID] = g.physics.CreateDragConstraint(body, target, maxForce)
}

// UserActionUpdate moves the drag target of pointerID. Unknown pointers are
// ignored.
func (g *Game) UserActionUpdate(pointerID int, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if d, ok := g.drags[pointerID]; ok {
		d.SetTarget(physics.V(x, y))
	}
}

// UserActionEnd releases the body dragged by pointerID. Unknown pointers are
// ignored.
func (g *Game) UserActionEnd(pointerID int, _, _ float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.drags[pointerID]
	if !ok {
		return
	}
	g.physics.DestroyConstraint(d)
	delete(g.drags, pointerID)
}

// ActiveDrags returns the number of pointers currently holding a body.
func (g *Game) ActiveDrags() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, d := range g.drags {
		if !d.Removed() {
			n++
		}
	}
	return n
}

// ApplyGlobalForce pushes every creature with (fx, fy) scaled by its mass,
// applied at its centre for the next physics step.
func (g *Game) ApplyGlobalForce(fx, fy float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range g.live {
		if !g.creatureMap.Has(e) {
			continue
		}
		body := g.bodyMap.Get(e).Handle
		if body == nil {
			continue
		}
		m := body.Mass()
		body.ApplyForce(physics.V(fx*m, fy*m), body.Position())
	}
}
