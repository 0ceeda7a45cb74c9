package game

import (
	"github.com/kgilmer/PiccadillyLife/systems"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

// Update advances the simulation by dtMillis of wall-clock time.
//
// Every call ticks each live entity once, whatever dtMillis is. Dead
// entities are swept instead of ticked, the physics world then takes as many
// fixed steps as the accumulated time allows, staged births become creatures
// and food is replenished. A new frame is published before returning.
func (g *Game) Update(dtMillis int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.perf.StartTick()
	g.accumulator += dtMillis

	g.perf.StartPhase(telemetry.PhaseEntities)
	g.tickEntities()

	g.perf.StartPhase(telemetry.PhaseReap)
	g.removeReaped()

	g.perf.StartPhase(telemetry.PhasePhysics)
	g.stepPhysics()

	g.perf.StartPhase(telemetry.PhaseBirths)
	g.materializeBirths()

	g.perf.StartPhase(telemetry.PhaseReplenish)
	g.replenishFood()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.publishFrame()
	g.flushTelemetry()

	g.perf.EndTick()
}

// tickEntities runs one pass over the live generation in order.
func (g *Game) tickEntities() {
	for _, e := range g.live {
		en := g.energyMap.Get(e)
		if !en.Alive() {
			g.sweep(e)
			continue
		}

		body := g.bodyMap.Get(e).Handle
		if g.creatureMap.Has(e) {
			systems.StepCreature(g.creatureMap.Get(e), en, body, g.rules)
		} else {
			systems.StepFood(en, body, g.rules)
		}
	}
}

// stepPhysics consumes the accumulator in fixed steps.
func (g *Game) stepPhysics() {
	pc := g.cfg.Physics
	for g.accumulator >= pc.StepMillis {
		g.physics.Step(g.cfg.Derived.StepSeconds, pc.VelocityIterations, pc.PositionIterations)
		g.accumulator -= pc.StepMillis
		g.tick++
	}
}
