package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/physics"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

// spawnInitialPopulation creates the founders and the seed food clusters.
func (g *Game) spawnInitialPopulation() {
	cc := g.cfg.Creature
	seed := genetics.SeedParams{
		MaxRadius:        cc.MaxRadius,
		MinRestCycles:    cc.MinRestCycles,
		RestCyclesSpread: cc.RestCyclesSpread,
		MinThreshold:     cc.MinThreshold,
		ThresholdSpread:  cc.ThresholdSpread,
	}
	for i := 0; i < cc.InitialCount; i++ {
		pos := g.randomIn(cc.SpawnCenter, cc.SpawnSize)
		g.spawnCreature(pos, genetics.SeedMovingDNA(g.rng, seed), cc.InitialEnergy, 0, 0)
	}

	fc := g.cfg.Food
	centers := fc.SpawnCenters
	if len(centers) == 0 {
		centers = []config.Vec2{{}}
	}
	per := fc.DefaultCount / len(centers)
	for _, c := range centers {
		g.spawnFoodCluster(per, c)
	}
}

// randomIn returns a uniform point in the rectangle of the given size
// centred on center.
func (g *Game) randomIn(center, size config.Vec2) physics.Vec {
	x := center.X + size.X*(g.rng.Float64()-0.5)
	y := center.Y + size.Y*(g.rng.Float64()-0.5)
	return physics.V(x, y)
}

// spawnCreature creates a creature entity and its dynamic body and appends
// it to the live generation.
func (g *Game) spawnCreature(pos physics.Vec, dna *genetics.MovingDNA, energy float64, parentID uint32, generation int) ecs.Entity {
	cc := g.cfg.Creature
	body := g.physics.CreateBody(physics.BodyDef{
		Kind:           physics.Dynamic,
		Position:       pos,
		LinearDamping:  cc.LinearDamping,
		AngularDamping: cc.AngularDamping,
	})
	g.physics.CreateFixture(body, physics.FixtureDef{
		Radius:      dna.Radius(),
		Density:     cc.Density,
		Restitution: cc.Restitution,
		Friction:    g.cfg.Physics.Friction,
	})

	g.nextID++
	id := g.nextID
	cr := components.Creature{
		ID:         id,
		DNA:        dna,
		Generation: generation,
		ParentID:   parentID,
	}
	entity := g.creatureNew.NewEntity(
		&components.Body{Handle: body},
		&components.Energy{Value: energy},
		&cr,
	)
	g.owners[body.ID()] = entity
	g.live = append(g.live, entity)

	g.lifetime.Register(id, g.tick, parentID, generation, energy)
	g.recordEvent(telemetry.NewBirthEvent(g.tick, id, parentID, generation, dna))
	return entity
}

// spawnFood creates a food entity and its static body.
func (g *Game) spawnFood(pos physics.Vec, dna genetics.StaticDNA, energy float64) ecs.Entity {
	body := g.physics.CreateBody(physics.BodyDef{Kind: physics.Static, Position: pos})
	g.physics.CreateFixture(body, physics.FixtureDef{
		Radius:      dna.Radius(),
		Restitution: g.cfg.Food.Restitution,
		Friction:    g.cfg.Physics.Friction,
	})

	g.nextID++
	entity := g.foodNew.NewEntity(
		&components.Body{Handle: body},
		&components.Energy{Value: energy},
		&components.Food{ID: g.nextID, DNA: dna},
	)
	g.owners[body.ID()] = entity
	g.live = append(g.live, entity)
	return entity
}

// spawnFoodCluster scatters n food over the configured spawn area at center.
func (g *Game) spawnFoodCluster(n int, center config.Vec2) {
	fc := g.cfg.Food
	for i := 0; i < n; i++ {
		pos := g.randomIn(center, fc.SpawnSize)
		dna := genetics.NewStaticDNA(g.rng.Float64() * fc.MaxRadius)
		g.spawnFood(pos, dna, fc.InitialEnergy)
	}
}

// sweep destroys the body of a dead entity and stages it for removal.
// Each entity is swept at most once: it leaves live before the next pass.
func (g *Game) sweep(e ecs.Entity) {
	body := g.bodyMap.Get(e)
	en := g.energyMap.Get(e)

	kind := components.KindFood
	var id uint32
	var age int
	var lifespan int32
	if g.creatureMap.Has(e) {
		cr := g.creatureMap.Get(e)
		kind = components.KindCreature
		id, age = cr.ID, cr.Age
		if s := g.lifetime.Remove(id); s != nil {
			lifespan = g.tick - s.BirthTick
			g.hallOfFame.Consider(id, cr.DNA, s, float64(lifespan)*g.cfg.Derived.StepSeconds)
		}
	} else {
		id = g.foodMap.Get(e).ID
	}

	delete(g.owners, body.Handle.ID())
	g.physics.DestroyBody(body.Handle)
	body.Handle = nil

	g.collector.RecordDeath(kind, lifespan)
	g.recordEvent(telemetry.NewDeathEvent(g.tick, id, kind, age, en.Value))
	g.reaped = append(g.reaped, e)
}

// considerSurvivors offers every live creature to the hall of fame.
func (g *Game) considerSurvivors() {
	q := g.creatureView.Query()
	for q.Next() {
		_, cr := q.Get()
		if s := g.lifetime.Get(cr.ID); s != nil {
			g.hallOfFame.Consider(cr.ID, cr.DNA, s, float64(g.tick-s.BirthTick)*g.cfg.Derived.StepSeconds)
		}
	}
}

// removeReaped drops swept entities from the live generation and the arena.
func (g *Game) removeReaped() {
	if len(g.reaped) == 0 {
		return
	}
	gone := make(map[ecs.Entity]struct{}, len(g.reaped))
	for _, e := range g.reaped {
		gone[e] = struct{}{}
		g.world.RemoveEntity(e)
	}

	kept := g.live[:0]
	for _, e := range g.live {
		if _, ok := gone[e]; !ok {
			kept = append(kept, e)
		}
	}
	clear(g.live[len(kept):])
	g.live = kept
	g.reaped = g.reaped[:0]
}

// materializeBirths turns staged births into creatures at the position and
// energy captured when the parent reproduced.
func (g *Game) materializeBirths() {
	for _, b := range g.newborns {
		g.spawnCreature(b.Position, b.DNA, b.Energy, b.ParentID, b.Generation)
	}
	clear(g.newborns)
	g.newborns = g.newborns[:0]
}

// replenishFood spawns one batch of food when the food count drops below
// the batch size. The batch centre is drawn along the x axis.
func (g *Game) replenishFood() {
	batch := g.cfg.Derived.FoodBatch
	_, food := g.counts()
	if food >= batch {
		return
	}

	jitter := g.cfg.Food.ReplenishJitter
	center := config.Vec2{}
	if jitter > 0 {
		center.X = float64(g.rng.Intn(jitter) - jitter/2)
	}
	g.spawnFoodCluster(batch, center)
	g.collector.RecordReplenish(batch)

	slog.Info("food_replenished",
		"tick", g.tick,
		"food_before", food,
		"spawned", batch,
		"center_x", center.X,
	)
}
