package game

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

const eps = 1e-9

func newTestGame(t *testing.T, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	g, err := NewGame(Options{Config: cfg, Seed: 7})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

// firstOf returns the first live entity of the given kind.
func firstOf(t *testing.T, g *Game, kind components.Kind) ecs.Entity {
	t.Helper()
	for _, e := range g.live {
		if g.creatureMap.Has(e) == (kind == components.KindCreature) {
			return e
		}
	}
	t.Fatalf("no %s in live generation", kind)
	return ecs.Entity{}
}

func TestNewGameSeedsPopulation(t *testing.T) {
	g := newTestGame(t, nil)

	creatures, food := g.Counts()
	if creatures != 20 || food != 20 {
		t.Fatalf("counts = %d/%d, want 20/20", creatures, food)
	}
	if g.physics.BodyCount() != 40 {
		t.Errorf("body count = %d, want 40", g.physics.BodyCount())
	}

	var left, right int
	for _, h := range g.LiveEntities() {
		p := h.Position()
		switch h.Kind() {
		case components.KindCreature:
			if math.Abs(p.X) > 2 || math.Abs(p.Y) > 2 {
				t.Errorf("creature %d outside spawn area: %v", h.ID(), p)
			}
		case components.KindFood:
			if math.Abs(p.Y) > 3 || math.Abs(math.Abs(p.X)-6) > 2 {
				t.Errorf("food %d outside spawn clusters: %v", h.ID(), p)
			}
			if p.X < 0 {
				left++
			} else {
				right++
			}
		}
	}
	if left != 10 || right != 10 {
		t.Errorf("food clusters = %d/%d, want 10/10", left, right)
	}
}

func TestUpdateZeroOnlyTicksEntities(t *testing.T) {
	g := newTestGame(t, nil)

	type snapshot struct {
		energy, mass float64
	}
	before := make(map[ecs.Entity]snapshot)
	for _, e := range g.live {
		if g.creatureMap.Has(e) {
			before[e] = snapshot{g.energyMap.Get(e).Value, g.bodyMap.Get(e).Handle.Mass()}
		}
	}

	const calls = 39
	for i := 0; i < calls; i++ {
		g.Update(0)
	}

	creatures, food := g.Counts()
	if creatures != 20 || food != 20 {
		t.Fatalf("counts = %d/%d, want 20/20", creatures, food)
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want no physics steps", g.Tick())
	}
	for e, s := range before {
		want := s.energy - calls*g.rules.HeartbeatCost*s.mass
		if got := g.energyMap.Get(e).Value; math.Abs(got-want) > eps {
			t.Errorf("energy = %v, want %v", got, want)
		}
		if cr := g.creatureMap.Get(e); cr.Age != calls || cr.Cursor != 0 {
			t.Errorf("age/cursor = %d/%d, want %d/0", cr.Age, cr.Cursor, calls)
		}
	}
}

func TestDeadEntitySweptNextPass(t *testing.T) {
	g := newTestGame(t, nil)
	e := firstOf(t, g, components.KindCreature)
	mass := g.bodyMap.Get(e).Handle.Mass()

	// One heartbeat takes it below zero.
	g.energyMap.Get(e).Value = 0.5 * g.rules.HeartbeatCost * mass

	g.Update(0)
	if !g.world.Alive(e) {
		t.Fatal("entity removed in the pass that killed it")
	}
	if g.energyMap.Get(e).Alive() {
		t.Fatal("entity should be dead after one heartbeat")
	}
	if creatures, _ := g.Counts(); creatures != 20 {
		t.Errorf("creatures = %d, want 20 before sweep", creatures)
	}

	g.Update(0)
	if g.world.Alive(e) {
		t.Error("dead entity not swept on the next pass")
	}
	if creatures, _ := g.Counts(); creatures != 19 {
		t.Errorf("creatures = %d, want 19 after sweep", creatures)
	}
	if g.physics.BodyCount() != 39 {
		t.Errorf("body count = %d, want 39", g.physics.BodyCount())
	}
	for _, le := range g.live {
		if le == e {
			t.Error("swept entity still in live generation")
		}
	}
}

func TestReplenishment(t *testing.T) {
	g := newTestGame(t, nil)

	killed := 0
	for _, e := range g.live {
		if !g.creatureMap.Has(e) && killed < 11 {
			g.energyMap.Get(e).Value = 0
			killed++
		}
	}

	g.Update(0)
	_, food := g.Counts()
	if want := 20 - 11 + g.cfg.Derived.FoodBatch; food != want {
		t.Fatalf("food = %d, want %d", food, want)
	}

	// Above the low-water mark nothing is added.
	g.Update(0)
	if _, again := g.Counts(); again != food {
		t.Errorf("food = %d after second update, want %d", again, food)
	}

	hw, hh := g.cfg.World.HalfWidth, g.cfg.World.HalfHeight
	for _, h := range g.LiveEntities() {
		if h.Kind() != components.KindFood {
			continue
		}
		p := h.Position()
		if math.Abs(p.X) > hw || math.Abs(p.Y) > hh {
			t.Errorf("food %d spawned outside the world: %v", h.ID(), p)
		}
	}
}

func TestFramePublished(t *testing.T) {
	g := newTestGame(t, nil)

	first := g.Frame()
	if first == nil {
		t.Fatal("no frame after NewGame")
	}
	if first.Creatures != 20 || first.Food != 20 || len(first.Entities) != 40 {
		t.Fatalf("unexpected first frame: %d creatures, %d food, %d entities",
			first.Creatures, first.Food, len(first.Entities))
	}

	for i := 0; i < 5; i++ {
		g.Update(20)
	}
	next := g.Frame()
	if next == first {
		t.Fatal("frame not replaced by Update")
	}
	if next.Tick != 5 {
		t.Errorf("frame tick = %d, want 5", next.Tick)
	}
	if len(first.Entities) != 40 {
		t.Error("published frame was modified")
	}

	live := g.LiveEntities()
	if len(live) != len(next.Entities) {
		t.Fatalf("frame has %d entities, live has %d", len(next.Entities), len(live))
	}
	for i, h := range live {
		v := next.Entities[i]
		if v.ID != h.ID() || v.Kind != h.Kind() {
			t.Errorf("entity %d: frame %d/%s, live %d/%s", i, v.ID, v.Kind, h.ID(), h.Kind())
		}
	}
}

func TestEntityAccessors(t *testing.T) {
	g := newTestGame(t, nil)

	for _, h := range g.LiveEntities() {
		switch h.Kind() {
		case components.KindCreature:
			cr, ok := h.Creature()
			if !ok {
				t.Fatal("creature handle without creature state")
			}
			if h.IsStatic() || h.Color() != cr.DNA.Color() || len(h.Genes()) != 27 {
				t.Errorf("creature %d accessors inconsistent", h.ID())
			}
			if h.Mass() <= 0 {
				t.Errorf("creature %d has no mass", h.ID())
			}
		case components.KindFood:
			if !h.IsStatic() || h.Color() != FoodColor || len(h.Genes()) != 1 {
				t.Errorf("food %d accessors inconsistent", h.ID())
			}
		}
		if !h.IsAlive() || h.Energy() <= 0 || h.Radius() <= 0 {
			t.Errorf("entity %d not alive at start", h.ID())
		}
	}

	var zero Entity
	if zero.IsAlive() || zero.ID() != 0 || zero.Genes() != nil {
		t.Error("zero handle should read as dead")
	}
}

func TestSeedDeterminism(t *testing.T) {
	seeded := func(seed int64) ([]EntityView, [][]int) {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		g, err := NewGame(Options{Config: cfg, Seed: seed})
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		defer g.Close()

		var genes [][]int
		for _, h := range g.LiveEntities() {
			genes = append(genes, h.Genes())
		}
		return g.Frame().Entities, genes
	}

	framesEqual := func(a, b []EntityView) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	a, genesA := seeded(3)
	b, genesB := seeded(3)
	if !framesEqual(a, b) {
		t.Fatal("same seed produced different populations")
	}
	for i := range genesA {
		for j := range genesA[i] {
			if genesA[i][j] != genesB[i][j] {
				t.Fatalf("entity %d gene %d differs", i, j)
			}
		}
	}

	if c, _ := seeded(4); framesEqual(a, c) {
		t.Error("different seeds produced identical populations")
	}
}

func TestTelemetryOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	var windows []telemetry.WindowStats
	lineagePath := filepath.Join(dir, "lineage.db")
	g, err := NewGame(Options{
		Config:         cfg,
		Seed:           11,
		StatsWindowSec: 0.1,
		OutputDir:      filepath.Join(dir, "out"),
		LineagePath:    lineagePath,
		RunID:          "test-run",
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	for i := 0; i < 10; i++ {
		g.Update(20)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 5 || windows[0].Food != 20 {
		t.Errorf("unexpected first window: %+v", windows[0])
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	store := telemetry.NewLineageStore(lineagePath, "test-run")
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("reopening lineage: %v", err)
	}
	defer store.Close()
	births, err := store.Births(context.Background())
	if err != nil {
		t.Fatalf("Births: %v", err)
	}
	founders := 0
	for _, b := range births {
		if b.Tick == 0 && b.ParentID == 0 {
			founders++
		}
	}
	if founders != 20 {
		t.Errorf("founders in ledger = %d, want 20", founders)
	}
}

func TestHallOfFameReturnsCopy(t *testing.T) {
	g := newTestGame(t, nil)

	hof := g.HallOfFame()
	c := firstOf(t, g, components.KindCreature)
	hof.Consider(1, g.creatureMap.Get(c).DNA, &telemetry.LifetimeStats{Children: 2}, 1)

	if got := g.HallOfFame().Size(); got != 0 {
		t.Errorf("game hall size = %d after editing the returned copy, want 0", got)
	}
}
