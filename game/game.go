// Package game is the population manager: it owns the physics world and the
// entity arena, runs the fixed-timestep update loop and publishes frames for
// concurrent readers.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/physics"
	"github.com/kgilmer/PiccadillyLife/systems"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

// hallOfFameSize caps the genomes kept per run.
const hallOfFameSize = 20

// Options configures game initialization.
type Options struct {
	Config         *config.Config // nil loads the embedded defaults
	Seed           int64
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // 0 uses the config value
	OutputDir      string  // CSV output, empty disables
	LineagePath    string  // SQLite lineage ledger, empty disables
	RunID          string

	// StatsCallback, when set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	mu sync.Mutex

	cfg   *config.Config
	rules systems.Rules
	rng   *rand.Rand
	seed  int64

	// Entity arena
	world        *ecs.World
	creatureNew  *ecs.Map3[components.Body, components.Energy, components.Creature]
	foodNew      *ecs.Map3[components.Body, components.Energy, components.Food]
	bodyMap      *ecs.Map[components.Body]
	energyMap    *ecs.Map[components.Energy]
	creatureMap  *ecs.Map[components.Creature]
	foodMap      *ecs.Map[components.Food]
	creatureView *ecs.Filter2[components.Energy, components.Creature]
	foodView     *ecs.Filter2[components.Energy, components.Food]

	physics *physics.World
	owners  map[uint64]ecs.Entity // body id -> entity, dropped on destroy

	// Population
	live     []ecs.Entity
	reaped   []ecs.Entity
	newborns []systems.Birth
	drags    map[int]*physics.DragConstraint

	accumulator int64 // ms not yet consumed by physics steps
	tick        int32 // physics steps taken
	nextID      uint32

	frame atomic.Pointer[Frame]

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	lifetime      *telemetry.LifetimeTracker
	bookmarks     *telemetry.BookmarkDetector
	hallOfFame    *telemetry.HallOfFame
	output        *telemetry.OutputManager
	lineage       *telemetry.LineageStore
	pending       []telemetry.Event
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	closed        bool
}

// NewGame creates a seeded simulation: creatures around the origin, food in
// two clusters and a closed boundary.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:          cfg,
		rules:        systems.NewRules(cfg),
		rng:          rand.New(rand.NewSource(opts.Seed)),
		seed:         opts.Seed,
		world:        world,
		creatureNew:  ecs.NewMap3[components.Body, components.Energy, components.Creature](world),
		foodNew:      ecs.NewMap3[components.Body, components.Energy, components.Food](world),
		bodyMap:      ecs.NewMap[components.Body](world),
		energyMap:    ecs.NewMap[components.Energy](world),
		creatureMap:  ecs.NewMap[components.Creature](world),
		foodMap:      ecs.NewMap[components.Food](world),
		creatureView: ecs.NewFilter2[components.Energy, components.Creature](world),
		foodView:     ecs.NewFilter2[components.Energy, components.Food](world),
		owners:       make(map[uint64]ecs.Entity),
		drags:        make(map[int]*physics.DragConstraint),
		logStats:     opts.LogStats,
	}

	g.physics = physics.NewWorld(physics.V(0, 0), cfg.Physics.SleepTimeThreshold)
	g.physics.AddBoundary(cfg.World.HalfWidth, cfg.World.HalfHeight, cfg.Physics.WallRestitution, cfg.Physics.Friction)
	g.physics.SetContactListener(g)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.StepSeconds)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.lifetime = telemetry.NewLifetimeTracker()
	g.bookmarks = telemetry.NewBookmarkDetector(10)
	g.hallOfFame = telemetry.NewHallOfFame(hallOfFameSize)
	g.statsCallback = opts.StatsCallback

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		_ = output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.output = output

	if opts.LineagePath != "" {
		store := telemetry.NewLineageStore(opts.LineagePath, opts.RunID)
		if err := store.Init(context.Background()); err != nil {
			_ = output.Close()
			return nil, err
		}
		g.lineage = store
	}

	g.spawnInitialPopulation()
	g.publishFrame()

	slog.Debug("game created",
		"seed", opts.Seed,
		"creatures", cfg.Creature.InitialCount,
		"food", len(g.live)-cfg.Creature.InitialCount,
	)
	return g, nil
}

// Close flushes pending lineage events, writes the hall of fame and closes
// telemetry outputs.
func (g *Game) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true

	var firstErr error
	if err := g.writeLineage(); err != nil {
		firstErr = err
	}
	g.considerSurvivors()
	if err := g.output.WriteHallOfFame(g.hallOfFame); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := g.lineage.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := g.output.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// HallOfFame returns a copy of the fittest creatures seen so far. Survivors
// are considered only at Close.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hallOfFame.Clone()
}

// Tick returns the number of physics steps taken.
func (g *Game) Tick() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the configuration in use. It must not be modified.
func (g *Game) Config() *config.Config { return g.cfg }

// Counts returns the number of creatures and food in the live generation.
func (g *Game) Counts() (creatures, food int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts()
}

func (g *Game) counts() (creatures, food int) {
	for _, e := range g.live {
		if g.creatureMap.Has(e) {
			creatures++
		} else {
			food++
		}
	}
	return creatures, food
}
