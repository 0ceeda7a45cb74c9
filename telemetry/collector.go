package telemetry

import (
	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/genetics"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	creatureBirths int
	birthsByStrat  [genetics.NumStrategies]int
	creatureDeaths int
	foodDeaths     int
	meals          int
	encounters     int
	skippedBirths  int
	replenishments int
	foodSpawned    int
	lifespans      []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a creature birth under its parent's strategy.
func (c *Collector) RecordBirth(s genetics.Strategy) {
	c.creatureBirths++
	if s < genetics.NumStrategies {
		c.birthsByStrat[s]++
	}
}

// RecordSkippedBirth records an admitted reproduction whose DNA produced no offspring.
func (c *Collector) RecordSkippedBirth() {
	c.skippedBirths++
}

// RecordDeath records a death event. lifespanTicks is ignored for food.
func (c *Collector) RecordDeath(kind components.Kind, lifespanTicks int32) {
	if kind == components.KindFood {
		c.foodDeaths++
		return
	}
	c.creatureDeaths++
	c.lifespans = append(c.lifespans, float64(lifespanTicks)*c.dt)
}

// RecordMeal records a creature/food contact.
func (c *Collector) RecordMeal() {
	c.meals++
}

// RecordEncounter records a creature/creature contact.
func (c *Collector) RecordEncounter() {
	c.encounters++
}

// RecordReplenish records one replenishment batch of n food.
func (c *Collector) RecordReplenish(n int) {
	c.replenishments++
	c.foodSpawned += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample is the state of the live population at flush time.
type PopulationSample struct {
	FoodCount     int
	FoodEnergy    float64
	Energies      []float64 // one per creature
	Ages          []float64 // ticks
	MaxGeneration int
	Strategies    [genetics.NumStrategies]int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop PopulationSample) WindowStats {
	mean, p10, p50, p90 := ComputeEnergyStats(pop.Energies)
	meanAge, _ := MeanStd(pop.Ages)
	meanLifespan, _ := MeanStd(c.lifespans)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Creatures: len(pop.Energies),
		Food:      pop.FoodCount,

		Births:         c.creatureBirths,
		BirthsExact:    c.birthsByStrat[genetics.Exact],
		BirthsScramble: c.birthsByStrat[genetics.Scrambled],
		BirthsMutate:   c.birthsByStrat[genetics.Mutate],
		BirthsCombine:  c.birthsByStrat[genetics.Combine],
		SkippedBirths:  c.skippedBirths,
		CreatureDeaths: c.creatureDeaths,
		FoodDeaths:     c.foodDeaths,
		Meals:          c.meals,
		Encounters:     c.encounters,
		Replenishments: c.replenishments,
		FoodSpawned:    c.foodSpawned,

		EnergyMean: mean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,
		FoodEnergy: pop.FoodEnergy,

		MeanAgeSec:      meanAge * c.dt,
		MeanLifespanSec: meanLifespan,
		MaxGeneration:   pop.MaxGeneration,

		LiveExact:    pop.Strategies[genetics.Exact],
		LiveScramble: pop.Strategies[genetics.Scrambled],
		LiveMutate:   pop.Strategies[genetics.Mutate],
		LiveCombine:  pop.Strategies[genetics.Combine],
	}

	c.reset(currentTick)
	return stats
}

func (c *Collector) reset(currentTick int32) {
	c.windowStartTick = currentTick
	c.creatureBirths = 0
	c.birthsByStrat = [genetics.NumStrategies]int{}
	c.creatureDeaths = 0
	c.foodDeaths = 0
	c.meals = 0
	c.encounters = 0
	c.skippedBirths = 0
	c.replenishments = 0
	c.foodSpawned = 0
	c.lifespans = c.lifespans[:0]
}
