package telemetry

import (
	"math"
	"testing"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/genetics"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.02)

	if c.ShouldFlush(49) {
		t.Error("flushed before window end")
	}
	if !c.ShouldFlush(50) {
		t.Error("expected flush at 50 ticks")
	}

	c.RecordBirth(genetics.Exact)
	c.RecordBirth(genetics.Combine)
	c.RecordBirth(genetics.Combine)
	c.RecordSkippedBirth()
	c.RecordDeath(components.KindCreature, 100)
	c.RecordDeath(components.KindCreature, 300)
	c.RecordDeath(components.KindFood, 0)
	c.RecordMeal()
	c.RecordEncounter()
	c.RecordEncounter()
	c.RecordReplenish(10)

	pop := PopulationSample{
		FoodCount:     12,
		FoodEnergy:    1200,
		Energies:      []float64{10, 20, 30},
		Ages:          []float64{50, 150},
		MaxGeneration: 4,
	}
	pop.Strategies[genetics.Mutate] = 3

	s := c.Flush(50, pop)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"creatures", float64(s.Creatures), 3},
		{"food", float64(s.Food), 12},
		{"births", float64(s.Births), 3},
		{"births exact", float64(s.BirthsExact), 1},
		{"births combine", float64(s.BirthsCombine), 2},
		{"skipped", float64(s.SkippedBirths), 1},
		{"creature deaths", float64(s.CreatureDeaths), 2},
		{"food deaths", float64(s.FoodDeaths), 1},
		{"meals", float64(s.Meals), 1},
		{"encounters", float64(s.Encounters), 2},
		{"replenishments", float64(s.Replenishments), 1},
		{"food spawned", float64(s.FoodSpawned), 10},
		{"energy mean", s.EnergyMean, 20},
		{"energy p50", s.EnergyP50, 20},
		{"mean age sec", s.MeanAgeSec, 2},
		{"mean lifespan sec", s.MeanLifespanSec, 4},
		{"max generation", float64(s.MaxGeneration), 4},
		{"live mutate", float64(s.LiveMutate), 3},
		{"sim time", s.SimTimeSec, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	// Counters reset for the next window.
	next := c.Flush(100, PopulationSample{})
	if next.Births != 0 || next.CreatureDeaths != 0 || next.MeanLifespanSec != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 50 {
		t.Errorf("window start = %d, want 50", next.WindowStartTick)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, 0, 0, 30)
	lt.Register(2, 10, 1, 1, 15)
	lt.Register(3, 20, 1, 1, 15)

	lt.RecordMeal(1, 80)
	lt.RecordMeal(1, 50)
	lt.RecordEncounter(2)
	lt.RecordMeal(99, 10)

	p := lt.Get(1)
	if p.Children != 2 {
		t.Errorf("children = %d, want 2", p.Children)
	}
	if p.Meals != 2 || p.PeakEnergy != 80 {
		t.Errorf("meals/peak = %d/%v, want 2/80", p.Meals, p.PeakEnergy)
	}
	if lt.Get(2).Encounters != 1 {
		t.Error("encounter not recorded")
	}

	if s := lt.Remove(2); s == nil || s.BirthTick != 10 {
		t.Errorf("Remove returned %+v", s)
	}
	if lt.Get(2) != nil || lt.Count() != 2 {
		t.Error("removed creature still tracked")
	}
}
