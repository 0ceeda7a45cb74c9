package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Creatures int `csv:"creatures"`
	Food      int `csv:"food"`

	// Events during window
	Births         int `csv:"births"`
	BirthsExact    int `csv:"births_exact"`
	BirthsScramble int `csv:"births_scrambled"`
	BirthsMutate   int `csv:"births_mutate"`
	BirthsCombine  int `csv:"births_combine"`
	SkippedBirths  int `csv:"skipped_births"`
	CreatureDeaths int `csv:"creature_deaths"`
	FoodDeaths     int `csv:"food_deaths"`
	Meals          int `csv:"meals"`
	Encounters     int `csv:"encounters"`
	Replenishments int `csv:"replenishments"`
	FoodSpawned    int `csv:"food_spawned"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
	FoodEnergy float64 `csv:"food_energy"` // Total energy held by food

	// Demographics
	MeanAgeSec      float64 `csv:"mean_age"`
	MeanLifespanSec float64 `csv:"mean_lifespan"` // Creatures that died this window
	MaxGeneration   int     `csv:"max_generation"`

	// Strategy census of the live population
	LiveExact    int `csv:"live_exact"`
	LiveScramble int `csv:"live_scrambled"`
	LiveMutate   int `csv:"live_mutate"`
	LiveCombine  int `csv:"live_combine"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// MeanStd returns the mean and population standard deviation, or zeros
// for an empty slice.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("creatures", s.Creatures),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("births_exact", s.BirthsExact),
		slog.Int("births_scrambled", s.BirthsScramble),
		slog.Int("births_mutate", s.BirthsMutate),
		slog.Int("births_combine", s.BirthsCombine),
		slog.Int("skipped_births", s.SkippedBirths),
		slog.Int("creature_deaths", s.CreatureDeaths),
		slog.Int("food_deaths", s.FoodDeaths),
		slog.Int("meals", s.Meals),
		slog.Int("encounters", s.Encounters),
		slog.Int("replenishments", s.Replenishments),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("food_energy", s.FoodEnergy),
		slog.Float64("mean_age", s.MeanAgeSec),
		slog.Float64("mean_lifespan", s.MeanLifespanSec),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Int("live_exact", s.LiveExact),
		slog.Int("live_scrambled", s.LiveScramble),
		slog.Int("live_mutate", s.LiveMutate),
		slog.Int("live_combine", s.LiveCombine),
	)
}

// LogStats logs the headline window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"creatures", s.Creatures,
		"food", s.Food,
		"births", s.Births,
		"creature_deaths", s.CreatureDeaths,
		"meals", s.Meals,
		"energy_p50", s.EnergyP50,
		"max_generation", s.MaxGeneration,
	)
}
