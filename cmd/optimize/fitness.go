package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/game"
	"github.com/kgilmer/PiccadillyLife/genetics"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu             sync.Mutex
	bestFitness    float64
	bestWindows    []telemetry.WindowStats
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
	lastSurvival   float64 // mean survival ticks from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvivalSec returns the mean survival time across seeds from the most
// recent evaluation, in simulated seconds.
func (fe *FitnessEvaluator) LastSurvivalSec() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival * fe.baseConfig.Derived.StepSeconds
}

// A population that stays below minViablePop for extinctionGraceSec counts
// as functionally extinct.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run one after another: the physics engine's shape ids are
// process-global and not safe to allocate from several goroutines.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	var totalFitness, totalQuality, totalSurvival float64
	bestSeedFitness := math.Inf(1)
	var bestSeed *runResult

	for _, seed := range fe.seeds {
		result, err := fe.runSimulation(x, seed)
		if err != nil {
			slog.Error("simulation failed", "seed", seed, "error", err)
			continue
		}
		quality := computeQuality(result.windowStats)
		fitness := computeFitness(result.survivalTicks, quality)
		totalFitness += fitness
		totalQuality += quality
		totalSurvival += float64(result.survivalTicks)
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeed = result
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness && bestSeed != nil {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestSeed.windowStats
		fe.bestHallOfFame = bestSeed.hallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.lastSurvival = totalSurvival / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.NewGame(game.Options{
		Config:         cfg,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Warn("closing run", "seed", seed, "error", err)
		}
		result.hallOfFame = g.HallOfFame()
	}()

	dt := cfg.Derived.StepSeconds
	graceTicks := int32(extinctionGraceSec / dt)
	warmupTicks := int32(warmupSec / dt)
	var belowTicks int32

	for g.Tick() < fe.maxTicks {
		g.Update(cfg.Physics.StepMillis)

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		creatures, _ := g.Counts()
		if creatures == 0 {
			result.survivalTicks = tick
			return result, nil
		}
		if creatures < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick
			return result, nil
		}
	}

	result.survivalTicks = fe.maxTicks
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs with
// similar survival.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.35
	qualityWeightEnergy    = 0.25
	qualityWeightTurnover  = 0.20
	qualityWeightDiversity = 0.20

	qualityWarmupWindows = 3 // skip first N windows
	qualityMinPop        = 3 // exclude windows below this
)

// computeQuality computes ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var counts []float64
	var energySum, turnoverSum, diversitySum float64
	var n int

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Creatures < qualityMinPop {
			continue
		}
		n++
		counts = append(counts, float64(w.Creatures))

		// Median energy near the starting energy is healthy; hoarding
		// or starvation both score lower.
		logErr := math.Log(math.Max(w.EnergyP50, 1e-6) / 30.0)
		energySum += math.Exp(-logErr * logErr)

		// Births per creature per window, saturating.
		turnoverSum += 1.0 - math.Exp(-float64(w.Births)/float64(w.Creatures))

		diversitySum += strategyEntropy(w)
	}

	if n == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stability = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightStability*stability +
		qualityWeightEnergy*energySum/float64(n) +
		qualityWeightTurnover*turnoverSum/float64(n) +
		qualityWeightDiversity*diversitySum/float64(n)

	return clamp01(quality)
}

// strategyEntropy returns the normalized Shannon entropy of the live
// strategy census, 1 when all strategies are equally common.
func strategyEntropy(w telemetry.WindowStats) float64 {
	census := []float64{
		float64(w.LiveExact),
		float64(w.LiveScramble),
		float64(w.LiveMutate),
		float64(w.LiveCombine),
	}
	var total float64
	for _, c := range census {
		total += c
	}
	if total == 0 {
		return 0
	}
	for i := range census {
		census[i] /= total
	}
	return stat.Entropy(census) / math.Log(float64(genetics.NumStrategies))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
