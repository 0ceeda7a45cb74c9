// Package main provides CMA-ES optimization for finding simulation parameters
// that keep a creature population alive and reproducing.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 150000, "Maximum simulation duration in physics steps (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Per-run simulation events are noise here; keep warnings and errors.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds(*seeds), baseCfg)

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	evals := newEvalLog(logFile, params)

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*math.Log(float64(params.Dim())))
	}

	startTime := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evals.record(fitness, raw)
			reportProgress(evals, *maxEvals, evaluator, startTime)
			return fitness
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // seeds share process-global physics ids
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d, max_ticks=%d\n",
		params.Dim(), popSize, *maxEvals, *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := evals.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	fmt.Printf("\nOptimization complete after %d evaluations in %s, best fitness %.0f\n",
		evals.count, formatDuration(time.Since(startTime)), evals.bestFitness)
	if best == nil {
		return
	}

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, best[i])
	}

	for _, path := range saveResults(*outputDir, baseCfg, params, best, evaluator) {
		fmt.Printf("Saved %s\n", path)
	}
}

// evalSeeds returns n fixed, well separated simulation seeds.
func evalSeeds(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i*1000 + 42)
	}
	return out
}

// evalLog streams one CSV row per evaluation and tracks the best one.
type evalLog struct {
	w           *csv.Writer
	count       int
	bestFitness float64
	bestParams  []float64
}

func newEvalLog(out io.Writer, params *ParamVector) *evalLog {
	w := csv.NewWriter(out)
	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	_ = w.Write(header)
	w.Flush()
	return &evalLog{w: w, bestFitness: math.Inf(1)}
}

// record logs the parameter values actually simulated.
func (l *evalLog) record(fitness float64, raw []float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.bestParams = append([]float64(nil), raw...)
	}

	row := []string{strconv.Itoa(l.count), strconv.FormatFloat(fitness, 'f', 6, 64)}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	_ = l.w.Write(row)
	l.w.Flush()
}

func reportProgress(l *evalLog, maxEvals int, fe *FitnessEvaluator, start time.Time) {
	elapsed := time.Since(start)
	remaining := time.Duration(maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		l.count, maxEvals, fe.LastSurvivalSec(), fe.LastQuality(), l.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
}

// saveResults writes the best config, the window stats of its best seed and
// its hall of fame into dir. It returns the paths written.
func saveResults(dir string, base *config.Config, params *ParamVector, best []float64, fe *FitnessEvaluator) []string {
	var written []string

	cfg := base.Clone()
	params.ApplyToConfig(cfg, best)
	path := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		written = append(written, path)
	}

	if windows := fe.BestWindows(); len(windows) > 0 {
		path := filepath.Join(dir, "best_windows.csv")
		if err := writeWindows(path, windows); err != nil {
			log.Printf("failed to write best windows: %v", err)
		} else {
			written = append(written, path)
		}
	}

	if hof := fe.BestHallOfFame(); hof != nil && hof.Size() > 0 {
		path := filepath.Join(dir, "hall_of_fame.json")
		data, err := hof.MarshalJSON()
		if err == nil {
			err = os.WriteFile(path, data, 0644)
		}
		if err != nil {
			log.Printf("failed to write hall of fame: %v", err)
		} else {
			written = append(written, path)
		}
	}
	return written
}

func writeWindows(path string, windows []telemetry.WindowStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&windows, f)
}

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
