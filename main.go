package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/kgilmer/PiccadillyLife/camera"
	"github.com/kgilmer/PiccadillyLife/config"
	"github.com/kgilmer/PiccadillyLife/game"
	"github.com/kgilmer/PiccadillyLife/renderer"
	"github.com/kgilmer/PiccadillyLife/ui"
)

// mousePointer is the pointer id used for the mouse.
const mousePointer = 0

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	lineage := flag.String("lineage", "", "SQLite file for the birth/death ledger (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N physics steps (0 = unlimited)")
	tilt := flag.Bool("tilt", false, "Headless: drive a noise-based tilt force")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	runID := uuid.NewString()

	g, err := game.NewGame(game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		LineagePath:    *lineage,
		RunID:          runID,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}

	slog.Info("run_started",
		"run_id", runID,
		"seed", rngSeed,
		"headless", *headless,
		"max_ticks", *maxTicks,
		"output_dir", *outputDir,
		"lineage", *lineage,
	)

	start := time.Now()
	if *headless {
		runHeadless(g, cfg, *maxTicks, *tilt)
	} else {
		runWindowed(g, cfg, *maxTicks)
	}

	creatures, food := g.Counts()
	if err := g.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
	}
	slog.Info("run_finished",
		"run_id", runID,
		"ticks", g.Tick(),
		"creatures", creatures,
		"food", food,
		"wall_time", time.Since(start).String(),
	)
}

// runHeadless steps the simulation as fast as possible, one physics step
// per update.
func runHeadless(g *game.Game, cfg *config.Config, maxTicks int, withTilt bool) {
	var source *game.Tilt
	if withTilt {
		source = game.NewTilt(g.Seed(), cfg.Interaction.TiltRate)
	}

	for {
		if source != nil {
			sec := float64(g.Tick()) * cfg.Derived.StepSeconds
			ax, ay := source.Sample(sec)
			g.ApplyGlobalForce(game.TiltForce(ax, ay, cfg.Interaction.TiltScale))
		}
		g.Update(cfg.Physics.StepMillis)

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
		if creatures, _ := g.Counts(); creatures == 0 {
			slog.Info("population extinct", "tick", g.Tick())
			return
		}
	}
}

// runWindowed drives the simulation from a background goroutine and draws
// published frames on the main thread.
func runWindowed(g *game.Game, cfg *config.Config, maxTicks int) {
	vc := cfg.Viewer
	rl.InitWindow(int32(vc.Width), int32(vc.Height), "Piccadilly Life")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(vc.TargetFPS))

	cam := camera.New(float32(vc.Width), float32(vc.Height), float32(vc.ViewportSize),
		float32(cfg.World.HalfWidth), float32(cfg.World.HalfHeight))
	world := renderer.NewWorldRenderer(cam, float32(cfg.World.HalfWidth), float32(cfg.World.HalfHeight))
	controls := renderer.Controls{Tilt: 0.5}
	inspector := ui.NewInspector(10, 80, 240, float32(cfg.Food.InitialEnergy))
	var selected uint32

	ctx, cancel := context.WithCancel(context.Background())
	driver := game.NewDriver(g, time.Duration(vc.UpdateMillis)*time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("driver stopped", "error", err)
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	for !rl.WindowShouldClose() {
		handlePointer(g, cam)
		handleTilt(g, cfg, controls.Tilt)
		if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
			mouse := rl.GetMousePosition()
			wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
			selected, _ = g.SelectAt(float64(wx), float64(wy))
		}

		f := g.Frame()
		rl.BeginDrawing()
		world.Draw(f)
		renderer.DrawHUD(f, controls.Paused)
		if selected != 0 {
			if sel, ok := g.Inspect(selected); ok {
				inspector.Draw(sel)
			} else {
				selected = 0
			}
		}
		if renderer.DrawControls(&controls, int32(vc.Width)) {
			driver.SetPaused(controls.Paused)
		}
		rl.EndDrawing()

		if maxTicks > 0 && f != nil && int(f.Tick) >= maxTicks {
			slog.Info("max ticks reached", "tick", f.Tick)
			return
		}
	}
}

// handlePointer translates mouse drags into user actions.
func handlePointer(g *game.Game, cam *camera.Camera) {
	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	x, y := float64(wx), float64(wy)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		g.UserActionStart(mousePointer, x, y)
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.UserActionUpdate(mousePointer, x, y)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		g.UserActionEnd(mousePointer, x, y)
	}
}

// handleTilt maps arrow keys to a simulated accelerometer reading. strength
// scales the reading from zero up to one standard gravity.
func handleTilt(g *game.Game, cfg *config.Config, strength float32) {
	var ax, ay float64
	if rl.IsKeyDown(rl.KeyLeft) {
		ay -= 1
	}
	if rl.IsKeyDown(rl.KeyRight) {
		ay += 1
	}
	if rl.IsKeyDown(rl.KeyUp) {
		ax -= 1
	}
	if rl.IsKeyDown(rl.KeyDown) {
		ax += 1
	}
	if ax == 0 && ay == 0 {
		return
	}

	reading := game.StandardGravity * float64(strength)
	fx, fy := game.TiltForce(ax*reading, ay*reading, cfg.Interaction.TiltScale)
	g.ApplyGlobalForce(fx, fy)
}
