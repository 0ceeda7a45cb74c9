package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"half width", cfg.World.HalfWidth, 8},
		{"half height", cfg.World.HalfHeight, 4},
		{"step ms", float64(cfg.Physics.StepMillis), 20},
		{"velocity iterations", float64(cfg.Physics.VelocityIterations), 10},
		{"position iterations", float64(cfg.Physics.PositionIterations), 5},
		{"creature count", float64(cfg.Creature.InitialCount), 20},
		{"creature energy", cfg.Creature.InitialEnergy, 30},
		{"activation delay", float64(cfg.Creature.ActivationDelay), 40},
		{"min reproduction age", float64(cfg.Creature.MinReproductionAge), 100},
		{"heartbeat", cfg.Creature.HeartbeatCost, 0.05},
		{"food count", float64(cfg.Food.DefaultCount), 20},
		{"food energy", cfg.Food.InitialEnergy, 100},
		{"transfer factor", cfg.Energy.TransferFactor, 100},
		{"drag force", cfg.Interaction.DragForceFactor, 1000},
		{"step seconds", cfg.Derived.StepSeconds, 0.02},
		{"food batch", float64(cfg.Derived.FoodBatch), 10},
		{"ticks per window", float64(cfg.Derived.TicksPerWindow), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if len(cfg.Food.SpawnCenters) != 2 {
		t.Errorf("spawn centers = %d, want 2", len(cfg.Food.SpawnCenters))
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("creature:\n  initial_count: 5\nfood:\n  default_count: 8\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Creature.InitialCount != 5 {
		t.Errorf("initial_count = %d, want 5", cfg.Creature.InitialCount)
	}
	if cfg.Derived.FoodBatch != 4 {
		t.Errorf("food batch = %d, want 4", cfg.Derived.FoodBatch)
	}
	// Untouched fields keep their defaults
	if cfg.Creature.InitialEnergy != 30 {
		t.Errorf("initial_energy = %v, want 30", cfg.Creature.InitialEnergy)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  step_ms: 0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for zero step")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := cfg.Clone()
	c.Food.SpawnCenters[0].X = 99
	c.Creature.InitialCount = 1
	if cfg.Food.SpawnCenters[0].X == 99 || cfg.Creature.InitialCount == 1 {
		t.Error("clone shares state with original")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Energy.TransferFactor = 42
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written: %v", err)
	}
	if loaded.Energy.TransferFactor != 42 {
		t.Errorf("transfer factor = %v, want 42", loaded.Energy.TransferFactor)
	}
}
