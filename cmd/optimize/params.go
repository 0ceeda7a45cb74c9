// Package main provides CMA-ES optimization for simulation parameters.
package main

import (
	"github.com/kgilmer/PiccadillyLife/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Creature metabolism
			{Name: "initial_energy", Path: "creature.initial_energy", Min: 5, Max: 100, Default: 30},
			{Name: "heartbeat_cost", Path: "creature.heartbeat_cost", Min: 0.005, Max: 0.2, Default: 0.05},
			{Name: "movement_cost", Path: "creature.movement_cost", Min: 1, Max: 30, Default: 10},
			{Name: "impulse_factor", Path: "creature.impulse_factor", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "min_reproduction_age", Path: "creature.min_reproduction_age", Min: 20, Max: 400, Default: 100},
			// Food economy
			{Name: "transfer_factor", Path: "energy.transfer_factor", Min: 10, Max: 300, Default: 100},
			{Name: "regen_rate", Path: "food.regen_rate", Min: 0.01, Max: 1.0, Default: 0.1},
			{Name: "food_initial_energy", Path: "food.initial_energy", Min: 20, Max: 400, Default: 100},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Creature.InitialEnergy = c[0]
	cfg.Creature.HeartbeatCost = c[1]
	cfg.Creature.MovementCost = c[2]
	cfg.Creature.ImpulseFactor = c[3]
	cfg.Creature.MinReproductionAge = int(c[4])

	cfg.Energy.TransferFactor = c[5]
	cfg.Food.RegenRate = c[6]
	cfg.Food.InitialEnergy = c[7]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Creature.InitialEnergy,
		cfg.Creature.HeartbeatCost,
		cfg.Creature.MovementCost,
		cfg.Creature.ImpulseFactor,
		float64(cfg.Creature.MinReproductionAge),
		cfg.Energy.TransferFactor,
		cfg.Food.RegenRate,
		cfg.Food.InitialEnergy,
	}
}
