// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Creature    CreatureConfig    `yaml:"creature"`
	Food        FoodConfig        `yaml:"food"`
	Energy      EnergyConfig      `yaml:"energy"`
	Interaction InteractionConfig `yaml:"interaction"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Viewer      ViewerConfig      `yaml:"viewer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec2 is a pair of world-space coordinates or extents.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// WorldConfig holds the bounded arena dimensions.
type WorldConfig struct {
	HalfWidth  float64 `yaml:"half_width"`  // Boundary half-extent on x
	HalfHeight float64 `yaml:"half_height"` // Boundary half-extent on y
}

// PhysicsConfig holds rigid-body integration parameters.
type PhysicsConfig struct {
	StepMillis         int64   `yaml:"step_ms"`              // Fixed physics step
	VelocityIterations int     `yaml:"velocity_iterations"`  // Solver passes for velocity
	PositionIterations int     `yaml:"position_iterations"`  // Solver passes for position
	SleepTimeThreshold float64 `yaml:"sleep_time_threshold"` // Seconds at rest before a body sleeps
	WallRestitution    float64 `yaml:"wall_restitution"`
	Friction           float64 `yaml:"friction"`
}

// CreatureConfig holds moving-entity parameters.
type CreatureConfig struct {
	InitialCount       int     `yaml:"initial_count"`
	InitialEnergy      float64 `yaml:"initial_energy"`
	MaxRadius          float64 `yaml:"max_radius"`
	SpawnCenter        Vec2    `yaml:"spawn_center"`
	SpawnSize          Vec2    `yaml:"spawn_size"`
	LinearDamping      float64 `yaml:"linear_damping"`
	AngularDamping     float64 `yaml:"angular_damping"`
	Density            float64 `yaml:"density"`
	Restitution        float64 `yaml:"restitution"`
	ActivationDelay    int     `yaml:"activation_delay"`     // Ticks between movement instructions
	MinReproductionAge int     `yaml:"min_reproduction_age"` // Age must exceed this to reproduce
	HeartbeatCost      float64 `yaml:"heartbeat_cost"`       // Energy per tick per unit mass
	ImpulseFactor      float64 `yaml:"impulse_factor"`       // Impulse magnitude per unit mass
	MovementCost       float64 `yaml:"movement_cost"`        // Energy per unit impulse per unit mass
	MinRestCycles      int     `yaml:"min_rest_cycles"`      // Seed DNA rest cycles lower bound
	RestCyclesSpread   int     `yaml:"rest_cycles_spread"`
	MinThreshold       int     `yaml:"min_threshold"` // Seed DNA reproduction threshold lower bound
	ThresholdSpread    int     `yaml:"threshold_spread"`
}

// FoodConfig holds fixed-entity parameters.
type FoodConfig struct {
	DefaultCount    int     `yaml:"default_count"`
	InitialEnergy   float64 `yaml:"initial_energy"`
	MaxRadius       float64 `yaml:"max_radius"`
	RegenRate       float64 `yaml:"regen_rate"` // Energy per tick per unit radius
	Restitution     float64 `yaml:"restitution"`
	SpawnSize       Vec2    `yaml:"spawn_size"`
	SpawnCenters    []Vec2  `yaml:"spawn_centers"`    // Seed clusters, DefaultCount split evenly
	ReplenishJitter int     `yaml:"replenish_jitter"` // Replenish center x drawn from [-j/2, j/2)
}

// EnergyConfig holds the collision exchange parameters.
type EnergyConfig struct {
	TransferFactor float64 `yaml:"transfer_factor"` // Energy per unit mass per contact
}

// InteractionConfig holds pointer and tilt input parameters.
type InteractionConfig struct {
	DragForceFactor float64 `yaml:"drag_force_factor"` // Drag max force per unit mass
	TiltScale       float64 `yaml:"tilt_scale"`        // Sensor reading divisor
	TiltRate        float64 `yaml:"tilt_rate"`         // Noise frequency for headless tilt
}

// TelemetryConfig holds telemetry and perf window parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks per perf window
}

// ViewerConfig holds windowed-mode settings.
type ViewerConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TargetFPS    int     `yaml:"target_fps"`
	ViewportSize float64 `yaml:"viewport_size"` // World units spanned by the window width
	UpdateMillis int     `yaml:"update_ms"`     // Background driver cadence
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	StepSeconds    float64
	FoodBatch      int // Food spawned per replenishment, also the low-water mark
	TicksPerWindow int // Stats window length in fixed steps
}

var global *Config

// Init loads configuration from the given path (or embedded defaults if empty).
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy suitable for per-run overrides.
func (c *Config) Clone() *Config {
	out := *c
	out.Food.SpawnCenters = append([]Vec2(nil), c.Food.SpawnCenters...)
	return &out
}

func (c *Config) validate() error {
	if c.Physics.StepMillis <= 0 {
		return fmt.Errorf("physics.step_ms must be positive, got %d", c.Physics.StepMillis)
	}
	if c.Creature.ActivationDelay <= 0 {
		return fmt.Errorf("creature.activation_delay must be positive, got %d", c.Creature.ActivationDelay)
	}
	if c.World.HalfWidth <= 0 || c.World.HalfHeight <= 0 {
		return fmt.Errorf("world half extents must be positive, got %vx%v", c.World.HalfWidth, c.World.HalfHeight)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StepSeconds = float64(c.Physics.StepMillis) / 1000.0
	c.Derived.FoodBatch = c.Food.DefaultCount / 2

	ticks := int(c.Telemetry.StatsWindow * 1000 / float64(c.Physics.StepMillis))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
