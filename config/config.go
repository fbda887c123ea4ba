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
// The struct is treated as a read-only block once a tick has started; the
// engine swaps a new pointer in between ticks.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Genome       GenomeConfig       `yaml:"genome"`
	Morphology   MorphologyConfig   `yaml:"morphology"`
	Signals      SignalsConfig      `yaml:"signals"`
	Grid         GridConfig         `yaml:"grid"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Chemical     ChemicalConfig     `yaml:"chemical"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Flow         FlowConfig         `yaml:"flow"`
	Population   PopulationConfig   `yaml:"population"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Parts        []PartOverride     `yaml:"parts"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions and timestep.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DT     float64 `yaml:"dt"`
}

// GenomeConfig holds genome sizing parameters.
type GenomeConfig struct {
	InitialLength int `yaml:"initial_length"` // Bases in a fresh random genome
	MinLength     int `yaml:"min_length"`     // Deletion floor (bases)
}

// MorphologyConfig holds body construction parameters.
type MorphologyConfig struct {
	SignalGain float64 `yaml:"signal_gain"` // Gain on the signal-driven bend term
	MaxBend    float64 `yaml:"max_bend"`    // Hard clamp on per-joint bend (radians)
	MassFloor  float64 `yaml:"mass_floor"`  // Minimum total body mass
}

// SignalsConfig holds signal network parameters.
type SignalsConfig struct {
	Smoothing    float64 `yaml:"smoothing"`     // Blend toward previous value [0,1)
	SensorGain   float64 `yaml:"sensor_gain"`   // Gain on sqrt-compressed sensor input
	ClockFreq    float64 `yaml:"clock_freq"`    // Clock organ frequency (rad per age unit)
	EnablerRange float64 `yaml:"enabler_range"` // Enabler proximity falloff radius
}

// GridConfig holds spatial hash parameters.
type GridConfig struct {
	CellSize    float64 `yaml:"cell_size"`
	ClaimRings  int     `yaml:"claim_rings"`  // Max square-ring radius for insert collisions
	QueryRadius int     `yaml:"query_radius"` // Neighborhood scan radius in cells
	QueryCap    int     `yaml:"query_cap"`    // Max neighbors returned per query
}

// PhysicsConfig holds the overdamped integrator parameters.
type PhysicsConfig struct {
	DragCoeff       float64 `yaml:"drag_coeff"`        // Linear drag per unit mass
	RotDragCoeff    float64 `yaml:"rot_drag_coeff"`    // Rotational drag per unit inertia
	LengthDrag      float64 `yaml:"length_drag"`       // Extra rotational drag per body length
	VelSmoothing    float64 `yaml:"vel_smoothing"`     // Base exponential smoothing factor
	MaxSpeed        float64 `yaml:"max_speed"`         // Hard speed cap
	MaxAngVel       float64 `yaml:"max_ang_vel"`       // Hard angular velocity cap
	MaxForce        float64 `yaml:"max_force"`         // Per-part force saturation clamp
	SlopeScale      float64 `yaml:"slope_scale"`       // Terrain gradient force scale
	AmbientX        float64 `yaml:"ambient_x"`         // Ambient directional field
	AmbientY        float64 `yaml:"ambient_y"`
	RepulsionScale  float64 `yaml:"repulsion_scale"`   // Neighbor inverse-square strength
	RepulsionRange  float64 `yaml:"repulsion_range"`   // Neighbor force cutoff distance
	AnchorMassBoost float64 `yaml:"anchor_mass_boost"` // Local mass inflation while latched
}

// EnergyConfig holds the feeding and maintenance economy.
type EnergyConfig struct {
	BaseCost       float64 `yaml:"base_cost"`       // Per-part baseline per tick
	SpeedPenalty   float64 `yaml:"speed_penalty"`   // Exponential falloff of intake with speed
	DeathBase      float64 `yaml:"death_base"`      // Base death probability numerator
	EnergyFloor    float64 `yaml:"energy_floor"`    // Denominator floor for the death roll
	ResistMult     float64 `yaml:"resist_mult"`     // Per poison-resist organ multiplier
	DepositScatter float64 `yaml:"deposit_scatter"` // Stochastic spread of death deposits
}

// ReproductionConfig holds pairing and mutation parameters.
type ReproductionConfig struct {
	NominalRate   float64 `yaml:"nominal_rate"`   // Pairing success probability scale
	DecayRate     float64 `yaml:"decay_rate"`     // Complementary decrement probability scale
	StepCost      float64 `yaml:"step_cost"`      // Energy charged per pairing increment
	SexualRatio   float64 `yaml:"sexual_ratio"`   // Probability of reverse-complement offspring
	MutationRate  float64 `yaml:"mutation_rate"`  // Base per-base substitution rate
	InsertFactor  float64 `yaml:"insert_factor"`  // Segment insertion probability multiplier
	DeleteFactor  float64 `yaml:"delete_factor"`  // Segment deletion probability multiplier
	RadiationGain float64 `yaml:"radiation_gain"` // Cubic gain on the beta channel
	RadiationCap  float64 `yaml:"radiation_cap"`  // Cap on the cubic radiation term
	PendingCap    int     `yaml:"pending_cap"`    // Pending-spawn buffer capacity
}

// ChemicalConfig holds the dual-channel chemical field parameters.
type ChemicalConfig struct {
	GridW      int     `yaml:"grid_w"`
	GridH      int     `yaml:"grid_h"`
	RegrowRate float64 `yaml:"regrow_rate"`
	Diffuse    float64 `yaml:"diffuse"`
	AlphaScale float64 `yaml:"alpha_scale"` // Noise frequency, alpha capacity
	BetaScale  float64 `yaml:"beta_scale"`  // Noise frequency, beta capacity
	BetaLevel  float64 `yaml:"beta_level"`  // Global beta (toxin) intensity
}

// TerrainConfig holds heightfield parameters.
type TerrainConfig struct {
	GridW     int     `yaml:"grid_w"`
	GridH     int     `yaml:"grid_h"`
	Scale     float64 `yaml:"scale"`
	Amplitude float64 `yaml:"amplitude"`
}

// FlowConfig holds the external velocity field coupling.
type FlowConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Coupling float64 `yaml:"coupling"` // Force per unit relative velocity
	Swirl    float64 `yaml:"swirl"`    // Analytic swirl field strength
}

// PopulationConfig holds spawn parameters.
type PopulationConfig struct {
	Initial       int     `yaml:"initial"`
	MaxAgents     int     `yaml:"max_agents"`
	InitialEnergy float64 `yaml:"initial_energy"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
}

// PartOverride selectively overrides property-table fields for one base
// type. Pointer fields distinguish "unset" from zero; nil keeps the
// compiled default.
type PartOverride struct {
	Type             int      `yaml:"type"`
	SegmentLength    *float64 `yaml:"segment_length"`
	Thickness        *float64 `yaml:"thickness"`
	BaseAngle        *float64 `yaml:"base_angle"`
	AlphaSensitivity *float64 `yaml:"alpha_sensitivity"`
	BetaSensitivity  *float64 `yaml:"beta_sensitivity"`
	SignalDecay      *float64 `yaml:"signal_decay"`
	AbsorptionRate   *float64 `yaml:"absorption_rate"`
	EnergyStorage    *float64 `yaml:"energy_storage"`
	Consumption      *float64 `yaml:"consumption"`
	ThrustForce      *float64 `yaml:"thrust_force"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32
	WorldW32 float32
	WorldH32 float32
	GridCols int
	GridRows int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.World.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.GridCols = int(c.World.Width/c.Grid.CellSize) + 1
	c.Derived.GridRows = int(c.World.Height/c.Grid.CellSize) + 1
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
