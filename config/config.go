// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	SwimBox   SwimBoxConfig   `yaml:"swim_box"`
	Steering  SteeringConfig  `yaml:"steering"`
	Retarget  RetargetConfig  `yaml:"retarget"`
	Spatial   SpatialConfig   `yaml:"spatial"`
	Wiggle    WiggleConfig    `yaml:"wiggle"`
	Observer  ObserverConfig  `yaml:"observer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Species   []SpeciesConfig `yaml:"species"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the static world bounds. The observer supplies the moving
// open-water bound each frame.
type WorldConfig struct {
	Floor   float64 `yaml:"floor"`   // Y of the sea floor
	Surface float64 `yaml:"surface"` // Y of the water surface
	Shore   float64 `yaml:"shore"`   // X of the shoreline
	Left    float64 `yaml:"left"`    // Z of the left lateral bound
	Right   float64 `yaml:"right"`   // Z of the right lateral bound
}

// SwimBoxConfig shapes the containment volume derived from the world bounds.
type SwimBoxConfig struct {
	Margin       float64 `yaml:"margin"`        // Inset from every world bound
	ObserverLead float64 `yaml:"observer_lead"` // Offset of maxX relative to the observer
	MinSpan      float64 `yaml:"min_span"`      // Degenerate spans are widened to this
}

// SteeringConfig holds force gains and integration limits.
type SteeringConfig struct {
	SeekGain           float64 `yaml:"seek_gain"`
	SeparationRadius   float64 `yaml:"separation_radius"`
	SeparationStrength float64 `yaml:"separation_strength"`
	ContainmentGain    float64 `yaml:"containment_gain"`
	MaxAccel           float64 `yaml:"max_accel"`
	MaxDT              float64 `yaml:"max_dt"` // Frame dt ceiling in seconds
}

// RetargetConfig holds wander-target scheduling parameters.
type RetargetConfig struct {
	ReachDistance float64 `yaml:"reach_distance"`
	TimeMin       float64 `yaml:"time_min"`
	TimeMax       float64 `yaml:"time_max"`
}

// SpatialConfig holds the spatial index rebuild clock.
type SpatialConfig struct {
	RebuildRate float64 `yaml:"rebuild_rate"` // Rebuilds per simulated second
}

// WiggleConfig holds shared wiggle parameters.
type WiggleConfig struct {
	SpeedFactorMin  float64 `yaml:"speed_factor_min"`
	SpeedFactorMax  float64 `yaml:"speed_factor_max"`
	ResolveInterval float64 `yaml:"resolve_interval"` // Seconds between moving-end re-resolution attempts
}

// ObserverConfig drives the diving observer when no viewer controls it.
type ObserverConfig struct {
	StartX    float64 `yaml:"start_x"`
	GoalX     float64 `yaml:"goal_x"`
	MaxX      float64 `yaml:"max_x"`
	DiveSpeed float64 `yaml:"dive_speed"` // Units per second toward the goal
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BiasConfig centers a species along one axis of the swim box.
type BiasConfig struct {
	Mean  float64 `yaml:"mean"`  // 0 = min side, 1 = max side
	Sigma float64 `yaml:"sigma"` // Fraction of the span; 0 = exact mean
}

// SpeciesWiggleConfig holds per-species wiggle animation parameters.
type SpeciesWiggleConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Mode             string  `yaml:"mode"`       // "left_right" or "up_down"
	MovingEnd        string  `yaml:"moving_end"` // "head" or "tail"
	PeriodSeconds    float64 `yaml:"period_seconds"`
	AmplitudeDegrees float64 `yaml:"amplitude_degrees"`
	Softness         float64 `yaml:"softness"`
}

// AxisFlipsConfig flips the sign of the detected forward axis.
type AxisFlipsConfig struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// SpeciesConfig defines one species of swimming agent.
type SpeciesConfig struct {
	Key        string              `yaml:"key"`
	Population int                 `yaml:"population"`
	SizeScale  float64             `yaml:"size_scale"`
	SpeedScale float64             `yaml:"speed_scale"`
	SpeedMin   float64             `yaml:"speed_min"`
	SpeedMax   float64             `yaml:"speed_max"`
	ShoreBias  BiasConfig          `yaml:"shore_bias"`
	DepthBias  BiasConfig          `yaml:"depth_bias"`
	Wiggle     SpeciesWiggleConfig `yaml:"wiggle"`
	Flips      AxisFlipsConfig     `yaml:"forward_axis_flips"`
	Extents    [3]float64          `yaml:"extents"` // Rest bounding-box size from the model
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	RebuildInterval float64        // 1 / Spatial.RebuildRate
	TotalPopulation int            // Sum of species populations
	SpeciesIndex    map[string]int // key -> index for species lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults without touching the global config.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
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

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// applyDefaults fills species fields a user file may leave out.
func (c *Config) applyDefaults() {
	for i := range c.Species {
		sp := &c.Species[i]
		if sp.SizeScale == 0 {
			sp.SizeScale = 1
		}
		if sp.SpeedScale == 0 {
			sp.SpeedScale = 1
		}
		if sp.Extents == [3]float64{} {
			sp.Extents = [3]float64{1, 0.4, 0.25}
		}
		if sp.Wiggle.Mode == "" {
			sp.Wiggle.Mode = "left_right"
		}
		if sp.Wiggle.MovingEnd == "" {
			sp.Wiggle.MovingEnd = "tail"
		}
	}
}

// Validate checks the parameters the simulation assumes are well formed.
// Malformed species are rejected here so the per-tick code never re-checks them.
func (c *Config) Validate() error {
	var errs []error

	s := c.Steering
	if s.SeparationRadius <= 0 {
		errs = append(errs, fmt.Errorf("steering.separation_radius must be > 0, got %v", s.SeparationRadius))
	}
	if s.MaxAccel <= 0 {
		errs = append(errs, fmt.Errorf("steering.max_accel must be > 0, got %v", s.MaxAccel))
	}
	if s.MaxDT <= 0 {
		errs = append(errs, fmt.Errorf("steering.max_dt must be > 0, got %v", s.MaxDT))
	}
	if c.Spatial.RebuildRate <= 0 {
		errs = append(errs, fmt.Errorf("spatial.rebuild_rate must be > 0, got %v", c.Spatial.RebuildRate))
	}
	if c.Retarget.TimeMin < 0 || c.Retarget.TimeMax < c.Retarget.TimeMin {
		errs = append(errs, fmt.Errorf("retarget time range [%v, %v] invalid", c.Retarget.TimeMin, c.Retarget.TimeMax))
	}
	if c.SwimBox.MinSpan <= 0 {
		errs = append(errs, fmt.Errorf("swim_box.min_span must be > 0, got %v", c.SwimBox.MinSpan))
	}
	if c.Wiggle.SpeedFactorMax < c.Wiggle.SpeedFactorMin {
		errs = append(errs, fmt.Errorf("wiggle speed factor range [%v, %v] invalid", c.Wiggle.SpeedFactorMin, c.Wiggle.SpeedFactorMax))
	}

	if len(c.Species) == 0 {
		errs = append(errs, errors.New("at least one species is required"))
	}
	seen := make(map[string]bool, len(c.Species))
	for i := range c.Species {
		sp := &c.Species[i]
		if sp.Key == "" {
			errs = append(errs, fmt.Errorf("species[%d]: key is required", i))
		} else if seen[sp.Key] {
			errs = append(errs, fmt.Errorf("species[%d]: duplicate key %q", i, sp.Key))
		}
		seen[sp.Key] = true
		if err := sp.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("species %q: %w", sp.Key, err))
		}
	}

	return errors.Join(errs...)
}

// Validate checks a single species definition.
func (sp *SpeciesConfig) Validate() error {
	var errs []error
	if sp.Population <= 0 {
		errs = append(errs, fmt.Errorf("population must be > 0, got %d", sp.Population))
	}
	if sp.SizeScale <= 0 || sp.SpeedScale <= 0 {
		errs = append(errs, fmt.Errorf("size_scale and speed_scale must be > 0"))
	}
	if sp.SpeedMin < 0 || sp.SpeedMax <= 0 || sp.SpeedMin > sp.SpeedMax {
		errs = append(errs, fmt.Errorf("speed range [%v, %v] invalid", sp.SpeedMin, sp.SpeedMax))
	}
	for _, b := range []struct {
		name string
		bias BiasConfig
	}{{"shore_bias", sp.ShoreBias}, {"depth_bias", sp.DepthBias}} {
		if b.bias.Mean < 0 || b.bias.Mean > 1 {
			errs = append(errs, fmt.Errorf("%s.mean must be in [0, 1], got %v", b.name, b.bias.Mean))
		}
		if b.bias.Sigma < 0 {
			errs = append(errs, fmt.Errorf("%s.sigma must be >= 0, got %v", b.name, b.bias.Sigma))
		}
	}
	for _, e := range sp.Extents {
		if e <= 0 {
			errs = append(errs, fmt.Errorf("extents must be > 0, got %v", sp.Extents))
			break
		}
	}
	w := sp.Wiggle
	if w.Mode != "left_right" && w.Mode != "up_down" {
		errs = append(errs, fmt.Errorf("wiggle.mode %q unknown", w.Mode))
	}
	if w.MovingEnd != "head" && w.MovingEnd != "tail" {
		errs = append(errs, fmt.Errorf("wiggle.moving_end %q unknown", w.MovingEnd))
	}
	if w.Enabled && w.PeriodSeconds <= 0 {
		errs = append(errs, fmt.Errorf("wiggle.period_seconds must be > 0 when enabled"))
	}
	if w.Softness < 0 || w.Softness >= 1 {
		errs = append(errs, fmt.Errorf("wiggle.softness must be in [0, 1), got %v", w.Softness))
	}
	return errors.Join(errs...)
}

// ComputeDerived calculates values derived from loaded config.
// Call again after editing a loaded config in place.
func (c *Config) ComputeDerived() {
	c.Derived.RebuildInterval = 1.0 / c.Spatial.RebuildRate

	c.Derived.TotalPopulation = 0
	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.TotalPopulation += sp.Population
		c.Derived.SpeciesIndex[sp.Key] = i
	}
}

// Clone returns a deep copy safe to mutate independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = append([]SpeciesConfig(nil), c.Species...)
	out.ComputeDerived()
	return &out
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
