// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Growth width presets.
var growthPresets = map[string]float64{
	"high":    0.002,
	"default": 0.003265,
	"low":     0.013265,
}

// Config holds all simulation configuration parameters.
type Config struct {
	Grid         GridConfig         `yaml:"grid"`
	Luminosity   LuminosityConfig   `yaml:"luminosity"`
	Population   PopulationConfig   `yaml:"population"`
	Thermal      ThermalConfig      `yaml:"thermal"`
	Growth       GrowthConfig       `yaml:"growth"`
	Lifecycle    LifecycleConfig    `yaml:"lifecycle"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Run          RunConfig          `yaml:"run"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bookmarks    BookmarksConfig    `yaml:"bookmarks"`
	Optimize     OptimizeConfig     `yaml:"optimize"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the world dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LuminosityConfig describes the luminosity schedule.
// Values wins over the Start/Stop/Step sweep when non-empty.
type LuminosityConfig struct {
	Values []float64 `yaml:"values"`
	Start  float64   `yaml:"start"`
	Stop   float64   `yaml:"stop"` // exclusive
	Step   float64   `yaml:"step"`
}

// PopulationConfig holds initial seeding parameters.
type PopulationConfig struct {
	Initial       int     `yaml:"initial"`
	BandMin       float64 `yaml:"band_min"`
	BandMax       float64 `yaml:"band_max"`
	InitialAgeMax int     `yaml:"initial_age_max"`
}

// ThermalConfig holds radiative balance constants.
type ThermalConfig struct {
	Flux            float64 `yaml:"flux"`
	StefanBoltzmann float64 `yaml:"stefan_boltzmann"`
	HeatAbsorption  float64 `yaml:"heat_absorption"`
	AlbedoBlack     float64 `yaml:"albedo_black"`
	AlbedoWhite     float64 `yaml:"albedo_white"`
	AlbedoGround    float64 `yaml:"albedo_ground"`
	SolarPeak       float64 `yaml:"solar_peak"`
	SolarDrop       float64 `yaml:"solar_drop"`
}

// GrowthConfig holds the growth curve parameters.
type GrowthConfig struct {
	Preset       string  `yaml:"preset"`
	Width        float64 `yaml:"width"`         // quadratic width c; 0 = use preset
	NutrientGain float64 `yaml:"nutrient_gain"` // nutrients gained per cycle at growth rate 1
}

// LifecycleConfig holds ageing and maturity parameters.
type LifecycleConfig struct {
	DeathAge              int     `yaml:"death_age"`
	MaturityAge           int     `yaml:"maturity_age"`
	ReproductionThreshold float64 `yaml:"reproduction_threshold"`
	NutrientsMin          int     `yaml:"nutrients_min"`
	NutrientsMax          int     `yaml:"nutrients_max"`
}

// ReproductionConfig holds mate selection and dispersal parameters.
type ReproductionConfig struct {
	MateRadius      float64 `yaml:"mate_radius"`
	DispersalRadius int     `yaml:"dispersal_radius"`
	OffspringMin    int     `yaml:"offspring_min"`
	OffspringMax    int     `yaml:"offspring_max"`
	ClonalCost      float64 `yaml:"clonal_cost"`
	SexualCost      float64 `yaml:"sexual_cost"`
}

// MutationConfig holds per-allele mutation probabilities.
type MutationConfig struct {
	RateLow  float64 `yaml:"rate_low"`  // sexual offspring
	RateHigh float64 `yaml:"rate_high"` // clonal offspring
}

// RunConfig holds run loop parameters.
type RunConfig struct {
	CyclesPerLuminosity int `yaml:"cycles_per_luminosity"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow          int `yaml:"perf_window"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PopulationCrash PopulationCrashConfig `yaml:"population_crash"`
	Homeostasis     HomeostasisConfig     `yaml:"homeostasis"`
}

// PopulationCrashConfig holds population crash detection parameters.
type PopulationCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// HomeostasisConfig holds homeostasis detection parameters.
type HomeostasisConfig struct {
	MinTemp  float64 `yaml:"min_temp"`
	MaxTemp  float64 `yaml:"max_temp"`
	MinSteps int     `yaml:"min_steps"`
}

// OptimizeConfig holds the habitable band scored by cmd/optimize.
type OptimizeConfig struct {
	HabitableMin float64 `yaml:"habitable_min"`
	HabitableMax float64 `yaml:"habitable_max"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Schedule    []float64 // expanded luminosity schedule
	GrowthWidth float64   // resolved quadratic width c
	TotalCells  int
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

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it again after mutating fields in code.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	case len(c.Luminosity.Values) == 0 && c.Luminosity.Step <= 0:
		return errors.New("luminosity: step must be positive when no explicit values are given")
	case len(c.Luminosity.Values) == 0 && c.Luminosity.Stop <= c.Luminosity.Start:
		return fmt.Errorf("luminosity: stop %.3f must exceed start %.3f", c.Luminosity.Stop, c.Luminosity.Start)
	case c.Population.Initial < 0:
		return fmt.Errorf("population.initial must be non-negative, got %d", c.Population.Initial)
	case c.Population.BandMin < 0 || c.Population.BandMax > 1 || c.Population.BandMin >= c.Population.BandMax:
		return fmt.Errorf("population band [%.2f, %.2f) is invalid", c.Population.BandMin, c.Population.BandMax)
	case c.Reproduction.OffspringMin < 0 || c.Reproduction.OffspringMin > c.Reproduction.OffspringMax:
		return fmt.Errorf("reproduction offspring range [%d, %d] is invalid",
			c.Reproduction.OffspringMin, c.Reproduction.OffspringMax)
	case c.Lifecycle.NutrientsMin > c.Lifecycle.NutrientsMax:
		return fmt.Errorf("lifecycle nutrient range [%d, %d] is invalid",
			c.Lifecycle.NutrientsMin, c.Lifecycle.NutrientsMax)
	case !isProbability(c.Mutation.RateLow) || !isProbability(c.Mutation.RateHigh):
		return fmt.Errorf("mutation rates must lie in [0, 1], got %.3f/%.3f", c.Mutation.RateLow, c.Mutation.RateHigh)
	case c.Run.CyclesPerLuminosity <= 0:
		return fmt.Errorf("run.cycles_per_luminosity must be positive, got %d", c.Run.CyclesPerLuminosity)
	}
	if c.Growth.Width < 0 {
		return fmt.Errorf("growth.width must be non-negative, got %f", c.Growth.Width)
	}
	if c.Growth.Width == 0 {
		if _, ok := growthPresets[c.Growth.Preset]; !ok {
			return fmt.Errorf("unknown growth preset %q", c.Growth.Preset)
		}
	}
	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TotalCells = c.Grid.Width * c.Grid.Height

	c.Derived.GrowthWidth = c.Growth.Width
	if c.Derived.GrowthWidth == 0 {
		c.Derived.GrowthWidth = growthPresets[c.Growth.Preset]
	}

	if len(c.Luminosity.Values) > 0 {
		c.Derived.Schedule = append([]float64(nil), c.Luminosity.Values...)
		return
	}
	c.Derived.Schedule = Sweep(c.Luminosity.Start, c.Luminosity.Stop, c.Luminosity.Step)
}

// Sweep expands [start, stop) in increments of step.
// Values are computed as start+i*step to avoid accumulating rounding error.
func Sweep(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	steps := (stop - start) / step
	if r := math.Round(steps); math.Abs(steps-r) < 1e-9 {
		steps = r
	}
	out := make([]float64, int(math.Ceil(steps)))
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Clone returns a deep copy, safe to mutate independently.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Luminosity.Values = append([]float64(nil), c.Luminosity.Values...)
	cp.Derived.Schedule = append([]float64(nil), c.Derived.Schedule...)
	return &cp
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
