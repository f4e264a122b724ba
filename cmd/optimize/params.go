package main

import (
	"math"

	"github.com/pthm-cable/daisyworld/config"
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
			// Growth
			{Name: "growth_width", Path: "growth.width", Min: 0.001, Max: 0.015, Default: 0.003265},
			{Name: "nutrient_gain", Path: "growth.nutrient_gain", Min: 2, Max: 10, Default: 5},
			// Lifecycle (death_age locked)
			{Name: "maturity_age", Path: "lifecycle.maturity_age", Min: 5, Max: 29, Default: 23},
			{Name: "repro_threshold", Path: "lifecycle.reproduction_threshold", Min: 5, Max: 60, Default: 20},
			// Reproduction
			{Name: "mate_radius", Path: "reproduction.mate_radius", Min: 1, Max: 15, Default: 7},
			{Name: "clonal_cost", Path: "reproduction.clonal_cost", Min: 2, Max: 30, Default: 12},
			{Name: "sexual_cost", Path: "reproduction.sexual_cost", Min: 2, Max: 30, Default: 15},
			// Mutation
			{Name: "mutation_low", Path: "mutation.rate_low", Min: 0, Max: 0.2, Default: 0.01},
			{Name: "mutation_high", Path: "mutation.rate_high", Min: 0, Max: 0.3, Default: 0.05},
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
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to cfg and refreshes its derived
// values. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Growth.Width = clamped[i]; i++
	cfg.Growth.NutrientGain = clamped[i]; i++

	cfg.Lifecycle.MaturityAge = int(math.Round(clamped[i])); i++
	cfg.Lifecycle.ReproductionThreshold = clamped[i]; i++

	cfg.Reproduction.MateRadius = clamped[i]; i++
	cfg.Reproduction.ClonalCost = clamped[i]; i++
	cfg.Reproduction.SexualCost = clamped[i]; i++

	cfg.Mutation.RateLow = clamped[i]; i++
	cfg.Mutation.RateHigh = clamped[i]

	return cfg.Finalize()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Derived.GrowthWidth,
		cfg.Growth.NutrientGain,
		float64(cfg.Lifecycle.MaturityAge),
		cfg.Lifecycle.ReproductionThreshold,
		cfg.Reproduction.MateRadius,
		cfg.Reproduction.ClonalCost,
		cfg.Reproduction.SexualCost,
		cfg.Mutation.RateLow,
		cfg.Mutation.RateHigh,
	}
}
