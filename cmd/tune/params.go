package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of steering parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "seek_gain", Path: "steering.seek_gain", Min: 0.2, Max: 4.0, Default: 1.0},
			{Name: "separation_radius", Path: "steering.separation_radius", Min: 0.5, Max: 5.0, Default: 2.0},
			{Name: "separation_strength", Path: "steering.separation_strength", Min: 0.5, Max: 12.0, Default: 4.0},
			{Name: "containment_gain", Path: "steering.containment_gain", Min: 0.5, Max: 20.0, Default: 6.0},
			{Name: "max_accel", Path: "steering.max_accel", Min: 2.0, Max: 20.0, Default: 8.0},
			{Name: "reach_distance", Path: "retarget.reach_distance", Min: 0.5, Max: 4.0, Default: 1.5},
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Steering.SeekGain = c[0]
	cfg.Steering.SeparationRadius = c[1]
	cfg.Steering.SeparationStrength = c[2]
	cfg.Steering.ContainmentGain = c[3]
	cfg.Steering.MaxAccel = c[4]
	cfg.Retarget.ReachDistance = c[5]
	cfg.ComputeDerived()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Steering.SeekGain,
		cfg.Steering.SeparationRadius,
		cfg.Steering.SeparationStrength,
		cfg.Steering.ContainmentGain,
		cfg.Steering.MaxAccel,
		cfg.Retarget.ReachDistance,
	}
}
