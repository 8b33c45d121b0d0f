package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
)

// ParamSpec is one tunable config value with its search bounds.
type ParamSpec struct {
	Name    string
	Path    string // dotted YAML path, for reports
	Min     float64
	Max     float64
	Default float64

	field func(*config.Config) *float64
}

func (s ParamSpec) clamp(v float64) float64 { return mgl64.Clamp(v, s.Min, s.Max) }

func (s ParamSpec) normalize(v float64) float64 { return (v - s.Min) / (s.Max - s.Min) }

func (s ParamSpec) denormalize(u float64) float64 { return s.Min + u*(s.Max-s.Min) }

// ParamVector is the ordered parameter set the optimizer searches over.
// Vectors passed to its methods are indexed like Specs.
type ParamVector struct {
	Specs []ParamSpec
}

// powerplant and vehicle build specs for the two tuned config sections.
func powerplant(name string, lo, hi, def float64, f func(*config.PowerPlantConfig) *float64) ParamSpec {
	return ParamSpec{Name: name, Path: "powerplant." + name, Min: lo, Max: hi, Default: def,
		field: func(c *config.Config) *float64 { return f(&c.PowerPlant) }}
}

func vehicle(name string, lo, hi, def float64, f func(*config.VehicleConfig) *float64) ParamSpec {
	return ParamSpec{Name: name, Path: "vehicle." + name, Min: lo, Max: hi, Default: def,
		field: func(c *config.Config) *float64 { return f(&c.Vehicle) }}
}

// NewParamVector returns the handling parameters: torque curve, boost
// economy, steering response and downforce range.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		powerplant("standard_torque", 200, 800, 420, func(p *config.PowerPlantConfig) *float64 { return &p.StandardTorque }),
		powerplant("min_torque", 40, 300, 140, func(p *config.PowerPlantConfig) *float64 { return &p.MinTorque }),
		powerplant("boost_torque", 400, 1400, 720, func(p *config.PowerPlantConfig) *float64 { return &p.BoostTorque }),
		powerplant("boost_acq_rate", 1, 20, 6, func(p *config.PowerPlantConfig) *float64 { return &p.BoostAcqRate }),
		powerplant("boost_depletion_rate", 5, 60, 35, func(p *config.PowerPlantConfig) *float64 { return &p.BoostDepletionRate }),

		vehicle("max_steering_angle", 15, 45, 32, func(v *config.VehicleConfig) *float64 { return &v.MaxSteeringAngle }),
		vehicle("damp_start_percent", 0.1, 0.9, 0.35, func(v *config.VehicleConfig) *float64 { return &v.DampStartPercent }),
		vehicle("min_steering_damp", 0.1, 1.0, 0.45, func(v *config.VehicleConfig) *float64 { return &v.MinSteeringDamp }),

		vehicle("min_downforce", 0, 1000, 150, func(v *config.VehicleConfig) *float64 { return &v.MinDownforce }),
		vehicle("max_downforce", 500, 6000, 2600, func(v *config.VehicleConfig) *float64 { return &v.MaxDownforce }),
	}}
}

// each builds a vector by applying f to every spec and its slot in v.
// A nil v passes zeros.
func (pv *ParamVector) each(v []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		var x float64
		if v != nil {
			x = v[i]
		}
		out[i] = f(spec, x)
	}
	return out
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// DefaultVector returns every spec's default.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0, 1] within each spec's bounds.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, ParamSpec.normalize)
}

// Denormalize maps [0, 1] values back to raw values.
func (pv *ParamVector) Denormalize(u []float64) []float64 {
	return pv.each(u, ParamSpec.denormalize)
}

// Clamp limits every value to its spec's bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, ParamSpec.clamp)
}

// ApplyToConfig writes the clamped values into cfg, then keeps max downforce
// at or above min downforce and boost torque at or above standard torque.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
	cfg.Vehicle.MaxDownforce = max(cfg.Vehicle.MaxDownforce, cfg.Vehicle.MinDownforce)
	cfg.PowerPlant.BoostTorque = max(cfg.PowerPlant.BoostTorque, cfg.PowerPlant.StandardTorque)
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return *s.field(cfg) })
}
