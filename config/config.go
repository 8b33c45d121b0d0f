// Package config provides configuration loading and access for the vehicle simulation.
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

// Brake axle selections for VehicleConfig.BrakeAxles.
const (
	BrakeAllAxles     = "all"
	BrakeNonSteering  = "non_steering"
	BrakeSteeringOnly = "steering"
)

// Input source names for InputConfig.Source.
const (
	InputKeyboard = "keyboard"
	InputTouch    = "touch"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen          ScreenConfig      `yaml:"screen"`
	Camera          CameraConfig      `yaml:"camera"`
	Physics         PhysicsConfig     `yaml:"physics"`
	Vehicle         VehicleConfig     `yaml:"vehicle"`
	PowerPlant      PowerPlantConfig  `yaml:"powerplant"`
	Contact         ContactConfig     `yaml:"contact"`
	WheelProperties []WheelProperties `yaml:"wheel_properties"`
	Axles           []AxleConfig      `yaml:"axles"`
	Input           InputConfig       `yaml:"input"`
	Bench           BenchConfig       `yaml:"bench"`
	Headless        HeadlessConfig    `yaml:"headless"`
	Telemetry       TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds follow camera parameters.
type CameraConfig struct {
	Offset         [2]float64 `yaml:"offset"`          // boom in car frame: [right, forward] metres
	PositionSmooth float64    `yaml:"position_smooth"` // smoothing time in ticks
	Zoom           float64    `yaml:"zoom"`            // pixels per metre
	MinZoom        float64    `yaml:"min_zoom"`
	MaxZoom        float64    `yaml:"max_zoom"`
}

// PhysicsConfig holds the fixed-step scheduling parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`
	Substeps int     `yaml:"substeps"`
}

// VehicleConfig holds the chassis-level constants used by the controller.
type VehicleConfig struct {
	CenterOfMass     [3]float64 `yaml:"center_of_mass"`
	MaxSpeed         float64    `yaml:"max_speed"`
	BrakeTorque      float64    `yaml:"brake_torque"`
	MaxSteeringAngle float64    `yaml:"max_steering_angle"` // degrees
	DampStartPercent float64    `yaml:"damp_start_percent"`
	MinSteeringDamp  float64    `yaml:"min_steering_damp"`
	MinDownforce     float64    `yaml:"min_downforce"`
	MaxDownforce     float64    `yaml:"max_downforce"`
	BrakeAxles       string     `yaml:"brake_axles"`
}

// PowerPlantConfig holds torque constants and boost economy rates.
type PowerPlantConfig struct {
	StandardTorque         float64 `yaml:"standard_torque"`
	MinTorque              float64 `yaml:"min_torque"`
	BoostTorque            float64 `yaml:"boost_torque"`
	InitialBoost           float64 `yaml:"initial_boost"`
	BoostAcqRate           float64 `yaml:"boost_acq_rate"`
	BoostAcqSpeedThreshold float64 `yaml:"boost_acq_speed_threshold"`
	BoostDepletionRate     float64 `yaml:"boost_depletion_rate"`
}

// ContactConfig holds contact-curve mapping options.
type ContactConfig struct {
	// CorrectedAsymptoteSlip takes the asymptote slip from the third point's slip
	// coordinate instead of its value.
	CorrectedAsymptoteSlip bool `yaml:"corrected_asymptote_slip"`
}

// CurveConfig is a sparse friction response: ordered (slip, value) control points
// plus a stiffness multiplier.
type CurveConfig struct {
	Points    [][2]float64 `yaml:"points"`
	Stiffness float64      `yaml:"stiffness"`
}

// WheelProperties is a named preset shared by any number of wheels.
type WheelProperties struct {
	Name                  string      `yaml:"name"`
	Spring                float64     `yaml:"spring"`
	Damper                float64     `yaml:"damper"`
	TargetPosition        float64     `yaml:"target_position"`
	BaseDampingRate       float64     `yaml:"base_damping_rate"`
	BadTerrainDampingRate float64     `yaml:"bad_terrain_damping_rate"`
	ForwardCurve          CurveConfig `yaml:"forward_curve"`
	LateralCurve          CurveConfig `yaml:"lateral_curve"`
}

// WheelConfig places one wheel and names its property preset.
type WheelConfig struct {
	Name       string     `yaml:"name"`
	Properties string     `yaml:"properties"`
	Position   [3]float64 `yaml:"position"` // chassis-local mount point
}

// AxleConfig groups wheels with their drive and steer flags.
type AxleConfig struct {
	Name     string        `yaml:"name"`
	Driven   bool          `yaml:"driven"`
	Steering bool          `yaml:"steering"`
	Wheels   []WheelConfig `yaml:"wheels"`
}

// InputConfig selects and tunes the input source.
type InputConfig struct {
	Source string      `yaml:"source"`
	Touch  TouchConfig `yaml:"touch"`
}

// TouchConfig holds the on-screen steering wheel parameters.
type TouchConfig struct {
	MaxAngle        float64 `yaml:"max_angle"` // degrees
	ValueMultiplier float64 `yaml:"value_multiplier"`
	ReturnSpeed     float64 `yaml:"return_speed"`   // degrees per second
	NearThreshold   float64 `yaml:"near_threshold"` // squared pixels
}

// BenchConfig holds the reference solver's chassis and track parameters.
type BenchConfig struct {
	Mass              float64    `yaml:"mass"`
	YawInertia        float64    `yaml:"yaw_inertia"`
	WheelRadius       float64    `yaml:"wheel_radius"`
	WheelInertia      float64    `yaml:"wheel_inertia"`
	Gravity           float64    `yaml:"gravity"`
	RollingResistance float64    `yaml:"rolling_resistance"`
	AirDrag           float64    `yaml:"air_drag"`
	TrackInnerRadius  float64    `yaml:"track_inner_radius"`
	TrackOuterRadius  float64    `yaml:"track_outer_radius"`
	StartPosition     [3]float64 `yaml:"start_position"`
	StartHeading      float64    `yaml:"start_heading"` // radians
}

// ScriptSegment is one timed block of scripted driver input.
type ScriptSegment struct {
	Duration float64 `yaml:"duration"`
	Steer    float64 `yaml:"steer"`
	Throttle float64 `yaml:"throttle"`
	Brake    float64 `yaml:"brake"`
	Boost    bool    `yaml:"boost"`
}

// HeadlessConfig holds the scripted input used when no human is driving.
type HeadlessConfig struct {
	Script []ScriptSegment `yaml:"script"`
	Loop   bool            `yaml:"loop"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WheelCount      int                         // total wheels over all axles
	PropertiesIndex map[string]*WheelProperties // name -> preset
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
		// Only overwrites fields present in file. Lists replace wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values the simulation cannot run without.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics.dt must be positive, got %v", ErrInvalid, c.Physics.DT)
	}
	if c.Vehicle.MaxSpeed <= 0 {
		return fmt.Errorf("%w: vehicle.max_speed must be positive, got %v", ErrInvalid, c.Vehicle.MaxSpeed)
	}
	if c.Vehicle.MinSteeringDamp < 0 || c.Vehicle.MinSteeringDamp > 1 {
		return fmt.Errorf("%w: vehicle.min_steering_damp must be in [0, 1], got %v", ErrInvalid, c.Vehicle.MinSteeringDamp)
	}
	if c.Vehicle.DampStartPercent < 0 || c.Vehicle.DampStartPercent >= 1 {
		return fmt.Errorf("%w: vehicle.damp_start_percent must be in [0, 1), got %v", ErrInvalid, c.Vehicle.DampStartPercent)
	}
	switch c.Vehicle.BrakeAxles {
	case BrakeAllAxles, BrakeNonSteering, BrakeSteeringOnly:
	default:
		return fmt.Errorf("%w: unknown vehicle.brake_axles %q", ErrInvalid, c.Vehicle.BrakeAxles)
	}
	switch c.Input.Source {
	case InputKeyboard, InputTouch:
	default:
		return fmt.Errorf("%w: unknown input.source %q", ErrInvalid, c.Input.Source)
	}

	presets := make(map[string]bool, len(c.WheelProperties))
	for _, p := range c.WheelProperties {
		presets[p.Name] = true
	}
	seen := make(map[string]bool)
	for _, axle := range c.Axles {
		for _, w := range axle.Wheels {
			if seen[w.Name] {
				return fmt.Errorf("%w: wheel %q listed more than once", ErrInvalid, w.Name)
			}
			seen[w.Name] = true
			// An empty preset name is allowed: the wheel starts disabled.
			if w.Properties != "" && !presets[w.Properties] {
				return fmt.Errorf("%w: wheel %q uses unknown properties %q", ErrInvalid, w.Name, w.Properties)
			}
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.Substeps < 1 {
		c.Physics.Substeps = 1
	}

	c.Derived.WheelCount = 0
	for _, axle := range c.Axles {
		c.Derived.WheelCount += len(axle.Wheels)
	}

	c.Derived.PropertiesIndex = make(map[string]*WheelProperties, len(c.WheelProperties))
	for i := range c.WheelProperties {
		p := &c.WheelProperties[i]
		c.Derived.PropertiesIndex[p.Name] = p
	}
}

// Properties returns the named wheel preset, or nil if there is none.
func (c *Config) Properties(name string) *WheelProperties {
	return c.Derived.PropertiesIndex[name]
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
