// Package vehicle implements the arcade vehicle core: wheels, axles, the
// power plant and the controller that runs the per-tick pipeline.
package vehicle

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

// Construction errors. These are fatal to the vehicle.
var (
	ErrMissingChassis       = errors.New("missing chassis")
	ErrMissingPowerPlant    = errors.New("missing power plant")
	ErrWheelInMultipleAxles = errors.New("wheel belongs to more than one axle")
)

// BrakeAxles selects which axles receive brake torque.
type BrakeAxles int

const (
	BrakeAll BrakeAxles = iota
	BrakeNonSteering
	BrakeSteering
)

// ParseBrakeAxles maps a config value to BrakeAxles. Unknown values select BrakeAll.
func ParseBrakeAxles(s string) BrakeAxles {
	switch s {
	case config.BrakeNonSteering:
		return BrakeNonSteering
	case config.BrakeSteeringOnly:
		return BrakeSteering
	default:
		return BrakeAll
	}
}

// ControlInput is one tick of driver input.
type ControlInput struct {
	Steer    float64 // [-1, 1]
	Throttle float64 // [-1, 1], negative is reverse
	Brake    float64 // [0, 1]
	Boost    bool
}

// Sanitized returns the input clamped to its ranges with NaN read as 0.
func (in ControlInput) Sanitized() ControlInput {
	return ControlInput{
		Steer:    clamp(finite(in.Steer), -1, 1),
		Throttle: clamp(finite(in.Throttle), -1, 1),
		Brake:    clamp01(finite(in.Brake)),
		Boost:    in.Boost,
	}
}

// Params are the vehicle constants.
type Params struct {
	CenterOfMass     mgl64.Vec3
	MaxSpeed         float64
	BrakeTorque      float64
	MaxSteeringAngle float64
	DampStartPercent float64
	MinSteeringDamp  float64
	MinDownforce     float64
	MaxDownforce     float64
	BrakeAxles       BrakeAxles
}

// ParamsFromConfig converts the vehicle config section.
func ParamsFromConfig(cfg config.VehicleConfig) Params {
	return Params{
		CenterOfMass:     mgl64.Vec3(cfg.CenterOfMass),
		MaxSpeed:         cfg.MaxSpeed,
		BrakeTorque:      cfg.BrakeTorque,
		MaxSteeringAngle: cfg.MaxSteeringAngle,
		DampStartPercent: cfg.DampStartPercent,
		MinSteeringDamp:  cfg.MinSteeringDamp,
		MinDownforce:     cfg.MinDownforce,
		MaxDownforce:     cfg.MaxDownforce,
		BrakeAxles:       ParseBrakeAxles(cfg.BrakeAxles),
	}
}

// WheelState is the published readout of one wheel.
type WheelState struct {
	Name        string
	Enabled     bool
	IsGrounded  bool
	GoodTerrain bool
	IsSlipping  bool
	ForwardSlip float64
	LateralSlip float64
}

// State is the snapshot published after each tick. It is a copy; consumers
// must not expect it to change until the next call to State.
type State struct {
	SpeedPercent      float64
	BoostReserve      float64
	IsBoosting        bool
	AllWheelsGrounded bool
	SteeringAngle     float64
	SteeringDamp      float64
	Downforce         float64
	EffectiveInput    ControlInput
	Wheels            []WheelState
}

// Controller runs the ordered per-tick pipeline for one vehicle.
type Controller struct {
	params  Params
	chassis Chassis
	power   *PowerPlant
	axles   []*Axle
	wheels  []*Wheel
	logger  *slog.Logger

	inputEnabled bool
	configErrors []error

	// Published outputs
	speedPercent  float64
	steeringDamp  float64
	steeringAngle float64
	downforce     float64
	allGrounded   bool
	effective     ControlInput
}

// NewController wires a vehicle from its parts. Wheels are collected from the
// axles; a wheel listed on two axles is rejected. Wheels are not configured
// here; see Configure.
func NewController(params Params, chassis Chassis, power *PowerPlant, axles []*Axle, logger *slog.Logger) (*Controller, error) {
	if chassis == nil {
		return nil, ErrMissingChassis
	}
	if power == nil {
		return nil, ErrMissingPowerPlant
	}
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[*Wheel]string)
	var wheels []*Wheel
	for _, axle := range axles {
		if axle == nil {
			continue
		}
		for _, w := range axle.Wheels {
			if w == nil {
				continue
			}
			if prev, ok := seen[w]; ok {
				return nil, fmt.Errorf("wheel %q on axles %q and %q: %w", w.Name, prev, axle.Name, ErrWheelInMultipleAxles)
			}
			seen[w] = axle.Name
			wheels = append(wheels, w)
		}
	}

	chassis.SetCenterOfMass(params.CenterOfMass)

	return &Controller{
		params:       params,
		chassis:      chassis,
		power:        power,
		axles:        axles,
		wheels:       wheels,
		logger:       logger,
		inputEnabled: true,
		steeringDamp: 1,
	}, nil
}

// Configure applies contact curves and suspension to every wheel. Failures
// are logged once and kept; the failed wheel stays inert for the session.
func (c *Controller) Configure(mapping contact.Mapping) {
	c.configErrors = c.configErrors[:0]
	for _, w := range c.wheels {
		if err := w.Configure(mapping); err != nil {
			c.logger.Error("wheel configuration failed", "wheel", w.Name, "error", err)
			c.configErrors = append(c.configErrors, err)
		}
	}
}

// ConfigErrors returns the wheel configuration errors from the last Configure.
func (c *Controller) ConfigErrors() []error {
	out := make([]error, len(c.configErrors))
	copy(out, c.configErrors)
	return out
}

// SetUserInputEnabled gates driver input. While disabled every input field
// reads as zero and the vehicle coasts.
func (c *Controller) SetUserInputEnabled(enabled bool) {
	c.inputEnabled = enabled
}

// UserInputEnabled reports the input gate.
func (c *Controller) UserInputEnabled() bool { return c.inputEnabled }

// PowerPlant returns the vehicle's power plant.
func (c *Controller) PowerPlant() *PowerPlant { return c.power }

// Wheels returns the vehicle's wheels in axle order.
func (c *Controller) Wheels() []*Wheel { return c.wheels }

// Tick runs one fixed step of the pipeline. The solver integrates after Tick
// returns; its contact reports are read back at the start of the next Tick.
func (c *Controller) Tick(in ControlInput, dt float64) {
	dt = math.Max(finite(dt), 0)

	for _, w := range c.wheels {
		w.Update()
	}

	if c.inputEnabled {
		in = in.Sanitized()
	} else {
		in = ControlInput{}
	}
	c.effective = in

	c.steeringDamp = clamp(inverseLerp(1, c.params.DampStartPercent, c.speedPercent), c.params.MinSteeringDamp, 1)

	c.steeringAngle = c.params.MaxSteeringAngle * in.Steer * c.steeringDamp
	for _, axle := range c.axles {
		if axle == nil || !axle.Steering {
			continue
		}
		for _, w := range axle.Wheels {
			if w != nil {
				w.SetSteerAngle(c.steeringAngle)
			}
		}
	}

	torque := c.power.ComputeTorque(in.Boost, c.speedPercent) * in.Throttle
	for _, axle := range c.axles {
		if axle == nil || !axle.Driven {
			continue
		}
		for _, w := range axle.Wheels {
			if w != nil {
				w.SetMotorTorque(torque)
			}
		}
	}

	brake := in.Brake * c.params.BrakeTorque
	for _, axle := range c.axles {
		if axle == nil || !c.brakes(axle) {
			continue
		}
		for _, w := range axle.Wheels {
			if w != nil {
				w.SetBrakeTorque(brake)
			}
		}
	}

	c.downforce = clamp(c.speedPercent*c.params.MaxDownforce, c.params.MinDownforce, c.params.MaxDownforce)
	c.chassis.AddForceAtPosition(mgl64.Vec3{0, -c.downforce, 0}, c.chassis.CenterOfMass())

	c.allGrounded = true
	for _, w := range c.wheels {
		if !w.IsGrounded() {
			c.allGrounded = false
			break
		}
	}

	spend := 0.0
	if in.Boost {
		spend = math.Abs(in.Throttle) * dt
	}
	c.power.RemoveBoost(spend)
	c.power.TickBoostEconomy(in.Boost, c.speedPercent, dt)

	vel := sanitizeVec(c.chassis.Velocity())
	speed := vel.Len()
	c.speedPercent = inverseLerp(0, c.params.MaxSpeed, speed)

	if speed > c.params.MaxSpeed && speed > 0 {
		c.chassis.SetVelocity(vel.Mul(c.params.MaxSpeed / speed))
	}
}

func (c *Controller) brakes(axle *Axle) bool {
	switch c.params.BrakeAxles {
	case BrakeNonSteering:
		return !axle.Steering
	case BrakeSteering:
		return axle.Steering
	default:
		return true
	}
}

// State returns a snapshot of the published outputs.
func (c *Controller) State() State {
	s := State{
		SpeedPercent:      c.speedPercent,
		BoostReserve:      c.power.BoostReserve(),
		IsBoosting:        c.power.IsBoosting(),
		AllWheelsGrounded: c.allGrounded,
		SteeringAngle:     c.steeringAngle,
		SteeringDamp:      c.steeringDamp,
		Downforce:         c.downforce,
		EffectiveInput:    c.effective,
		Wheels:            make([]WheelState, len(c.wheels)),
	}
	for i, w := range c.wheels {
		s.Wheels[i] = w.State()
	}
	return s
}

func sanitizeVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{finite(v[0]), finite(v[1]), finite(v[2])}
}
