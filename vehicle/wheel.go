package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

// SlipThreshold is the slip above which a wheel counts as slipping.
// 0 is no slip, 1 is full slip.
const SlipThreshold = 0.5

// Wheel configuration errors.
var (
	ErrMissingContactPoint = errors.New("missing contact point")
	ErrMissingProperties   = errors.New("missing wheel properties")
)

// WheelProperties is the resolved configuration of one wheel.
type WheelProperties struct {
	Suspension            Suspension
	ForwardCurve          []contact.Point
	LateralCurve          []contact.Point
	ForwardStiffness      float64
	LateralStiffness      float64
	BaseDampingRate       float64
	BadTerrainDampingRate float64
}

// PropertiesFromConfig converts a config preset. A nil preset yields nil.
func PropertiesFromConfig(p *config.WheelProperties) *WheelProperties {
	if p == nil {
		return nil
	}
	return &WheelProperties{
		Suspension: Suspension{
			Spring:         p.Spring,
			Damper:         p.Damper,
			TargetPosition: p.TargetPosition,
		},
		ForwardCurve:          contact.PointsFromPairs(p.ForwardCurve.Points),
		LateralCurve:          contact.PointsFromPairs(p.LateralCurve.Points),
		ForwardStiffness:      p.ForwardCurve.Stiffness,
		LateralStiffness:      p.LateralCurve.Stiffness,
		BaseDampingRate:       p.BaseDampingRate,
		BadTerrainDampingRate: p.BadTerrainDampingRate,
	}
}

// Wheel owns one contact point and tracks its traction readouts.
type Wheel struct {
	Name string

	contact ContactPoint
	props   *WheelProperties

	// Cached at configuration time
	forwardCurve contact.Curve
	lateralCurve contact.Curve
	enabled      bool

	// Readouts, recomputed every tick
	forwardSlip float64
	lateralSlip float64
	slipping    bool
	grounded    bool
	goodTerrain bool
}

// NewWheel creates an unconfigured wheel. It stays inert until Configure succeeds.
func NewWheel(name string, cp ContactPoint, props *WheelProperties) *Wheel {
	return &Wheel{
		Name:    name,
		contact: cp,
		props:   props,
	}
}

// Configure builds both friction curves and applies them with the suspension
// to the contact point. On error the wheel remains disabled.
func (w *Wheel) Configure(mapping contact.Mapping) error {
	w.enabled = false
	if w.contact == nil {
		return fmt.Errorf("wheel %q: %w", w.Name, ErrMissingContactPoint)
	}
	if w.props == nil {
		return fmt.Errorf("wheel %q: %w", w.Name, ErrMissingProperties)
	}

	w.forwardCurve = contact.BuildCurveWith(w.props.ForwardCurve, w.props.ForwardStiffness, mapping)
	w.lateralCurve = contact.BuildCurveWith(w.props.LateralCurve, w.props.LateralStiffness, mapping)

	w.contact.SetFriction(w.forwardCurve, w.lateralCurve)
	w.contact.SetSuspension(w.props.Suspension)
	w.contact.SetDampingRate(w.props.BaseDampingRate)

	w.enabled = true
	return nil
}

// Update refreshes the readouts from the solver's contact report and feeds the
// terrain-dependent damping rate back.
func (w *Wheel) Update() {
	if !w.enabled {
		return
	}

	hit, grounded := w.contact.GroundHit()
	if !grounded {
		hit = WheelHit{}
	}

	w.grounded = grounded
	w.goodTerrain = grounded && hit.SurfaceTag == TrackTag
	w.forwardSlip = math.Abs(finite(hit.ForwardSlip))
	w.lateralSlip = math.Abs(finite(hit.SidewaysSlip))
	w.slipping = w.forwardSlip > SlipThreshold || w.lateralSlip > SlipThreshold

	if w.goodTerrain {
		w.contact.SetDampingRate(w.props.BaseDampingRate)
	} else {
		w.contact.SetDampingRate(w.props.BadTerrainDampingRate)
	}
}

// SetMotorTorque forwards drive torque to the contact point.
func (w *Wheel) SetMotorTorque(torque float64) {
	if w.enabled {
		w.contact.SetMotorTorque(finite(torque))
	}
}

// SetBrakeTorque forwards brake torque to the contact point.
func (w *Wheel) SetBrakeTorque(torque float64) {
	if w.enabled {
		w.contact.SetBrakeTorque(finite(torque))
	}
}

// SetSteerAngle forwards the steering angle in degrees to the contact point.
func (w *Wheel) SetSteerAngle(degrees float64) {
	if w.enabled {
		w.contact.SetSteerAngle(finite(degrees))
	}
}

// Enabled reports whether the wheel was configured successfully.
func (w *Wheel) Enabled() bool { return w.enabled }

// IsGrounded reports whether the wheel touched ground on the last update.
func (w *Wheel) IsGrounded() bool { return w.enabled && w.grounded }

// GoodTerrain reports whether the wheel is grounded on the track.
func (w *Wheel) GoodTerrain() bool { return w.enabled && w.goodTerrain }

// IsSlipping reports whether either slip exceeds SlipThreshold.
func (w *Wheel) IsSlipping() bool { return w.slipping }

// ForwardSlip returns the absolute forward slip.
func (w *Wheel) ForwardSlip() float64 { return w.forwardSlip }

// LateralSlip returns the absolute sideways slip.
func (w *Wheel) LateralSlip() float64 { return w.lateralSlip }

// Curves returns the cached forward and lateral friction curves.
func (w *Wheel) Curves() (forward, lateral contact.Curve) {
	return w.forwardCurve, w.lateralCurve
}

// State returns a snapshot of the wheel's readouts.
func (w *Wheel) State() WheelState {
	return WheelState{
		Name:        w.Name,
		Enabled:     w.enabled,
		IsGrounded:  w.IsGrounded(),
		GoodTerrain: w.GoodTerrain(),
		IsSlipping:  w.slipping,
		ForwardSlip: w.forwardSlip,
		LateralSlip: w.lateralSlip,
	}
}
