package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/contact"
)

// TrackTag is the surface tag a wheel must be touching to count as on good terrain.
const TrackTag = "Track"

// WheelHit is the solver's ground-contact report for one contact point.
type WheelHit struct {
	ForwardSlip  float64 // signed slip in the rolling direction
	SidewaysSlip float64 // signed slip perpendicular to it
	SurfaceTag   string  // tag of the collider under the wheel
}

// Suspension holds the spring settings applied to a contact point.
type Suspension struct {
	Spring         float64
	Damper         float64
	TargetPosition float64
}

// ContactPoint is the solver's per-wheel handle. The controller writes torque,
// brake and steer each tick and reads the contact report back.
type ContactPoint interface {
	// GroundHit returns the latest contact report and whether the wheel touches ground.
	GroundHit() (WheelHit, bool)
	SetMotorTorque(torque float64)
	SetBrakeTorque(torque float64)
	SetSteerAngle(degrees float64)
	SetDampingRate(rate float64)
	SetFriction(forward, sideways contact.Curve)
	SetSuspension(s Suspension)
}

// Chassis is the solver's rigid body for the vehicle.
type Chassis interface {
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	CenterOfMass() mgl64.Vec3
	SetCenterOfMass(local mgl64.Vec3)
	// AddForceAtPosition accumulates a world-space force for the next integration.
	AddForceAtPosition(force, position mgl64.Vec3)
}

// Rig is what a solver exposes to the vehicle at scene load.
type Rig interface {
	Chassis() Chassis
	// ContactPoint returns the named wheel's contact point, or nil if the scene has none.
	ContactPoint(wheel string) ContactPoint
}
