// Package components defines ECS components for the reference solver.
package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/contact"
)

// Body is the chassis rigid body. Motion is planar in XZ with Y up.
type Body struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Heading      float64    // radians, 0 faces +Z, positive turns toward +X
	YawRate      float64    // radians per second
	CenterOfMass mgl64.Vec3 // local offset
}

// Mass holds the chassis inertial properties.
type Mass struct {
	Mass       float64
	YawInertia float64
}

// ForceAccumulator collects external forces until the next step.
type ForceAccumulator struct {
	Force  mgl64.Vec3
	Torque float64 // yaw
}

// WheelMount places a wheel on the chassis.
type WheelMount struct {
	Name    string
	Offset  mgl64.Vec3 // local, X right, Z forward
	Radius  float64
	Inertia float64
}

// WheelDrive holds the commands written by the vehicle each tick.
type WheelDrive struct {
	MotorTorque float64
	BrakeTorque float64
	SteerAngle  float64 // degrees
	DampingRate float64
}

// WheelContact is the solver's contact result for a wheel.
type WheelContact struct {
	Spin         float64 // radians per second
	ForwardSlip  float64
	SidewaysSlip float64
	Grounded     bool
	Surface      string
	Load         float64 // newtons
	Compression  float64 // suspension travel as a fraction of its range
	Position     mgl64.Vec3
}

// Friction holds the wheel's traction curves.
type Friction struct {
	Forward  contact.Curve
	Sideways contact.Curve
}

// Suspension holds the wheel's spring settings.
type Suspension struct {
	Spring         float64
	Damper         float64
	TargetPosition float64
}
