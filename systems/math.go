package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	if angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Heading vectors

// forward returns the planar unit vector a heading faces.
func forward(heading float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(heading), 0, math.Cos(heading)}
}

// right returns the planar unit vector to the right of a heading.
func right(heading float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(heading), 0, -math.Sin(heading)}
}

// rotateY rotates a local offset into the world by heading.
func rotateY(v mgl64.Vec3, heading float64) mgl64.Vec3 {
	return right(heading).Mul(v.X()).Add(mgl64.Vec3{0, v.Y(), 0}).Add(forward(heading).Mul(v.Z()))
}

// yawCross returns (0, yawRate, 0) x v.
func yawCross(yawRate float64, v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{yawRate * v.Z(), 0, -yawRate * v.X()}
}

// yawTorque returns the Y component of offset x force.
func yawTorque(offset, force mgl64.Vec3) float64 {
	return offset.Z()*force.X() - offset.X()*force.Z()
}

// signOf returns -1, 0 or 1.
func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// finite maps NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
