// Package contact builds the friction response curves handed to the physics solver.
package contact

import (
	"log/slog"
	"math"
)

// MinPoints is the number of control points a curve needs: origin, extremum, asymptote.
const MinPoints = 3

// Point is one (slip, value) control point of a sparse response curve.
type Point struct {
	Slip  float64
	Value float64
}

// Mapping selects where the asymptote slip is read from.
type Mapping uint8

const (
	// MappingLegacy reads the asymptote slip from the third point's value.
	// Existing tuning was done against this mapping.
	MappingLegacy Mapping = iota
	// MappingCorrected reads the asymptote slip from the third point's slip.
	MappingCorrected
)

// Curve is the extremum/asymptote friction model consumed by the solver.
type Curve struct {
	ExtremumSlip   float64
	ExtremumValue  float64
	AsymptoteSlip  float64
	AsymptoteValue float64
	Stiffness      float64
}

// Neutral returns the degraded curve used when control points are missing.
func Neutral() Curve {
	return Curve{Stiffness: 1}
}

// BuildCurve converts control points and a stiffness multiplier into a Curve
// using the legacy mapping.
func BuildCurve(points []Point, stiffness float64) Curve {
	return BuildCurveWith(points, stiffness, MappingLegacy)
}

// BuildCurveWith is BuildCurve with an explicit asymptote mapping.
func BuildCurveWith(points []Point, stiffness float64, mapping Mapping) Curve {
	if len(points) < MinPoints {
		slog.Warn("contact curve has too few points, using neutral curve",
			"points", len(points),
			"required", MinPoints,
		)
		return Neutral()
	}

	c := Curve{
		ExtremumSlip:   points[1].Slip,
		ExtremumValue:  points[1].Value,
		AsymptoteSlip:  points[2].Value,
		AsymptoteValue: points[2].Value,
		Stiffness:      stiffness,
	}
	if mapping == MappingCorrected {
		c.AsymptoteSlip = points[2].Slip
	}
	return c
}

// PointsFromPairs converts [slip, value] pairs as stored in config.
func PointsFromPairs(pairs [][2]float64) []Point {
	points := make([]Point, len(pairs))
	for i, p := range pairs {
		points[i] = Point{Slip: p[0], Value: p[1]}
	}
	return points
}

// Evaluate returns the traction coefficient for a slip magnitude.
// The response rises from zero to the extremum, eases to the asymptote and
// holds there, all scaled by stiffness.
func (c Curve) Evaluate(slip float64) float64 {
	slip = math.Abs(slip)
	if math.IsNaN(slip) {
		return 0
	}

	var v float64
	switch {
	case slip <= c.ExtremumSlip:
		if c.ExtremumSlip <= 0 {
			v = c.ExtremumValue
			break
		}
		v = c.ExtremumValue * smoothstep(slip/c.ExtremumSlip)
	case slip < c.AsymptoteSlip:
		span := c.AsymptoteSlip - c.ExtremumSlip
		t := (slip - c.ExtremumSlip) / span
		v = c.ExtremumValue + (c.AsymptoteValue-c.ExtremumValue)*smoothstep(t)
	default:
		v = c.AsymptoteValue
	}
	return v * c.Stiffness
}

// smoothstep eases t in [0, 1] with zero slope at both ends.
func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
