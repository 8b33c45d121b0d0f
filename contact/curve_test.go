package contact

import (
	"math"
	"testing"
)

func threePoints() []Point {
	return []Point{{0, 0}, {0.4, 1.0}, {0.8, 0.75}}
}

func TestBuildCurveTooFewPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"nil", nil},
		{"one point", []Point{{0, 0}}},
		{"two points", []Point{{0, 0}, {0.4, 1.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCurve(tt.points, 2.5)
			if got != Neutral() {
				t.Errorf("expected neutral curve, got %+v", got)
			}
			if got.Stiffness != 1 {
				t.Errorf("expected neutral stiffness 1, got %f", got.Stiffness)
			}
		})
	}
}

func TestBuildCurveThreePoints(t *testing.T) {
	got := BuildCurve(threePoints(), 1.5)

	if got.ExtremumSlip != 0.4 || got.ExtremumValue != 1.0 {
		t.Errorf("expected extremum (0.4, 1.0), got (%f, %f)", got.ExtremumSlip, got.ExtremumValue)
	}
	// Asymptote slip comes from the third point's value under the legacy mapping.
	if got.AsymptoteSlip != 0.75 {
		t.Errorf("expected asymptote slip 0.75, got %f", got.AsymptoteSlip)
	}
	if got.AsymptoteValue != 0.75 {
		t.Errorf("expected asymptote value 0.75, got %f", got.AsymptoteValue)
	}
	if got.Stiffness != 1.5 {
		t.Errorf("expected stiffness 1.5, got %f", got.Stiffness)
	}
}

func TestBuildCurveIgnoresExtraPoints(t *testing.T) {
	points := append(threePoints(), Point{1.5, 0.2})
	got := BuildCurve(points, 1)
	want := BuildCurve(threePoints(), 1)
	if got != want {
		t.Errorf("expected points beyond the third to be ignored, got %+v want %+v", got, want)
	}
}

func TestBuildCurveCorrectedMapping(t *testing.T) {
	got := BuildCurveWith(threePoints(), 1, MappingCorrected)
	if got.AsymptoteSlip != 0.8 {
		t.Errorf("expected asymptote slip 0.8, got %f", got.AsymptoteSlip)
	}
	if got.AsymptoteValue != 0.75 {
		t.Errorf("expected asymptote value 0.75, got %f", got.AsymptoteValue)
	}
}

func TestBuildCurveIdempotent(t *testing.T) {
	points := threePoints()
	a := BuildCurve(points, 1.2)
	b := BuildCurve(points, 1.2)
	if a != b {
		t.Errorf("expected identical curves, got %+v and %+v", a, b)
	}
	if points[2] != (Point{0.8, 0.75}) {
		t.Error("BuildCurve must not modify its input")
	}
}

func TestPointsFromPairs(t *testing.T) {
	got := PointsFromPairs([][2]float64{{0, 0}, {0.2, 1}})
	if len(got) != 2 || got[1].Slip != 0.2 || got[1].Value != 1 {
		t.Errorf("unexpected points %+v", got)
	}
}

func TestEvaluate(t *testing.T) {
	c := BuildCurveWith(threePoints(), 2, MappingCorrected)

	tests := []struct {
		name string
		slip float64
		want float64
	}{
		{"origin", 0, 0},
		{"extremum", 0.4, 2.0},
		{"asymptote", 0.8, 1.5},
		{"beyond asymptote", 3.0, 1.5},
		{"negative slip uses magnitude", -0.4, 2.0},
		{"midway to extremum", 0.2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(tt.slip)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%f) = %f, want %f", tt.slip, got, tt.want)
			}
		})
	}
}

func TestEvaluateDegenerateCurves(t *testing.T) {
	tests := []struct {
		name  string
		curve Curve
	}{
		{"neutral", Neutral()},
		{"zero extremum slip", Curve{ExtremumValue: 1, AsymptoteSlip: 0.5, AsymptoteValue: 0.7, Stiffness: 1}},
		{"asymptote before extremum", Curve{ExtremumSlip: 0.6, ExtremumValue: 1, AsymptoteSlip: 0.3, AsymptoteValue: 0.7, Stiffness: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, slip := range []float64{0, 0.1, 0.3, 0.6, 1, 10} {
				v := tt.curve.Evaluate(slip)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("Evaluate(%f) produced %f", slip, v)
				}
			}
		})
	}

	if v := Neutral().Evaluate(math.NaN()); v != 0 {
		t.Errorf("expected 0 for NaN slip, got %f", v)
	}
}
