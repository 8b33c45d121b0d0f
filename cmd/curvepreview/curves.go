package main

import (
	"fmt"

	"gonum.org/v1/plot/plotter"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

// CurveParams holds the editable control points of one friction curve.
type CurveParams struct {
	Points    [contact.MinPoints]contact.Point
	Stiffness float64
}

// paramsFromConfig reads a curve's first three control points. Missing
// points are left at zero.
func paramsFromConfig(cc config.CurveConfig) CurveParams {
	p := CurveParams{Stiffness: cc.Stiffness}
	for i, pt := range contact.PointsFromPairs(cc.Points) {
		if i >= contact.MinPoints {
			break
		}
		p.Points[i] = pt
	}
	return p
}

// Curve builds the solver curve for a mapping.
func (p CurveParams) Curve(mapping contact.Mapping) contact.Curve {
	return contact.BuildCurveWith(p.Points[:], p.Stiffness, mapping)
}

// YAML renders the params as a config snippet.
func (p CurveParams) YAML(key string) []string {
	lines := []string{key + ":", "  points:"}
	for _, pt := range p.Points {
		lines = append(lines, fmt.Sprintf("    - [%.3f, %.3f]", pt.Slip, pt.Value))
	}
	return append(lines, fmt.Sprintf("  stiffness: %.2f", p.Stiffness))
}

// sampleCurve evaluates c at n evenly spaced slips in [0, maxSlip].
func sampleCurve(c contact.Curve, maxSlip float64, n int) plotter.XYs {
	if n < 2 {
		n = 2
	}
	pts := make(plotter.XYs, n)
	for i := range pts {
		s := maxSlip * float64(i) / float64(n-1)
		pts[i].X = s
		pts[i].Y = c.Evaluate(s)
	}
	return pts
}

// plotRange returns a slip range that shows both mappings past their asymptotes.
func plotRange(p CurveParams) float64 {
	maxSlip := 1.0
	for _, m := range []contact.Mapping{contact.MappingLegacy, contact.MappingCorrected} {
		c := p.Curve(m)
		if r := c.AsymptoteSlip * 1.25; r > maxSlip {
			maxSlip = r
		}
	}
	return maxSlip
}
