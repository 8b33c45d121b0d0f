package main

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/fmxar/racer/contact"
)

var (
	legacyColor    = color.RGBA{R: 220, G: 80, B: 60, A: 255}
	correctedColor = color.RGBA{R: 40, G: 120, B: 220, A: 255}
)

// newCurvePlot plots both asymptote mappings of p.
func newCurvePlot(title string, p CurveParams) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "slip"
	pl.Y.Label.Text = "traction"
	pl.Add(plotter.NewGrid())

	maxSlip := plotRange(p)
	for _, m := range []struct {
		name    string
		mapping contact.Mapping
		color   color.Color
	}{
		{"legacy", contact.MappingLegacy, legacyColor},
		{"corrected", contact.MappingCorrected, correctedColor},
	} {
		line, err := plotter.NewLine(sampleCurve(p.Curve(m.mapping), maxSlip, 200))
		if err != nil {
			return nil, fmt.Errorf("plotting %s curve: %w", m.name, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = m.color
		pl.Add(line)
		pl.Legend.Add(m.name, line)
	}

	pts := make(plotter.XYs, len(p.Points))
	for i, pt := range p.Points {
		pts[i].X = pt.Slip
		pts[i].Y = pt.Value * p.Stiffness
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("plotting control points: %w", err)
	}
	pl.Add(scatter)
	pl.Legend.Add("points", scatter)
	pl.Legend.Top = true

	return pl, nil
}

// savePlotPNG renders p to a PNG file of the given size in inches.
func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
