// Friction curve preview tool - interactive editing of a wheel preset's
// contact curves with both asymptote mappings drawn side by side.
//
// Usage:
//
//	go run ./cmd/curvepreview [-config path] [-preset name]
//	go run ./cmd/curvepreview -png out/  (write plots and exit)
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/plot/plotter"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	plotSize     = 560
	panelWidth   = windowWidth - plotSize - 40
)

// editor holds the preset being edited.
type editor struct {
	preset   config.WheelProperties
	forward  CurveParams
	lateral  CurveParams
	editLat  bool
	original [2]CurveParams
}

func newEditor(p config.WheelProperties) *editor {
	e := &editor{
		preset:  p,
		forward: paramsFromConfig(p.ForwardCurve),
		lateral: paramsFromConfig(p.LateralCurve),
	}
	e.original = [2]CurveParams{e.forward, e.lateral}
	return e
}

// current returns the curve being edited and its config key.
func (e *editor) current() (*CurveParams, string) {
	if e.editLat {
		return &e.lateral, "lateral_curve"
	}
	return &e.forward, "forward_curve"
}

func (e *editor) reset() {
	e.forward, e.lateral = e.original[0], e.original[1]
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	presetName := flag.String("preset", "", "Wheel properties preset to edit (empty = first)")
	pngDir := flag.String("png", "", "Write forward/lateral curve plots to this directory and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.WheelProperties) == 0 {
		log.Fatal("config has no wheel_properties presets")
	}

	preset := cfg.WheelProperties[0]
	if *presetName != "" {
		p := cfg.Properties(*presetName)
		if p == nil {
			log.Fatalf("unknown preset %q", *presetName)
		}
		preset = *p
	}

	e := newEditor(preset)

	if *pngDir != "" {
		if err := exportPNGs(e, *pngDir); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		return
	}

	run(e)
}

// exportPNGs writes one plot per curve of the edited preset.
func exportPNGs(e *editor, dir string) error {
	for _, c := range []struct {
		key    string
		params CurveParams
	}{
		{"forward", e.forward},
		{"lateral", e.lateral},
	} {
		p, err := newCurvePlot(fmt.Sprintf("%s %s curve", e.preset.Name, c.key), c.params)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", e.preset.Name, c.key))
		if err := savePlotPNG(p, 6, 4, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// run opens the interactive editor window.
func run(e *editor) {
	rl.InitWindow(windowWidth, windowHeight, "Friction Curve Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	status := ""

	for !rl.WindowShouldClose() {
		params, key := e.current()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawCurves(*params, 10, 10, plotSize, plotSize)

		legacy := params.Curve(contact.MappingLegacy)
		corrected := params.Curve(contact.MappingCorrected)
		statsY := int32(plotSize + 25)
		rl.DrawText(fmt.Sprintf("Legacy:    extremum (%.3f, %.3f)  asymptote (%.3f, %.3f)",
			legacy.ExtremumSlip, legacy.ExtremumValue, legacy.AsymptoteSlip, legacy.AsymptoteValue), 15, statsY, 16, rl.Maroon)
		rl.DrawText(fmt.Sprintf("Corrected: extremum (%.3f, %.3f)  asymptote (%.3f, %.3f)",
			corrected.ExtremumSlip, corrected.ExtremumValue, corrected.AsymptoteSlip, corrected.AsymptoteValue), 15, statsY+20, 16, rl.DarkBlue)
		rl.DrawText(status, 15, statsY+45, 14, rl.DarkGray)

		panelX := float32(plotSize + 30)
		panelY := float32(10)

		rl.DrawText(fmt.Sprintf("Preset: %s", e.preset.Name), int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(e.editLat, "Lateral", "Forward")) {
			e.editLat = !e.editLat
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			e.reset()
		}
		panelY += 45

		labels := []string{"Origin", "Extremum", "Asymptote"}
		for i := range params.Points {
			rl.DrawText(labels[i], int32(panelX), int32(panelY), 16, rl.DarkGray)
			panelY += 20
			params.Points[i].Slip = slider(panelX, &panelY, "slip", params.Points[i].Slip, 0, 2)
			params.Points[i].Value = slider(panelX, &panelY, "value", params.Points[i].Value, 0, 2)
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		params.Stiffness = slider(panelX, &panelY, "stiffness", params.Stiffness, 0, 3)
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Export PNG") {
			if err := exportPNGs(e, "."); err != nil {
				status = fmt.Sprintf("export failed: %v", err)
			} else {
				status = fmt.Sprintf("exported %s_*.png", e.preset.Name)
			}
		}
		panelY += 45

		yamlLines := params.YAML(key)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(strings.Join(yamlLines, "\n"))
			status = "copied " + key
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider row and advances y.
func slider(x float32, y *float32, label string, value, lo, hi float64) float64 {
	rl.DrawText(label, int32(x), int32(*y+2), 14, rl.Gray)
	v := gui.SliderBar(
		rl.Rectangle{X: x + 70, Y: *y, Width: float32(panelWidth - 150), Height: 20},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.3f", v), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 26
	return float64(v)
}

// drawCurves draws both mappings of p into a box.
func drawCurves(p CurveParams, x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, rl.White)
	rl.DrawRectangleLines(x, y, w, h, rl.DarkGray)

	maxSlip := plotRange(p)
	maxValue := 0.1
	curves := []struct {
		curve contact.Curve
		color rl.Color
	}{
		{p.Curve(contact.MappingLegacy), rl.Maroon},
		{p.Curve(contact.MappingCorrected), rl.DarkBlue},
	}
	sampled := make([]plotter.XYs, len(curves))
	for i, c := range curves {
		sampled[i] = sampleCurve(c.curve, maxSlip, 200)
		for _, pt := range sampled[i] {
			if pt.Y > maxValue {
				maxValue = pt.Y
			}
		}
	}
	maxValue *= 1.1

	toScreen := func(sx, sy float64) rl.Vector2 {
		return rl.Vector2{
			X: float32(x) + float32(sx/maxSlip)*float32(w),
			Y: float32(y+h) - float32(sy/maxValue)*float32(h),
		}
	}

	// Grid at every 0.25 slip.
	for s := 0.25; s < maxSlip; s += 0.25 {
		a := toScreen(s, 0)
		rl.DrawLine(int32(a.X), y, int32(a.X), y+h, rl.LightGray)
		rl.DrawText(fmt.Sprintf("%.2f", s), int32(a.X)-12, y+h-14, 10, rl.Gray)
	}

	for i, c := range curves {
		for j := 1; j < len(sampled[i]); j++ {
			a, b := sampled[i][j-1], sampled[i][j]
			rl.DrawLineEx(toScreen(a.X, a.Y), toScreen(b.X, b.Y), 2, c.color)
		}
	}

	for _, pt := range p.Points {
		rl.DrawCircleV(toScreen(pt.Slip, pt.Value*p.Stiffness), 4, rl.Black)
	}

	rl.DrawText("legacy", x+w-80, y+8, 14, rl.Maroon)
	rl.DrawText("corrected", x+w-80, y+24, 14, rl.DarkBlue)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
