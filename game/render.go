package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/systems"
	"github.com/fmxar/racer/ui"
)

// Colors
var (
	colorGrass    = rl.Color{R: 46, G: 92, B: 52, A: 255}
	colorAsphalt  = rl.Color{R: 70, G: 72, B: 78, A: 255}
	colorKerb     = rl.Color{R: 220, G: 220, B: 220, A: 255}
	colorBody     = rl.Color{R: 200, G: 60, B: 50, A: 255}
	colorBoosting = rl.Color{R: 250, G: 160, B: 40, A: 255}
	colorTyre     = rl.Color{R: 25, G: 25, B: 25, A: 255}
)

// Car body margins around the wheel footprint, metres.
const (
	bodyMarginSide = 0.15
	bodyMarginEnd  = 0.45
	tyreWidth      = 0.3
)

// Draw renders the game.
func (g *Game) Draw() {
	g.session.Perf().RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(colorGrass)

	g.drawTrack()
	g.drawCar()
	g.drawActiveOverlays()

	state := g.session.State()
	offTrack := false
	for _, w := range state.Wheels {
		if w.IsGrounded && !w.GoodTerrain {
			offTrack = true
		}
	}

	g.hud.Draw(ui.HUDData{
		Title:        "Racer",
		Tick:         g.session.Tick(),
		SimTime:      g.session.SimTime(),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		InputMode:    g.switcher.Active(),
		SpeedKmh:     speedKmh(g.session.Solver().Chassis().Velocity()),
		NeedlePct:    g.needlePct,
		BoostReserve: state.BoostReserve,
		IsBoosting:   state.IsBoosting,
		OffTrack:     offTrack,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	if g.switcher.Active() == config.InputTouch {
		g.wheelWidget.Draw(g.wheel.Angle(), g.wheel.Held())
	}

	g.drawPanels()
	g.hud.DrawControls(int32(g.screenHeight), "[F1] Controls  [Tab] Input  [R] Reset  [P] Pause  [G] Input gate")

	rl.EndDrawing()
}

// drawTrack draws the ring track with kerbs on both edges.
func (g *Game) drawTrack() {
	track := g.session.Solver().Track()
	cx, cy := g.camera.WorldToScreen(mgl64.Vec3{})
	center := rl.Vector2{X: cx, Y: cy}
	zoom := float32(g.camera.Zoom)

	inner := float32(track.InnerRadius) * zoom
	outer := float32(track.OuterRadius) * zoom
	kerb := float32(0.4) * zoom

	rl.DrawRing(center, inner-kerb, outer+kerb, 0, 360, 128, colorKerb)
	rl.DrawRing(center, inner, outer, 0, 360, 128, colorAsphalt)

	// Start line across the track at the start position's angle.
	start := g.cfg.Bench.StartPosition
	dir := mgl64.Vec2{start[0], start[2]}
	if dir.Len() > 0 {
		dir = dir.Normalize()
		a := dir.Mul(track.InnerRadius)
		b := dir.Mul(track.OuterRadius)
		ax, ay := g.camera.WorldToScreen(mgl64.Vec3{a.X(), 0, a.Y()})
		bx, by := g.camera.WorldToScreen(mgl64.Vec3{b.X(), 0, b.Y()})
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 3, rl.White)
	}
}

// drawCar draws the chassis footprint and the wheels.
func (g *Game) drawCar() {
	solver := g.session.Solver()
	pos, heading := solver.Pose()
	poses := solver.WheelPoses()

	offsets := make([]mgl64.Vec3, 0, len(poses))
	for _, wp := range poses {
		if m, ok := solver.Mount(wp.Name); ok {
			offsets = append(offsets, m.Offset)
		}
	}
	halfW, halfL := carExtents(offsets)

	color := colorBody
	if g.session.State().IsBoosting {
		color = colorBoosting
	}
	g.drawOrientedRect(pos, heading, halfW, halfL, color)

	for _, wp := range poses {
		radius := 0.35
		if m, ok := solver.Mount(wp.Name); ok {
			radius = m.Radius
		}
		g.drawOrientedRect(wp.Position, wp.Heading, tyreWidth/2, radius, colorTyre)
	}
}

// drawOrientedRect draws a rectangle centred on p, rotated to heading.
func (g *Game) drawOrientedRect(p mgl64.Vec3, heading, halfW, halfL float64, color rl.Color) {
	var corners [4]rl.Vector2
	for i, c := range rectCorners(p, heading, halfW, halfL) {
		x, y := g.camera.WorldToScreen(c)
		corners[i] = rl.Vector2{X: x, Y: y}
	}
	// Both windings so the fill survives the camera's y flip.
	rl.DrawTriangle(corners[0], corners[1], corners[2], color)
	rl.DrawTriangle(corners[0], corners[2], corners[1], color)
	rl.DrawTriangle(corners[0], corners[2], corners[3], color)
	rl.DrawTriangle(corners[0], corners[3], corners[2], color)
}

// rectCorners returns the world corners of a heading-aligned rectangle in
// order front-left, front-right, back-right, back-left.
func rectCorners(p mgl64.Vec3, heading, halfW, halfL float64) [4]mgl64.Vec3 {
	sin, cos := math.Sincos(heading)
	fwd := mgl64.Vec3{sin, 0, cos}
	right := mgl64.Vec3{cos, 0, -sin}

	f := fwd.Mul(halfL)
	r := right.Mul(halfW)
	return [4]mgl64.Vec3{
		p.Add(f).Sub(r),
		p.Add(f).Add(r),
		p.Sub(f).Add(r),
		p.Sub(f).Sub(r),
	}
}

// carExtents returns the body's half width and half length from the wheel
// mount offsets.
func carExtents(offsets []mgl64.Vec3) (halfW, halfL float64) {
	if len(offsets) == 0 {
		return 0.9, 2.0
	}
	for _, o := range offsets {
		halfW = math.Max(halfW, math.Abs(o.X()))
		halfL = math.Max(halfL, math.Abs(o.Z()))
	}
	return halfW + bodyMarginSide, halfL + bodyMarginEnd
}

// drawPanels draws the enabled side panels.
func (g *Game) drawPanels() {
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controlsPanel.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayVehiclePanel) {
		g.vehiclePanel.Draw(ui.VehicleData{
			State:     g.session.State(),
			InputMode: g.switcher.Active(),
			Enabled:   g.session.UserInputEnabled(),
		})
	}
	if g.overlays.IsEnabled(ui.OverlayPerfPanel) {
		g.perfPanel.Draw(ui.PerfPanelData{
			Stats:    g.session.Perf().Stats(),
			Registry: g.stages,
		})
	}
}

// surfaceColor colors a wheel marker by what it is touching.
func surfaceColor(wp systems.WheelPose, grounded, slipping bool) rl.Color {
	switch {
	case !grounded:
		return rl.Color{R: 120, G: 160, B: 255, A: 220}
	case slipping:
		return rl.Color{R: 255, G: 90, B: 60, A: 220}
	case wp.Surface == systems.GrassTag:
		return rl.Color{R: 230, G: 200, B: 60, A: 220}
	default:
		return rl.Color{R: 80, G: 230, B: 110, A: 220}
	}
}

// loadLabel formats a wheel load in kilonewtons.
func loadLabel(load float64) string {
	return fmt.Sprintf("%.1fkN", load/1000)
}
