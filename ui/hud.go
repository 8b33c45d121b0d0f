package ui

import (
	"fmt"
	"math"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fmxar/racer/systems"
	"github.com/fmxar/racer/telemetry"
	"github.com/fmxar/racer/vehicle"
)

// Speedometer needle sweep, degrees clockwise from straight down.
const (
	needleStartDeg = 45.0
	needleEndDeg   = 315.0
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	SimTime      float64
	FPS          int32
	Paused       bool
	InputMode    string
	SpeedKmh     float64
	NeedlePct    float64 // smoothed speed percent for the dial
	BoostReserve float64
	IsBoosting   bool
	OffTrack     bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | FPS: %d | Input: %s", data.Tick, data.SimTime, data.FPS, data.InputMode),
		10, 35, 16, rl.LightGray,
	)

	status := "Running"
	statusColor := rl.LightGray
	switch {
	case data.Paused:
		status, statusColor = "PAUSED", rl.Yellow
	case data.OffTrack:
		status, statusColor = "OFF TRACK", rl.Orange
	}
	rl.DrawText(status, 10, 55, 16, statusColor)

	h.drawSpeedometer(data)
	h.drawBoostBar(data)
}

// drawBoostBar draws the boost reserve along the bottom edge.
func (h *HUD) drawBoostBar(data HUDData) {
	bounds := rl.Rectangle{
		X:      float32(data.ScreenWidth)/2 - 160,
		Y:      float32(data.ScreenHeight) - 40,
		Width:  320,
		Height: 18,
	}
	label := "BOOST"
	if data.IsBoosting {
		label = "BOOST >>"
	}
	gui.ProgressBar(bounds, label, fmt.Sprintf("%.0f", data.BoostReserve), float32(data.BoostReserve), 0, float32(vehicle.MaxBoost))
}

// drawSpeedometer draws a dial with the needle at NeedlePct.
func (h *HUD) drawSpeedometer(data HUDData) {
	radius := float32(70)
	center := rl.Vector2{X: float32(data.ScreenWidth) - radius - 20, Y: float32(data.ScreenHeight) - radius - 20}

	rl.DrawCircleV(center, radius, h.renderer.Theme.PanelBg)
	rl.DrawCircleLinesV(center, radius, h.renderer.Theme.PanelBorder)

	for i := 0; i <= 10; i++ {
		inner := NeedlePoint(center, radius-10, float64(i)/10)
		outer := NeedlePoint(center, radius-2, float64(i)/10)
		rl.DrawLineV(inner, outer, rl.Gray)
	}

	tip := NeedlePoint(center, radius-8, data.NeedlePct)
	rl.DrawLineEx(center, tip, 3, rl.Red)
	rl.DrawCircleV(center, 5, rl.LightGray)

	text := fmt.Sprintf("%.0f km/h", data.SpeedKmh)
	rl.DrawText(text, int32(center.X)-rl.MeasureText(text, 16)/2, int32(center.Y+radius/3), 16, rl.White)
}

// NeedlePoint returns the point at distance length from center along the
// needle direction for a speed fraction in [0, 1].
func NeedlePoint(center rl.Vector2, length float32, pct float64) rl.Vector2 {
	pct = math.Max(0, math.Min(1, pct))
	deg := needleStartDeg + (needleEndDeg-needleStartDeg)*pct
	sin, cos := math.Sincos(deg * math.Pi / 180)
	// Straight down is +Y on screen; sweep clockwise.
	return rl.Vector2{
		X: center.X - float32(sin)*length,
		Y: center.Y + float32(cos)*length,
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats    telemetry.PerfStats
	Registry *systems.StageRegistry
}

// PerfPanel renders the per-stage performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	padding := r.Theme.Padding
	ids := data.Registry.IDs()
	height := int32(len(ids)+3)*r.Theme.LineHeight + padding*2

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding

	rl.DrawText("Stage Performance", x, y, 16, rl.White)
	y += 20

	stats := data.Stats
	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f  FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, stats.FPS), x, y, 12, rl.Yellow)
	y += r.Theme.LineHeight + 2

	for _, id := range ids {
		pct := stats.PhasePct[id]
		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", data.Registry.GetName(id), stats.PhaseAvg[id].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += r.Theme.LineHeight
	}
}
