// Package game is the raylib front end: it drives a sim.Session from the
// window's frame loop, maps keyboard and mouse to input sources and draws the
// car, the track and the HUD.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/camera"
	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/input"
	"github.com/fmxar/racer/sim"
	"github.com/fmxar/racer/systems"
	"github.com/fmxar/racer/ui"
)

// Frame pacing.
const (
	maxStepsPerFrame = 5    // fixed steps run per frame before dropping time
	needleSmoothTime = 0.15 // seconds for the speedometer needle to settle
	wheelWidgetSize  = 110  // on-screen steering wheel radius, pixels
)

// Options configures a game.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	OutputDir string
	LogStats  bool
}

// Game holds the window-side state around one driving session.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger

	session  *sim.Session
	keys     rlKeys
	wheel    *input.SteeringWheel
	switcher *input.Switch
	camera   *camera.Camera

	// UI
	stages        *systems.StageRegistry
	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	controlsPanel *ui.ControlsPanel
	vehiclePanel  *ui.VehiclePanel
	perfPanel     *ui.PerfPanel
	wheelWidget   ui.SteeringWheelWidget

	paused      bool
	accumulator float64
	needlePct   float64
	needleVel   float64

	screenWidth, screenHeight float32
}

// NewGame creates the session and UI. The raylib window must already be open.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:           cfg,
		logger:        logger,
		wheel:         input.NewSteeringWheel(cfg.Input.Touch),
		stages:        systems.NewStageRegistry(),
		overlays:      ui.NewOverlayRegistry(),
		hud:           ui.NewHUD(),
		controlsPanel: ui.NewControlsPanel(10, 80, 240),
		vehiclePanel:  ui.NewVehiclePanel(0, 10, 260),
		perfPanel:     ui.NewPerfPanel(0, 10, 260),
		screenWidth:   float32(rl.GetScreenWidth()),
		screenHeight:  float32(rl.GetScreenHeight()),
	}

	g.switcher = input.NewSwitch(
		input.NewKeyboardSource(g.keys),
		input.NewTouchSource(g.wheel, g.keys),
		cfg.Input.Source,
	)

	session, err := sim.NewSession(cfg, g.switcher, sim.Options{
		Logger:    logger,
		OutputDir: opts.OutputDir,
		LogStats:  opts.LogStats,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	g.session = session

	g.camera = camera.New(float64(g.screenWidth), float64(g.screenHeight), cfg.Camera)
	g.snapCamera()
	g.layout()

	logger.Info("game started",
		"input", g.switcher.Active(),
		"screen_width", g.screenWidth,
		"screen_height", g.screenHeight,
		"output_dir", session.OutputDir(),
	)
	return g, nil
}

// Update handles input and advances the session by whole fixed steps.
func (g *Game) Update() {
	frameDt := float64(rl.GetFrameTime())

	g.handleInput()

	if !g.paused {
		var steps int
		steps, g.accumulator = fixedSteps(g.accumulator+frameDt, g.cfg.Physics.DT, maxStepsPerFrame)
		for i := 0; i < steps; i++ {
			g.session.Step()
		}
	}

	pos, heading := g.session.Solver().Pose()
	g.camera.Follow(pos, heading, frameDt)
	g.needlePct = camera.SmoothDamp(g.needlePct, g.session.State().SpeedPercent, &g.needleVel, needleSmoothTime, frameDt)
}

// Tick returns the session tick.
func (g *Game) Tick() int32 {
	return g.session.Tick()
}

// Session exposes the driving session.
func (g *Game) Session() *sim.Session {
	return g.session
}

// Unload flushes telemetry and releases the session.
func (g *Game) Unload() {
	if err := g.session.Close(); err != nil {
		g.logger.Error("failed to close session", "error", err)
	}
}

// reset puts the car back on the start line.
func (g *Game) reset() {
	if err := g.session.Reset(); err != nil {
		g.logger.Error("reset failed", "error", err)
		return
	}
	g.accumulator = 0
	g.needlePct, g.needleVel = 0, 0
	g.snapCamera()
}

func (g *Game) snapCamera() {
	pos, heading := g.session.Solver().Pose()
	g.camera.SnapTo(pos, heading)
}

// layout positions panels and the wheel widget for the current screen size.
func (g *Game) layout() {
	g.vehiclePanel.SetPosition(int32(g.screenWidth)-270, 10)
	g.perfPanel.SetPosition(int32(g.screenWidth)-540, 10)
	g.wheelWidget = ui.SteeringWheelWidget{
		Center: rl.Vector2{X: wheelWidgetSize + 30, Y: g.screenHeight - wheelWidgetSize - 30},
		Radius: wheelWidgetSize,
	}
}

// fixedSteps returns how many dt steps fit in acc, capped at maxSteps, and
// the time left over. Time beyond the cap is dropped.
func fixedSteps(acc, dt float64, maxSteps int) (int, float64) {
	if dt <= 0 {
		return 0, 0
	}
	steps := 0
	for acc >= dt && steps < maxSteps {
		acc -= dt
		steps++
	}
	if steps == maxSteps && acc >= dt {
		acc = 0
	}
	return steps, acc
}

// toWheelFrame converts a raylib screen point (y down) into the steering
// wheel's y-up frame.
func toWheelFrame(p rl.Vector2, screenHeight float32) mgl64.Vec2 {
	return mgl64.Vec2{float64(p.X), float64(screenHeight - p.Y)}
}

// speedKmh returns the planar speed of v in km/h.
func speedKmh(v mgl64.Vec3) float64 {
	return mgl64.Vec2{v.X(), v.Z()}.Len() * 3.6
}
