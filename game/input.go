package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/input"
)

// keyMap maps input keys to raylib key codes.
var keyMap = map[input.Key]int32{
	input.KeyLeft:      rl.KeyLeft,
	input.KeyRight:     rl.KeyRight,
	input.KeyA:         rl.KeyA,
	input.KeyD:         rl.KeyD,
	input.KeyW:         rl.KeyW,
	input.KeyS:         rl.KeyS,
	input.KeySpace:     rl.KeySpace,
	input.KeyLeftShift: rl.KeyLeftShift,
}

// rlKeys reads the keyboard through raylib.
type rlKeys struct{}

// IsDown implements input.KeyReader.
func (rlKeys) IsDown(k input.Key) bool {
	code, ok := keyMap[k]
	return ok && rl.IsKeyDown(code)
}

// handleInput processes window, session and camera keys plus the mouse.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.logger.Info("input source switched", "active", g.switcher.Toggle())
	}
	if rl.IsKeyPressed(rl.KeyG) {
		enabled := !g.session.UserInputEnabled()
		g.session.SetUserInputEnabled(enabled)
		g.logger.Info("user input gate", "enabled", enabled)
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
	g.handlePointer()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(float64(w), float64(h))
	g.layout()
}

// handleCameraInput processes zoom controls. The camera follows the car, so
// there is no panning.
func (g *Game) handleCameraInput() {
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + float64(wheelMove)*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handlePointer feeds mouse drags to the steering wheel while touch input
// is active. A press must start on the wheel to grab it.
func (g *Game) handlePointer() {
	if g.switcher.Active() != config.InputTouch {
		if g.wheel.Held() {
			g.wheel.PointerUp(toWheelFrame(rl.GetMousePosition(), g.screenHeight))
		}
		return
	}

	mouse := rl.GetMousePosition()
	pos := toWheelFrame(mouse, g.screenHeight)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if rl.CheckCollisionPointCircle(mouse, g.wheelWidget.Center, g.wheelWidget.Radius) {
			g.wheel.PointerDown(toWheelFrame(g.wheelWidget.Center, g.screenHeight), pos)
		}
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		if g.wheel.Held() {
			g.wheel.PointerUp(pos)
		}
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.wheel.Drag(pos)
	}
}

// handleOverlayKeys drains the key queue into the overlay registry.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			g.logger.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}
}
