package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SteeringWheelWidget draws the on-screen wheel used in touch mode.
type SteeringWheelWidget struct {
	Center rl.Vector2
	Radius float32
}

// Draw renders the wheel rotated by angleDeg (positive turns clockwise on
// screen, which steers right).
func (w SteeringWheelWidget) Draw(angleDeg float64, held bool) {
	rim := rl.Color{R: 200, G: 200, B: 210, A: 160}
	if held {
		rim = rl.Color{R: 255, G: 220, B: 120, A: 220}
	}

	rl.DrawRing(w.Center, w.Radius-10, w.Radius, 0, 360, 48, rim)
	rl.DrawCircleV(w.Center, 12, rim)

	// Three spokes, the top one marks the wheel's rotation.
	for i, offset := range []float64{0, 120, 240} {
		end := WheelSpoke(w.Center, w.Radius-10, angleDeg+offset)
		thick := float32(4)
		color := rim
		if i == 0 {
			thick = 6
			color = rl.Red
		}
		rl.DrawLineEx(w.Center, end, thick, color)
	}
}

// WheelSpoke returns the end of a spoke at angleDeg clockwise from
// screen-up.
func WheelSpoke(center rl.Vector2, length float32, angleDeg float64) rl.Vector2 {
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	return rl.Vector2{
		X: center.X + float32(sin)*length,
		Y: center.Y - float32(cos)*length,
	}
}
