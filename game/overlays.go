package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/ui"
)

// drawActiveOverlays renders all currently enabled world overlays.
func (g *Game) drawActiveOverlays() {
	for _, id := range g.overlays.EnabledOverlays() {
		switch id {
		case ui.OverlayWheelContacts:
			g.drawWheelContacts()
		case ui.OverlayVelocity:
			g.drawVelocity()
		case ui.OverlayCameraGoal:
			g.drawCameraGoal()
		}
	}
}

// drawWheelContacts marks each wheel with its contact state and load.
func (g *Game) drawWheelContacts() {
	state := g.session.State()
	for i, wp := range g.session.Solver().WheelPoses() {
		grounded, slipping := true, false
		if i < len(state.Wheels) {
			grounded = state.Wheels[i].IsGrounded
			slipping = state.Wheels[i].IsSlipping
		}

		x, y := g.camera.WorldToScreen(wp.Position)
		rl.DrawCircleLines(int32(x), int32(y), 8, surfaceColor(wp, grounded, slipping))
		rl.DrawText(loadLabel(wp.Load), int32(x)+10, int32(y)-6, 10, rl.White)
	}
}

// drawVelocity draws the chassis velocity (yellow) and heading (white).
func (g *Game) drawVelocity() {
	solver := g.session.Solver()
	pos, heading := solver.Pose()
	vel := solver.Chassis().Velocity()

	ox, oy := g.camera.WorldToScreen(pos)
	origin := rl.Vector2{X: ox, Y: oy}

	// One second of travel.
	vx, vy := g.camera.WorldToScreen(pos.Add(mgl64.Vec3{vel.X(), 0, vel.Z()}))
	rl.DrawLineEx(origin, rl.Vector2{X: vx, Y: vy}, 2, rl.Yellow)

	corners := rectCorners(pos, heading, 0, 3)
	hx, hy := g.camera.WorldToScreen(corners[0])
	rl.DrawLineEx(origin, rl.Vector2{X: hx, Y: hy}, 1, rl.White)
}

// drawCameraGoal marks where the follow camera is settling.
func (g *Game) drawCameraGoal() {
	pos, heading := g.session.Solver().Pose()
	goal := g.camera.Goal(pos, heading)

	gx, gy := g.camera.WorldToScreen(mgl64.Vec3{goal.X(), 0, goal.Y()})
	rl.DrawCircleLines(int32(gx), int32(gy), 6, rl.SkyBlue)

	cx, cy := g.camera.WorldToScreen(mgl64.Vec3{g.camera.Position.X(), 0, g.camera.Position.Y()})
	rl.DrawLine(int32(cx)-5, int32(cy), int32(cx)+5, int32(cy), rl.SkyBlue)
	rl.DrawLine(int32(cx), int32(cy)-5, int32(cx), int32(cy)+5, rl.SkyBlue)
}
