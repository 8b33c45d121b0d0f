// Package camera provides a top-down follow camera for the driving view.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
)

// Camera controls the viewport into the world's XZ plane. World +X maps to
// screen right and world +Z to screen up.
type Camera struct {
	// Position is the camera center in world coordinates (X, Z)
	Position mgl64.Vec2

	// Zoom level in pixels per metre
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Offset is the boom in the target's frame: right, forward
	Offset mgl64.Vec2

	// PositionSmooth scales the frame time into the SmoothDamp smoothing time
	PositionSmooth float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	defaultZoom float64
	velocity    mgl64.Vec2
}

// New creates a camera from config centered on the world origin.
func New(viewportW, viewportH float64, cfg config.CameraConfig) *Camera {
	c := &Camera{
		ViewportW:      viewportW,
		ViewportH:      viewportH,
		Offset:         mgl64.Vec2(cfg.Offset),
		PositionSmooth: cfg.PositionSmooth,
		MinZoom:        cfg.MinZoom,
		MaxZoom:        cfg.MaxZoom,
	}
	if c.MinZoom <= 0 {
		c.MinZoom = 0.1
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	c.defaultZoom = mgl64.Clamp(cfg.Zoom, c.MinZoom, c.MaxZoom)
	c.Zoom = c.defaultZoom
	return c
}

// Goal returns the point the camera settles on for a target pose.
func (c *Camera) Goal(position mgl64.Vec3, heading float64) mgl64.Vec2 {
	sin, cos := math.Sincos(heading)
	forward := mgl64.Vec2{sin, cos}
	right := mgl64.Vec2{cos, -sin}
	return mgl64.Vec2{position.X(), position.Z()}.
		Add(right.Mul(c.Offset.X())).
		Add(forward.Mul(c.Offset.Y()))
}

// Follow moves the camera toward the target pose with SmoothDamp.
func (c *Camera) Follow(position mgl64.Vec3, heading, dt float64) {
	goal := c.Goal(position, heading)
	c.Position = SmoothDampVec2(c.Position, goal, &c.velocity, c.PositionSmooth*dt, dt)
}

// SnapTo places the camera on the goal for a pose and stops its motion.
func (c *Camera) SnapTo(position mgl64.Vec3, heading float64) {
	c.Position = c.Goal(position, heading)
	c.velocity = mgl64.Vec2{}
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float32) {
	dx := p.X() - c.Position.X()
	dz := p.Z() - c.Position.Y()
	return float32(c.ViewportW/2 + dx*c.Zoom), float32(c.ViewportH/2 - dz*c.Zoom)
}

// ScreenToWorld converts screen coordinates to a world position on the ground.
func (c *Camera) ScreenToWorld(sx, sy float32) mgl64.Vec3 {
	dx := (float64(sx) - c.ViewportW/2) / c.Zoom
	dz := (c.ViewportH/2 - float64(sy)) / c.Zoom
	return mgl64.Vec3{c.Position.X() + dx, 0, c.Position.Y() + dz}
}

// IsVisible returns true if a circle at p with given radius could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p mgl64.Vec3, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(p.X()-c.Position.X()) <= halfW && math.Abs(p.Z()-c.Position.Y()) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = mgl64.Clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the configured zoom.
func (c *Camera) Reset() {
	c.Zoom = c.defaultZoom
	c.velocity = mgl64.Vec2{}
}

// SmoothDamp moves current toward target with a critically damped spring
// that reaches the target in roughly smoothTime. velocity carries state
// between calls. The result never overshoots target.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (target-current > 0) == (out > target) {
		out = target
		*velocity = 0
	}
	return out
}

// SmoothDampVec2 applies SmoothDamp per axis.
func SmoothDampVec2(current, target mgl64.Vec2, velocity *mgl64.Vec2, smoothTime, dt float64) mgl64.Vec2 {
	x := SmoothDamp(current[0], target[0], &velocity[0], smoothTime, dt)
	y := SmoothDamp(current[1], target[1], &velocity[1], smoothTime, dt)
	return mgl64.Vec2{x, y}
}
