package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
)

var screenUp = mgl64.Vec2{0, 1}

// SteeringWheel turns pointer drags around an on-screen wheel into a steering
// value. Positions are in a y-up screen frame; the angle is in degrees,
// positive clockwise.
type SteeringWheel struct {
	MaxAngle        float64
	ValueMultiplier float64
	ReturnSpeed     float64 // degrees per second
	NearThreshold   float64 // squared pixels

	held      bool
	center    mgl64.Vec2
	angle     float64
	prevAngle float64
}

// NewSteeringWheel creates a wheel from the touch config.
func NewSteeringWheel(cfg config.TouchConfig) *SteeringWheel {
	return &SteeringWheel{
		MaxAngle:        cfg.MaxAngle,
		ValueMultiplier: cfg.ValueMultiplier,
		ReturnSpeed:     cfg.ReturnSpeed,
		NearThreshold:   cfg.NearThreshold,
	}
}

// PointerDown grabs the wheel. center is the wheel's screen position.
func (w *SteeringWheel) PointerDown(center, pos mgl64.Vec2) {
	w.held = true
	w.center = center
	w.prevAngle = angleFromUp(pos.Sub(center))
}

// Drag rotates the wheel by the change in pointer angle since the last event.
func (w *SteeringWheel) Drag(pos mgl64.Vec2) {
	if !w.held {
		return
	}

	rel := pos.Sub(w.center)
	newAngle := angleFromUp(rel)

	// Too close to the hub to read a direction.
	if rel.Dot(rel) >= w.NearThreshold {
		if pos.X() > w.center.X() {
			w.angle += newAngle - w.prevAngle
		} else {
			w.angle -= newAngle - w.prevAngle
		}
	}

	w.prevAngle = newAngle
	w.angle = math.Max(-w.MaxAngle, math.Min(w.MaxAngle, w.angle))
}

// PointerUp applies the final position and releases the wheel.
func (w *SteeringWheel) PointerUp(pos mgl64.Vec2) {
	w.Drag(pos)
	w.held = false
}

// Advance returns a released wheel toward center without overshooting.
func (w *SteeringWheel) Advance(dt float64) {
	if w.held || w.angle == 0 {
		return
	}
	delta := w.ReturnSpeed * dt
	switch {
	case math.Abs(delta) > math.Abs(w.angle):
		w.angle = 0
	case w.angle > 0:
		w.angle -= delta
	default:
		w.angle += delta
	}
}

// Held reports whether a pointer is on the wheel.
func (w *SteeringWheel) Held() bool { return w.held }

// Angle returns the wheel rotation in degrees.
func (w *SteeringWheel) Angle() float64 { return w.angle }

// Value returns the steering axis, angle * multiplier / max angle.
func (w *SteeringWheel) Value() float64 {
	if w.MaxAngle == 0 {
		return 0
	}
	return w.angle * w.ValueMultiplier / w.MaxAngle
}

// angleFromUp is the unsigned angle in degrees between screen-up and v.
func angleFromUp(v mgl64.Vec2) float64 {
	l := v.Len()
	if l == 0 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, v.Dot(screenUp)/l))
	return mgl64.RadToDeg(math.Acos(cos))
}
