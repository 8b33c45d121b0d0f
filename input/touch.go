package input

import (
	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/vehicle"
)

// TouchSource steers from an on-screen wheel and reads pedals from the keyboard.
type TouchSource struct {
	Wheel *SteeringWheel
	Keys  KeyReader
}

// NewTouchSource creates a touch source.
func NewTouchSource(wheel *SteeringWheel, keys KeyReader) *TouchSource {
	return &TouchSource{Wheel: wheel, Keys: keys}
}

// Sample implements Source.
func (t *TouchSource) Sample() vehicle.ControlInput {
	in := pedals(t.Keys)
	if t.Wheel != nil {
		in.Steer = t.Wheel.Value()
	}
	return in
}

// Advance lets a released wheel recenter.
func (t *TouchSource) Advance(dt float64) {
	if t.Wheel != nil {
		t.Wheel.Advance(dt)
	}
}

// Switch holds a keyboard and a touch source and samples whichever is active.
type Switch struct {
	Keyboard *KeyboardSource
	Touch    *TouchSource

	touch bool
}

// NewSwitch creates a switch starting on the named source (config.InputKeyboard
// or config.InputTouch).
func NewSwitch(keyboard *KeyboardSource, touch *TouchSource, active string) *Switch {
	return &Switch{
		Keyboard: keyboard,
		Touch:    touch,
		touch:    active == config.InputTouch,
	}
}

// Toggle flips between keyboard and touch and returns the new source name.
func (s *Switch) Toggle() string {
	s.touch = !s.touch
	return s.Active()
}

// Active returns the name of the active source.
func (s *Switch) Active() string {
	if s.touch {
		return config.InputTouch
	}
	return config.InputKeyboard
}

// Sample implements Source.
func (s *Switch) Sample() vehicle.ControlInput {
	if s.touch {
		return s.Touch.Sample()
	}
	return s.Keyboard.Sample()
}

// Advance keeps the wheel recentering even while the keyboard is active.
func (s *Switch) Advance(dt float64) {
	if s.Touch != nil {
		s.Touch.Advance(dt)
	}
}
