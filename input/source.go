// Package input produces the normalized driver input the vehicle consumes.
// Sources are polled once per tick; the vehicle never sees which one is active.
package input

import "github.com/fmxar/racer/vehicle"

// Source samples one tick of driver input.
type Source interface {
	Sample() vehicle.ControlInput
}

// Advancer is implemented by sources with time-dependent state.
// It is called once per tick before Sample.
type Advancer interface {
	Advance(dt float64)
}

// Key identifies a key the sources read.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyA
	KeyD
	KeyW
	KeyS
	KeySpace
	KeyLeftShift
)

// KeyReader reports whether a key is held. The game package adapts raylib to it.
type KeyReader interface {
	IsDown(k Key) bool
}

// KeyboardSource reads steering and pedals from the keyboard.
type KeyboardSource struct {
	Keys KeyReader
}

// NewKeyboardSource creates a keyboard source.
func NewKeyboardSource(keys KeyReader) *KeyboardSource {
	return &KeyboardSource{Keys: keys}
}

// Sample implements Source.
func (k *KeyboardSource) Sample() vehicle.ControlInput {
	in := pedals(k.Keys)
	in.Steer = horizontal(k.Keys)
	return in
}

// horizontal is the raw horizontal axis: -1, 0 or 1.
func horizontal(keys KeyReader) float64 {
	if keys == nil {
		return 0
	}
	var v float64
	if keys.IsDown(KeyLeft) || keys.IsDown(KeyA) {
		v--
	}
	if keys.IsDown(KeyRight) || keys.IsDown(KeyD) {
		v++
	}
	return v
}

// pedals reads throttle, brake and boost. Reverse wins over forward.
func pedals(keys KeyReader) vehicle.ControlInput {
	var in vehicle.ControlInput
	if keys == nil {
		return in
	}
	if keys.IsDown(KeyW) {
		in.Throttle = 1
	}
	if keys.IsDown(KeyS) {
		in.Throttle = -1
	}
	if keys.IsDown(KeySpace) {
		in.Brake = 1
	}
	in.Boost = keys.IsDown(KeyLeftShift)
	return in
}
