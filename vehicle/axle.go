package vehicle

// Axle groups wheels under drive and steer flags. Wheels are borrowed from
// the scene; the axle does not own them.
type Axle struct {
	Name     string
	Driven   bool
	Steering bool
	Wheels   []*Wheel
}
