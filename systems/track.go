package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/vehicle"
)

// GrassTag is the surface tag reported off the track.
const GrassTag = "Grass"

// RingTrack is a flat circular track around the world origin.
type RingTrack struct {
	InnerRadius float64
	OuterRadius float64
}

// SurfaceAt returns the surface tag under a world position.
func (t RingTrack) SurfaceAt(p mgl64.Vec3) string {
	r := mgl64.Vec2{p.X(), p.Z()}.Len()
	if r >= t.InnerRadius && r <= t.OuterRadius {
		return vehicle.TrackTag
	}
	return GrassTag
}

// CenterRadius returns the radius of the racing line.
func (t RingTrack) CenterRadius() float64 {
	return (t.InnerRadius + t.OuterRadius) / 2
}
