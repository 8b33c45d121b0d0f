package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
)

func testConfig() config.CameraConfig {
	return config.CameraConfig{
		Offset:         [2]float64{0, 6},
		PositionSmooth: 10,
		Zoom:           5,
		MinZoom:        1,
		MaxZoom:        20,
	}
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, testConfig())

	if cam.Position != (mgl64.Vec2{}) {
		t.Errorf("expected camera at origin, got %v", cam.Position)
	}
	if cam.Zoom != 5 {
		t.Errorf("expected zoom 5, got %f", cam.Zoom)
	}

	bad := New(1280, 720, config.CameraConfig{Zoom: 50, MinZoom: 0, MaxZoom: -1})
	if bad.MinZoom <= 0 || bad.MaxZoom < bad.MinZoom || bad.Zoom != bad.MaxZoom {
		t.Errorf("expected sane zoom limits, got min=%f max=%f zoom=%f", bad.MinZoom, bad.MaxZoom, bad.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, testConfig())
	cam.Position = mgl64.Vec2{10, 20}

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(mgl64.Vec3{10, 0, 20})
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// +X is right, +Z is up
	sx, sy = cam.WorldToScreen(mgl64.Vec3{11, 0, 21})
	if sx <= 640 || sy >= 360 {
		t.Errorf("expected up-right of center, got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, testConfig())
	cam.Position = mgl64.Vec2{-30, 75}

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		p := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(p)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, p, sx, sy)
		}
	}
}

func TestGoalUsesCarFrame(t *testing.T) {
	cam := New(1280, 720, testConfig())

	tests := []struct {
		name    string
		heading float64
		want    mgl64.Vec2
	}{
		{"facing +Z", 0, mgl64.Vec2{0, 6}},
		{"facing +X", math.Pi / 2, mgl64.Vec2{6, 0}},
		{"facing -Z", math.Pi, mgl64.Vec2{0, -6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cam.Goal(mgl64.Vec3{}, tt.heading)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestFollowConverges(t *testing.T) {
	cam := New(1280, 720, testConfig())
	target := mgl64.Vec3{50, 0, -20}
	goal := cam.Goal(target, 0)
	dt := 0.02

	prev := cam.Position.Sub(goal).Len()
	for i := 0; i < 200; i++ {
		cam.Follow(target, 0, dt)
		d := cam.Position.Sub(goal).Len()
		if d > prev+1e-9 {
			t.Fatalf("step %d: expected distance to shrink, %f -> %f", i, prev, d)
		}
		prev = d
	}
	if prev > 0.01 {
		t.Errorf("expected camera to settle on the goal, still %f away", prev)
	}
}

func TestSmoothDampNoOvershoot(t *testing.T) {
	var vel float64
	x := 0.0
	for i := 0; i < 500; i++ {
		x = SmoothDamp(x, 1, &vel, 0.05, 0.02)
		if x > 1 {
			t.Fatalf("step %d: overshoot to %f", i, x)
		}
	}
	if math.Abs(x-1) > 1e-6 {
		t.Errorf("expected to reach 1, got %f", x)
	}

	vel = 0
	if got := SmoothDamp(3, 1, &vel, 0.5, 0); got != 3 {
		t.Errorf("expected zero dt to hold position, got %f", got)
	}
}

func TestSnapToAndZoom(t *testing.T) {
	cam := New(1280, 720, testConfig())
	cam.SnapTo(mgl64.Vec3{5, 0, 5}, 0)
	if cam.Position != (mgl64.Vec2{5, 11}) {
		t.Errorf("expected camera at (5, 11), got %v", cam.Position)
	}

	cam.ZoomBy(100)
	if cam.Zoom != 20 {
		t.Errorf("expected zoom clamped to 20, got %f", cam.Zoom)
	}
	cam.SetZoom(0)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}
	cam.Reset()
	if cam.Zoom != 5 {
		t.Errorf("expected reset zoom 5, got %f", cam.Zoom)
	}

	if !cam.IsVisible(mgl64.Vec3{5, 0, 11}, 1) {
		t.Error("expected camera center to be visible")
	}
	if cam.IsVisible(mgl64.Vec3{1000, 0, 11}, 1) {
		t.Error("expected far point to be culled")
	}
}
