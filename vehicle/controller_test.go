package vehicle

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

func TestNewControllerErrors(t *testing.T) {
	if _, err := NewController(testParams(), nil, testPowerPlant(), nil, nil); !errors.Is(err, ErrMissingChassis) {
		t.Errorf("expected ErrMissingChassis, got %v", err)
	}
	if _, err := NewController(testParams(), &fakeChassis{}, nil, nil, nil); !errors.Is(err, ErrMissingPowerPlant) {
		t.Errorf("expected ErrMissingPowerPlant, got %v", err)
	}

	shared := NewWheel("shared", newFakeContact(), testProperties())
	axles := []*Axle{
		{Name: "front", Wheels: []*Wheel{shared}},
		{Name: "rear", Wheels: []*Wheel{shared}},
	}
	if _, err := NewController(testParams(), &fakeChassis{}, testPowerPlant(), axles, nil); !errors.Is(err, ErrWheelInMultipleAxles) {
		t.Errorf("expected ErrWheelInMultipleAxles, got %v", err)
	}
}

func TestNewControllerSetsCenterOfMass(t *testing.T) {
	params := testParams()
	params.CenterOfMass = mgl64.Vec3{0, -0.4, 0.1}
	chassis := &fakeChassis{}
	if _, err := NewController(params, chassis, testPowerPlant(), nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chassis.com != params.CenterOfMass {
		t.Errorf("expected center of mass %v, got %v", params.CenterOfMass, chassis.com)
	}
}

func TestEmptyAxleIsNoop(t *testing.T) {
	chassis := &fakeChassis{}
	axles := []*Axle{{Name: "empty", Driven: true, Steering: true}}
	ctrl, err := NewController(testParams(), chassis, testPowerPlant(), axles, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctrl.Tick(ControlInput{Steer: 1, Throttle: 1, Brake: 1}, 0.02)

	s := ctrl.State()
	if len(s.Wheels) != 0 {
		t.Errorf("expected no wheels, got %d", len(s.Wheels))
	}
	// The grounded aggregate over no wheels is vacuously true.
	if !s.AllWheelsGrounded {
		t.Error("expected AllWheelsGrounded with no wheels")
	}
}

func TestTickDistributesInputs(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.Tick(ControlInput{Steer: 0.5, Throttle: 1, Brake: 0.25}, 0.02)

	// Speed percent is 0 at rest: no damping, full standard torque.
	for i, cp := range v.contacts[:2] {
		if cp.steer != 15 {
			t.Errorf("front wheel %d: expected steer 15, got %f", i, cp.steer)
		}
		if cp.motor != 0 {
			t.Errorf("front wheel %d: expected no motor torque, got %f", i, cp.motor)
		}
	}
	for i, cp := range v.contacts[2:] {
		if cp.motor != 300 {
			t.Errorf("rear wheel %d: expected motor torque 300, got %f", i, cp.motor)
		}
		if cp.steer != 0 {
			t.Errorf("rear wheel %d: expected no steer, got %f", i, cp.steer)
		}
	}
	for i, cp := range v.contacts {
		if cp.brake != 250 {
			t.Errorf("wheel %d: expected brake 250, got %f", i, cp.brake)
		}
	}
}

func TestBrakeAxleSelection(t *testing.T) {
	tests := []struct {
		name      string
		axles     BrakeAxles
		wantFront float64
		wantRear  float64
	}{
		{"all", BrakeAll, 1000, 1000},
		{"non steering", BrakeNonSteering, 0, 1000},
		{"steering", BrakeSteering, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			params.BrakeAxles = tt.axles
			v := newTestVehicle(params)
			v.ctrl.Tick(ControlInput{Brake: 1}, 0.02)

			if v.contacts[0].brake != tt.wantFront {
				t.Errorf("expected front brake %f, got %f", tt.wantFront, v.contacts[0].brake)
			}
			if v.contacts[3].brake != tt.wantRear {
				t.Errorf("expected rear brake %f, got %f", tt.wantRear, v.contacts[3].brake)
			}
		})
	}
}

func TestParseBrakeAxles(t *testing.T) {
	tests := map[string]BrakeAxles{
		config.BrakeAllAxles:     BrakeAll,
		config.BrakeNonSteering:  BrakeNonSteering,
		config.BrakeSteeringOnly: BrakeSteering,
		"":                       BrakeAll,
	}
	for in, want := range tests {
		if got := ParseBrakeAxles(in); got != want {
			t.Errorf("ParseBrakeAxles(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSteeringDamp(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		{"at rest", 0, 1},
		{"at damp start", 34, 1}, // 0.85 of max speed
		{"at max speed", 40, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVehicle(testParams())
			v.chassis.velocity = mgl64.Vec3{0, 0, tt.speed}

			// The first tick measures speed, the second damps with it.
			v.ctrl.Tick(ControlInput{}, 0.02)
			v.ctrl.Tick(ControlInput{Steer: 1}, 0.02)

			s := v.ctrl.State()
			if math.Abs(s.SteeringDamp-tt.want) > 1e-9 {
				t.Errorf("expected steering damp %f, got %f", tt.want, s.SteeringDamp)
			}
			if math.Abs(v.contacts[0].steer-30*tt.want) > 1e-9 {
				t.Errorf("expected steer angle %f, got %f", 30*tt.want, v.contacts[0].steer)
			}
		})
	}
}

func TestSteeringDampBetweenStartAndMax(t *testing.T) {
	v := newTestVehicle(testParams())
	v.chassis.velocity = mgl64.Vec3{0, 0, 37} // 0.925 of max speed

	v.ctrl.Tick(ControlInput{}, 0.02)
	v.ctrl.Tick(ControlInput{}, 0.02)

	// inverseLerp(1, 0.85, 0.925) = 0.5
	if got := v.ctrl.State().SteeringDamp; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected steering damp 0.5, got %f", got)
	}
}

func TestAllWheelsGrounded(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.Tick(ControlInput{}, 0.02)
	if !v.ctrl.State().AllWheelsGrounded {
		t.Error("expected all wheels grounded")
	}

	for i := range v.contacts {
		tv := newTestVehicle(testParams())
		tv.contacts[i].grounded = false
		tv.ctrl.Tick(ControlInput{}, 0.02)
		if tv.ctrl.State().AllWheelsGrounded {
			t.Errorf("expected not all grounded with wheel %d airborne", i)
		}
	}
}

func TestDisabledWheelExcluded(t *testing.T) {
	chassis := &fakeChassis{}
	good := newFakeContact()
	axles := []*Axle{{
		Name:     "rear",
		Driven:   true,
		Steering: true,
		Wheels: []*Wheel{
			NewWheel("good", good, testProperties()),
			NewWheel("no contact", nil, testProperties()),
		},
	}}
	ctrl, err := NewController(testParams(), chassis, testPowerPlant(), axles, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctrl.Configure(contact.MappingLegacy)

	errs := ctrl.ConfigErrors()
	if len(errs) != 1 || !errors.Is(errs[0], ErrMissingContactPoint) {
		t.Fatalf("expected one missing contact point error, got %v", errs)
	}

	ctrl.Tick(ControlInput{Throttle: 1, Steer: 1, Brake: 1}, 0.02)

	if good.motor != 300 || good.steer != 30 || good.brake != 1000 {
		t.Errorf("expected the configured wheel to be driven, got motor %f steer %f brake %f", good.motor, good.steer, good.brake)
	}
	s := ctrl.State()
	if s.AllWheelsGrounded {
		t.Error("expected a disabled wheel to count as not grounded")
	}
	if s.Wheels[1].Enabled {
		t.Error("expected the second wheel to be reported disabled")
	}
}

func TestDownforce(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		{"at rest uses minimum", 0, 100},
		{"half speed", 20, 1000},
		{"full speed", 40, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			params.CenterOfMass = mgl64.Vec3{0, -0.5, 0}
			v := newTestVehicle(params)
			v.chassis.velocity = mgl64.Vec3{tt.speed, 0, 0}

			v.ctrl.Tick(ControlInput{}, 0.02)
			v.ctrl.Tick(ControlInput{}, 0.02)

			if got := v.ctrl.State().Downforce; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected downforce %f, got %f", tt.want, got)
			}
			last := v.chassis.forces[len(v.chassis.forces)-1]
			if last[0] != 0 || last[2] != 0 || math.Abs(last[1]+tt.want) > 1e-9 {
				t.Errorf("expected world-down force of %f, got %v", tt.want, last)
			}
			if v.chassis.at[len(v.chassis.at)-1] != params.CenterOfMass {
				t.Errorf("expected force at center of mass, got %v", v.chassis.at[len(v.chassis.at)-1])
			}
		})
	}
}

func TestSpeedCap(t *testing.T) {
	v := newTestVehicle(testParams())
	v.chassis.velocity = mgl64.Vec3{30, 0, 40} // magnitude 50

	v.ctrl.Tick(ControlInput{}, 0.02)

	if got := v.chassis.velocity.Len(); math.Abs(got-40) > 1e-9 {
		t.Errorf("expected velocity capped to 40, got %f", got)
	}
	dir := v.chassis.velocity.Normalize()
	if math.Abs(dir[0]-0.6) > 1e-9 || math.Abs(dir[2]-0.8) > 1e-9 {
		t.Errorf("expected direction preserved, got %v", dir)
	}
	if v.ctrl.State().SpeedPercent != 1 {
		t.Errorf("expected speed percent 1, got %f", v.ctrl.State().SpeedPercent)
	}
}

func TestSpeedPercentGuardsNaN(t *testing.T) {
	v := newTestVehicle(testParams())
	v.chassis.velocity = mgl64.Vec3{math.NaN(), 0, 0}
	v.ctrl.Tick(ControlInput{Throttle: 1}, 0.02)
	v.ctrl.Tick(ControlInput{Throttle: 1}, 0.02)

	s := v.ctrl.State()
	if math.IsNaN(s.SpeedPercent) || s.SpeedPercent != 0 {
		t.Errorf("expected speed percent 0, got %f", s.SpeedPercent)
	}
	if math.IsNaN(v.contacts[2].motor) {
		t.Error("NaN reached motor torque")
	}
}

func TestSpeedPercentOverflowReadsFull(t *testing.T) {
	v := newTestVehicle(testParams())
	v.chassis.velocity = mgl64.Vec3{1e308, 0, 1e308}
	v.ctrl.Tick(ControlInput{}, 0.02)

	if s := v.ctrl.State().SpeedPercent; s != 1 {
		t.Errorf("expected speed percent 1 for an overflowing speed, got %f", s)
	}
	for i, c := range v.chassis.velocity {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("expected finite velocity component %d, got %v", i, c)
		}
	}
}

func TestInverseLerp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, x float64
		want    float64
	}{
		{"midpoint", 0, 10, 5, 0.5},
		{"below range", 0, 10, -3, 0},
		{"above range", 0, 10, 30, 1},
		{"reversed range", 1, 0.5, 0.75, 0.5},
		{"zero width", 1, 1, 1, 0},
		{"positive infinity", 0, 10, math.Inf(1), 1},
		{"negative infinity", 0, 10, math.Inf(-1), 0},
		{"NaN", 0, 10, math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inverseLerp(tt.a, tt.b, tt.x); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBoostTick(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.PowerPlant().SetBoostReserve(5)

	v.ctrl.Tick(ControlInput{Throttle: 1, Boost: true}, 0.1)

	s := v.ctrl.State()
	if v.contacts[2].motor != 500 {
		t.Errorf("expected boost torque 500, got %f", v.contacts[2].motor)
	}
	if !s.IsBoosting {
		t.Error("expected IsBoosting")
	}
	if math.Abs(s.BoostReserve-4) > 1e-9 {
		t.Errorf("expected reserve 4, got %f", s.BoostReserve)
	}
}

func TestBoostUsesPreTickReserve(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.PowerPlant().SetBoostReserve(1)

	// This tick spends exactly the remaining reserve.
	v.ctrl.Tick(ControlInput{Throttle: 1, Boost: true}, 0.1)
	if v.contacts[2].motor != 500 {
		t.Errorf("expected boost torque on the emptying tick, got %f", v.contacts[2].motor)
	}
	if v.ctrl.State().BoostReserve != 0 {
		t.Errorf("expected empty reserve, got %f", v.ctrl.State().BoostReserve)
	}

	v.ctrl.Tick(ControlInput{Throttle: 1, Boost: true}, 0.1)
	if v.contacts[2].motor != 300 {
		t.Errorf("expected standard torque once empty, got %f", v.contacts[2].motor)
	}
	if v.ctrl.State().IsBoosting {
		t.Error("expected not boosting once empty")
	}
}

func TestReverseBoostSpendsReserve(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.PowerPlant().SetBoostReserve(5)

	v.ctrl.Tick(ControlInput{Throttle: -1, Boost: true}, 0.1)

	if v.contacts[2].motor != -500 {
		t.Errorf("expected reverse boost torque -500, got %f", v.contacts[2].motor)
	}
	if math.Abs(v.ctrl.State().BoostReserve-4) > 1e-9 {
		t.Errorf("expected reserve 4, got %f", v.ctrl.State().BoostReserve)
	}
}

func TestInputClamped(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.Tick(ControlInput{Steer: 3, Throttle: math.NaN(), Brake: -2}, 0.02)

	in := v.ctrl.State().EffectiveInput
	if in.Steer != 1 || in.Throttle != 0 || in.Brake != 0 {
		t.Errorf("unexpected effective input %+v", in)
	}
}

func TestUserInputGate(t *testing.T) {
	v := newTestVehicle(testParams())
	v.ctrl.Tick(ControlInput{Steer: 1, Throttle: 1, Brake: 1, Boost: true}, 0.02)

	v.ctrl.SetUserInputEnabled(false)
	held := ControlInput{Steer: 1, Throttle: 1, Brake: 1, Boost: true}
	for i := 0; i < 5; i++ {
		v.ctrl.Tick(held, 0.02)

		s := v.ctrl.State()
		if s.EffectiveInput != (ControlInput{}) {
			t.Fatalf("tick %d: expected zero effective input, got %+v", i, s.EffectiveInput)
		}
		if s.IsBoosting {
			t.Fatalf("tick %d: expected boost released", i)
		}
		for j, cp := range v.contacts {
			if cp.motor != 0 || cp.brake != 0 || cp.steer != 0 {
				t.Fatalf("tick %d wheel %d: expected neutral outputs, got motor %f brake %f steer %f", i, j, cp.motor, cp.brake, cp.steer)
			}
		}
	}

	v.ctrl.SetUserInputEnabled(true)
	v.ctrl.Tick(held, 0.02)
	if v.contacts[0].steer == 0 {
		t.Error("expected steering to resume once input is enabled")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	rig := &fakeRig{chassis: &fakeChassis{}, contacts: map[string]*fakeContact{}}
	for _, axle := range cfg.Axles {
		for _, w := range axle.Wheels {
			rig.contacts[w.Name] = newFakeContact()
		}
	}

	ctrl, err := New(cfg, rig, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctrl.ConfigErrors()) != 0 {
		t.Errorf("unexpected configuration errors: %v", ctrl.ConfigErrors())
	}
	if len(ctrl.Wheels()) != cfg.Derived.WheelCount {
		t.Errorf("expected %d wheels, got %d", cfg.Derived.WheelCount, len(ctrl.Wheels()))
	}
	for name, cp := range rig.contacts {
		if !cp.frictionSet {
			t.Errorf("wheel %s: expected friction to be configured", name)
		}
	}
	if ctrl.PowerPlant().BoostReserve() != cfg.PowerPlant.InitialBoost {
		t.Errorf("expected initial boost %f, got %f", cfg.PowerPlant.InitialBoost, ctrl.PowerPlant().BoostReserve())
	}
}

func TestNewMissingChassis(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if _, err := New(cfg, &fakeRig{}, nil); !errors.Is(err, ErrMissingChassis) {
		t.Errorf("expected ErrMissingChassis, got %v", err)
	}
}

func TestNewMissingContactPointDegrades(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	rig := &fakeRig{chassis: &fakeChassis{}, contacts: map[string]*fakeContact{}}

	ctrl, err := New(cfg, rig, nil)
	if err != nil {
		t.Fatalf("expected construction to succeed, got %v", err)
	}
	if len(ctrl.ConfigErrors()) != cfg.Derived.WheelCount {
		t.Errorf("expected %d configuration errors, got %d", cfg.Derived.WheelCount, len(ctrl.ConfigErrors()))
	}

	// The tick loop must keep running.
	ctrl.Tick(ControlInput{Throttle: 1}, cfg.Physics.DT)
	if ctrl.State().AllWheelsGrounded {
		t.Error("expected no grounded wheels")
	}
}
