package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/contact"
)

type fakeContact struct {
	hit      WheelHit
	grounded bool

	motor       float64
	brake       float64
	steer       float64
	damping     float64
	forward     contact.Curve
	sideways    contact.Curve
	suspension  Suspension
	frictionSet bool
}

func newFakeContact() *fakeContact {
	return &fakeContact{grounded: true, hit: WheelHit{SurfaceTag: TrackTag}}
}

func (f *fakeContact) GroundHit() (WheelHit, bool) { return f.hit, f.grounded }
func (f *fakeContact) SetMotorTorque(t float64) { f.motor = t }
func (f *fakeContact) SetBrakeTorque(t float64) { f.brake = t }
func (f *fakeContact) SetSteerAngle(d float64) { f.steer = d }
func (f *fakeContact) SetDampingRate(r float64) { f.damping = r }
func (f *fakeContact) SetSuspension(s Suspension) { f.suspension = s }
func (f *fakeContact) SetFriction(fwd, side contact.Curve) {
	f.forward, f.sideways = fwd, side
	f.frictionSet = true
}

type fakeChassis struct {
	velocity mgl64.Vec3
	com      mgl64.Vec3
	forces   []mgl64.Vec3
	at       []mgl64.Vec3
}

func (f *fakeChassis) Velocity() mgl64.Vec3 { return f.velocity }
func (f *fakeChassis) SetVelocity(v mgl64.Vec3) { f.velocity = v }
func (f *fakeChassis) CenterOfMass() mgl64.Vec3 { return f.com }
func (f *fakeChassis) SetCenterOfMass(local mgl64.Vec3) { f.com = local }
func (f *fakeChassis) AddForceAtPosition(force, pos mgl64.Vec3) {
	f.forces = append(f.forces, force)
	f.at = append(f.at, pos)
}

type fakeRig struct {
	chassis  *fakeChassis
	contacts map[string]*fakeContact
}

func (r *fakeRig) Chassis() Chassis {
	if r.chassis == nil {
		return nil
	}
	return r.chassis
}

func (r *fakeRig) ContactPoint(name string) ContactPoint {
	if c, ok := r.contacts[name]; ok {
		return c
	}
	return nil
}

func testProperties() *WheelProperties {
	return &WheelProperties{
		Suspension:            Suspension{Spring: 35000, Damper: 4500, TargetPosition: 0.5},
		ForwardCurve:          []contact.Point{{Slip: 0, Value: 0}, {Slip: 0.4, Value: 1}, {Slip: 0.8, Value: 0.75}},
		LateralCurve:          []contact.Point{{Slip: 0, Value: 0}, {Slip: 0.2, Value: 1}, {Slip: 0.5, Value: 0.75}},
		ForwardStiffness:      1.5,
		LateralStiffness:      2,
		BaseDampingRate:       0.25,
		BadTerrainDampingRate: 6,
	}
}

func testParams() Params {
	return Params{
		MaxSpeed:         40,
		BrakeTorque:      1000,
		MaxSteeringAngle: 30,
		DampStartPercent: 0.85,
		MinSteeringDamp:  0.5,
		MinDownforce:     100,
		MaxDownforce:     2000,
	}
}

func testPowerPlant() *PowerPlant {
	p := &PowerPlant{
		standardTorque:    300,
		minTorque:         100,
		boostTorque:       500,
		acqRate:           5,
		acqSpeedThreshold: 0.9,
		depletionRate:     10,
	}
	p.SetBoostReserve(50)
	return p
}

// testVehicle is a four wheel car: steering front axle, driven rear axle.
type testVehicle struct {
	ctrl     *Controller
	chassis  *fakeChassis
	contacts []*fakeContact // FL, FR, RL, RR
}

func newTestVehicle(params Params) testVehicle {
	chassis := &fakeChassis{}
	var contacts []*fakeContact
	var wheels []*Wheel
	for _, name := range []string{"fl", "fr", "rl", "rr"} {
		cp := newFakeContact()
		contacts = append(contacts, cp)
		wheels = append(wheels, NewWheel(name, cp, testProperties()))
	}
	axles := []*Axle{
		{Name: "front", Steering: true, Wheels: wheels[:2]},
		{Name: "rear", Driven: true, Wheels: wheels[2:]},
	}
	ctrl, err := NewController(params, chassis, testPowerPlant(), axles, nil)
	if err != nil {
		panic(err)
	}
	ctrl.Configure(contact.MappingLegacy)
	return testVehicle{ctrl: ctrl, chassis: chassis, contacts: contacts}
}
