// Package systems contains the reference arcade solver the vehicle drives in
// headless runs, tuning and the front end.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/fmxar/racer/components"
	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
	"github.com/fmxar/racer/vehicle"
)

// minSlipSpeed keeps slip ratios finite near standstill.
const minSlipSpeed = 1.0

// Solver integrates one chassis and its wheels on a flat bench. Wheels are
// ECS entities; the chassis is a single entity holding the body.
type Solver struct {
	world *ecs.World
	track RingTrack

	gravity           float64
	rollingResistance float64
	airDrag           float64
	substeps          int

	chassis ecs.Entity
	wheels  map[string]ecs.Entity
	order   []string

	chassisMapper *ecs.Map3[components.Body, components.Mass, components.ForceAccumulator]
	wheelMapper   *ecs.Map5[
		components.WheelMount,
		components.WheelDrive,
		components.WheelContact,
		components.Friction,
		components.Suspension,
	]
	wheelFilter *ecs.Filter5[
		components.WheelMount,
		components.WheelDrive,
		components.WheelContact,
		components.Friction,
		components.Suspension,
	]

	bodyMap    *ecs.Map1[components.Body]
	massMap    *ecs.Map1[components.Mass]
	forceMap   *ecs.Map1[components.ForceAccumulator]
	driveMap   *ecs.Map1[components.WheelDrive]
	contactMap *ecs.Map1[components.WheelContact]
	frictMap   *ecs.Map1[components.Friction]
	suspMap    *ecs.Map1[components.Suspension]
	mountMap   *ecs.Map1[components.WheelMount]
}

// NewSolver creates a solver with the chassis at the bench start pose and one
// wheel entity per configured wheel.
func NewSolver(cfg *config.Config) *Solver {
	world := ecs.NewWorld()
	s := &Solver{
		world: world,
		track: RingTrack{
			InnerRadius: cfg.Bench.TrackInnerRadius,
			OuterRadius: cfg.Bench.TrackOuterRadius,
		},
		gravity:           cfg.Bench.Gravity,
		rollingResistance: cfg.Bench.RollingResistance,
		airDrag:           cfg.Bench.AirDrag,
		substeps:          max(cfg.Physics.Substeps, 1),
		wheels:            make(map[string]ecs.Entity),

		chassisMapper: ecs.NewMap3[components.Body, components.Mass, components.ForceAccumulator](world),
		wheelMapper: ecs.NewMap5[
			components.WheelMount,
			components.WheelDrive,
			components.WheelContact,
			components.Friction,
			components.Suspension,
		](world),
		wheelFilter: ecs.NewFilter5[
			components.WheelMount,
			components.WheelDrive,
			components.WheelContact,
			components.Friction,
			components.Suspension,
		](world),

		bodyMap:    ecs.NewMap1[components.Body](world),
		massMap:    ecs.NewMap1[components.Mass](world),
		forceMap:   ecs.NewMap1[components.ForceAccumulator](world),
		driveMap:   ecs.NewMap1[components.WheelDrive](world),
		contactMap: ecs.NewMap1[components.WheelContact](world),
		frictMap:   ecs.NewMap1[components.Friction](world),
		suspMap:    ecs.NewMap1[components.Suspension](world),
		mountMap:   ecs.NewMap1[components.WheelMount](world),
	}

	body := components.Body{
		Position: mgl64.Vec3(cfg.Bench.StartPosition),
		Heading:  cfg.Bench.StartHeading,
	}
	mass := components.Mass{
		Mass:       math.Max(cfg.Bench.Mass, 1),
		YawInertia: math.Max(cfg.Bench.YawInertia, 1),
	}
	s.chassis = s.chassisMapper.NewEntity(&body, &mass, &components.ForceAccumulator{})

	for _, axle := range cfg.Axles {
		for _, wc := range axle.Wheels {
			mount := components.WheelMount{
				Name:    wc.Name,
				Offset:  mgl64.Vec3(wc.Position),
				Radius:  math.Max(cfg.Bench.WheelRadius, 0.01),
				Inertia: math.Max(cfg.Bench.WheelInertia, 0.01),
			}
			wheelPos := body.Position.Add(rotateY(mount.Offset, body.Heading))
			state := components.WheelContact{
				Grounded: true,
				Surface:  s.track.SurfaceAt(wheelPos),
				Position: wheelPos,
			}
			friction := components.Friction{Forward: contact.Neutral(), Sideways: contact.Neutral()}
			e := s.wheelMapper.NewEntity(&mount, &components.WheelDrive{}, &state, &friction, &components.Suspension{})
			s.wheels[mount.Name] = e
			s.order = append(s.order, mount.Name)
		}
	}

	return s
}

// Chassis implements vehicle.Rig.
func (s *Solver) Chassis() vehicle.Chassis {
	return &chassisHandle{s: s}
}

// ContactPoint implements vehicle.Rig. Unknown wheels return nil.
func (s *Solver) ContactPoint(wheel string) vehicle.ContactPoint {
	e, ok := s.wheels[wheel]
	if !ok {
		return nil
	}
	return &contactHandle{s: s, e: e}
}

// Track returns the bench track.
func (s *Solver) Track() RingTrack { return s.track }

// Step advances the bench by dt in fixed substeps and clears accumulated forces.
func (s *Solver) Step(dt float64) {
	if dt <= 0 {
		return
	}
	h := dt / float64(s.substeps)
	for i := 0; i < s.substeps; i++ {
		s.substep(h)
	}
	*s.forceMap.Get(s.chassis) = components.ForceAccumulator{}
}

func (s *Solver) substep(h float64) {
	body := s.bodyMap.Get(s.chassis)
	mass := s.massMap.Get(s.chassis)
	ext := s.forceMap.Get(s.chassis)

	// Downward external force adds to the normal load.
	totalLoad := math.Max(mass.Mass*s.gravity-ext.Force.Y(), 0)
	n := len(s.wheels)

	force := mgl64.Vec3{ext.Force.X(), 0, ext.Force.Z()}
	torque := ext.Torque

	query := s.wheelFilter.Query()
	for query.Next() {
		mount, drive, wc, friction, susp := query.Get()

		offset := rotateY(mount.Offset.Sub(body.CenterOfMass), body.Heading)
		wc.Position = body.Position.Add(rotateY(mount.Offset, body.Heading))
		wc.Surface = s.track.SurfaceAt(wc.Position)
		wc.Grounded = true

		load := totalLoad / float64(n)
		wc.Load = load
		wc.Compression = compression(susp, wc.Compression, load, mass.Mass*s.gravity/float64(n), h)

		wheelHeading := body.Heading + mgl64.DegToRad(drive.SteerAngle)
		wf, wr := forward(wheelHeading), right(wheelHeading)

		cv := body.Velocity.Add(yawCross(body.YawRate, offset))
		vLong := cv.Dot(wf)
		vLat := cv.Dot(wr)
		ref := math.Max(math.Abs(vLong), minSlipSpeed)

		wc.ForwardSlip = finite((wc.Spin*mount.Radius - vLong) / ref)
		wc.SidewaysSlip = finite(vLat / ref)

		fx := signOf(wc.ForwardSlip) * friction.Forward.Evaluate(wc.ForwardSlip) * load
		fy := -signOf(wc.SidewaysSlip) * friction.Sideways.Evaluate(wc.SidewaysSlip) * load

		s.integrateSpin(mount, drive, wc, fx, vLong, h)

		f := wf.Mul(fx).Add(wr.Mul(fy))
		force = force.Add(f)
		torque += yawTorque(offset, f)
	}

	// Resistance
	speed := body.Velocity.Len()
	force = force.Sub(body.Velocity.Mul(s.rollingResistance + s.airDrag*speed))

	body.Velocity = body.Velocity.Add(force.Mul(h / mass.Mass))
	body.Velocity[1] = 0
	body.YawRate += torque / mass.YawInertia * h
	body.Position = body.Position.Add(body.Velocity.Mul(h))
	body.Heading = normalizeAngle(body.Heading + body.YawRate*h)
}

// integrateSpin applies drive, brake, damping and the tire reaction to the
// wheel spin. The tire reaction never pushes spin past zero slip.
func (s *Solver) integrateSpin(mount *components.WheelMount, drive *components.WheelDrive, wc *components.WheelContact, fx, vLong, h float64) {
	spin := wc.Spin
	spin += (drive.MotorTorque - drive.DampingRate*spin) / mount.Inertia * h

	brake := math.Abs(drive.BrakeTorque) / mount.Inertia * h
	if math.Abs(spin) <= brake {
		spin = 0
	} else {
		spin -= signOf(spin) * brake
	}

	rolling := vLong / mount.Radius
	reaction := -fx * mount.Radius / mount.Inertia * h
	next := spin + reaction
	if (spin-rolling)*(next-rolling) < 0 {
		next = rolling
	}
	wc.Spin = finite(next)
}

// compression eases the suspension toward its loaded rest point.
func compression(susp *components.Suspension, current, load, staticLoad, h float64) float64 {
	if susp.Spring <= 0 {
		return susp.TargetPosition
	}
	target := clamp01(susp.TargetPosition + (load-staticLoad)/susp.Spring)
	rate := 1.0
	if susp.Damper > 0 {
		rate = clamp01(susp.Spring / susp.Damper * h)
	}
	return current + (target-current)*rate
}

// Pose returns the chassis position and heading.
func (s *Solver) Pose() (mgl64.Vec3, float64) {
	body := s.bodyMap.Get(s.chassis)
	return body.Position, body.Heading
}

// YawRate returns the chassis yaw rate in radians per second.
func (s *Solver) YawRate() float64 {
	return s.bodyMap.Get(s.chassis).YawRate
}

// WheelPose is a wheel's drawing state.
type WheelPose struct {
	Name       string
	Position   mgl64.Vec3
	Heading    float64
	Surface    string
	Load       float64
	Spin       float64
	Compressed float64
}

// WheelPoses returns every wheel's pose in configuration order.
func (s *Solver) WheelPoses() []WheelPose {
	body := s.bodyMap.Get(s.chassis)
	poses := make([]WheelPose, 0, len(s.order))
	for _, name := range s.order {
		e := s.wheels[name]
		wc := s.contactMap.Get(e)
		drive := s.driveMap.Get(e)
		poses = append(poses, WheelPose{
			Name:       name,
			Position:   wc.Position,
			Heading:    body.Heading + mgl64.DegToRad(drive.SteerAngle),
			Surface:    wc.Surface,
			Load:       wc.Load,
			Spin:       wc.Spin,
			Compressed: wc.Compression,
		})
	}
	return poses
}

// chassisHandle exposes the chassis entity as a vehicle.Chassis.
type chassisHandle struct {
	s *Solver
}

func (c *chassisHandle) Velocity() mgl64.Vec3 {
	return c.s.bodyMap.Get(c.s.chassis).Velocity
}

func (c *chassisHandle) SetVelocity(v mgl64.Vec3) {
	c.s.bodyMap.Get(c.s.chassis).Velocity = mgl64.Vec3{finite(v[0]), 0, finite(v[2])}
}

func (c *chassisHandle) CenterOfMass() mgl64.Vec3 {
	body := c.s.bodyMap.Get(c.s.chassis)
	return body.Position.Add(rotateY(body.CenterOfMass, body.Heading))
}

func (c *chassisHandle) SetCenterOfMass(local mgl64.Vec3) {
	c.s.bodyMap.Get(c.s.chassis).CenterOfMass = local
}

func (c *chassisHandle) AddForceAtPosition(force, position mgl64.Vec3) {
	body := c.s.bodyMap.Get(c.s.chassis)
	acc := c.s.forceMap.Get(c.s.chassis)
	com := body.Position.Add(rotateY(body.CenterOfMass, body.Heading))
	acc.Force = acc.Force.Add(force)
	acc.Torque += yawTorque(position.Sub(com), force)
}

// contactHandle exposes one wheel entity as a vehicle.ContactPoint.
type contactHandle struct {
	s *Solver
	e ecs.Entity
}

func (c *contactHandle) GroundHit() (vehicle.WheelHit, bool) {
	wc := c.s.contactMap.Get(c.e)
	if !wc.Grounded {
		return vehicle.WheelHit{}, false
	}
	return vehicle.WheelHit{
		ForwardSlip:  wc.ForwardSlip,
		SidewaysSlip: wc.SidewaysSlip,
		SurfaceTag:   wc.Surface,
	}, true
}

func (c *contactHandle) SetMotorTorque(torque float64) {
	c.s.driveMap.Get(c.e).MotorTorque = torque
}

func (c *contactHandle) SetBrakeTorque(torque float64) {
	c.s.driveMap.Get(c.e).BrakeTorque = torque
}

func (c *contactHandle) SetSteerAngle(degrees float64) {
	c.s.driveMap.Get(c.e).SteerAngle = degrees
}

func (c *contactHandle) SetDampingRate(rate float64) {
	c.s.driveMap.Get(c.e).DampingRate = rate
}

func (c *contactHandle) SetFriction(forward, sideways contact.Curve) {
	*c.s.frictMap.Get(c.e) = components.Friction{Forward: forward, Sideways: sideways}
}

func (c *contactHandle) SetSuspension(s vehicle.Suspension) {
	*c.s.suspMap.Get(c.e) = components.Suspension{
		Spring:         s.Spring,
		Damper:         s.Damper,
		TargetPosition: s.TargetPosition,
	}
	c.s.contactMap.Get(c.e).Compression = s.TargetPosition
}

// Mount returns the named wheel's mount, or false if there is none.
func (s *Solver) Mount(wheel string) (components.WheelMount, bool) {
	e, ok := s.wheels[wheel]
	if !ok {
		return components.WheelMount{}, false
	}
	return *s.mountMap.Get(e), true
}
