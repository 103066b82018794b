package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/shatter/pkg/math3d"
)

// Orbit limits.
const (
	MinOrbitRadius = 1.0
	MaxOrbitRadius = 20.0
	maxPitch       = 89 * math.Pi / 180
)

// OrbitAxis tracks position and velocity for one orbit angle. Velocity
// decays toward zero through a critically damped spring.
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewOrbitAxis creates an axis whose velocity settles at the given frame rate.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *OrbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit is a damped orbit camera rig around a target point.
type Orbit struct {
	Yaw, Pitch OrbitAxis
	Radius     float64
	Target     math3d.Vec3

	fps  int
	home math3d.Vec3
}

// NewOrbit places the rig so that Position returns eye.
func NewOrbit(fps int, eye, target math3d.Vec3) *Orbit {
	o := &Orbit{fps: fps, home: eye, Target: target}
	o.Reset()
	return o
}

// Reset returns the rig to its initial eye position with no motion.
func (o *Orbit) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)

	off := o.home.Sub(o.Target)
	o.Radius = max(MinOrbitRadius, min(off.Len(), MaxOrbitRadius))
	if off.LenSq() == 0 {
		off = math3d.V3(0, 0, 1)
	}
	off = off.Normalize()
	o.Yaw.Position = math.Atan2(off.X, off.Z)
	o.Pitch.Position = math.Asin(max(-1, min(off.Y, 1)))
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Zoom moves the eye toward (negative) or away from the target.
func (o *Orbit) Zoom(delta float64) {
	o.Radius = max(MinOrbitRadius, min(o.Radius+delta, MaxOrbitRadius))
}

// Update advances both springs by one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	if o.Pitch.Position > maxPitch || o.Pitch.Position < -maxPitch {
		o.Pitch.Position = max(-maxPitch, min(o.Pitch.Position, maxPitch))
		o.Pitch.Velocity, o.Pitch.velAccel = 0, 0
	}
}

// Moving reports whether either axis still has noticeable velocity.
func (o *Orbit) Moving() bool {
	const eps = 1e-5
	return math.Abs(o.Yaw.Velocity) > eps || math.Abs(o.Pitch.Velocity) > eps
}

// Position returns the eye position.
func (o *Orbit) Position() math3d.Vec3 {
	cp := math.Cos(o.Pitch.Position)
	return o.Target.Add(math3d.V3(
		math.Sin(o.Yaw.Position)*cp,
		math.Sin(o.Pitch.Position),
		math.Cos(o.Yaw.Position)*cp,
	).Scale(o.Radius))
}
