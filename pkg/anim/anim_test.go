package anim

import (
	"math"
	"testing"
	"time"

	"github.com/taigrr/shatter/pkg/easing"
	"github.com/taigrr/shatter/pkg/fracture"
	"github.com/taigrr/shatter/pkg/math3d"
)

// mockClock is a time source advanced by hand.
type mockClock struct {
	t time.Time
}

func (m *mockClock) Now() time.Time { return m.t }

func (m *mockClock) Add(d time.Duration) { m.t = m.t.Add(d) }

func positions(set *fracture.Set) []math3d.Vec3 {
	out := make([]math3d.Vec3, set.Len())
	for i, f := range set.Fragments {
		out[i] = f.Position
	}
	return out
}

func TestStepZeroDeltaIsIdempotent(t *testing.T) {
	for _, focus := range []bool{false, true} {
		set := fracture.Generate(150, 50, fracture.WithSeed(1))
		d := NewDriver(FixedJitter(math3d.V3(0.3, -0.2, -0.5)))
		p := DefaultParams()
		p.FocusMode = focus

		st := NewState()
		st.Focus = 0.4
		st.Advance(1.3, 0)
		st.Explode()

		d.Step(set, st, p)
		first := positions(set)
		rot := st.Rotation

		d.Step(set, st, p)
		for i, pos := range positions(set) {
			if pos != first[i] {
				t.Errorf("focus=%v fragment %d moved from %v to %v", focus, i, first[i], pos)
			}
		}
		if st.Rotation != rot {
			t.Errorf("focus=%v rotation changed with zero delta", focus)
		}
	}
}

func TestRestPositionInvariance(t *testing.T) {
	set := fracture.Generate(200, 70, fracture.WithSeed(2))
	d := NewDriver(nil)
	st := NewState()
	p := DefaultParams()

	rest := make([]math3d.Vec3, set.Len())
	for i, f := range set.Fragments {
		rest[i] = f.Rest()
	}

	for _, tc := range []float64{0.5, 1.2, 2.7} {
		st.Advance(tc, 0.016)
		d.Step(set, st, p)
	}
	moved := false
	for i, f := range set.Fragments {
		if f.Position != rest[i] {
			moved = true
		}
		if f.Rest() != rest[i] {
			t.Fatalf("fragment %d rest changed", i)
		}
	}
	if !moved {
		t.Fatal("no fragment moved while animating")
	}

	st.Advance(0, 0)
	d.Step(set, st, p)
	for i, f := range set.Fragments {
		if f.Position != rest[i] {
			t.Errorf("fragment %d at %v after reset, want rest %v", i, f.Position, rest[i])
		}
	}
}

func TestStepRotatesGroup(t *testing.T) {
	st := NewState()
	st.Advance(0, 0.5)
	NewDriver(nil).Step(nil, st, DefaultParams())

	if st.Rotation.X != 1 || st.Rotation.Y != 1 || st.Rotation.Z != 0 {
		t.Errorf("rotation = %v, want (1, 1, 0)", st.Rotation)
	}
}

func TestExplosionWindow(t *testing.T) {
	clock := &mockClock{t: time.Unix(1000, 0)}
	c := NewClock(clock.Now)
	st := NewState()

	if st.Explosion.Multiplier() != 1 {
		t.Fatalf("idle multiplier = %v, want 1", st.Explosion.Multiplier())
	}

	clock.Add(500 * time.Millisecond)
	st.Advance(c.Tick())
	st.Explode()
	if !st.Explosion.Active() || st.Explosion.Multiplier() != DefaultExplosionMultiplier {
		t.Fatalf("after trigger multiplier = %v, want %v", st.Explosion.Multiplier(), DefaultExplosionMultiplier)
	}

	closed := 0
	for range 40 {
		clock.Add(50 * time.Millisecond)
		if st.Advance(c.Tick()) {
			closed++
		}
		if st.Elapsed < 1.5-1e-9 && st.Explosion.Multiplier() != DefaultExplosionMultiplier {
			t.Fatalf("window closed early at %v", st.Elapsed)
		}
	}
	if closed != 1 {
		t.Errorf("window closed %d times, want 1", closed)
	}
	if st.Explosion.Active() || st.Explosion.Multiplier() != 1 {
		t.Errorf("after duration multiplier = %v, want 1", st.Explosion.Multiplier())
	}
}

func TestExplosionRetrigger(t *testing.T) {
	e := NewExplosion()
	e.Trigger(0)
	e.Trigger(0.8) // last trigger wins

	if e.Update(1.2) {
		t.Error("window closed before the restarted duration elapsed")
	}
	if got := e.Remaining(1.2); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("remaining = %v, want 0.6", got)
	}
	if !e.Update(1.8) {
		t.Error("window did not close at restart + duration")
	}
	if e.Update(5) {
		t.Error("idle window reported closing again")
	}
}

func TestFocusModeJitterOnlyWhileExploding(t *testing.T) {
	set := fracture.Generate(120, 60, fracture.WithSeed(3))
	d := NewDriver(FixedJitter(math3d.V3(0, 0, -1)))
	p := DefaultParams()
	p.FocusMode = true

	st := NewState()
	st.Focus = 0.2
	st.Advance(1, 0)
	d.Step(set, st, p)

	want := easing.InOutSine(0.2 * p.Force)
	for i, f := range set.Fragments {
		if got := f.Position.Sub(f.Rest()).Len(); math.Abs(got-want) > 1e-9 {
			t.Errorf("idle fragment %d offset = %v, want %v", i, got, want)
		}
	}

	st.Explode()
	d.Step(set, st, p)
	want = easing.InOutSine(0.2 * p.Force * DefaultExplosionMultiplier)
	for i, f := range set.Fragments {
		radial := f.Rest().Normalize().Scale(want)
		jitter := f.Position.Sub(f.Rest()).Sub(radial)
		if wantJ := p.JitterLength * 0.2 * p.FocusJitterScale; math.Abs(jitter.Len()-wantJ) > 1e-9 {
			t.Errorf("exploding fragment %d jitter = %v, want %v", i, jitter.Len(), wantJ)
		}
	}
}

func TestEndToEndFrame(t *testing.T) {
	set := fracture.Generate(300, 100, fracture.WithSeed(4))

	if set.Len() < 2 || set.Len() > 4 {
		t.Fatalf("got %d fragments, want 2-4", set.Len())
	}
	if set.OwnedVertexCount() != 300 {
		t.Fatalf("owned vertices = %d, want 300", set.OwnedVertexCount())
	}

	p := DefaultParams()
	st := NewState()
	st.Advance(1.0, 0.016)
	NewDriver(nil).Step(set, st, p)

	for i, f := range set.Fragments {
		if off := f.Position.Sub(f.Rest()).Len(); off > p.Distance {
			t.Errorf("fragment %d offset %v exceeds distance %v", i, off, p.Distance)
		}
	}
}

func TestClock(t *testing.T) {
	clock := &mockClock{t: time.Unix(0, 0)}
	c := NewClock(clock.Now)

	clock.Add(20 * time.Millisecond)
	elapsed, delta := c.Tick()
	if math.Abs(elapsed-0.02) > 1e-9 || math.Abs(delta-0.02) > 1e-9 {
		t.Errorf("tick = (%v, %v), want (0.02, 0.02)", elapsed, delta)
	}

	// A stall is clamped
	clock.Add(2 * time.Second)
	elapsed, delta = c.Tick()
	if math.Abs(elapsed-2.02) > 1e-9 || delta != DefaultMaxDelta {
		t.Errorf("stalled tick = (%v, %v), want (2.02, %v)", elapsed, delta, DefaultMaxDelta)
	}

	c.Reset()
	if elapsed, delta = c.Tick(); elapsed != 0 || delta != 0 {
		t.Errorf("after reset = (%v, %v), want zeros", elapsed, delta)
	}
}

func TestOrbit(t *testing.T) {
	eye := math3d.V3(2, 2, 2)
	o := NewOrbit(60, eye, math3d.Zero3())

	if got := o.Position(); !got.ApproxEqual(eye, 1e-9) {
		t.Fatalf("initial position = %v, want %v", got, eye)
	}

	o.ApplyImpulse(0, 0.1)
	for range 5 {
		o.Update()
	}
	moved := o.Position()
	if moved.ApproxEqual(eye, 1e-6) {
		t.Error("impulse did not move the camera")
	}
	if r := moved.Len(); math.Abs(r-eye.Len()) > 1e-9 {
		t.Errorf("radius drifted to %v", r)
	}

	for range 600 {
		o.Update()
	}
	if o.Moving() {
		t.Errorf("velocity did not decay: yaw=%v pitch=%v", o.Yaw.Velocity, o.Pitch.Velocity)
	}

	o.ApplyImpulse(10, 0)
	for range 10 {
		o.Update()
	}
	if o.Pitch.Position > maxPitch+1e-12 {
		t.Errorf("pitch = %v exceeds limit", o.Pitch.Position)
	}

	o.Zoom(-100)
	if o.Radius != MinOrbitRadius {
		t.Errorf("radius = %v, want %v", o.Radius, MinOrbitRadius)
	}

	o.Reset()
	if got := o.Position(); !got.ApproxEqual(eye, 1e-9) {
		t.Errorf("position after reset = %v, want %v", got, eye)
	}
}
