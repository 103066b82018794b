package anim

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/shatter/pkg/easing"
	"github.com/taigrr/shatter/pkg/fracture"
	"github.com/taigrr/shatter/pkg/math3d"
)

// Params are the tunable animation parameters, read once per tick.
type Params struct {
	Distance      float64 // steady pulse amplitude
	Force         float64 // focus mode amplitude
	RotationSpeed float64 // radians per second on X and Y

	JitterLength     float64
	FocusJitterScale float64

	// FocusMode drives displacement from State.Focus and the explosion
	// window instead of the steady sine pulse.
	FocusMode bool
}

// DefaultParams returns the stock animation parameters.
func DefaultParams() Params {
	return Params{
		Distance:         0.3,
		Force:            0.5,
		RotationSpeed:    2,
		JitterLength:     0.025,
		FocusJitterScale: 4,
	}
}

// JitterSource supplies the raw jitter direction for one fragment.
type JitterSource interface {
	Jitter() math3d.Vec3
}

// RandJitter draws x and y uniformly from [-0.5, 0.5] with z fixed at -0.5.
type RandJitter struct {
	rng *rand.Rand
}

// NewRandJitter creates a jitter source. A nil rng is seeded randomly.
func NewRandJitter(rng *rand.Rand) *RandJitter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandJitter{rng: rng}
}

// Jitter implements JitterSource.
func (j *RandJitter) Jitter() math3d.Vec3 {
	return math3d.V3(j.rng.Float64()-0.5, j.rng.Float64()-0.5, -0.5)
}

// FixedJitter always returns the same direction.
type FixedJitter math3d.Vec3

// Jitter implements JitterSource.
func (j FixedJitter) Jitter() math3d.Vec3 { return math3d.Vec3(j) }

// Driver moves fragments each tick.
type Driver struct {
	Jitter JitterSource
}

// NewDriver creates a driver. A nil source uses RandJitter.
func NewDriver(src JitterSource) *Driver {
	if src == nil {
		src = NewRandJitter(nil)
	}
	return &Driver{Jitter: src}
}

// Step advances the group rotation by the frame delta and places every
// fragment at rest + radial + jitter.
func (d *Driver) Step(set *fracture.Set, st *State, p Params) {
	st.Rotation.X += st.Delta * p.RotationSpeed
	st.Rotation.Y += st.Delta * p.RotationSpeed

	if set == nil {
		return
	}

	var magnitude, jitterScale float64
	withJitter := true
	if p.FocusMode {
		magnitude = easing.InOutSine(st.Focus * p.Force * st.Explosion.Multiplier())
		jitterScale = st.Focus * p.FocusJitterScale
		withJitter = st.Explosion.Active()
	} else {
		magnitude = p.Distance * math.Abs(math.Sin(st.Elapsed))
		jitterScale = math.Sin(st.Elapsed)
	}

	for _, f := range set.Fragments {
		rest := f.Rest()
		pos := rest.Add(rest.Normalize().Scale(magnitude))
		if withJitter {
			pos = pos.Add(d.Jitter.Jitter().WithLength(p.JitterLength).Scale(jitterScale))
		}
		f.Position = pos
	}
}
