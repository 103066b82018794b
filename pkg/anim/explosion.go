package anim

// Explosion defaults.
const (
	DefaultExplosionDuration   = 1.0 // seconds
	DefaultExplosionMultiplier = 20.0
)

// Explosion is a one-shot timed window that amplifies displacement. It is
// pull based: Update compares the current time against the window each tick.
type Explosion struct {
	Duration         float64 // seconds
	ActiveMultiplier float64

	active bool
	start  float64
}

// NewExplosion returns an idle explosion with default timing.
func NewExplosion() Explosion {
	return Explosion{Duration: DefaultExplosionDuration, ActiveMultiplier: DefaultExplosionMultiplier}
}

// Trigger starts the window at now. Triggering while active restarts it.
func (e *Explosion) Trigger(now float64) {
	e.active = true
	e.start = now
}

// Update ends the window once now reaches its end. It returns true only on
// the tick the window closes.
func (e *Explosion) Update(now float64) bool {
	if !e.active || now < e.start+e.Duration {
		return false
	}
	e.active = false
	return true
}

// Active reports whether the window is open.
func (e *Explosion) Active() bool { return e.active }

// Multiplier returns ActiveMultiplier while active and 1 otherwise.
func (e *Explosion) Multiplier() float64 {
	if e.active {
		return e.ActiveMultiplier
	}
	return 1
}

// Remaining returns the seconds left in the window at now.
func (e *Explosion) Remaining(now float64) float64 {
	if !e.active {
		return 0
	}
	return max(0, e.start+e.Duration-now)
}
