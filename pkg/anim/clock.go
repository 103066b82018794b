package anim

import "time"

// DefaultMaxDelta caps the frame delta so a stalled frame does not make the
// scene jump.
const DefaultMaxDelta = 0.1

// Clock measures elapsed time and per-frame deltas in seconds.
type Clock struct {
	MaxDelta float64

	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewClock starts a clock reading from now. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	c := &Clock{MaxDelta: DefaultMaxDelta, now: now}
	c.Reset()
	return c
}

// Reset restarts the clock at zero.
func (c *Clock) Reset() {
	c.start = c.now()
	c.last = c.start
}

// Tick returns the time since Reset and since the previous Tick.
func (c *Clock) Tick() (elapsed, delta float64) {
	t := c.now()
	delta = t.Sub(c.last).Seconds()
	c.last = t
	if c.MaxDelta > 0 && delta > c.MaxDelta {
		delta = c.MaxDelta
	}
	return t.Sub(c.start).Seconds(), max(delta, 0)
}
