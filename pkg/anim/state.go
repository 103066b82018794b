// Package anim drives fragment motion: radial pulsing, jitter, the explosion
// window and the shared group rotation.
package anim

import "github.com/taigrr/shatter/pkg/math3d"

// State is the per-frame animation state. It is created once and mutated
// every tick.
type State struct {
	Elapsed float64 // seconds since start
	Delta   float64 // seconds since the previous tick

	Explosion Explosion

	// Rotation accumulates the group's Euler rotation.
	Rotation math3d.Vec3

	// Focus is the external driver value for the current tick.
	Focus float64
}

// NewState returns a zeroed state with a default explosion window.
func NewState() *State {
	return &State{Explosion: NewExplosion()}
}

// Advance records the clock reading for this tick and closes the explosion
// window if it has run out. It reports whether the window closed.
func (s *State) Advance(elapsed, delta float64) bool {
	s.Elapsed = elapsed
	s.Delta = delta
	return s.Explosion.Update(elapsed)
}

// Explode opens the explosion window at the current time.
func (s *State) Explode() {
	s.Explosion.Trigger(s.Elapsed)
}

// GroupTransform returns the rotation applied to every fragment.
func (s *State) GroupTransform() math3d.Mat4 {
	return math3d.Euler(s.Rotation)
}
