package scene

// Command is a state change requested from outside the render loop. Commands
// are applied between frames so a frame never observes a half-applied change.
type Command interface {
	apply(s *Scene)
}

// Resize changes the output size.
type Resize struct {
	Width, Height int
}

func (c Resize) apply(s *Scene) { s.Resize(c.Width, c.Height) }

// Explode triggers the explosion window.
type Explode struct{}

func (Explode) apply(s *Scene) { s.Explode() }

// Restart rewinds the driver feed.
type Restart struct{}

func (Restart) apply(s *Scene) { s.RestartFeed() }

// Regenerate fractures a new boulder.
type Regenerate struct{}

func (Regenerate) apply(s *Scene) { s.Regenerate() }

// Orbit spins the camera around the boulder. Angles are radians per frame.
type Orbit struct {
	Pitch, Yaw float64
}

func (c Orbit) apply(s *Scene) { s.Orbit.ApplyImpulse(c.Pitch, c.Yaw) }

// Zoom moves the camera toward (negative) or away from the boulder.
type Zoom float64

func (c Zoom) apply(s *Scene) { s.Orbit.Zoom(float64(c)) }

// ResetView returns the camera to its starting position.
type ResetView struct{}

func (ResetView) apply(s *Scene) {
	s.Orbit.Reset()
	s.Camera.SetPosition(s.Orbit.Position())
	s.Camera.LookAt(s.Orbit.Target)
}

// Edit mutates the live parameters.
type Edit func(p *Params)

func (e Edit) apply(s *Scene) {
	if e != nil {
		e(&s.Params)
	}
}

// Apply runs a single command.
func (s *Scene) Apply(cmd Command) {
	if cmd != nil {
		cmd.apply(s)
	}
}

// Drain applies every command currently queued on ch without blocking and
// returns how many ran.
func (s *Scene) Drain(ch <-chan Command) int {
	n := 0
	for {
		select {
		case cmd, ok := <-ch:
			if !ok {
				return n
			}
			s.Apply(cmd)
			n++
		default:
			return n
		}
	}
}
