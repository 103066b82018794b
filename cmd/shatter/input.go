package main

import (
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/shatter/internal/config"
	"github.com/taigrr/shatter/internal/logger"
	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/scene"
)

const (
	torqueStrength = 3.0
	dragScale      = 0.03
	zoomStep       = 0.5
	paramStep      = 0.05
)

// input turns terminal events into scene commands. It runs on the render
// goroutine; commands are queued and drained at the start of each frame.
type input struct {
	view *ViewState
	cmds chan scene.Command
	quit func()

	width, height int // terminal cells

	torque struct{ pitch, yaw float64 }

	mouseDown    bool
	lastX, lastY int
}

func newInput(view *ViewState, width, height int, quit func()) *input {
	return &input{
		view:   view,
		cmds:   make(chan scene.Command, 64),
		quit:   quit,
		width:  width,
		height: height,
	}
}

func (in *input) send(cmd scene.Command) {
	select {
	case in.cmds <- cmd:
	default:
		logger.Warn("command queue full, dropping", zap.String("command", fmt.Sprintf("%T", cmd)))
	}
}

func (in *input) edit(fn func(p *scene.Params)) { in.send(scene.Edit(fn)) }

func (in *input) setLight(dir math3d.Vec3) {
	pos := dir.Scale(in.view.LightDist)
	in.edit(func(p *scene.Params) { p.LightPosition = pos })
}

// tick applies held-key torque. Key release events are unreliable on many
// terminals, so torque decays on its own.
func (in *input) tick(dt float64) {
	if in.torque.pitch != 0 || in.torque.yaw != 0 {
		in.send(scene.Orbit{Pitch: in.torque.pitch * dt, Yaw: in.torque.yaw * dt})
	}
	in.torque.pitch *= 0.9
	in.torque.yaw *= 0.9
}

// handle processes one event. Window size events are handled by the caller.
func (in *input) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		in.keyPress(ev)

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
			in.torque.pitch = 0
		case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
			in.torque.yaw = 0
		}

	case uv.MouseClickEvent:
		if in.view.LightMode {
			in.view.LightDir = in.view.PendingLight
			in.view.LightMode = false
			in.setLight(in.view.LightDir)
			return
		}
		in.mouseDown = true
		in.lastX, in.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		in.mouseDown = false

	case uv.MouseMotionEvent:
		if in.view.LightMode {
			in.view.PendingLight = ScreenToLightDir(ev.X, ev.Y, in.width, in.height)
			in.setLight(in.view.PendingLight)
		} else if in.mouseDown {
			dx, dy := ev.X-in.lastX, ev.Y-in.lastY
			in.send(scene.Orbit{Pitch: float64(dy) * dragScale, Yaw: -float64(dx) * dragScale})
			in.lastX, in.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			in.send(scene.Zoom(-zoomStep))
		case uv.MouseWheelDown:
			in.send(scene.Zoom(zoomStep))
		}
	}
}

func (in *input) keyPress(ev uv.KeyPressEvent) {
	switch {
	case ev.MatchString("escape"):
		if in.view.LightMode {
			in.view.LightMode = false
			in.setLight(in.view.LightDir)
			return
		}
		in.quit()
	case ev.MatchString("ctrl+c"):
		in.quit()

	case ev.MatchString("space"):
		in.send(scene.Explode{})
	case ev.MatchString("r"):
		in.send(scene.Restart{})
		in.send(scene.ResetView{})
	case ev.MatchString("g"):
		in.send(scene.Regenerate{})

	case ev.MatchString("w", "up"):
		in.torque.pitch = torqueStrength
	case ev.MatchString("s", "down"):
		in.torque.pitch = -torqueStrength
	case ev.MatchString("a", "left"):
		in.torque.yaw = -torqueStrength
	case ev.MatchString("d", "right"):
		in.torque.yaw = torqueStrength
	case ev.MatchString("+", "="):
		in.send(scene.Zoom(-zoomStep))
	case ev.MatchString("-", "_"):
		in.send(scene.Zoom(zoomStep))

	case ev.MatchString("["):
		in.edit(func(p *scene.Params) { p.Anim.Distance = clampAmplitude(p.Anim.Distance - paramStep) })
	case ev.MatchString("]"):
		in.edit(func(p *scene.Params) { p.Anim.Distance = clampAmplitude(p.Anim.Distance + paramStep) })
	case ev.MatchString(";"):
		in.edit(func(p *scene.Params) { p.Anim.Force = clampAmplitude(p.Anim.Force - paramStep) })
	case ev.MatchString("'"):
		in.edit(func(p *scene.Params) { p.Anim.Force = clampAmplitude(p.Anim.Force + paramStep) })
	case ev.MatchString(","):
		in.edit(func(p *scene.Params) { p.Anim.RotationSpeed = max(p.Anim.RotationSpeed-0.25, 0) })
	case ev.MatchString("."):
		in.edit(func(p *scene.Params) { p.Anim.RotationSpeed = min(p.Anim.RotationSpeed+0.25, 10) })
	case ev.MatchString("i"):
		in.edit(func(p *scene.Params) { p.LightIntensity = min(p.LightIntensity+paramStep, 10) })
	case ev.MatchString("k"):
		in.edit(func(p *scene.Params) { p.LightIntensity = max(p.LightIntensity-paramStep, 0) })

	case ev.MatchString("f"):
		in.edit(func(p *scene.Params) { p.BoulderFlatShading = !p.BoulderFlatShading })
	case ev.MatchString("x"):
		in.edit(func(p *scene.Params) { p.BoulderWireframe = !p.BoulderWireframe })
	case ev.MatchString("F", "shift+f"):
		in.edit(func(p *scene.Params) { p.CrystalFlatShading = !p.CrystalFlatShading })
	case ev.MatchString("X", "shift+x"):
		in.edit(func(p *scene.Params) { p.CrystalWireframe = !p.CrystalWireframe })

	case ev.MatchString("l"):
		in.view.LightMode = true
		in.view.PendingLight = in.view.LightDir
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		in.view.ShowHUD = !in.view.ShowHUD
	}
}

func clampAmplitude(v float64) float64 { return max(0, min(v, config.MaxAmplitude)) }
