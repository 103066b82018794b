package main

import (
	"fmt"
	"math"
	"time"

	"github.com/taigrr/shatter/pkg/math3d"
	"github.com/taigrr/shatter/pkg/scene"
)

// ViewState holds UI state that is not part of the scene.
type ViewState struct {
	ShowHUD      bool
	LightMode    bool        // aiming the light with the mouse
	LightDir     math3d.Vec3 // committed light direction
	PendingLight math3d.Vec3 // light direction while aiming
	LightDist    float64     // distance of the light from the origin
}

// NewViewState derives the light direction from the scene's light.
func NewViewState(light math3d.Vec3) *ViewState {
	dist := light.Len()
	if dist == 0 {
		light, dist = math3d.Up(), 1
	}
	return &ViewState{
		LightDir:  light.Normalize(),
		LightDist: dist,
	}
}

// LightPosition returns the light position to render with.
func (v *ViewState) LightPosition() math3d.Vec3 {
	dir := v.LightDir
	if v.LightMode {
		dir = v.PendingLight
	}
	return dir.Scale(v.LightDist)
}

// ScreenToLightDir maps a terminal cell to a direction on the upper
// hemisphere, as if looking down on the boulder from above.
func ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(max(width, 1)))*2 - 1
	nz := (float64(screenY)/float64(max(height, 1)))*2 - 1

	// Clamp to unit circle
	lenSq := nx*nx + nz*nz
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		nz /= l
		lenSq = 1
	}

	// Keep the light slightly above the horizon
	ny := math.Max(math.Sqrt(1-lenSq), 0.05)
	return math3d.V3(nx, ny, nz).Normalize()
}

// HUD renders an overlay with scene info and toggles.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

const (
	reset     = "\x1b[0m"
	bold      = "\x1b[1m"
	dim       = "\x1b[2m"
	bgBlack   = "\x1b[40m"
	fgWhite   = "\x1b[97m"
	fgGreen   = "\x1b[92m"
	fgYellow  = "\x1b[93m"
	fgRed     = "\x1b[91m"
	fgCyan    = "\x1b[96m"
	clearLine = "\x1b[2K"
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// Render draws the HUD overlay directly to the terminal.
func (h *HUD) Render(width, height int, view *ViewState, s *scene.Scene) {
	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to aim, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-62)/2, 1)) + msg)
		return
	}

	if !view.ShowHUD {
		return
	}

	fmt.Print(moveTo(1, 1) + fmt.Sprintf("%s%s %.0f FPS %s", bgBlack, fgGreen, h.fps, reset))

	set := s.Set()
	info := fmt.Sprintf("%d fragments / %d vertices", set.Len(), set.Solid().VertexCount())
	fmt.Print(moveTo(1, max((width-len(info)-2)/2, 1)) +
		fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, info, reset))

	p := s.Params
	var status string
	switch {
	case s.State.Explosion.Active():
		status = fmt.Sprintf("%s%s%s BOOM %s", bgBlack, bold, fgRed, reset)
	case s.Feed != nil:
		status = fmt.Sprintf("%s%s focus %.2f %s", bgBlack, fgCyan, s.State.Focus, reset)
	default:
		status = fmt.Sprintf("%s%s dist %.2f %s", bgBlack, fgCyan, p.Anim.Distance, reset)
	}
	fmt.Print(moveTo(1, max(width-14, 1)) + status)

	modes := fmt.Sprintf("%s%s boulder %s flat %s wire  crystal %s flat %s wire %s",
		bgBlack, fgWhite,
		check(p.BoulderFlatShading), check(p.BoulderWireframe),
		check(p.CrystalFlatShading), check(p.CrystalWireframe),
		reset)
	fmt.Print(moveTo(height, 1) + modes)

	hint := fmt.Sprintf("%s%s%s space: explode %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-17, 1)) + hint)
}
