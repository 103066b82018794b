// shatter - animated fractured boulder for the terminal.
//
// Controls:
//
//	Space       - Explode
//	R           - Restart the feed and reset the view
//	G           - Fracture a new boulder
//	Mouse drag  - Orbit the camera
//	Scroll, +/- - Zoom in/out
//	W/S/A/D     - Orbit with the keyboard
//	[ ]         - Pulse distance
//	; '         - Focus force
//	, .         - Rotation speed
//	I/K         - Light intensity
//	F/X         - Toggle boulder flat shading / wireframe
//	Shift+F/X   - Toggle crystal flat shading / wireframe
//	L           - Position light (mouse to aim, click to set)
//	?           - Toggle HUD overlay
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/shatter/internal/config"
	"github.com/taigrr/shatter/internal/logger"
	"github.com/taigrr/shatter/pkg/anim"
	"github.com/taigrr/shatter/pkg/models"
	"github.com/taigrr/shatter/pkg/render"
	"github.com/taigrr/shatter/pkg/scene"
)

var (
	snapshotPath = flag.String("snapshot", "", "Render headless and write the last frame to this PNG")
	exportPath   = flag.String("export", "", "Write the fragments to this GLB and exit")
	frames       = flag.Int("frames", 30, "Frames to simulate before -snapshot or -export")
	explodeAt    = flag.Int("explode-at", -1, "Frame at which to trigger the explosion in headless mode")
	outWidth     = flag.Int("width", 160, "Headless output width in pixels")
	outHeight    = flag.Int("height", 96, "Headless output height in pixels")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "shatter - fractured boulder for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: shatter [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Space       - Explode\n")
		fmt.Fprintf(os.Stderr, "  R           - Restart feed and reset view\n")
		fmt.Fprintf(os.Stderr, "  G           - New boulder\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  [ ] ; ' , . - Distance, force, rotation speed\n")
		fmt.Fprintf(os.Stderr, "  I/K         - Light intensity\n")
		fmt.Fprintf(os.Stderr, "  F/X         - Boulder flat shading / wireframe\n")
		fmt.Fprintf(os.Stderr, "  Shift+F/X   - Crystal flat shading / wireframe\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	headless := *snapshotPath != "" || *exportPath != ""

	// The terminal belongs to the renderer, so only log to the console when
	// nothing is drawn there.
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, headless); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if headless {
		return runHeadless(cfg, headlessConfig{
			Width:     *outWidth,
			Height:    *outHeight,
			Frames:    *frames,
			ExplodeAt: *explodeAt,
			Snapshot:  *snapshotPath,
			Export:    *exportPath,
		})
	}
	return runTerminal(cfg)
}

type headlessConfig struct {
	Width, Height int
	Frames        int
	ExplodeAt     int // < 0 never
	Snapshot      string
	Export        string
}

// runHeadless simulates a fixed number of frames at the configured rate and
// writes the requested outputs.
func runHeadless(cfg *config.Config, hc headlessConfig) error {
	opts, err := sceneOptions(cfg, hc.Width, hc.Height)
	if err != nil {
		return err
	}
	s, err := scene.New(opts)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}

	n := max(hc.Frames, 1)
	dt := 1 / float64(cfg.Graphics.FPS)
	for i := range n {
		if i == hc.ExplodeAt {
			s.Apply(scene.Explode{})
		}
		s.Update(float64(i+1)*dt, dt)
	}

	if hc.Snapshot != "" {
		fb, err := s.Render()
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := fb.SavePNG(hc.Snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		logger.Info("snapshot written", zap.String("path", hc.Snapshot), zap.Int("frames", n))
	}
	if hc.Export != "" {
		if err := models.SaveGLB(hc.Export, s.Set().ExportNodes()); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Info("fragments exported", zap.String("path", hc.Export), zap.Int("fragments", s.Set().Len()))
	}
	return nil
}

func runTerminal(cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	opts, err := sceneOptions(cfg, fbWidth, fbHeight)
	if err != nil {
		return err
	}
	s, err := scene.New(opts)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Context for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	view := NewViewState(s.Params.LightPosition)
	in := newInput(view, width, height, cancel)
	hud := NewHUD()

	logger.Info("started",
		zap.Int("width", fbWidth),
		zap.Int("height", fbHeight),
		zap.Int("fps", cfg.Graphics.FPS),
		zap.Int("samples", s.Targets.Samples()))

	events := term.Events()
	targetDuration := time.Second / time.Duration(cfg.Graphics.FPS)
	clock := anim.NewClock(time.Now)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		default:
		}

		now := time.Now()

	drain:
		for {
			select {
			case ev := <-events:
				if ws, ok := ev.(uv.WindowSizeEvent); ok {
					width, height = ws.Width, ws.Height
					term.Erase()
					term.Resize(width, height)
					termRenderer = render.NewTerminalRenderer(term, width, height)
					resizeViewport(s, in, termRenderer, width, height)
					continue
				}
				in.handle(ev)
			default:
				break drain
			}
		}

		elapsed, delta := clock.Tick()
		in.tick(delta)
		s.Drain(in.cmds)
		s.Update(elapsed, delta)

		fb, err := s.Render()
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(width, height, view, s)

		// Frame timing
		if frame := time.Since(now); frame < targetDuration {
			time.Sleep(targetDuration - frame)
		}
	}
}

// resizeViewport applies a terminal resize to the scene immediately. It
// bypasses the command queue, which drops commands when full.
func resizeViewport(s *scene.Scene, in *input, tr *render.TerminalRenderer, width, height int) {
	in.width, in.height = width, height
	fbWidth, fbHeight := tr.FramebufferSize()
	s.Apply(scene.Resize{Width: fbWidth, Height: fbHeight})
}
