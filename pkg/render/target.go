package render

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"

	xdraw "golang.org/x/image/draw"
)

// Names of the targets owned by a TargetManager.
const (
	TargetSilhouette = "silhouette"
	TargetColor      = "color"
)

// ErrUnknownTarget is returned by Acquire for names the manager does not own.
var ErrUnknownTarget = errors.New("unknown render target")

// Target is an offscreen color and depth buffer. With multisampling enabled
// the buffers hold Factor x Factor samples per viewport pixel and Resolve
// filters them down to viewport size.
type Target struct {
	Name    string
	Width   int // viewport pixels
	Height  int
	Samples int

	factor  int
	color   *Framebuffer
	depth   []float64
	scratch *image.RGBA
	resolve *image.RGBA
	texture *Texture
}

// NewTarget allocates a target of at least 1x1 pixels. Samples is rounded
// down to a perfect square (1, 4, 9, 16, ...).
func NewTarget(name string, width, height, samples int) *Target {
	t := &Target{Name: name, color: &Framebuffer{}}
	t.setSamples(samples)
	t.Resize(width, height)
	return t
}

func (t *Target) setSamples(samples int) {
	t.factor = max(1, int(math.Sqrt(float64(max(samples, 1)))))
	t.Samples = t.factor * t.factor
}

// Factor returns the number of samples per pixel along each axis.
func (t *Target) Factor() int { return t.factor }

// Resize reallocates the buffers for a new viewport size, clamped to at
// least 1x1. It is a no-op when the size is unchanged.
func (t *Target) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if t.Width == width && t.Height == height && t.depth != nil {
		return
	}
	t.Width, t.Height = width, height

	sw, sh := width*t.factor, height*t.factor
	t.color.Resize(sw, sh)
	t.depth = make([]float64, sw*sh)
	t.scratch = image.NewRGBA(image.Rect(0, 0, sw, sh))
	t.resolve = image.NewRGBA(image.Rect(0, 0, width, height))
	t.texture = NewTexture(width, height)
	t.ClearDepth()
}

// SampleWidth returns the width of the sample buffer.
func (t *Target) SampleWidth() int { return t.color.Width }

// SampleHeight returns the height of the sample buffer.
func (t *Target) SampleHeight() int { return t.color.Height }

// Framebuffer returns the sample-resolution color buffer.
func (t *Target) Framebuffer() *Framebuffer { return t.color }

// Clear fills the color buffer with c and resets depth.
func (t *Target) Clear(c Color) {
	t.color.Clear(c)
	t.ClearDepth()
}

// ClearDepth resets the depth buffer to the far plane.
func (t *Target) ClearDepth() {
	n := len(t.depth)
	if n == 0 {
		return
	}
	// Copy-doubling for faster clearing
	t.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(t.depth[i:], t.depth[:i])
	}
}

// Resolve filters the sample buffer down to viewport size and returns the
// result as a texture. The texture is owned by the target and overwritten by
// the next Resolve.
func (t *Target) Resolve() *Texture {
	t.color.CopyToImage(t.scratch)
	if t.factor == 1 {
		t.texture.CopyFrom(t.scratch)
		return t.texture
	}
	xdraw.BiLinear.Scale(t.resolve, t.resolve.Bounds(), t.scratch, t.scratch.Bounds(), xdraw.Src, nil)
	t.texture.CopyFrom(t.resolve)
	return t.texture
}

// TargetManager owns the silhouette and color targets and keeps them at the
// viewport size.
type TargetManager struct {
	targets map[string]*Target
}

// NewTargetManager creates both targets at 1x1 with the given multisample
// count. Call Resize before the first render.
func NewTargetManager(samples int) *TargetManager {
	m := &TargetManager{targets: make(map[string]*Target)}
	for _, name := range []string{TargetSilhouette, TargetColor} {
		m.targets[name] = NewTarget(name, 1, 1, samples)
	}
	return m
}

// Resize synchronously reallocates every target to width x height, clamped
// to at least 1x1. The multisample count is preserved.
func (m *TargetManager) Resize(width, height int) {
	for _, t := range m.targets {
		t.Resize(width, height)
	}
}

// Size returns the current viewport size shared by all targets.
func (m *TargetManager) Size() (width, height int) {
	t := m.targets[TargetColor]
	return t.Width, t.Height
}

// Samples returns the configured multisample count.
func (m *TargetManager) Samples() int { return m.targets[TargetColor].Samples }

// Acquire returns the named target.
func (m *TargetManager) Acquire(name string) (*Target, error) {
	t, ok := m.targets[name]
	if !ok {
		return nil, fmt.Errorf("acquire %q: %w", name, ErrUnknownTarget)
	}
	return t, nil
}

// Names returns the names of all managed targets in sorted order.
func (m *TargetManager) Names() []string {
	names := make([]string, 0, len(m.targets))
	for name := range m.targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
