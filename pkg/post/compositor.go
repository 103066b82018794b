// Package post implements the screen-space pass that merges the silhouette
// and color targets into the final frame.
package post

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"

	"github.com/taigrr/shatter/pkg/render"
)

// Params controls the light-scatter and zoom displacement effect. All
// distances are in UV units so the result does not depend on resolution.
type Params struct {
	Taps         int     // samples marched toward Center per pixel
	Density      float32 // fraction of the way to Center covered by the march
	Decay        float32 // per-tap falloff of the accumulated weight
	Weight       float32 // weight of the first tap
	Exposure     float32 // scale of the scattered light added to color
	ZoomStrength float32 // color displacement toward Center at full occupancy
	Center       ms2.Vec // light origin in UV space
}

// DefaultParams returns the look used by the renderer.
func DefaultParams() Params {
	return Params{
		Taps:         32,
		Density:      0.85,
		Decay:        0.95,
		Weight:       0.5,
		Exposure:     0.6,
		ZoomStrength: 0.12,
		Center:       ms2.Vec{X: 0.5, Y: 0.5},
	}
}

// Compositor combines the shaded color texture with the silhouette texture.
// The silhouette's alpha is scene occupancy and its color is light that
// leaks between fragments.
type Compositor struct {
	Params Params

	out *render.Framebuffer
}

// NewCompositor creates a compositor writing to a width x height framebuffer.
func NewCompositor(width, height int) *Compositor {
	return &Compositor{
		Params: DefaultParams(),
		out:    render.NewFramebuffer(width, height),
	}
}

// SetSize resizes the output, clamped to at least 1x1.
func (c *Compositor) SetSize(width, height int) {
	c.out.Resize(width, height)
}

// Size returns the output size.
func (c *Compositor) Size() (width, height int) {
	return c.out.Width, c.out.Height
}

// Output returns the framebuffer written by Render.
func (c *Compositor) Output() *render.Framebuffer { return c.out }

// Render draws the final frame. Both textures are sampled in UV space, so
// they may differ in size from the output.
func (c *Compositor) Render(color, silhouette *render.Texture) *render.Framebuffer {
	p := c.Params
	taps := max(p.Taps, 1)
	w, h := c.out.Width, c.out.Height
	invW, invH := 1/float32(w), 1/float32(h)

	// Total tap weight, used to normalize the accumulators into [0, 1]
	var total float32
	for i, wt := 0, p.Weight; i < taps; i++ {
		total += wt
		wt *= p.Decay
	}
	if total <= 0 {
		total = 1
	}

	for y := range h {
		for x := range w {
			uv := ms2.Vec{X: (float32(x) + 0.5) * invW, Y: (float32(y) + 0.5) * invH}
			d := ms2.Sub(uv, p.Center)
			step := ms2.Scale(p.Density/float32(taps), d)

			var rays rgba
			var occ float32
			pos := uv
			illum := p.Weight
			for range taps {
				pos = ms2.Sub(pos, step)
				s := sample(silhouette, pos)
				rays = rays.add(s.scale(illum))
				occ += s.a * illum
				illum *= p.Decay
			}
			rays = rays.scale(p.Exposure / total)
			occ /= total

			src := sample(color, ms2.Sub(uv, ms2.Scale(p.ZoomStrength*occ, d)))
			c.out.Pixels[y*w+x] = render.Color{
				R: to8(src.r + rays.r),
				G: to8(src.g + rays.g),
				B: to8(src.b + rays.b),
				A: 255,
			}
		}
	}
	return c.out
}

// rgba is a color with components in [0, 1].
type rgba struct{ r, g, b, a float32 }

func (c rgba) add(o rgba) rgba { return rgba{c.r + o.r, c.g + o.g, c.b + o.b, c.a + o.a} }

func (c rgba) scale(s float32) rgba { return rgba{c.r * s, c.g * s, c.b * s, c.a * s} }

func lerp(a, b rgba, t float32) rgba {
	return rgba{
		ms1.Interp(a.r, b.r, t),
		ms1.Interp(a.g, b.g, t),
		ms1.Interp(a.b, b.b, t),
		ms1.Interp(a.a, b.a, t),
	}
}

func texel(t *render.Texture, x, y int) rgba {
	x = max(0, min(x, t.Width-1))
	y = max(0, min(y, t.Height-1))
	p := t.Pixels[y*t.Width+x]
	return rgba{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255, float32(p.A) / 255}
}

// sample reads t bilinearly at uv with (0, 0) at the top-left corner,
// clamping to the edge.
func sample(t *render.Texture, uv ms2.Vec) rgba {
	fx := uv.X*float32(t.Width) - 0.5
	fy := uv.Y*float32(t.Height) - 0.5
	x0, y0 := math32.Floor(fx), math32.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)

	top := lerp(texel(t, ix, iy), texel(t, ix+1, iy), tx)
	bot := lerp(texel(t, ix, iy+1), texel(t, ix+1, iy+1), tx)
	return lerp(top, bot, ty)
}

func to8(v float32) uint8 {
	return uint8(ms1.Clamp(v, 0, 1)*255 + 0.5)
}
