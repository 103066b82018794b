package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience. Framebuffers, targets and
// textures store display-ready sRGB values.
type Color = color.RGBA

// Colors for convenience
var (
	ColorTransparent = color.RGBA{}
	ColorBlack       = color.RGBA{0, 0, 0, 255}
	ColorWhite       = color.RGBA{255, 255, 255, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// Hex creates an opaque color from a 0xRRGGBB value.
func Hex(h uint32) color.RGBA {
	return RGB(uint8(h>>16), uint8(h>>8), uint8(h))
}

// Linear is a color in linear light, used for lighting math. Components are
// unbounded until tone mapped.
type Linear struct {
	R, G, B float64
}

// Add returns a + b.
func (a Linear) Add(b Linear) Linear { return Linear{a.R + b.R, a.G + b.G, a.B + b.B} }

// Scale returns a * s.
func (a Linear) Scale(s float64) Linear { return Linear{a.R * s, a.G * s, a.B * s} }

// Mul returns the component-wise product.
func (a Linear) Mul(b Linear) Linear { return Linear{a.R * b.R, a.G * b.G, a.B * b.B} }

// Lerp interpolates from a to b.
func (a Linear) Lerp(b Linear, t float64) Linear {
	return Linear{a.R + (b.R-a.R)*t, a.G + (b.G-a.G)*t, a.B + (b.B-a.B)*t}
}

// LinearFromHex converts a 0xRRGGBB sRGB value to linear light.
func LinearFromHex(h uint32) Linear {
	return LinearFromColor(Hex(h))
}

// LinearFromColor converts an sRGB color to linear light, ignoring alpha.
func LinearFromColor(c color.RGBA) Linear {
	return Linear{
		SRGBToLinear(float64(c.R) / 255),
		SRGBToLinear(float64(c.G) / 255),
		SRGBToLinear(float64(c.B) / 255),
	}
}

// HSL builds a linear color from sRGB hue, saturation and lightness, all in
// [0, 1].
func HSL(h, s, l float64) Linear {
	h = h - math.Floor(h)
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		v := SRGBToLinear(l)
		return Linear{v, v, v}
	}

	var q float64
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return Linear{
		SRGBToLinear(hueToRGB(p, q, h+1.0/3)),
		SRGBToLinear(hueToRGB(p, q, h)),
		SRGBToLinear(hueToRGB(p, q, h-1.0/3)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	}
	return p
}

// SRGBToLinear decodes one sRGB channel.
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear channel.
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func to8(x float64) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}
