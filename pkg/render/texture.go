package render

import "image"

// Texture is a resolved, viewport-sized image handed from a render target to
// the compositor.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // row-major
}

// NewTexture creates a transparent texture of at least 1x1 pixels.
func NewTexture(width, height int) *Texture {
	width, height = max(width, 1), max(height, 1)
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// CopyFrom replaces the texture contents with img, which must have the same
// size.
func (t *Texture) CopyFrom(img image.Image) {
	if rgba, ok := img.(*image.RGBA); ok {
		for y := range t.Height {
			row := rgba.Pix[y*rgba.Stride:]
			for x := range t.Width {
				t.Pixels[y*t.Width+x] = Color{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]}
			}
		}
		return
	}

	bounds := img.Bounds()
	for y := range t.Height {
		for x := range t.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			t.Pixels[y*t.Width+x] = Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
		}
	}
}

// SetPixel sets the pixel at (x, y).
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y), transparent if out of bounds.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}
