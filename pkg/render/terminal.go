package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < r.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(x, topY)),
					Bg: rgbaToColor(r.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can flush its cells to the terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal using half blocks.
type TerminalRenderer struct {
	scr    Display
	width  int // columns
	height int // rows
}

// NewTerminalRenderer creates a renderer covering width x height cells.
func NewTerminalRenderer(scr Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: max(width, 1), height: max(height, 1)}
}

// FramebufferSize returns the pixel size matching the cell area: one pixel
// per column and two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Render draws fb into the screen's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rectangle(image.Rect(0, 0, t.width, t.height)))
}

// Flush writes pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}
