package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/chewxy/math32"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Color is an 8-bit RGBA pixel.
type Color = color.RGBA

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// FromVertexColor converts a [0, 1] float color to 8 bits, clamping.
func FromVertexColor(c shapes.VertexColor) Color {
	return Color{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Framebuffer is a color buffer with a matching depth buffer.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	Depth         []float32
	BG            Color
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{BG: ColorBlack}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers and clears them.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
	fb.Depth = make([]float32, width*height)
	fb.Clear()
}

// Clear fills the color buffer with BG and resets depth to +Inf.
func (fb *Framebuffer) Clear() {
	inf := math32.Inf(1)
	for i := range fb.Pixels {
		fb.Pixels[i] = fb.BG
		fb.Depth[i] = inf
	}
}

// SetPixel writes a color, ignoring out-of-range coordinates.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or BG when out of range.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return fb.BG
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage copies the color buffer into an image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG writes the color buffer to path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
