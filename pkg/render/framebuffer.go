package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of pixels that paint instructions land in.
// Pixels hold alpha-premultiplied colors, as color.RGBA does.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Bounds returns the framebuffer rectangle.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Paint implements Sink by compositing op over the current contents.
func (fb *Framebuffer) Paint(op PaintOp) {
	fb.FillRect(op.Rect, op.Color)
}

// FillRect composites c over every pixel of rect (source-over). A nil or
// fully transparent color leaves the pixels untouched.
func (fb *Framebuffer) FillRect(rect image.Rectangle, c color.Color) {
	if c == nil {
		return
	}
	rect = rect.Intersect(fb.Bounds())
	if rect.Empty() {
		return
	}

	r, g, b, a := c.RGBA()
	if a == 0 {
		return
	}
	if a == 0xffff {
		solid := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			row := fb.Pixels[y*fb.Width:]
			for x := rect.Min.X; x < rect.Max.X; x++ {
				row[x] = solid
			}
		}
		return
	}

	inv := 0xffff - a
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := fb.Pixels[y*fb.Width:]
		for x := rect.Min.X; x < rect.Max.X; x++ {
			d := row[x]
			row[x] = color.RGBA{
				R: uint8((r + uint32(d.R)*0x101*inv/0xffff) >> 8),
				G: uint8((g + uint32(d.G)*0x101*inv/0xffff) >> 8),
				B: uint8((b + uint32(d.B)*0x101*inv/0xffff) >> 8),
				A: uint8((a + uint32(d.A)*0x101*inv/0xffff) >> 8),
			}
		}
	}
}

// DrawCrosshair draws a filled square of side size centred on the
// framebuffer, marking the view direction.
func (fb *Framebuffer) DrawCrosshair(size int, c color.RGBA) {
	x := fb.Width/2 - size/2
	y := fb.Height/2 - size/2
	fb.FillRect(image.Rect(x, y, x+size, y+size), c)
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
