package imagerender

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/livematte/pkg/ports"
)

// Canvas implements ports.Canvas on an RGBA buffer. The composite modes map
// onto Porter-Duff operators: source-over, source-in and destination-over.
type Canvas struct {
	dst  *image.RGBA
	mode ports.CompositeMode
	blur float64
}

func newCanvas(width, height int) *Canvas {
	return &Canvas{
		dst: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	bounds := c.dst.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.dst, c.dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// SetCompositeMode selects the blend rule for subsequent draws.
func (c *Canvas) SetCompositeMode(mode ports.CompositeMode) {
	c.mode = mode
}

// SetBlur sets the Gaussian blur radius for subsequent draws. Radius 0
// disables the filter entirely rather than applying a degenerate blur.
func (c *Canvas) SetBlur(radius float64) {
	if radius < 0 {
		radius = 0
	}
	c.blur = radius
}

// DrawImageScaled draws img at the origin, stretched to width x height,
// honoring the current composite mode and blur filter.
func (c *Canvas) DrawImageScaled(img image.Image, width, height int) {
	src := c.prepare(img, width, height)

	switch c.mode {
	case ports.CompositeSourceIn:
		// dst = src * dstAlpha. The mask snapshot must be taken before
		// DrawMask starts writing the destination.
		mask := alphaMask(c.dst)
		draw.DrawMask(c.dst, c.dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Src)
	case ports.CompositeDestinationOver:
		// dst = dst + src * (1 - dstAlpha): paint the source onto a fresh
		// buffer, then lay the current destination over it.
		out := image.NewRGBA(c.dst.Bounds())
		draw.Draw(out, image.Rect(0, 0, width, height), src, image.Point{}, draw.Src)
		draw.Draw(out, out.Bounds(), c.dst, image.Point{}, draw.Over)
		c.dst = out
	default:
		draw.Draw(c.dst, image.Rect(0, 0, width, height), src, image.Point{}, draw.Over)
	}
}

// prepare resamples img to the target dimensions when needed and applies the
// configured blur filter.
func (c *Canvas) prepare(img image.Image, width, height int) image.Image {
	src := img
	if bounds := img.Bounds(); bounds.Dx() != width || bounds.Dy() != height {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		src = scaled
	}
	if c.blur > 0 {
		src = blur.Gaussian(src, c.blur)
	}
	return src
}

// DrawText draws overlay text using the gg drawing context.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	dc := gg.NewContextForRGBA(c.dst)
	col := style.Color
	if col == nil {
		col = color.White
	}
	dc.SetColor(col)
	dc.DrawStringAnchored(text, float64(x), float64(y), 0, 0.5)
}

// Image returns the canvas contents.
func (c *Canvas) Image() image.Image {
	return c.dst
}

// alphaMask extracts the alpha channel of src as a standalone mask.
func alphaMask(src *image.RGBA) *image.Alpha {
	bounds := src.Bounds()
	mask := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		srcRow := src.PixOffset(bounds.Min.X, y)
		maskRow := mask.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			mask.Pix[maskRow+x] = src.Pix[srcRow+x*4+3]
		}
	}
	return mask
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
