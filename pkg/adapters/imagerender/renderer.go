// Package imagerender implements the rendering ports with pure-Go image
// processing libraries.
package imagerender

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/user/livematte/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a transparent drawing canvas.
func (r *Renderer) CreateCanvas(width, height int) ports.Canvas {
	return newCanvas(width, height)
}

// ResizeImage resamples an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)
