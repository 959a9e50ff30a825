// Package compositor renders the final display frame from a source frame
// and a foreground matte.
package compositor

import (
	"image"

	"github.com/user/livematte/pkg/ports"
)

// Compositor produces the stylized output frame: a sharp foreground cutout
// over a blurred rendition of the same frame.
type Compositor struct {
	blurRadius float64
	overlay    func() string
	logger     ports.Logger
}

// New creates a compositor with the given background blur radius.
// The overlay hook is optional; when non-nil its text is drawn onto every
// composited frame.
func New(blurRadius float64, overlay func() string, logger ports.Logger) *Compositor {
	if blurRadius < 0 {
		blurRadius = 0
	}
	return &Compositor{
		blurRadius: blurRadius,
		overlay:    overlay,
		logger:     logger.WithComponent("compositor"),
	}
}

// BlurRadius returns the configured background blur radius.
func (c *Compositor) BlurRadius() float64 {
	return c.blurRadius
}

// Compose renders frame and mask onto canvas. The mask may be stale
// (computed from an earlier frame) and may have a different resolution,
// in which case it is stretched to the canvas, never cropped.
//
// The pass order is the behavioral contract: the matte is stretched onto
// the cleared canvas, the frame is drawn source-in so only the matte-covered
// region keeps source pixels, and the frame is drawn once more
// destination-over with the blur filter to fill the remaining background.
func (c *Compositor) Compose(canvas ports.Canvas, frame image.Image, mask image.Image) {
	width, height := canvas.Size()
	if b := mask.Bounds(); b.Dx() != width || b.Dy() != height {
		c.logger.Debug("Matte stretched from %dx%d to %dx%d", b.Dx(), b.Dy(), width, height)
	}

	canvas.SetCompositeMode(ports.CompositeSourceOver)
	canvas.SetBlur(0)
	canvas.Clear()
	canvas.DrawImageScaled(mask, width, height)

	canvas.SetCompositeMode(ports.CompositeSourceIn)
	canvas.DrawImageScaled(frame, width, height)

	canvas.SetCompositeMode(ports.CompositeDestinationOver)
	canvas.SetBlur(c.blurRadius)
	canvas.DrawImageScaled(frame, width, height)
	canvas.SetBlur(0)

	if c.overlay != nil {
		canvas.SetCompositeMode(ports.CompositeSourceOver)
		canvas.DrawText(c.overlay(), 8, 16, ports.TextStyle{})
	}
}
