package pipeline

import (
	"image"
)

// Frame is one video tick: a pixel buffer owned by the upstream source.
// The pipeline core borrows it for the duration of a single process call
// and never mutates it in place.
type Frame struct {
	Image image.Image
}

// Width returns the frame width in pixels, 0 for a released surface.
func (f Frame) Width() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels, 0 for a released surface.
func (f Frame) Height() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dy()
}

// Degenerate reports whether the frame has no usable pixel surface, either
// because it is zero sized or because its backing buffer was released.
func (f Frame) Degenerate() bool {
	return f.Width() == 0 || f.Height() == 0
}
