// Package scaler bounds inference latency by downsampling frames.
package scaler

import (
	"errors"
	"image"

	"github.com/user/livematte/pkg/ports"
)

// ErrInvalidFactor is returned for non-positive scale factors.
var ErrInvalidFactor = errors.New("scaler: factor must be positive")

// Scaler produces a possibly-downsampled copy of a source frame so that
// inference cost stays bounded independent of the source resolution.
type Scaler struct {
	renderer ports.Renderer
}

// New creates a new Scaler.
func New(renderer ports.Renderer) *Scaler {
	return &Scaler{renderer: renderer}
}

// Scale returns img resampled by factor. Factor 1 returns img unchanged,
// without a copy. Target dimensions are truncated and clamped to at least
// 1x1 so degenerate factors never produce an empty buffer.
func (s *Scaler) Scale(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, ErrInvalidFactor
	}
	if factor == 1 {
		return img, nil
	}

	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * factor)
	if width < 1 {
		width = 1
	}
	height := int(float64(bounds.Dy()) * factor)
	if height < 1 {
		height = 1
	}

	return s.renderer.ResizeImage(img, width, height), nil
}
