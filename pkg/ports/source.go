package ports

import (
	"context"
	"image"
)

// Source supplies video frames in presentation order.
type Source interface {
	// Next returns the next frame. It returns io.EOF when the stream ends.
	// A returned image may be nil if the underlying surface was already
	// released; consumers must treat that as degenerate input.
	Next(ctx context.Context) (image.Image, error)

	// Close releases the source.
	Close() error
}

// FrameSink consumes rendered frames.
type FrameSink interface {
	// WriteFrame delivers the rendered frame with its sequence index.
	WriteFrame(index int, img image.Image) error
}
