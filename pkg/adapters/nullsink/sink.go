// Package nullsink provides a frame sink that discards all frames.
package nullsink

import (
	"image"

	"github.com/user/livematte/pkg/ports"
)

// Sink discards every frame. Used for benchmarking the pipeline without
// encoding overhead.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// WriteFrame discards the frame.
func (s *Sink) WriteFrame(index int, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
