package mocks

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/user/livematte/pkg/ports"
)

// Source is a mock implementation of ports.Source that plays back a fixed
// frame sequence and then reports io.EOF.
type Source struct {
	mu     sync.Mutex
	frames []image.Image
	index  int
	closed bool
}

// NewSource creates a source that yields the given frames in order.
func NewSource(frames ...image.Image) *Source {
	return &Source{frames: frames}
}

func (m *Source) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index >= len(m.frames) {
		return nil, io.EOF
	}
	img := m.frames[m.index]
	m.index++
	return img, nil
}

func (m *Source) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Source) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.Source = (*Source)(nil)

// FrameSink is a mock implementation of ports.FrameSink that records every
// delivered frame.
type FrameSink struct {
	mu     sync.Mutex
	frames []image.Image

	WriteFrameFunc func(index int, img image.Image) error
}

func (m *FrameSink) WriteFrame(index int, img image.Image) error {
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(index, img)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, img)
	return nil
}

// Frames returns the frames written so far.
func (m *FrameSink) Frames() []image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]image.Image, len(m.frames))
	copy(out, m.frames)
	return out
}

var _ ports.FrameSink = (*FrameSink)(nil)
