package mocks

import (
	"context"
	"image"

	"github.com/user/livematte/pkg/ports"
)

// Segmenter is a mock implementation of ports.Segmenter.
// The default Infer returns a fully opaque matte matching the input size.
type Segmenter struct {
	InitializeFunc func(ctx context.Context) error
	InferFunc      func(ctx context.Context, img image.Image) (image.Image, error)
	CloseFunc      func() error

	// CloseCalls counts Close invocations.
	CloseCalls int
}

func (m *Segmenter) Initialize(ctx context.Context) error {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return nil
}

func (m *Segmenter) Infer(ctx context.Context, img image.Image) (image.Image, error) {
	if m.InferFunc != nil {
		return m.InferFunc(ctx, img)
	}
	return OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
}

func (m *Segmenter) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Segmenter = (*Segmenter)(nil)

// OpaqueMask returns a fully opaque matte of the given size.
func OpaqueMask(width, height int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return mask
}
