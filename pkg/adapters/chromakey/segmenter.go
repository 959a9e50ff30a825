// Package chromakey provides a demo segmenter that mattes by color distance.
//
// It stands in for a learned person segmentation model: pixels close to a
// configured key color are treated as background, everything else as
// foreground. The matte is soft; the alpha ramps linearly with the color
// distance up to the configured tolerance.
package chromakey

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync/atomic"
	"time"
)

// ErrNotInitialized is returned by Infer before Initialize completed.
var ErrNotInitialized = errors.New("chromakey: segmenter not initialized")

// ErrClosed is returned by Infer after Close.
var ErrClosed = errors.New("chromakey: segmenter closed")

// DefaultTolerance is the color distance at which a pixel becomes fully
// foreground.
const DefaultTolerance = 96.0

// Segmenter implements ports.Segmenter with a chroma-key matte.
type Segmenter struct {
	key       color.RGBA
	tolerance float64
	initDelay time.Duration

	ready  atomic.Bool
	closed atomic.Bool
}

// New creates a segmenter keyed on the given background color. Tolerances
// at or below zero fall back to DefaultTolerance.
func New(key color.RGBA, tolerance float64) *Segmenter {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Segmenter{
		key:       key,
		tolerance: tolerance,
	}
}

// WithInitDelay makes Initialize take at least d, mimicking model loading.
func (s *Segmenter) WithInitDelay(d time.Duration) *Segmenter {
	s.initDelay = d
	return s
}

// Initialize prepares the segmenter. With a configured delay it simulates
// the asynchronous model warmup of a real backend.
func (s *Segmenter) Initialize(ctx context.Context) error {
	if s.initDelay > 0 {
		timer := time.NewTimer(s.initDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.ready.Store(true)
	return nil
}

// Infer computes the matte for img. The result is an alpha mask of the same
// dimensions: 0 at the key color, opaque at or beyond the tolerance.
func (s *Segmenter) Infer(ctx context.Context, img image.Image) (image.Image, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if !s.ready.Load() {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			d := s.distance(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			mask.SetAlpha(x-bounds.Min.X, y-bounds.Min.Y, color.Alpha{A: s.opacity(d)})
		}
	}
	return mask, nil
}

// Close releases the segmenter. Subsequent Infer calls fail.
func (s *Segmenter) Close() error {
	s.closed.Store(true)
	return nil
}

// distance is the Euclidean distance from the key color in RGB space.
func (s *Segmenter) distance(r, g, b uint8) float64 {
	dr := float64(r) - float64(s.key.R)
	dg := float64(g) - float64(s.key.G)
	db := float64(b) - float64(s.key.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// opacity maps a color distance to foreground alpha.
func (s *Segmenter) opacity(d float64) uint8 {
	if d >= s.tolerance {
		return 0xff
	}
	return uint8(d / s.tolerance * 255)
}
