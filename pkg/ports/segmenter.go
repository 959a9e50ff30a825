// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"image"
)

// Segmenter abstracts the person segmentation backend.
// The backend is slow relative to the frame rate and runs out of band;
// the pipeline core treats it as an opaque asynchronous collaborator.
type Segmenter interface {
	// Initialize prepares the backend (model loading, warmup).
	// It is called exactly once, out of band of the frame loop.
	Initialize(ctx context.Context) error

	// Infer computes a foreground matte for img. The returned mask carries
	// per-pixel foreground opacity in its alpha channel and has the same
	// logical content region as img (possibly at a lower resolution).
	Infer(ctx context.Context, img image.Image) (image.Image, error)

	// Close releases the backend. Infer calls still in flight run to
	// completion or failure; their results are discarded by the caller.
	Close() error
}
