// Package processor drives the per-frame matting sequence: gate, scale,
// infer, composite.
//
// The processor glues a fast synchronous render loop to a slow asynchronous
// inference backend. Inference runs only on gated frames; every frame is
// composited with the most recent matte, so the output never stalls on the
// backend. Failures of any kind are logged and absorbed: the worst case for
// a frame is that it passes through unmodified.
package processor

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/user/livematte/pkg/compositor"
	"github.com/user/livematte/pkg/gate"
	"github.com/user/livematte/pkg/pipeline"
	"github.com/user/livematte/pkg/ports"
	"github.com/user/livematte/pkg/scaler"
	"github.com/user/livematte/pkg/slot"
)

const (
	// DefaultPeriod runs inference once every other frame.
	DefaultPeriod = 2

	// DefaultBlurRadius is the background blur applied by the compositor.
	DefaultBlurRadius = 8.0
)

// Processor owns the per-frame pipeline state: the gate, the scale factor
// and the output buffer. It expects a single caller that awaits each
// Execute before issuing the next frame; only the mask slot is shared with
// the inference completion goroutine.
type Processor struct {
	segmenter ports.Segmenter
	renderer  ports.Renderer
	logger    ports.Logger

	gate       *gate.Gate
	scaler     *scaler.Scaler
	compositor *compositor.Compositor
	masks      *slot.Slot[image.Image]

	mu     sync.Mutex
	factor float64

	ready atomic.Bool
	alive atomic.Bool

	canvas ports.Canvas
	width  int
	height int
}

type options struct {
	period     int
	factor     float64
	blurRadius float64
	overlay    func() string
}

// Option configures a Processor.
type Option func(*options)

// WithPeriod sets how many frames apart inference runs.
func WithPeriod(period int) Option {
	return func(o *options) { o.period = period }
}

// WithScaleFactor sets the initial downsampling factor applied to frames
// before they are submitted to inference.
func WithScaleFactor(factor float64) Option {
	return func(o *options) { o.factor = factor }
}

// WithBlurRadius sets the background blur radius in pixels.
func WithBlurRadius(radius float64) Option {
	return func(o *options) { o.blurRadius = radius }
}

// WithOverlay installs a debug overlay provider whose text is drawn onto
// every composited frame. This is an explicit capability; there is no
// ambient debug registry.
func WithOverlay(overlay func() string) Option {
	return func(o *options) { o.overlay = overlay }
}

// New creates a Processor. Call Start to begin backend initialization;
// until it completes, frames pass through unmodified.
func New(segmenter ports.Segmenter, renderer ports.Renderer, logger ports.Logger, opts ...Option) *Processor {
	o := options{
		period:     DefaultPeriod,
		factor:     1,
		blurRadius: DefaultBlurRadius,
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Processor{
		segmenter:  segmenter,
		renderer:   renderer,
		logger:     logger.WithComponent("processor"),
		gate:       gate.New(o.period),
		scaler:     scaler.New(renderer),
		compositor: compositor.New(o.blurRadius, o.overlay, logger),
		masks:      slot.New[image.Image](),
		factor:     o.factor,
	}
	p.alive.Store(true)
	return p
}

// Start launches the one-time asynchronous backend initialization.
func (p *Processor) Start(ctx context.Context) {
	go func() {
		if err := p.segmenter.Initialize(ctx); err != nil {
			p.logger.Error("Segmenter initialization failed: %s", err)
			return
		}
		if !p.alive.Load() {
			return
		}
		p.ready.Store(true)
		p.logger.Debug("Segmenter ready")
	}()
}

// Ready reports whether the inference backend finished initialization.
func (p *Processor) Ready() bool {
	return p.ready.Load()
}

// Execute implements pipeline.Stage. It replaces the first frame with the
// composited output, or passes all frames through unchanged when the
// backend is not ready or the frame cannot be processed. Failures are
// absorbed per the graceful degradation contract: the error is always nil.
func (p *Processor) Execute(ctx context.Context, frames []pipeline.Frame) ([]pipeline.Frame, error) {
	if len(frames) == 0 {
		return frames, nil
	}
	out := make([]pipeline.Frame, len(frames))
	copy(out, frames)
	out[0] = p.processFrame(ctx, frames[0])
	return out, nil
}

func (p *Processor) processFrame(ctx context.Context, frame pipeline.Frame) (out pipeline.Frame) {
	out = frame
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Frame processing failed: %v", r)
			out = frame
		}
	}()

	if !p.alive.Load() || !p.ready.Load() {
		return frame
	}
	if frame.Degenerate() {
		p.logger.Debug("Degenerate frame passed through")
		return frame
	}

	p.resizeTarget(frame)

	mask := p.acquireMask(ctx, frame)
	if mask == nil {
		return frame
	}

	p.compositor.Compose(p.canvas, frame.Image, mask)
	return pipeline.Frame{Image: p.canvas.Image()}
}

// resizeTarget recreates the owned output buffer when the incoming frame
// dimensions change. This is the only trigger for buffer resizing.
func (p *Processor) resizeTarget(frame pipeline.Frame) {
	width, height := frame.Width(), frame.Height()
	if p.canvas != nil && width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.canvas = p.renderer.CreateCanvas(width, height)
	p.logger.Debug("Output buffer resized to %dx%d", width, height)
}

// acquireMask returns the matte to composite this frame with: a freshly
// inferred one when the gate fires, the cached one otherwise. A nil return
// means no matte is available yet and the frame passes through.
func (p *Processor) acquireMask(ctx context.Context, frame pipeline.Frame) image.Image {
	p.gate.Observe()
	if !p.gate.ShouldRun() {
		mask, _ := p.masks.Current()
		return mask
	}

	waiter, err := p.masks.Next()
	if err != nil {
		// The single-in-flight-frame assumption was violated by the
		// caller; render with the cached matte instead of stalling.
		p.logger.Warn("Mask waiter already pending: %s", err)
		mask, _ := p.masks.Current()
		return mask
	}

	scaled, err := p.scaler.Scale(frame.Image, p.ScaleFactor())
	if err != nil {
		p.logger.Warn("Frame scaling failed: %s", err)
		p.masks.Cancel()
		mask, _ := p.masks.Current()
		return mask
	}

	go p.runInference(ctx, scaled)

	select {
	case mask, ok := <-waiter:
		if !ok {
			// Inference failed; the failure was already logged.
			cached, _ := p.masks.Current()
			return cached
		}
		return mask
	case <-ctx.Done():
		return nil
	}
}

// runInference submits one frame to the backend. It never fails the render
// path: errors are logged and the waiter is released. Results arriving
// after Destroy are discarded.
func (p *Processor) runInference(ctx context.Context, img image.Image) {
	mask, err := p.segmenter.Infer(ctx, img)
	if !p.alive.Load() {
		return
	}
	if err != nil {
		p.logger.Warn("Inference failed: %s", err)
		p.masks.Cancel()
		return
	}
	p.masks.Publish(mask)
}

// UpdateScaleFactor changes the downsampling applied before inference.
// It takes effect on the next processed frame and does not affect
// inference already in flight.
func (p *Processor) UpdateScaleFactor(factor float64) error {
	if factor <= 0 {
		return scaler.ErrInvalidFactor
	}
	p.mu.Lock()
	p.factor = factor
	p.mu.Unlock()
	p.logger.Debug("Scale factor updated to %.2f", factor)
	return nil
}

// ScaleFactor returns the current downsampling factor.
func (p *Processor) ScaleFactor() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.factor
}

// Destroy releases the output buffer and closes the inference backend.
// It does not wait for in-flight inference; late completions are guarded
// no-ops. Destroy is idempotent.
func (p *Processor) Destroy() error {
	if !p.alive.CompareAndSwap(true, false) {
		return nil
	}
	p.ready.Store(false)
	p.canvas = nil
	p.width, p.height = 0, 0
	p.masks.Cancel()
	if err := p.segmenter.Close(); err != nil {
		return fmt.Errorf("close segmenter: %w", err)
	}
	return nil
}

// Ensure Processor implements pipeline.Stage
var _ pipeline.Stage[[]pipeline.Frame, []pipeline.Frame] = (*Processor)(nil)
