package processor

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/livematte/pkg/mocks"
	"github.com/user/livematte/pkg/pipeline"
	"github.com/user/livematte/pkg/ports"
)

func testFrame(width, height int) pipeline.Frame {
	return pipeline.Frame{Image: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func waitReady(t *testing.T, p *Processor) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !p.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("segmenter never became ready")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestExecute_PassThroughBeforeReady(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	seg := &mocks.Segmenter{
		InitializeFunc: func(ctx context.Context) error {
			<-block
			return nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())

	for i := 0; i < 5; i++ {
		in := testFrame(64, 48)
		out, err := p.Execute(context.Background(), []pipeline.Frame{in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out[0].Image != in.Image {
			t.Fatalf("frame %d: expected pass-through before readiness", i)
		}
	}
}

func TestExecute_DegenerateInputPassesThrough(t *testing.T) {
	var inferCalls atomic.Int32
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			inferCalls.Add(1)
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	degenerate := []pipeline.Frame{
		{Image: nil},
		testFrame(0, 0),
		testFrame(0, 48),
		testFrame(64, 0),
	}
	for i, in := range degenerate {
		out, err := p.Execute(context.Background(), []pipeline.Frame{in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out[0].Image != in.Image {
			t.Errorf("degenerate frame %d was modified", i)
		}
	}
	if got := inferCalls.Load(); got != 0 {
		t.Errorf("expected no inference for degenerate input, got %d calls", got)
	}
}

func TestExecute_EmptyInput(t *testing.T) {
	p := New(&mocks.Segmenter{}, &mocks.Renderer{}, mocks.NewLogger())

	out, err := p.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d frames", len(out))
	}
}

func TestExecute_GateThrottlesInference(t *testing.T) {
	var inferCalls atomic.Int32
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			inferCalls.Add(1)
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(3))
	p.Start(context.Background())
	waitReady(t, p)

	const frames = 10
	composited := 0
	for i := 0; i < frames; i++ {
		in := testFrame(64, 48)
		out, _ := p.Execute(context.Background(), []pipeline.Frame{in})
		if out[0].Image != in.Image {
			composited++
		}
	}

	// floor(10/3) inference runs, not 10.
	if got := inferCalls.Load(); got != 3 {
		t.Errorf("expected 3 inference runs for 10 frames at period 3, got %d", got)
	}
	// The first two frames have no matte yet; everything after the first
	// inference renders with the current or cached matte.
	if composited != frames-2 {
		t.Errorf("expected %d composited frames, got %d", frames-2, composited)
	}
}

func TestExecute_ScaleFactorAppliesToInference(t *testing.T) {
	var inferWidth, inferHeight atomic.Int32
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			inferWidth.Store(int32(img.Bounds().Dx()))
			inferHeight.Store(int32(img.Bounds().Dy()))
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	if err := p.UpdateScaleFactor(0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := testFrame(640, 480)
	out, _ := p.Execute(context.Background(), []pipeline.Frame{in})

	if w, h := inferWidth.Load(), inferHeight.Load(); w != 320 || h != 240 {
		t.Errorf("expected inference input 320x240, got %dx%d", w, h)
	}
	// The output keeps the source dimensions, not the scaled ones.
	bounds := out[0].Image.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 480 {
		t.Errorf("expected 640x480 output, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestUpdateScaleFactor_RejectsNonPositive(t *testing.T) {
	p := New(&mocks.Segmenter{}, &mocks.Renderer{}, mocks.NewLogger())

	for _, factor := range []float64{0, -0.5} {
		if err := p.UpdateScaleFactor(factor); err == nil {
			t.Errorf("factor %v: expected an error", factor)
		}
	}
	if got := p.ScaleFactor(); got != 1 {
		t.Errorf("rejected update must not change the factor, got %v", got)
	}
}

func TestExecute_InferenceFailureFallsBack(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			if fail.Load() {
				return nil, errors.New("backend rejected the frame")
			}
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	logger := mocks.NewLogger()
	p := New(seg, &mocks.Renderer{}, logger, WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	// The failing tick renders the unmodified input and logs the failure.
	in := testFrame(64, 48)
	out, err := p.Execute(context.Background(), []pipeline.Frame{in})
	if err != nil {
		t.Fatalf("inference failure must not propagate, got %v", err)
	}
	if out[0].Image != in.Image {
		t.Error("expected pass-through on inference failure")
	}
	if !logger.Contains(ports.LevelWarn, "Inference failed") {
		t.Error("expected the inference failure to be logged")
	}

	// The waiter slot is free again: the next frame succeeds.
	fail.Store(false)
	in = testFrame(64, 48)
	out, _ = p.Execute(context.Background(), []pipeline.Frame{in})
	if out[0].Image == in.Image {
		t.Error("expected a composited frame after the backend recovers")
	}
}

func TestExecute_CachedMaskBetweenGateRuns(t *testing.T) {
	var inferCalls atomic.Int32
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			inferCalls.Add(1)
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(2))
	p.Start(context.Background())
	waitReady(t, p)

	// Frame 1: gate idle, no cached matte, pass-through.
	in := testFrame(64, 48)
	out, _ := p.Execute(context.Background(), []pipeline.Frame{in})
	if out[0].Image != in.Image {
		t.Error("frame 1: expected pass-through without a matte")
	}

	// Frame 2: gate fires, fresh matte.
	in = testFrame(64, 48)
	out, _ = p.Execute(context.Background(), []pipeline.Frame{in})
	if out[0].Image == in.Image {
		t.Error("frame 2: expected a composited frame")
	}

	// Frame 3: gate idle, cached matte is reused without waiting.
	in = testFrame(64, 48)
	out, _ = p.Execute(context.Background(), []pipeline.Frame{in})
	if out[0].Image == in.Image {
		t.Error("frame 3: expected compositing with the cached matte")
	}
	if got := inferCalls.Load(); got != 1 {
		t.Errorf("expected exactly 1 inference run, got %d", got)
	}
}

func TestExecute_ResizesTargetOnDimensionChange(t *testing.T) {
	renderer := &mocks.Renderer{}
	p := New(&mocks.Segmenter{}, renderer, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	for i := 0; i < 3; i++ {
		p.Execute(context.Background(), []pipeline.Frame{testFrame(64, 48)})
	}
	if len(renderer.Canvases) != 1 {
		t.Fatalf("expected 1 canvas for stable dimensions, got %d", len(renderer.Canvases))
	}

	p.Execute(context.Background(), []pipeline.Frame{testFrame(32, 24)})
	if len(renderer.Canvases) != 2 {
		t.Fatalf("expected a second canvas after the dimension change, got %d", len(renderer.Canvases))
	}
	if w, h := renderer.Canvases[1].Size(); w != 32 || h != 24 {
		t.Errorf("expected 32x24 target buffer, got %dx%d", w, h)
	}
}

func TestExecute_ContextCancelledWhileWaiting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	seg := &mocks.Segmenter{
		InferFunc: func(ctx context.Context, img image.Image) (image.Image, error) {
			close(started)
			<-release
			return mocks.OpaqueMask(img.Bounds().Dx(), img.Bounds().Dy()), nil
		},
	}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	in := testFrame(64, 48)
	done := make(chan pipeline.Frame, 1)
	go func() {
		out, _ := p.Execute(ctx, []pipeline.Frame{in})
		done <- out[0]
	}()

	<-started
	cancel()

	select {
	case out := <-done:
		if out.Image != in.Image {
			t.Error("expected pass-through when the context is cancelled")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}
	close(release)
}

func TestDestroy_LateInferenceHasNoEffect(t *testing.T) {
	seg := &mocks.Segmenter{}
	p := New(seg, &mocks.Renderer{}, mocks.NewLogger(), WithPeriod(1))
	p.Start(context.Background())
	waitReady(t, p)

	if err := p.Destroy(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.CloseCalls != 1 {
		t.Fatalf("expected the segmenter to be closed once, got %d", seg.CloseCalls)
	}

	// A completion arriving after teardown must neither publish a matte
	// nor panic.
	p.runInference(context.Background(), image.NewRGBA(image.Rect(0, 0, 64, 48)))
	if _, ok := p.masks.Current(); ok {
		t.Error("late inference result mutated processor state after Destroy")
	}

	// Frames after teardown pass through.
	in := testFrame(64, 48)
	out, _ := p.Execute(context.Background(), []pipeline.Frame{in})
	if out[0].Image != in.Image {
		t.Error("expected pass-through after Destroy")
	}

	// Destroy is idempotent.
	if err := p.Destroy(); err != nil {
		t.Errorf("second Destroy returned %v", err)
	}
	if seg.CloseCalls != 1 {
		t.Errorf("second Destroy closed the segmenter again (%d calls)", seg.CloseCalls)
	}
}
