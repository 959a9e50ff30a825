package runner

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/livematte/pkg/mocks"
	"github.com/user/livematte/pkg/pipeline"
)

// passthrough is a stage that returns its input unchanged.
var passthrough = pipeline.StageFunc[[]pipeline.Frame, []pipeline.Frame](
	func(ctx context.Context, frames []pipeline.Frame) ([]pipeline.Frame, error) {
		return frames, nil
	},
)

func frames(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = image.NewRGBA(image.Rect(0, 0, 8+i, 8))
	}
	return out
}

func TestRun_DeliversAllFramesInOrder(t *testing.T) {
	in := frames(3)
	source := mocks.NewSource(in...)
	sink := &mocks.FrameSink{}

	r := New(source, passthrough, sink, nil, mocks.NewLogger())
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Frames != 3 {
		t.Errorf("expected 3 processed frames, got %d", result.Frames)
	}
	got := sink.Frames()
	if len(got) != 3 {
		t.Fatalf("expected 3 frames in the sink, got %d", len(got))
	}
	for i := range got {
		if got[i] != in[i] {
			t.Errorf("frame %d delivered out of order", i)
		}
	}
}

func TestRun_CancelledContextIsCleanShutdown(t *testing.T) {
	source := mocks.NewSource(frames(5)...)
	sink := &mocks.FrameSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(source, passthrough, sink, nil, mocks.NewLogger())
	result, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if result.Frames != 0 {
		t.Errorf("expected 0 frames after immediate cancellation, got %d", result.Frames)
	}
}

func TestRun_SinkFailureStopsTheLoop(t *testing.T) {
	source := mocks.NewSource(frames(3)...)
	sink := &mocks.FrameSink{
		WriteFrameFunc: func(index int, img image.Image) error {
			return errors.New("disk full")
		},
	}

	r := New(source, passthrough, sink, nil, mocks.NewLogger())
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("expected a sink failure to surface")
	}
}

func TestRun_StageFailureStopsTheLoop(t *testing.T) {
	source := mocks.NewSource(frames(1)...)
	failing := pipeline.StageFunc[[]pipeline.Frame, []pipeline.Frame](
		func(ctx context.Context, f []pipeline.Frame) ([]pipeline.Frame, error) {
			return nil, errors.New("boom")
		},
	)

	r := New(source, failing, &mocks.FrameSink{}, nil, mocks.NewLogger())
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("expected a stage failure to surface")
	}
}
