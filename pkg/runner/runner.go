// Package runner drives frames from a source through the processing stage
// to a sink.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/livematte/pkg/fpsmeter"
	"github.com/user/livematte/pkg/pipeline"
	"github.com/user/livematte/pkg/ports"
)

// Runner owns the frame loop. It pulls frames one at a time, awaits the
// processing stage for each before pulling the next (a single-slot
// pipeline, not a queue), and delivers results downstream.
type Runner struct {
	source ports.Source
	stage  pipeline.Stage[[]pipeline.Frame, []pipeline.Frame]
	sink   ports.FrameSink
	meter  *fpsmeter.Meter
	logger ports.Logger
}

// Result summarizes a completed run.
type Result struct {
	// Frames is the number of frames delivered to the sink.
	Frames int
	// Rate is the measured throughput at the end of the run, in fps.
	Rate float64
}

// New creates a Runner. The meter is optional.
func New(
	source ports.Source,
	stage pipeline.Stage[[]pipeline.Frame, []pipeline.Frame],
	sink ports.FrameSink,
	meter *fpsmeter.Meter,
	logger ports.Logger,
) *Runner {
	return &Runner{
		source: source,
		stage:  stage,
		sink:   sink,
		meter:  meter,
		logger: logger,
	}
}

// Run processes frames until the source is exhausted or ctx is cancelled.
// Cancellation is a clean shutdown, not an error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.logger.Info("Starting pipeline")

	index := 0
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Interrupted, shutting down...")
			return r.result(index), nil
		default:
		}

		img, err := r.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			r.logger.Debug("Source exhausted")
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("Interrupted, shutting down...")
				return r.result(index), nil
			}
			return r.result(index), fmt.Errorf("source: %w", err)
		}

		frames, err := r.stage.Execute(ctx, []pipeline.Frame{{Image: img}})
		if err != nil {
			return r.result(index), fmt.Errorf("process frame %d: %w", index, err)
		}

		if err := r.sink.WriteFrame(index, frames[0].Image); err != nil {
			r.logger.Error("Failed to write frame: %s", err)
			return r.result(index), fmt.Errorf("sink: %w", err)
		}

		if r.meter != nil {
			r.meter.Sample()
		}
		index++
	}

	r.logger.Info("Processed %d frames", index)
	return r.result(index), nil
}

func (r *Runner) result(frames int) Result {
	res := Result{Frames: frames}
	if r.meter != nil {
		res.Rate = r.meter.Rate()
	}
	return res
}
