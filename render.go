package tdeint

import (
	"context"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/worker"
	"github.com/sirupsen/logrus"
)

// FrameFunc receives rendered frames in index order.
type FrameFunc[T frame.Sample] func(n int, f *frame.Frame[T]) error

// render requests frames [0, numFrames) from get with up to workers frames
// in flight and hands them to emit in index order. Frames are produced in
// batches of twice the worker count so emit never waits on more than one
// batch.
func render[T frame.Sample](ctx context.Context, workers, numFrames int, get func(context.Context, int) (*frame.Frame[T], error), emit FrameFunc[T]) error {
	runner := worker.NewRunner(workers)
	batch := runner.Workers() * 2
	buf := make([]*frame.Frame[T], batch)

	for base := 0; base < numFrames; base += batch {
		count := min(batch, numFrames-base)
		err := runner.Run(ctx, count, func(ctx context.Context, i int) error {
			f, err := get(ctx, base+i)
			if err != nil {
				return err
			}
			buf[i] = f
			return nil
		})
		if err != nil {
			return err
		}

		for i := 0; i < count; i++ {
			if err := emit(base+i, buf[i]); err != nil {
				return err
			}
			buf[i] = nil
		}
	}

	processed, failed := runner.Stats()
	logrus.WithFields(logrus.Fields{
		"function":  "render",
		"workers":   runner.Workers(),
		"frames":    numFrames,
		"processed": processed,
		"failed":    failed,
	}).Debug("Render completed")

	return nil
}
