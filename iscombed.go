package tdeint

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/opd-ai/tdeint/combing"
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/worker"
	"github.com/opd-ai/tdeint/limits"
	"github.com/sirupsen/logrus"
)

// CombDetector flags frames of a Source that show interlacing artifacts.
// Output frames are copies of the input with PropCombed set to 0 or 1 and
// PropCombScore set to the frame score.
type CombDetector[T frame.Sample] struct {
	id       uuid.UUID
	src      frame.Source[T]
	info     frame.VideoInfo
	opts     CombOptions
	detector *combing.Detector[T]
	scratch  *worker.Arena[*combing.Scratch[T]]
}

// NewCombDetector creates a combing detector for src. A nil opts uses
// NewCombOptions.
func NewCombDetector[T frame.Sample](src frame.Source[T], opts *CombOptions) (*CombDetector[T], error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if opts == nil {
		opts = NewCombOptions()
	}

	if err := opts.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewCombDetector",
			"error":    err.Error(),
		}).Error("Option validation failed")
		return nil, err
	}

	vi := src.Info()
	if err := validateFormat[T](vi, limits.MinCombedHeight, limits.MaxCombedSubSampling); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewCombDetector",
			"format":   vi.Format.String(),
			"width":    vi.Width,
			"height":   vi.Height,
			"error":    err.Error(),
		}).Error("Clip validation failed")
		return nil, err
	}
	if opts.Chroma && vi.Format.Family == frame.Gray {
		return nil, fmt.Errorf("%w: chroma can not be enabled for %s", ErrInvalidOption, vi.Format)
	}

	detector, err := combing.NewDetector[T](vi.Format, vi.Width, vi.Height, combing.Config{
		CThresh: opts.CThresh,
		BlockX:  opts.BlockX,
		BlockY:  opts.BlockY,
		Chroma:  opts.Chroma,
		MI:      opts.MI,
		Metric:  opts.Metric,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	c := &CombDetector[T]{
		id:       uuid.New(),
		src:      src,
		info:     vi,
		opts:     *opts,
		detector: detector,
		scratch:  worker.NewArena(runtime.GOMAXPROCS(0), detector.NewScratch),
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewCombDetector",
		"instance": c.id.String(),
		"format":   vi.Format.String(),
		"width":    vi.Width,
		"height":   vi.Height,
		"cthresh":  opts.CThresh,
		"mi":       opts.MI,
		"scratch":  c.scratch.Size(),
	}).Info("Combing detector created successfully")

	return c, nil
}

// ID returns the instance identifier attached to log entries.
func (c *CombDetector[T]) ID() string {
	return c.id.String()
}

// Info returns the clip description, which equals the input's.
func (c *CombDetector[T]) Info() frame.VideoInfo {
	return c.info
}

// Check scores f, which must match the clip's format and size. It returns
// the highest block count and whether the frame is combed.
func (c *CombDetector[T]) Check(ctx context.Context, f *frame.Frame[T]) (int, bool, error) {
	if f.Format != c.info.Format || f.Width != c.info.Width || f.Height != c.info.Height {
		return 0, false, fmt.Errorf("%w: frame is %s %dx%d, detector expects %s %dx%d",
			ErrClipMismatch, f.Format, f.Width, f.Height, c.info.Format, c.info.Width, c.info.Height)
	}

	s, err := c.scratch.Acquire(ctx)
	if err != nil {
		return 0, false, err
	}
	defer c.scratch.Release(s)

	score, combed := c.detector.Check(f, s)
	return score, combed, nil
}

// GetFrame returns a copy of input frame n with PropCombed and
// PropCombScore set.
func (c *CombDetector[T]) GetFrame(ctx context.Context, n int) (*frame.Frame[T], error) {
	src, err := c.src.GetFrame(ctx, n)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "CombDetector.GetFrame",
			"instance": c.id.String(),
			"frame":    n,
			"error":    err.Error(),
		}).Error("Upstream frame request failed")
		return nil, fmt.Errorf("%w: frame %d: %w", ErrFrameFetch, n, err)
	}

	score, combed, err := c.Check(ctx, src)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "CombDetector.GetFrame",
		"instance": c.id.String(),
		"frame":    n,
		"score":    score,
		"combed":   combed,
	}).Debug("Scored frame")

	dst := src.Clone()
	var flag int64
	if combed {
		flag = 1
	}
	dst.Props.Set(frame.PropCombed, flag)
	dst.Props.Set(frame.PropCombScore, int64(score))
	return dst, nil
}

// Render scores every frame with up to workers frames processed
// concurrently and passes the flagged copies to emit in order.
func (c *CombDetector[T]) Render(ctx context.Context, workers int, emit FrameFunc[T]) error {
	return render(ctx, workers, c.info.NumFrames, c.GetFrame, emit)
}
