package frame

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// VideoInfo describes a clip.
type VideoInfo struct {
	Format    Format
	Width     int
	Height    int
	NumFrames int
	FPSNum    int64
	FPSDen    int64
}

// SameLayout reports whether two clips share format and dimensions.
func (vi VideoInfo) SameLayout(o VideoInfo) bool {
	return vi.Format == o.Format && vi.Width == o.Width && vi.Height == o.Height
}

// Source is the frame server contract the deinterlacer consumes.
//
// GetFrame blocks until frame n is available. Implementations must be safe
// for concurrent use; callers never modify returned frames.
type Source[T Sample] interface {
	Info() VideoInfo
	GetFrame(ctx context.Context, n int) (*Frame[T], error)
}

// Clamp limits n to the valid frame range of a clip with numFrames frames.
func Clamp(n, numFrames int) int {
	return min(max(n, 0), numFrames-1)
}

// SliceSource serves frames held in memory.
type SliceSource[T Sample] struct {
	info   VideoInfo
	frames []*Frame[T]
}

// NewSliceSource wraps frames as a Source. NumFrames in info is replaced by
// len(frames).
func NewSliceSource[T Sample](info VideoInfo, frames []*Frame[T]) (*SliceSource[T], error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: empty clip", ErrFrameOutOfRange)
	}
	for i, f := range frames {
		if f.Format != info.Format || f.Width != info.Width || f.Height != info.Height {
			logrus.WithFields(logrus.Fields{
				"function": "NewSliceSource",
				"frame":    i,
				"expected": info.Format.String(),
				"actual":   f.Format.String(),
			}).Error("Frame layout does not match clip")
			return nil, fmt.Errorf("%w: frame %d is %s %dx%d, clip is %s %dx%d",
				ErrFormatMismatch, i, f.Format, f.Width, f.Height, info.Format, info.Width, info.Height)
		}
	}
	info.NumFrames = len(frames)
	return &SliceSource[T]{info: info, frames: frames}, nil
}

// Info returns the clip description.
func (s *SliceSource[T]) Info() VideoInfo {
	return s.info
}

// GetFrame returns frame n.
func (s *SliceSource[T]) GetFrame(ctx context.Context, n int) (*Frame[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 || n >= len(s.frames) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, n, len(s.frames))
	}
	return s.frames[n], nil
}
