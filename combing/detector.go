// Package combing scores frames for interlacing artifacts.
//
// A per-pixel combing bitmap is built with the same vertical derivative
// metrics the deinterlacer uses for its spatial check. Vertical runs of
// three combed pixels are then counted into half-overlapping blocks, and a
// frame is combed when the busiest block exceeds a configured count.
package combing

import (
	"fmt"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/combmetric"
	"github.com/opd-ai/tdeint/limits"
	"github.com/sirupsen/logrus"
)

// Config holds detector settings. CThresh is on the 8-bit scale.
type Config struct {
	CThresh int
	BlockX  int
	BlockY  int
	Chroma  bool
	MI      int
	Metric  int
}

// Detector scores frames of a fixed format and size. It holds no per-frame
// state and is safe for concurrent use with distinct Scratch values.
type Detector[T frame.Sample] struct {
	format frame.Format
	width  int
	height int
	chroma bool
	metric int
	mi     int
	th     combmetric.Thresholds
	geo    Geometry
}

// NewDetector creates a detector for frames of the given format and size.
func NewDetector[T frame.Sample](format frame.Format, width, height int, cfg Config) (*Detector[T], error) {
	if err := limits.ValidateBlockSize("blockx", cfg.BlockX); err != nil {
		return nil, err
	}
	if err := limits.ValidateBlockSize("blocky", cfg.BlockY); err != nil {
		return nil, err
	}
	if width <= 0 || height < limits.MinCombedHeight {
		return nil, fmt.Errorf("%w: %dx%d", frame.ErrInvalidDimensions, width, height)
	}

	d := &Detector[T]{
		format: format,
		width:  width,
		height: height,
		chroma: cfg.Chroma,
		metric: cfg.Metric,
		mi:     cfg.MI,
		th:     combmetric.NewThresholds(limits.Rescale(cfg.CThresh, format.Peak())),
		geo:    NewGeometry(width, height, cfg.BlockX, cfg.BlockY),
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewDetector",
		"format":   format.String(),
		"width":    width,
		"height":   height,
		"cthresh":  d.th.T,
		"blocks":   fmt.Sprintf("%dx%d", d.geo.XBlocks, d.geo.YBlocks),
	}).Debug("Created combing detector")

	return d, nil
}

// Geometry returns the block layout used by the detector.
func (d *Detector[T]) Geometry() Geometry {
	return d.geo
}

// Scratch is the per-worker state needed by Check.
type Scratch[T frame.Sample] struct {
	Mask  *frame.Frame[T]
	Cells []int32
}

// NewScratch allocates scratch buffers sized for d.
func (d *Detector[T]) NewScratch() *Scratch[T] {
	return &Scratch[T]{
		Mask:  frame.NewFrame[T](d.format, d.width, d.height),
		Cells: make([]int32, d.geo.CellCount()),
	}
}

// Check scores src and reports the highest block count and whether it
// exceeds the configured limit. s must come from NewScratch of the same
// detector and must not be shared between concurrent calls.
func (d *Detector[T]) Check(src *frame.Frame[T], s *Scratch[T]) (int, bool) {
	planes := 1
	if d.chroma {
		planes = 3
	}
	Bitmap(src, s.Mask, planes, d.metric, d.th)
	if d.chroma {
		PropagateChroma(s.Mask)
	}

	Accumulate(d.geo, s.Mask.Planes[0], s.Cells)
	score := int(MaxCell(s.Cells))
	return score, score > d.mi
}
