package refine

import (
	"fmt"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/combmetric"
	"github.com/opd-ai/tdeint/temporal"
)

// SpatialCheck demotes Interpolate codes to KeepCurrent wherever the source
// pixel fails the combing metric with the given scaled threshold.
func SpatialCheck[T frame.Sample](src, mask *frame.Frame[T], metric, athresh int, process [3]bool) {
	th := combmetric.NewThresholds(athresh)
	interp, keep := T(temporal.Interpolate), T(temporal.KeepCurrent)

	for plane, sp := range src.Planes {
		if !process[plane] {
			continue
		}
		mp := mask.Planes[plane]

		for y := 0; y < sp.Height; y++ {
			r := combmetric.Taps(sp.Height, y)
			ppp, pp, cur, pn, pnn := sp.Row(r.PPP), sp.Row(r.PP), sp.Row(y), sp.Row(r.PN), sp.Row(r.PNN)
			m := mp.Row(y)

			for x := range m {
				if m[x] != interp {
					continue
				}
				if !th.Test(metric, int(ppp[x]), int(pp[x]), int(cur[x]), int(pn[x]), int(pnn[x])) {
					m[x] = keep
				}
			}
		}
	}
}

// SpatialRefiner applies SpatialCheck as a chain stage.
type SpatialRefiner[T frame.Sample] struct {
	metric  int
	athresh int
	process [3]bool
}

// NewSpatialRefiner creates a spatial check stage. athresh must already be
// scaled to the clip's bit depth.
func NewSpatialRefiner[T frame.Sample](metric, athresh int, process [3]bool) *SpatialRefiner[T] {
	return &SpatialRefiner[T]{metric: metric, athresh: athresh, process: process}
}

// Apply runs the spatial check.
func (s *SpatialRefiner[T]) Apply(src, mask *frame.Frame[T], field int) error {
	if src == nil || mask == nil {
		return ErrNilFrame
	}
	SpatialCheck(src, mask, s.metric, s.athresh, s.process)
	return nil
}

// Name returns the stage name.
func (s *SpatialRefiner[T]) Name() string {
	return fmt.Sprintf("SpatialCheck(metric=%d, athresh=%d)", s.metric, s.athresh)
}
