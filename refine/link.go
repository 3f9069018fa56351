package refine

import (
	"errors"
	"fmt"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/temporal"
)

// ErrLinkGray is returned when linking is requested on a single-plane mask.
var ErrLinkGray = errors.New("link requires chroma planes")

// Link marks chroma samples Interpolate on rows of parity field when every
// co-sited luma sample on the corresponding luma rows is Interpolate.
func Link[T frame.Sample](mask *frame.Frame[T], field int) error {
	format := mask.Format
	if format.Family == frame.Gray || len(mask.Planes) < 3 {
		return fmt.Errorf("%w: %s", ErrLinkGray, format)
	}

	interp := T(temporal.Interpolate)
	luma, u, v := mask.Planes[0], mask.Planes[1], mask.Planes[2]
	ssW, ssH := format.SubSamplingW, format.SubSamplingH
	span := 1 << ssW
	lumaStep := 2 << ssH

	for y, k := field, 0; y < u.Height; y, k = y+2, k+1 {
		lumaRow := min(field+lumaStep*k, luma.Height-1)
		rows := [][]T{luma.Row(lumaRow)}
		if ssH > 0 {
			rows = append(rows, luma.Row(min(lumaRow+2, luma.Height-1)))
		}
		ru, rv := u.Row(y), v.Row(y)

		for x := range ru {
			if allInterpolate(rows, x<<ssW, span, interp) {
				ru[x] = interp
				rv[x] = interp
			}
		}
	}
	return nil
}

func allInterpolate[T frame.Sample](rows [][]T, x0, span int, interp T) bool {
	for _, r := range rows {
		for i := 0; i < span; i++ {
			if r[x0+i] != interp {
				return false
			}
		}
	}
	return true
}

// LinkRefiner applies Link as a chain stage.
type LinkRefiner[T frame.Sample] struct{}

// NewLinkRefiner creates a linking stage.
func NewLinkRefiner[T frame.Sample]() *LinkRefiner[T] {
	return &LinkRefiner[T]{}
}

// Apply runs the link step.
func (l *LinkRefiner[T]) Apply(src, mask *frame.Frame[T], field int) error {
	if mask == nil {
		return ErrNilFrame
	}
	return Link(mask, field)
}

// Name returns the stage name.
func (l *LinkRefiner[T]) Name() string {
	return "Link"
}
