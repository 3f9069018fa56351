package refine

import (
	"fmt"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/temporal"
)

// Expand widens every Interpolate code on rows of parity field by expand
// luma pixels to each side. Chroma distances are reduced by subSamplingW.
// A rightward run stops early at an existing Interpolate code, which then
// starts its own expansion.
func Expand[T frame.Sample](mask *frame.Frame[T], field, expand, subSamplingW int, process [3]bool) {
	interp := T(temporal.Interpolate)

	for plane, p := range mask.Planes {
		if !process[plane] {
			continue
		}
		dis := expand
		if plane > 0 {
			dis >>= subSamplingW
		}
		width := p.Width

		for y := field; y < p.Height; y += 2 {
			row := p.Row(y)
			for x := 0; x < width; x++ {
				if row[x] != interp {
					continue
				}
				for xt := x - 1; xt >= 0 && xt >= x-dis; xt-- {
					row[xt] = interp
				}

				next := x + dis + 1
				for xt := x + 1; xt < width && xt <= x+dis; xt++ {
					if row[xt] == interp {
						next = xt
						break
					}
					row[xt] = interp
				}
				x = next - 1
			}
		}
	}
}

// ExpandRefiner applies Expand as a chain stage.
type ExpandRefiner[T frame.Sample] struct {
	expand       int
	subSamplingW int
	process      [3]bool
}

// NewExpandRefiner creates an expansion stage.
func NewExpandRefiner[T frame.Sample](expand, subSamplingW int, process [3]bool) *ExpandRefiner[T] {
	return &ExpandRefiner[T]{expand: expand, subSamplingW: subSamplingW, process: process}
}

// Apply runs the expansion.
func (e *ExpandRefiner[T]) Apply(src, mask *frame.Frame[T], field int) error {
	if mask == nil {
		return ErrNilFrame
	}
	Expand(mask, field, e.expand, e.subSamplingW, e.process)
	return nil
}

// Name returns the stage name.
func (e *ExpandRefiner[T]) Name() string {
	return fmt.Sprintf("Expand(%d)", e.expand)
}
