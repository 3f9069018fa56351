package motion

import (
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/limits"
)

// Params configures threshold and motion mask construction. Threshold
// fields are on the 8-bit scale until Scaled is applied.
type Params struct {
	// TType selects the threshold neighbourhood, 0 through 5.
	TType int

	// Override thresholds; values > -1 replace the computed layer.
	MtqL, MthL, MtqC, MthC int

	NT        int
	MinThresh int
	MaxThresh int
	Cstr      int

	HShift, VShift, HHalf, VHalf [3]int
}

// Scaled returns a copy with thresholds rescaled to the format's bit depth
// and the per-plane compensation shifts filled in.
func (p Params) Scaled(format frame.Format) Params {
	peak := format.Peak()
	for _, v := range []*int{&p.MtqL, &p.MthL, &p.MtqC, &p.MthC} {
		if *v > limits.ThresholdDisabled {
			*v = limits.Rescale(*v, peak)
		}
	}
	p.NT = limits.Rescale(p.NT, peak)
	p.MinThresh = limits.Rescale(p.MinThresh, peak)
	p.MaxThresh = limits.Rescale(p.MaxThresh, peak)

	for plane := 0; plane < 3; plane++ {
		if plane == 0 {
			p.HShift[plane] = 0
			p.VShift[plane] = 1
		} else {
			p.HShift[plane] = format.SubSamplingW
			p.VShift[plane] = 1 << format.SubSamplingH
		}
		if p.HShift[plane] > 0 {
			p.HHalf[plane] = 1 << (p.HShift[plane] - 1)
		} else {
			p.HHalf[plane] = 0
		}
		p.VHalf[plane] = 1 << (p.VShift[plane] - 1)
	}
	return p
}

// overrides returns the quarter and half override values for a plane.
func (p *Params) overrides(plane int) (q, h int) {
	if plane == 0 {
		return p.MtqL, p.MthL
	}
	return p.MtqC, p.MthC
}
