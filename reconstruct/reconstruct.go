// Package reconstruct produces the output frame from a decision grid and
// the previous, current and next source frames.
package reconstruct

import (
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/temporal"
)

// temporalSample resolves every code that does not need spatial data. It
// reports false for Interpolate and unknown codes.
func temporalSample(code, p, s, n int) (int, bool) {
	switch temporal.Code(code) {
	case temporal.KeepCurrent:
		return s, true
	case temporal.UsePrevious:
		return p, true
	case temporal.UseNext:
		return n, true
	case temporal.AverageNext:
		return (s + n + 1) >> 1, true
	case temporal.AveragePrevious:
		return (s + p + 1) >> 1, true
	case temporal.Blend:
		return (p + s*2 + n + 2) >> 2, true
	}
	return 0, false
}

// EDeint rebuilds src using mask, taking Interpolate samples from ext.
// Unprocessed planes and samples with unknown codes keep the src values.
func EDeint[T frame.Sample](mask, prv, src, nxt, ext *frame.Frame[T], process [3]bool) *frame.Frame[T] {
	dst := src.Clone()
	interp := int(temporal.Interpolate)

	for plane, out := range dst.Planes {
		if !process[plane] {
			continue
		}
		for y := 0; y < out.Height; y++ {
			m := mask.Planes[plane].Row(y)
			p, s, n := prv.Planes[plane].Row(y), src.Planes[plane].Row(y), nxt.Planes[plane].Row(y)
			e := ext.Planes[plane].Row(y)
			d := out.Row(y)

			for x := range d {
				code := int(m[x])
				if v, ok := temporalSample(code, int(p[x]), int(s[x]), int(n[x])); ok {
					d[x] = T(v)
				} else if code == interp {
					d[x] = e[x]
				}
			}
		}
	}
	return dst
}

// CubicDeint rebuilds src using mask, synthesizing Interpolate samples with
// a four-tap cubic over the same-field rows y-3, y-1, y+1 and y+3. Rows
// too close to the edges fall back to copying or averaging. peak is the
// largest valid sample value of the clip.
func CubicDeint[T frame.Sample](mask, prv, src, nxt *frame.Frame[T], process [3]bool, peak int) *frame.Frame[T] {
	dst := src.Clone()
	interp := int(temporal.Interpolate)

	for plane, out := range dst.Planes {
		if !process[plane] {
			continue
		}
		sp := src.Planes[plane]
		height := out.Height

		for y := 0; y < height; y++ {
			m := mask.Planes[plane].Row(y)
			p, s, n := prv.Planes[plane].Row(y), sp.Row(y), nxt.Planes[plane].Row(y)
			d := out.Row(y)

			for x := range d {
				code := int(m[x])
				if v, ok := temporalSample(code, int(p[x]), int(s[x]), int(n[x])); ok {
					d[x] = T(v)
				} else if code == interp {
					d[x] = T(cubicSample(sp, x, y, height, peak))
				}
			}
		}
	}
	return dst
}

func cubicSample[T frame.Sample](sp *frame.Plane[T], x, y, height, peak int) int {
	switch {
	case y == 0:
		return int(sp.At(x, 1))
	case y == height-1:
		return int(sp.At(x, y-1))
	case y < 3 || y > height-4:
		return (int(sp.At(x, y-1)) + int(sp.At(x, y+1)) + 1) >> 1
	}
	v := (19*(int(sp.At(x, y-1))+int(sp.At(x, y+1))) - 3*(int(sp.At(x, y-3))+int(sp.At(x, y+3))) + 16) >> 5
	return min(max(v, 0), peak)
}

// BinaryMask renders the decision grid for inspection: Interpolate codes
// become peak and every other code zero. Unprocessed planes are zero.
func BinaryMask[T frame.Sample](mask *frame.Frame[T], process [3]bool, peak int) *frame.Frame[T] {
	dst := frame.NewFrameLike(mask)
	interp := T(temporal.Interpolate)

	for plane, out := range dst.Planes {
		if !process[plane] {
			continue
		}
		for y := 0; y < out.Height; y++ {
			m := mask.Planes[plane].Row(y)
			d := out.Row(y)
			for x := range d {
				if m[x] == interp {
					d[x] = T(peak)
				}
			}
		}
	}
	return dst
}
