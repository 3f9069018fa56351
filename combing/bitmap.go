package combing

import (
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/combmetric"
)

// Bitmap clears the first planes planes of cmask and sets every pixel of
// src that passes the combing metric.
func Bitmap[T frame.Sample](src, cmask *frame.Frame[T], planes, metric int, th combmetric.Thresholds) {
	set := frame.MaxOf[T]()

	for plane := 0; plane < planes; plane++ {
		sp, mp := src.Planes[plane], cmask.Planes[plane]
		mp.Fill(0)

		for y := 0; y < sp.Height; y++ {
			r := combmetric.Taps(sp.Height, y)
			ppp, pp, cur, pn, pnn := sp.Row(r.PPP), sp.Row(r.PP), sp.Row(y), sp.Row(r.PN), sp.Row(r.PNN)
			m := mp.Row(y)

			for x := range m {
				if th.Test(metric, int(ppp[x]), int(pp[x]), int(cur[x]), int(pn[x]), int(pnn[x])) {
					m[x] = set
				}
			}
		}
	}
}

// PropagateChroma marks luma pixels combed wherever an interior chroma pixel
// is combed together with at least one of its eight neighbours in the same
// chroma plane. Each chroma hit covers its co-sited luma block on the luma
// rows of the same field.
func PropagateChroma[T frame.Sample](cmask *frame.Frame[T]) {
	set := frame.MaxOf[T]()
	format := cmask.Format
	luma, u, v := cmask.Planes[0], cmask.Planes[1], cmask.Planes[2]
	ssW, ssH := format.SubSamplingW, format.SubSamplingH
	span := 1 << ssW

	for y := 1; y < u.Height-1; y++ {
		row := y << ssH
		rows := []int{row}
		if ssH > 0 {
			rows = append(rows, row+1)
			if y&1 == 1 {
				rows = append(rows, row-1)
			} else {
				rows = append(rows, row+2)
			}
			if ssH == 2 {
				rows = append(rows, row-2)
				if y&1 == 1 {
					rows = append(rows, row-3)
				} else {
					rows = append(rows, row-1)
				}
			}
		}

		for x := 1; x < u.Width-1; x++ {
			if !clustered(u, x, y) && !clustered(v, x, y) {
				continue
			}
			x0 := x << ssW
			for _, ly := range rows {
				if ly < 0 || ly >= luma.Height {
					continue
				}
				lr := luma.Row(ly)
				for i := 0; i < span && x0+i < len(lr); i++ {
					lr[x0+i] = set
				}
			}
		}
	}
}

// clustered reports whether the pixel at x, y is set together with at least
// one of its eight neighbours.
func clustered[T frame.Sample](p *frame.Plane[T], x, y int) bool {
	cur := p.Row(y)
	if cur[x] == 0 {
		return false
	}
	above, below := p.Row(y-1), p.Row(y+1)
	return cur[x-1] != 0 || cur[x+1] != 0 ||
		above[x-1] != 0 || above[x] != 0 || above[x+1] != 0 ||
		below[x-1] != 0 || below[x] != 0 || below[x+1] != 0
}
