package motion

import "github.com/opd-ai/tdeint/frame"

// Threshold neighbourhoods.
const (
	TTypeCompensated4 = iota
	TTypeCompensated8
	TTypePlain4
	TTypePlain8
	TTypeRange4
	TTypeRange8
)

type bounds struct {
	lo, hi int
}

func newBounds(peak int) bounds {
	return bounds{lo: peak, hi: 0}
}

func (b *bounds) add(v int) {
	if v < b.lo {
		b.lo = v
	}
	if v > b.hi {
		b.hi = v
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// spread returns the larger distance from c to either bound.
func (b bounds) spread(c int) int {
	return max(absInt(c-b.lo), absInt(c-b.hi))
}

// spreadShifted is spread with rounding and a right shift applied to each
// distance before comparing.
func (b bounds) spreadShifted(c, half, shift int) int {
	return max((absInt(c-b.lo)+half)>>shift, (absInt(c-b.hi)+half)>>shift)
}

// ThresholdMask writes the quarter and half local-contrast thresholds of src
// into dst. Plane selects the luma or chroma override values and
// compensation shifts.
func ThresholdMask[T frame.Sample](src *Padded[T], dst *Pair[T], plane int, p *Params) {
	oq, oh := p.overrides(plane)
	if oq > -1 && oh > -1 {
		dst.Quarter.Fill(T(oq))
		dst.Half.Fill(T(oh))
		return
	}

	peak := int(frame.MaxOf[T]())
	width, height := src.Width, src.Height
	hHalf, hShift := p.HHalf[plane], p.HShift[plane]
	vHalf, vShift := p.VHalf[plane], p.VShift[plane]

	for y := 0; y < height; y++ {
		above := src.Line(reflectRow(y-1, height))
		cur := src.Line(y)
		below := src.Line(reflectRow(y+1, height))
		dq := dst.Quarter.Line(y)
		dh := dst.Half.Line(y)

		for x := Pad; x < width+Pad; x++ {
			c := int(cur[x])
			var at int

			switch p.TType {
			case TTypeCompensated4, TTypeCompensated8:
				v, h := newBounds(peak), newBounds(peak)
				if p.TType == TTypeCompensated8 {
					v.add(int(above[x-1]))
					v.add(int(above[x+1]))
					v.add(int(below[x-1]))
					v.add(int(below[x+1]))
				}
				v.add(int(above[x]))
				v.add(int(below[x]))
				h.add(int(cur[x-1]))
				h.add(int(cur[x+1]))
				at = max(v.spreadShifted(c, vHalf, vShift), h.spreadShifted(c, hHalf, hShift))
			case TTypePlain4, TTypePlain8:
				b := newBounds(peak)
				if p.TType == TTypePlain8 {
					b.add(int(above[x-1]))
					b.add(int(above[x+1]))
					b.add(int(below[x-1]))
					b.add(int(below[x+1]))
				}
				b.add(int(above[x]))
				b.add(int(below[x]))
				b.add(int(cur[x-1]))
				b.add(int(cur[x+1]))
				at = b.spread(c)
			default:
				b := newBounds(peak)
				if p.TType == TTypeRange8 {
					b.add(int(above[x-1]))
					b.add(int(above[x+1]))
					b.add(int(below[x-1]))
					b.add(int(below[x+1]))
				}
				b.add(int(above[x]))
				b.add(int(below[x]))
				b.add(int(cur[x-1]))
				b.add(c)
				b.add(int(cur[x+1]))
				at = b.hi - b.lo
			}

			dq[x] = T((at + 2) >> 2)
			dh[x] = T((at + 1) >> 1)
		}
	}

	switch {
	case plane == 0 && p.MtqL > -1:
		dst.Quarter.Fill(T(p.MtqL))
	case plane == 0 && p.MthL > -1:
		dst.Half.Fill(T(p.MthL))
	case plane > 0 && p.MtqC > -1:
		dst.Quarter.Fill(T(p.MtqC))
	case plane > 0 && p.MthC > -1:
		dst.Half.Fill(T(p.MthC))
	}
}
