package temporal

import "github.com/opd-ai/tdeint/frame"

// BuildMask fills dst with decision codes for the rows of parity field.
// cSrc holds the current-field masks and oSrc the opposite-field masks as
// described by Window; both are field-height frames. Rows of the other
// parity are set to KeepCurrent. Planes not selected by process are left
// untouched.
func BuildMask[T frame.Sample](cSrc, oSrc []*frame.Frame[T], dst *frame.Frame[T], order, field int, process [3]bool, tb *Tables) {
	length := tb.length
	cCount, oCount := len(cSrc), len(oSrc)
	final := tb.final(order, field)

	offo, offc := 1, 0
	if length&1 == 1 {
		offo, offc = 0, 1
	}
	ct := cCount / 2
	run := length - 4

	plutAbove := make([]bool, 2*length-1)
	plutBelow := make([]bool, 2*length-1)
	cur := make([][]T, cCount)
	above := make([][]T, oCount)
	below := make([][]T, oCount)

	for plane := range dst.Planes {
		if !process[plane] {
			continue
		}
		out := dst.Planes[plane]
		width, height := out.Width, out.Height
		fieldHeight := cSrc[0].Planes[plane].Height

		for y := 1 - field; y < height; y += 2 {
			out.FillRow(y, T(KeepCurrent))
		}

		for y := field; y < height; y += 2 {
			row := min(y>>1, fieldHeight-1)
			rowAbove := min(max((y-1)>>1, 0), fieldHeight-1)
			rowBelow := min((y+1)>>1, fieldHeight-1)
			for j, f := range cSrc {
				cur[j] = f.Planes[plane].Row(row)
			}
			for j, f := range oSrc {
				above[j] = f.Planes[plane].Row(rowAbove)
				below[j] = f.Planes[plane].Row(rowBelow)
			}
			dstRow := out.Row(y)

			for x := 0; x < width; x++ {
				if cur[ct-2][x] == 0 && cur[ct][x] == 0 && cur[ct+1][x] == 0 {
					dstRow[x] = T(Interpolate)
					continue
				}

				for j := range cur {
					v := cur[j][x] != 0
					plutAbove[2*j+offc] = v
					plutBelow[2*j+offc] = v
				}
				for j := range above {
					plutAbove[2*j+offo] = above[j][x] != 0
					plutBelow[2*j+offo] = below[j][x] != 0
				}

				val := 0
				for i := 0; i < length; i++ {
					if allSet(plutAbove[i : i+run]) {
						val |= int(tb.gvlut[i]) << 3
					}
					if allSet(plutBelow[i : i+run]) {
						val |= int(tb.gvlut[i])
					}
					if tb.vlut[val] == 2 {
						break
					}
				}
				dstRow[x] = T(final[val])
			}
		}
	}
}

func allSet(s []bool) bool {
	for _, v := range s {
		if !v {
			return false
		}
	}
	return true
}

// SetMaskForUpsize fills mask for plain field upsizing: every row of parity
// field is Interpolate and every other row KeepCurrent, except the edge row
// of parity field that has no partner row on the far side.
func SetMaskForUpsize[T frame.Sample](mask *frame.Frame[T], field int, process [3]bool) {
	for plane, p := range mask.Planes {
		if !process[plane] {
			continue
		}
		pairs := p.Height / 2

		if field == 1 {
			for y := 0; y < pairs-1; y++ {
				p.FillRow(2*y, T(KeepCurrent))
				p.FillRow(2*y+1, T(Interpolate))
			}
			p.FillRow(2*(pairs-1), T(KeepCurrent))
			p.FillRow(2*(pairs-1)+1, T(KeepCurrent))
		} else {
			p.FillRow(0, T(KeepCurrent))
			p.FillRow(1, T(KeepCurrent))
			for y := 1; y < pairs; y++ {
				p.FillRow(2*y, T(Interpolate))
				p.FillRow(2*y+1, T(KeepCurrent))
			}
		}
	}
}
