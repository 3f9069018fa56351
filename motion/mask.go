package motion

import "github.com/opd-ai/tdeint/frame"

// tolerance is the largest difference still treated as static for the
// threshold pair m1, m2.
func tolerance(m1, m2, nt, minThresh, maxThresh int) int {
	return min(max(min(m1, m2)+nt, minThresh), maxThresh)
}

// MotionMask flags, per layer, the pixels of src1 and src2 whose absolute
// difference does not exceed the tolerance derived from their thresholds.
func MotionMask[T frame.Sample](src1 *Padded[T], msk1 *Pair[T], src2 *Padded[T], msk2 *Pair[T], dst *Pair[T], p *Params) {
	set := frame.MaxOf[T]()
	m1, m2, d := msk1.layers(), msk2.layers(), dst.layers()

	for y := 0; y < src1.Height; y++ {
		s1 := src1.Line(y)[Pad : Pad+src1.Width]
		s2 := src2.Line(y)[Pad : Pad+src1.Width]

		for l := 0; l < 2; l++ {
			a := m1[l].Line(y)[Pad : Pad+src1.Width]
			b := m2[l].Line(y)[Pad : Pad+src1.Width]
			out := d[l].Line(y)[Pad : Pad+src1.Width]

			for x := range out {
				diff := absInt(int(s1[x]) - int(s2[x]))
				if diff <= tolerance(int(a[x]), int(b[x]), p.NT, p.MinThresh, p.MaxThresh) {
					out[x] = set
				} else {
					out[x] = 0
				}
			}
		}
	}
}

// motionMaskUnrolled is MotionMask processing eight samples per iteration.
func motionMaskUnrolled[T frame.Sample](src1 *Padded[T], msk1 *Pair[T], src2 *Padded[T], msk2 *Pair[T], dst *Pair[T], p *Params) {
	set := frame.MaxOf[T]()
	m1, m2, d := msk1.layers(), msk2.layers(), dst.layers()
	nt, lo, hi := p.NT, p.MinThresh, p.MaxThresh
	w := src1.Width

	for y := 0; y < src1.Height; y++ {
		s1 := src1.Line(y)[Pad : Pad+w]
		s2 := src2.Line(y)[Pad : Pad+w]

		var diff [8]int
		for l := 0; l < 2; l++ {
			a := m1[l].Line(y)[Pad : Pad+w]
			b := m2[l].Line(y)[Pad : Pad+w]
			out := d[l].Line(y)[Pad : Pad+w]

			x := 0
			for ; x+8 <= w; x += 8 {
				s1b, s2b := s1[x:x+8:x+8], s2[x:x+8:x+8]
				ab, bb, ob := a[x:x+8:x+8], b[x:x+8:x+8], out[x:x+8:x+8]
				for i := range diff {
					diff[i] = absInt(int(s1b[i]) - int(s2b[i]))
				}
				for i := range ob {
					if diff[i] <= tolerance(int(ab[i]), int(bb[i]), nt, lo, hi) {
						ob[i] = set
					} else {
						ob[i] = 0
					}
				}
			}
			for ; x < w; x++ {
				if absInt(int(s1[x])-int(s2[x])) <= tolerance(int(a[x]), int(b[x]), nt, lo, hi) {
					out[x] = set
				} else {
					out[x] = 0
				}
			}
		}
	}
}

// AndMasks intersects dst with a and b on both layers and re-mirrors the
// border columns of dst.
func AndMasks[T frame.Sample](a, b, dst *Pair[T]) {
	la, lb, ld := a.layers(), b.layers(), dst.layers()
	for l := 0; l < 2; l++ {
		w := ld[l].Width
		for y := 0; y < ld[l].Height; y++ {
			ra := la[l].Line(y)[Pad : Pad+w]
			rb := lb[l].Line(y)[Pad : Pad+w]
			line := ld[l].Line(y)
			rd := line[Pad : Pad+w]
			for x := range rd {
				rd[x] &= ra[x] & rb[x]
			}
			mirrorLine(line, w)
		}
	}
}

// andMasksUnrolled is AndMasks processing eight samples per iteration.
func andMasksUnrolled[T frame.Sample](a, b, dst *Pair[T]) {
	la, lb, ld := a.layers(), b.layers(), dst.layers()
	for l := 0; l < 2; l++ {
		w := ld[l].Width
		for y := 0; y < ld[l].Height; y++ {
			ra := la[l].Line(y)[Pad : Pad+w]
			rb := lb[l].Line(y)[Pad : Pad+w]
			line := ld[l].Line(y)
			rd := line[Pad : Pad+w]
			x := 0
			for ; x+8 <= w; x += 8 {
				d8, a8, b8 := rd[x:x+8:x+8], ra[x:x+8:x+8], rb[x:x+8:x+8]
				d8[0] &= a8[0] & b8[0]
				d8[1] &= a8[1] & b8[1]
				d8[2] &= a8[2] & b8[2]
				d8[3] &= a8[3] & b8[3]
				d8[4] &= a8[4] & b8[4]
				d8[5] &= a8[5] & b8[5]
				d8[6] &= a8[6] & b8[6]
				d8[7] &= a8[7] & b8[7]
			}
			for ; x < w; x++ {
				rd[x] &= ra[x] & rb[x]
			}
			mirrorLine(line, w)
		}
	}
}

// CombineMasks copies the quarter layer of src into dst, then sets every
// pixel that is clear in the quarter layer but set in the half layer when at
// least cstr of its eight quarter-layer neighbours are set.
func CombineMasks[T frame.Sample](src *Pair[T], dst *frame.Plane[T], cstr int) {
	set := frame.MaxOf[T]()
	q, h := src.Quarter, src.Half
	width, height := dst.Width, dst.Height

	for y := 0; y < height; y++ {
		copy(dst.Row(y), q.Line(y)[Pad:Pad+width])
	}

	for y := 0; y < height; y++ {
		above := q.Line(reflectRow(y-1, height))
		cur := q.Line(y)
		below := q.Line(reflectRow(y+1, height))
		half := h.Line(y)
		out := dst.Row(y)

		for x := Pad; x < width+Pad; x++ {
			if cur[x] != 0 || half[x] == 0 {
				continue
			}
			count := 0
			for _, v := range [8]T{above[x-1], above[x], above[x+1], cur[x-1], cur[x+1], below[x-1], below[x], below[x+1]} {
				if v != 0 {
					count++
				}
			}
			if count >= cstr {
				out[x-Pad] = set
			}
		}
	}
}
