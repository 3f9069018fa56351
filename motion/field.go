package motion

import "github.com/opd-ai/tdeint/frame"

// BuildFieldMask builds the static mask for a field from the field itself
// and the two fields of the same parity that follow it. Callers clamp the
// trailing fields to the end of the clip. Planes not selected by process
// are left zero.
func BuildFieldMask[T frame.Sample](fields [3]*frame.Frame[T], process [3]bool, p *Params, k Kernels[T]) *frame.Frame[T] {
	f0 := fields[0]
	dst := frame.NewFrame[T](f0.Format, f0.Width, f0.Height)

	for plane := range dst.Planes {
		if !process[plane] {
			continue
		}
		w, h := dst.Planes[plane].Width, dst.Planes[plane].Height

		var pad [3]*Padded[T]
		var thr [3]*Pair[T]
		for i, f := range fields {
			pad[i] = NewPadded[T](w, h)
			thr[i] = NewPair[T](w, h)
			CopyPad(f.Planes[plane], pad[i])
			ThresholdMask(pad[i], thr[i], plane, p)
		}

		m01 := NewPair[T](w, h)
		m12 := NewPair[T](w, h)
		m02 := NewPair[T](w, h)
		k.Motion(pad[0], thr[0], pad[1], thr[1], m01, p)
		k.Motion(pad[1], thr[1], pad[2], thr[2], m12, p)
		k.Motion(pad[0], thr[0], pad[2], thr[2], m02, p)
		k.And(m01, m12, m02)
		CombineMasks(m02, dst.Planes[plane], p.Cstr)
	}

	return dst
}
