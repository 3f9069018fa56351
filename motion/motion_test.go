package motion

import (
	"math/rand"
	"testing"

	"github.com/opd-ai/tdeint/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams(format frame.Format, ttype int) Params {
	return Params{
		TType: ttype,
		MtqL:  -1, MthL: -1, MtqC: -1, MthC: -1,
		NT: 2, MinThresh: 4, MaxThresh: 75, Cstr: 4,
	}.Scaled(format)
}

func randomPlane(rng *rand.Rand, w, h int) *frame.Plane[uint8] {
	p := frame.NewPlane[uint8](w, h)
	for i := range p.Data {
		p.Data[i] = uint8(rng.Intn(256))
	}
	return p
}

func padPlane(p *frame.Plane[uint8]) *Padded[uint8] {
	dst := NewPadded[uint8](p.Width, p.Height)
	CopyPad(p, dst)
	return dst
}

func planeFromRows(rows [][]uint8) *frame.Plane[uint8] {
	p := frame.NewPlane[uint8](len(rows[0]), len(rows))
	for y, r := range rows {
		copy(p.Row(y), r)
	}
	return p
}

func TestCopyPadMirrorsBorderColumns(t *testing.T) {
	p := planeFromRows([][]uint8{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	})
	pad := padPlane(p)

	for y := 0; y < 2; y++ {
		assert.Equal(t, pad.At(1, y), pad.At(-1, y))
		assert.Equal(t, pad.At(2, y), pad.At(4, y))
		for x := 0; x < 4; x++ {
			assert.Equal(t, p.At(x, y), pad.At(x, y))
		}
	}
}

func TestParamsScaled(t *testing.T) {
	p := Params{MtqL: 10, MthL: -1, MtqC: -2, MthC: 255, NT: 2, MinThresh: 4, MaxThresh: 75}.Scaled(frame.YUV420P10)

	assert.Equal(t, 40, p.MtqL)
	assert.Equal(t, -1, p.MthL)
	assert.Equal(t, -2, p.MtqC)
	assert.Equal(t, 1023, p.MthC)
	assert.Equal(t, 8, p.NT)
	assert.Equal(t, 16, p.MinThresh)
	assert.Equal(t, 300, p.MaxThresh)

	assert.Equal(t, [3]int{0, 1, 1}, p.HShift)
	assert.Equal(t, [3]int{0, 1, 1}, p.HHalf)
	assert.Equal(t, [3]int{1, 2, 2}, p.VShift)
	assert.Equal(t, [3]int{1, 2, 2}, p.VHalf)
}

func TestThresholdMaskFlatPlaneIsZero(t *testing.T) {
	p := frame.NewPlane[uint8](8, 6)
	p.Fill(128)
	src := padPlane(p)

	for ttype := TTypeCompensated4; ttype <= TTypeRange8; ttype++ {
		params := defaultParams(frame.Gray8, ttype)
		dst := NewPair[uint8](8, 6)
		ThresholdMask(src, dst, 0, &params)
		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				assert.Zero(t, dst.Quarter.At(x, y), "ttype %d", ttype)
				assert.Zero(t, dst.Half.At(x, y), "ttype %d", ttype)
			}
		}
	}
}

func TestThresholdMaskNeighbourhoods(t *testing.T) {
	src := padPlane(planeFromRows([][]uint8{
		{0, 60, 0},
		{70, 75, 90},
		{0, 80, 0},
	}))

	tests := []struct {
		name  string
		ttype int
		q, h  uint8
	}{
		{"compensated", TTypeCompensated4, 4, 8},
		{"plain excludes centre", TTypePlain4, 4, 8},
		{"range includes centre", TTypeRange4, 8, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := defaultParams(frame.Gray8, tt.ttype)
			dst := NewPair[uint8](3, 3)
			ThresholdMask(src, dst, 0, &params)
			assert.Equal(t, tt.q, dst.Quarter.At(1, 1))
			assert.Equal(t, tt.h, dst.Half.At(1, 1))
		})
	}
}

func TestThresholdMaskOverrides(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := padPlane(randomPlane(rng, 10, 6))

	t.Run("both set fills padded layers", func(t *testing.T) {
		params := defaultParams(frame.Gray8, TTypeCompensated8)
		params.MtqL, params.MthL = 5, 9
		dst := NewPair[uint8](10, 6)
		ThresholdMask(src, dst, 0, &params)
		for _, v := range dst.Quarter.Data {
			require.Equal(t, uint8(5), v)
		}
		for _, v := range dst.Half.Data {
			require.Equal(t, uint8(9), v)
		}
	})

	t.Run("quarter only keeps computed half", func(t *testing.T) {
		ref := defaultParams(frame.Gray8, TTypeCompensated8)
		want := NewPair[uint8](10, 6)
		ThresholdMask(src, want, 0, &ref)

		params := ref
		params.MtqL = 5
		dst := NewPair[uint8](10, 6)
		ThresholdMask(src, dst, 0, &params)
		for _, v := range dst.Quarter.Data {
			require.Equal(t, uint8(5), v)
		}
		assert.Equal(t, want.Half.Data, dst.Half.Data)
	})

	t.Run("luma overrides ignored on chroma", func(t *testing.T) {
		params := defaultParams(frame.YUV444P8, TTypeCompensated8)
		params.MtqL, params.MthL = 5, 9
		ref := defaultParams(frame.YUV444P8, TTypeCompensated8)

		want := NewPair[uint8](10, 6)
		ThresholdMask(src, want, 1, &ref)
		dst := NewPair[uint8](10, 6)
		ThresholdMask(src, dst, 1, &params)
		assert.Equal(t, want.Quarter.Data, dst.Quarter.Data)
		assert.Equal(t, want.Half.Data, dst.Half.Data)
	})
}

func TestMotionMaskIdenticalFramesAreStatic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := padPlane(randomPlane(rng, 12, 5))
	params := defaultParams(frame.Gray8, TTypeCompensated8)

	thr := NewPair[uint8](12, 5)
	ThresholdMask(src, thr, 0, &params)
	dst := NewPair[uint8](12, 5)
	MotionMask(src, thr, src, thr, dst, &params)

	for y := 0; y < 5; y++ {
		for x := 0; x < 12; x++ {
			assert.Equal(t, uint8(255), dst.Quarter.At(x, y))
			assert.Equal(t, uint8(255), dst.Half.At(x, y))
		}
	}
}

func TestMotionMaskLargeDifferenceIsMoving(t *testing.T) {
	a := frame.NewPlane[uint8](8, 4)
	b := frame.NewPlane[uint8](8, 4)
	b.Fill(200)
	pa, pb := padPlane(a), padPlane(b)
	params := defaultParams(frame.Gray8, TTypeCompensated8)

	ta, tb := NewPair[uint8](8, 4), NewPair[uint8](8, 4)
	ThresholdMask(pa, ta, 0, &params)
	ThresholdMask(pb, tb, 0, &params)
	dst := NewPair[uint8](8, 4)
	MotionMask(pa, ta, pb, tb, dst, &params)

	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			assert.Zero(t, dst.Quarter.At(x, y))
			assert.Zero(t, dst.Half.At(x, y))
		}
	}
}

func TestUnrolledKernelsMatchScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const w, h = 19, 7

	for ttype := TTypeCompensated4; ttype <= TTypeRange8; ttype++ {
		params := defaultParams(frame.Gray8, ttype)
		pa := padPlane(randomPlane(rng, w, h))
		pb := padPlane(randomPlane(rng, w, h))
		ta, tb := NewPair[uint8](w, h), NewPair[uint8](w, h)
		ThresholdMask(pa, ta, 0, &params)
		ThresholdMask(pb, tb, 0, &params)

		scalar, unrolled := ScalarKernels[uint8](), UnrolledKernels[uint8]()

		ms, mu := NewPair[uint8](w, h), NewPair[uint8](w, h)
		scalar.Motion(pa, ta, pb, tb, ms, &params)
		unrolled.Motion(pa, ta, pb, tb, mu, &params)
		require.Equal(t, ms.Quarter.Data, mu.Quarter.Data, "ttype %d", ttype)
		require.Equal(t, ms.Half.Data, mu.Half.Data, "ttype %d", ttype)

		ds, du := NewPair[uint8](w, h), NewPair[uint8](w, h)
		for i := range ds.Quarter.Data {
			v := uint8(0)
			if rng.Intn(2) == 1 {
				v = 255
			}
			ds.Quarter.Data[i], du.Quarter.Data[i] = v, v
			ds.Half.Data[i], du.Half.Data[i] = ^v, ^v
		}
		scalar.And(ms, ta, ds)
		unrolled.And(mu, ta, du)
		assert.Equal(t, ds.Quarter.Data, du.Quarter.Data, "ttype %d", ttype)
		assert.Equal(t, ds.Half.Data, du.Half.Data, "ttype %d", ttype)
	}
}

// checkMotionMaskSymmetry runs both kernel sets with the two frames in
// either order. Pixel pairs differ by a bounded amount so that both static
// and moving flags occur.
func checkMotionMaskSymmetry[T frame.Sample](t *testing.T, format frame.Format, rng *rand.Rand, spread int) {
	const w, h = 21, 6
	peak := format.Peak()

	for ttype := TTypeCompensated4; ttype <= TTypeRange8; ttype++ {
		params := defaultParams(format, ttype)

		a, b := frame.NewPlane[T](w, h), frame.NewPlane[T](w, h)
		for i := range a.Data {
			v := rng.Intn(peak + 1)
			a.Data[i] = T(v)
			b.Data[i] = T(min(max(v+rng.Intn(2*spread+1)-spread, 0), peak))
		}
		pa, pb := NewPadded[T](w, h), NewPadded[T](w, h)
		CopyPad(a, pa)
		CopyPad(b, pb)
		ta, tb := NewPair[T](w, h), NewPair[T](w, h)
		ThresholdMask(pa, ta, 0, &params)
		ThresholdMask(pb, tb, 0, &params)

		for _, k := range []Kernels[T]{ScalarKernels[T](), UnrolledKernels[T]()} {
			fwd, rev := NewPair[T](w, h), NewPair[T](w, h)
			k.Motion(pa, ta, pb, tb, fwd, &params)
			k.Motion(pb, tb, pa, ta, rev, &params)
			require.Equal(t, fwd.Quarter.Data, rev.Quarter.Data, "%s ttype %d", k.Name, ttype)
			require.Equal(t, fwd.Half.Data, rev.Half.Data, "%s ttype %d", k.Name, ttype)
		}
	}
}

func TestMotionMaskSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("8 bit", func(t *testing.T) {
		checkMotionMaskSymmetry[uint8](t, frame.Gray8, rng, 24)
	})
	t.Run("16 bit", func(t *testing.T) {
		checkMotionMaskSymmetry[uint16](t, frame.Gray16, rng, 24*257)
	})
}

func TestAndMasksIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := NewPair[uint8](9, 4)
	for i := range a.Quarter.Data {
		if rng.Intn(2) == 1 {
			a.Quarter.Data[i] = 255
		}
		if rng.Intn(2) == 1 {
			a.Half.Data[i] = 255
		}
	}
	dst := &Pair[uint8]{Quarter: clonePadded(a.Quarter), Half: clonePadded(a.Half)}

	AndMasks(a, a, dst)

	for y := 0; y < 4; y++ {
		for x := 0; x < 9; x++ {
			assert.Equal(t, a.Quarter.At(x, y), dst.Quarter.At(x, y))
			assert.Equal(t, a.Half.At(x, y), dst.Half.At(x, y))
		}
		assert.Equal(t, dst.Quarter.At(1, y), dst.Quarter.At(-1, y))
		assert.Equal(t, dst.Quarter.At(7, y), dst.Quarter.At(9, y))
	}
}

func clonePadded(p *Padded[uint8]) *Padded[uint8] {
	c := NewPadded[uint8](p.Width, p.Height)
	copy(c.Data, p.Data)
	return c
}

func TestCombineMasks(t *testing.T) {
	build := func() *Pair[uint8] {
		src := NewPair[uint8](3, 3)
		src.Quarter.Fill(255)
		src.Quarter.Line(1)[1+Pad] = 0
		src.Half.Line(1)[1+Pad] = 255
		return src
	}

	t.Run("enough neighbours", func(t *testing.T) {
		dst := frame.NewPlane[uint8](3, 3)
		CombineMasks(build(), dst, 4)
		assert.Equal(t, uint8(255), dst.At(1, 1))
	})

	t.Run("too few neighbours", func(t *testing.T) {
		dst := frame.NewPlane[uint8](3, 3)
		CombineMasks(build(), dst, 9)
		assert.Zero(t, dst.At(1, 1))
		assert.Equal(t, uint8(255), dst.At(0, 0))
	})

	t.Run("half clear stays clear", func(t *testing.T) {
		src := build()
		src.Half.Fill(0)
		dst := frame.NewPlane[uint8](3, 3)
		CombineMasks(src, dst, 1)
		assert.Zero(t, dst.At(1, 1))
	})
}

func TestBuildFieldMaskStaticFields(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	f := frame.NewFrame[uint8](frame.YUV420P8, 16, 6)
	for _, p := range f.Planes {
		for i := range p.Data {
			p.Data[i] = uint8(rng.Intn(256))
		}
	}
	params := defaultParams(frame.YUV420P8, TTypeCompensated8)

	mask := BuildFieldMask([3]*frame.Frame[uint8]{f, f, f}, [3]bool{true, false, true}, &params, SelectKernels[uint8](OptAuto))

	require.NoError(t, mask.Validate())
	for _, v := range mask.Planes[0].Data {
		assert.Equal(t, uint8(255), v)
	}
	for _, v := range mask.Planes[1].Data {
		assert.Zero(t, v)
	}
	for _, v := range mask.Planes[2].Data {
		assert.Equal(t, uint8(255), v)
	}
}

func TestBuildFieldMaskHighBitDepth(t *testing.T) {
	a := frame.NewFrame[uint16](frame.Gray16, 8, 4)
	b := frame.NewFrame[uint16](frame.Gray16, 8, 4)
	b.Fill(60000)
	params := defaultParams(frame.Gray16, TTypeCompensated8)

	mask := BuildFieldMask([3]*frame.Frame[uint16]{a, b, a}, [3]bool{true}, &params, ScalarKernels[uint16]())
	for _, v := range mask.Planes[0].Data {
		assert.Zero(t, v)
	}
}

func TestSelectKernels(t *testing.T) {
	assert.Equal(t, "scalar", SelectKernels[uint8](OptScalar).Name)
	assert.Equal(t, "unrolled", SelectKernels[uint8](OptUnrolled).Name)
	assert.Equal(t, "unrolled", SelectKernels[uint16](OptWide).Name)
	assert.NotEmpty(t, SelectKernels[uint8](OptAuto).Name)
}
