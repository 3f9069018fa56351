package refine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keep   = uint8(temporal.KeepCurrent)
	interp = uint8(temporal.Interpolate)
)

// createTestFrame builds a frame whose plane 0 rows are given explicitly.
func createTestFrame(format frame.Format, rows [][]uint8) *frame.Frame[uint8] {
	f := frame.NewFrame[uint8](format, len(rows[0]), len(rows))
	for y, r := range rows {
		copy(f.Planes[0].Row(y), r)
	}
	return f
}

type failingRefiner struct{}

func (failingRefiner) Apply(src, mask *frame.Frame[uint8], field int) error {
	return errors.New("boom")
}

func (failingRefiner) Name() string { return "failing" }

func TestChain(t *testing.T) {
	chain := NewChain[uint8]()
	assert.Equal(t, 0, chain.Len())

	chain.Add(NewSpatialRefiner[uint8](0, 6, [3]bool{true}))
	chain.Add(NewExpandRefiner[uint8](2, 0, [3]bool{true}))
	assert.Equal(t, []string{"SpatialCheck(metric=0, athresh=6)", "Expand(2)"}, chain.Names())

	src := frame.NewFrame[uint8](frame.Gray8, 8, 4)
	mask := frame.NewFrame[uint8](frame.Gray8, 8, 4)
	require.NoError(t, chain.Apply(src, mask, 1))

	assert.ErrorIs(t, chain.Apply(nil, mask, 1), ErrNilFrame)

	chain.Add(failingRefiner{})
	err := chain.Apply(src, mask, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refiner 2 (failing)")

	chain.Clear()
	assert.Equal(t, 0, chain.Len())
}

func TestSpatialCheckOnlyDemotesInterpolate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	codes := []uint8{10, 20, 30, 40, 50, 60, 70}

	for metric := 0; metric < 2; metric++ {
		src := frame.NewFrame[uint8](frame.YUV420P8, 16, 8)
		mask := frame.NewFrame[uint8](frame.YUV420P8, 16, 8)
		for i, p := range src.Planes {
			for j := range p.Data {
				p.Data[j] = uint8(rng.Intn(256))
				mask.Planes[i].Data[j] = codes[rng.Intn(len(codes))]
			}
		}
		before := mask.Clone()

		SpatialCheck(src, mask, metric, 20, [3]bool{true, true, true})

		for i, p := range mask.Planes {
			for j, v := range p.Data {
				old := before.Planes[i].Data[j]
				if v != old {
					assert.Equal(t, interp, old)
					assert.Equal(t, keep, v)
				}
			}
		}
	}
}

func TestSpatialCheckKeepsCombedPixels(t *testing.T) {
	rows := make([][]uint8, 8)
	for y := range rows {
		v := uint8(20)
		if y&1 == 1 {
			v = 220
		}
		rows[y] = []uint8{v, v, v, v}
	}
	src := createTestFrame(frame.Gray8, rows)

	for metric := 0; metric < 2; metric++ {
		mask := frame.NewFrame[uint8](frame.Gray8, 4, 8)
		mask.Fill(interp)
		SpatialCheck(src, mask, metric, 10, [3]bool{true})
		for _, v := range mask.Planes[0].Data {
			assert.Equal(t, interp, v, "metric %d", metric)
		}
	}
}

func TestSpatialCheckDemotesFlatPixels(t *testing.T) {
	src := frame.NewFrame[uint8](frame.Gray8, 4, 6)
	src.Fill(90)
	mask := frame.NewFrame[uint8](frame.Gray8, 4, 6)
	mask.Fill(interp)

	SpatialCheck(src, mask, 0, 0, [3]bool{true})

	for _, v := range mask.Planes[0].Data {
		assert.Equal(t, keep, v)
	}
}

func TestExpand(t *testing.T) {
	t.Run("symmetric run", func(t *testing.T) {
		mask := createTestFrame(frame.Gray8, [][]uint8{
			{10, 10, 10, 60, 10, 10, 10, 10, 10, 10},
			{10, 10, 10, 60, 10, 10, 10, 10, 10, 10},
		})
		Expand(mask, 1, 2, 0, [3]bool{true})

		assert.Equal(t, []uint8{10, 10, 10, 60, 10, 10, 10, 10, 10, 10}, mask.Planes[0].Row(0))
		assert.Equal(t, []uint8{10, 60, 60, 60, 60, 60, 10, 10, 10, 10}, mask.Planes[0].Row(1))
	})

	t.Run("stops at existing code", func(t *testing.T) {
		mask := createTestFrame(frame.Gray8, [][]uint8{
			{60, 10, 60, 10, 10, 10, 10, 10},
			{10, 10, 10, 10, 10, 10, 10, 10},
		})
		Expand(mask, 0, 3, 0, [3]bool{true})

		assert.Equal(t, []uint8{60, 60, 60, 60, 60, 60, 10, 10}, mask.Planes[0].Row(0))
	})

	t.Run("clipped at borders", func(t *testing.T) {
		mask := createTestFrame(frame.Gray8, [][]uint8{
			{10, 60, 10, 10},
			{10, 10, 10, 60},
		})
		Expand(mask, 0, 5, 0, [3]bool{true})
		Expand(mask, 1, 5, 0, [3]bool{true})

		assert.Equal(t, []uint8{60, 60, 60, 60}, mask.Planes[0].Row(0))
		assert.Equal(t, []uint8{60, 60, 60, 60}, mask.Planes[0].Row(1))
	})

	t.Run("chroma distance subsampled", func(t *testing.T) {
		mask := frame.NewFrame[uint8](frame.YUV422P8, 16, 2)
		mask.Fill(keep)
		mask.Planes[1].Set(4, 0, interp)
		Expand(mask, 0, 4, 1, [3]bool{false, true, false})

		assert.Equal(t, []uint8{10, 10, 60, 60, 60, 60, 60, 10}, mask.Planes[1].Row(0))
	})
}

func TestLink(t *testing.T) {
	t.Run("4:2:0 requires both luma rows", func(t *testing.T) {
		mask := frame.NewFrame[uint8](frame.YUV420P8, 4, 4)
		mask.Fill(keep)
		luma := mask.Planes[0]
		for _, y := range []int{0, 2} {
			luma.Set(0, y, interp)
			luma.Set(1, y, interp)
		}
		luma.Set(2, 0, interp)
		luma.Set(3, 0, interp)

		require.NoError(t, Link(mask, 0))

		assert.Equal(t, interp, mask.Planes[1].At(0, 0))
		assert.Equal(t, interp, mask.Planes[2].At(0, 0))
		assert.Equal(t, keep, mask.Planes[1].At(1, 0))
		assert.Equal(t, keep, mask.Planes[1].At(0, 1))
	})

	t.Run("4:4:4 copies luma decisions", func(t *testing.T) {
		mask := frame.NewFrame[uint8](frame.YUV444P8, 4, 4)
		mask.Fill(keep)
		mask.Planes[0].Set(2, 1, interp)
		mask.Planes[0].Set(2, 2, interp)

		require.NoError(t, Link(mask, 1))

		assert.Equal(t, interp, mask.Planes[1].At(2, 1))
		assert.Equal(t, interp, mask.Planes[2].At(2, 1))
		assert.Equal(t, keep, mask.Planes[1].At(2, 2))
	})

	t.Run("gray rejected", func(t *testing.T) {
		mask := frame.NewFrame[uint8](frame.Gray8, 4, 4)
		assert.ErrorIs(t, Link(mask, 0), ErrLinkGray)
	})

	t.Run("high bit depth", func(t *testing.T) {
		mask := frame.NewFrame[uint16](frame.YUV420P16, 4, 4)
		mask.Fill(uint16(temporal.KeepCurrent))
		mask.Planes[0].Fill(uint16(temporal.Interpolate))

		require.NoError(t, NewLinkRefiner[uint16]().Apply(nil, mask, 1))

		assert.Equal(t, uint16(temporal.Interpolate), mask.Planes[1].At(1, 1))
		assert.Equal(t, uint16(temporal.KeepCurrent), mask.Planes[1].At(1, 0))
	})
}
