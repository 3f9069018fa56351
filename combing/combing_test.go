package combing

import (
	"math/rand"
	"testing"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/internal/combmetric"
	"github.com/opd-ai/tdeint/limits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{CThresh: 6, BlockX: 16, BlockY: 16, MI: 64}
}

// createTestFrame returns a gray frame of value v with every other row
// starting at row 1 set to comb when comb > 0.
func createTestFrame(w, h int, v, comb uint8) *frame.Frame[uint8] {
	f := frame.NewFrame[uint8](frame.Gray8, w, h)
	f.Fill(v)
	if comb > 0 {
		for y := 1; y < h; y += 2 {
			f.Planes[0].FillRow(y, comb)
		}
	}
	return f
}

func naiveAccumulate(g Geometry, cmask *frame.Plane[uint8]) []int32 {
	cells := make([]int32, g.CellCount())
	for y := 1; y < cmask.Height-1; y++ {
		for x := 0; x < cmask.Width; x++ {
			if cmask.At(x, y-1) != 0 && cmask.At(x, y) != 0 && cmask.At(x, y+1) != 0 {
				g.add(cells, x, y, 1)
			}
		}
	}
	return cells
}

func TestGeometry(t *testing.T) {
	g := NewGeometry(16, 16, 16, 16)
	assert.Equal(t, 8, g.XHalf)
	assert.Equal(t, 4, g.XShift)
	assert.Equal(t, 2, g.XBlocks)
	assert.Equal(t, 2, g.YBlocks)
	assert.Equal(t, 16, g.WidthA)
	assert.Equal(t, 8, g.HeightA)
	assert.Equal(t, 16, g.CellCount())

	g = NewGeometry(37, 23, 8, 4)
	assert.Equal(t, 36, g.WidthA)
	assert.Equal(t, 22, g.HeightA)
	assert.Equal(t, ((37+4)>>3)+1, g.XBlocks)
	assert.Equal(t, ((23+2)>>2)+1, g.YBlocks)
}

func TestProgressiveFrameScoresZero(t *testing.T) {
	d, err := NewDetector[uint8](frame.Gray8, 16, 16, defaultConfig())
	require.NoError(t, err)

	score, combed := d.Check(createTestFrame(16, 16, 128, 0), d.NewScratch())
	assert.Zero(t, score)
	assert.False(t, combed)
}

func TestCombedFrame(t *testing.T) {
	d, err := NewDetector[uint8](frame.Gray8, 16, 16, defaultConfig())
	require.NoError(t, err)

	score, combed := d.Check(createTestFrame(16, 16, 128, 255), d.NewScratch())
	assert.Equal(t, 14*16, score)
	assert.True(t, combed)
}

func TestCombThresholdRespected(t *testing.T) {
	cfg := defaultConfig()
	cfg.MI = 0
	d, err := NewDetector[uint8](frame.Gray8, 32, 16, cfg)
	require.NoError(t, err)

	// A 2-level ripple is below the default comb threshold.
	score, combed := d.Check(createTestFrame(32, 16, 100, 102), d.NewScratch())
	assert.Zero(t, score)
	assert.False(t, combed)

	score, combed = d.Check(createTestFrame(32, 16, 100, 140), d.NewScratch())
	assert.Positive(t, score)
	assert.True(t, combed)
}

func TestSquaredMetric(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metric = 1
	d, err := NewDetector[uint8](frame.Gray8, 16, 16, cfg)
	require.NoError(t, err)

	_, combed := d.Check(createTestFrame(16, 16, 128, 255), d.NewScratch())
	assert.True(t, combed)
	_, combed = d.Check(createTestFrame(16, 16, 128, 0), d.NewScratch())
	assert.False(t, combed)
}

func TestHighBitDepth(t *testing.T) {
	d, err := NewDetector[uint16](frame.YUV420P16, 16, 16, defaultConfig())
	require.NoError(t, err)

	f := frame.NewFrame[uint16](frame.YUV420P16, 16, 16)
	f.Fill(30000)
	for y := 1; y < 16; y += 2 {
		f.Planes[0].FillRow(y, 60000)
	}

	score, combed := d.Check(f, d.NewScratch())
	assert.Equal(t, 14*16, score)
	assert.True(t, combed)
}

func TestAccumulateMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	sizes := []struct{ w, h int }{{16, 16}, {37, 23}, {5, 5}, {64, 40}, {33, 70}, {8, 100}}
	blocks := []int{4, 8, 16, 32}

	for _, sz := range sizes {
		for _, bx := range blocks {
			for _, by := range blocks {
				p := frame.NewPlane[uint8](sz.w, sz.h)
				for i := range p.Data {
					if rng.Intn(10) < 7 {
						p.Data[i] = 255
					}
				}
				g := NewGeometry(sz.w, sz.h, bx, by)
				cells := make([]int32, g.CellCount())
				Accumulate(g, p, cells)
				require.Equal(t, naiveAccumulate(g, p), cells,
					"size %dx%d blocks %dx%d", sz.w, sz.h, bx, by)
			}
		}
	}
}

func TestAccumulateResetsCells(t *testing.T) {
	g := NewGeometry(8, 8, 4, 4)
	cells := make([]int32, g.CellCount())
	for i := range cells {
		cells[i] = 99
	}
	Accumulate(g, frame.NewPlane[uint8](8, 8), cells)
	assert.Zero(t, MaxCell(cells))
}

func TestPropagateChroma(t *testing.T) {
	cmask := frame.NewFrame[uint8](frame.YUV420P8, 8, 8)
	cmask.Planes[1].Set(1, 1, 255)
	cmask.Planes[1].Set(2, 1, 255)

	PropagateChroma(cmask)

	luma := cmask.Planes[0]
	for _, y := range []int{1, 2, 3} {
		for x := 2; x < 6; x++ {
			assert.Equal(t, uint8(255), luma.At(x, y), "luma %d,%d", x, y)
		}
	}
	assert.Zero(t, luma.At(2, 0))
	assert.Zero(t, luma.At(6, 2))
	assert.Zero(t, luma.At(2, 4))
}

func TestPropagateChromaIgnoresIsolatedPixels(t *testing.T) {
	cmask := frame.NewFrame[uint8](frame.YUV444P8, 6, 6)
	cmask.Planes[2].Set(2, 2, 255)

	PropagateChroma(cmask)

	for _, v := range cmask.Planes[0].Data {
		assert.Zero(t, v)
	}
}

func TestChromaDetection(t *testing.T) {
	cfg := defaultConfig()
	cfg.Chroma = true
	cfg.MI = 0
	d, err := NewDetector[uint8](frame.YUV420P8, 32, 32, cfg)
	require.NoError(t, err)

	f := frame.NewFrame[uint8](frame.YUV420P8, 32, 32)
	f.Fill(128)
	for y := 1; y < 16; y += 2 {
		f.Planes[1].FillRow(y, 250)
	}

	score, combed := d.Check(f, d.NewScratch())
	assert.Positive(t, score)
	assert.True(t, combed)

	cfg.Chroma = false
	d, err = NewDetector[uint8](frame.YUV420P8, 32, 32, cfg)
	require.NoError(t, err)
	score, _ = d.Check(f, d.NewScratch())
	assert.Zero(t, score)
}

func TestBitmapMarksCombRows(t *testing.T) {
	src := createTestFrame(4, 6, 0, 200)
	cmask := frame.NewFrame[uint8](frame.Gray8, 4, 6)
	cmask.Fill(7)

	Bitmap(src, cmask, 1, 0, combmetric.NewThresholds(6))

	for _, v := range cmask.Planes[0].Data {
		assert.Equal(t, uint8(255), v)
	}
}

func TestNewDetectorValidation(t *testing.T) {
	cfg := defaultConfig()
	cfg.BlockX = 12
	_, err := NewDetector[uint8](frame.Gray8, 16, 16, cfg)
	assert.ErrorIs(t, err, limits.ErrNotPowerOfTwo)

	cfg = defaultConfig()
	cfg.BlockY = 4096
	_, err = NewDetector[uint8](frame.Gray8, 16, 16, cfg)
	assert.ErrorIs(t, err, limits.ErrOutOfRange)

	_, err = NewDetector[uint8](frame.Gray8, 16, 4, defaultConfig())
	assert.ErrorIs(t, err, frame.ErrInvalidDimensions)
}
