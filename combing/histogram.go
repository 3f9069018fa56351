package combing

import (
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/limits"
)

// Geometry describes the overlapping block grid of the histogram. Each
// block is BlockX x BlockY pixels and the grid is offset by half a block in
// each direction, giving four cells per block position.
type Geometry struct {
	Width, Height   int
	XHalf, YHalf    int
	XShift, YShift  int
	XBlocks         int
	YBlocks         int
	WidthA, HeightA int
}

// NewGeometry computes the grid for a luma plane of the given size.
func NewGeometry(width, height, blockx, blocky int) Geometry {
	g := Geometry{
		Width:  width,
		Height: height,
		XHalf:  blockx / 2,
		YHalf:  blocky / 2,
		XShift: limits.Log2(blockx),
		YShift: limits.Log2(blocky),
	}
	g.XBlocks = ((width + g.XHalf) >> g.XShift) + 1
	g.YBlocks = ((height + g.YHalf) >> g.YShift) + 1
	g.WidthA = (width >> (g.XShift - 1)) << (g.XShift - 1)
	g.HeightA = (height >> (g.YShift - 1)) << (g.YShift - 1)
	if g.HeightA == height {
		g.HeightA = height - g.YHalf
	}
	return g
}

// CellCount returns the number of histogram cells.
func (g Geometry) CellCount() int {
	return g.XBlocks * g.YBlocks * 4
}

// add credits n hits at (x, y) to the four overlapping cells.
func (g Geometry) add(cells []int32, x, y int, n int32) {
	xb4 := g.XBlocks * 4
	t1 := (y >> g.YShift) * xb4
	t2 := ((y + g.YHalf) >> g.YShift) * xb4
	b1 := (x >> g.XShift) * 4
	b2 := ((x + g.XHalf) >> g.XShift) * 4
	cells[t1+b1] += n
	cells[t1+b2+1] += n
	cells[t2+b1+2] += n
	cells[t2+b2+3] += n
}

// Accumulate resets cells and counts every pixel of rows 1 to Height-2 that
// is set together with the pixels directly above and below it. Rows inside
// the aligned region are summed a half block at a time.
func Accumulate[T frame.Sample](g Geometry, cmask *frame.Plane[T], cells []int32) {
	for i := range cells {
		cells[i] = 0
	}
	width, height := cmask.Width, cmask.Height

	hit := func(x, y int) bool {
		return cmask.At(x, y-1) != 0 && cmask.At(x, y) != 0 && cmask.At(x, y+1) != 0
	}
	perPixel := func(y int) {
		above, cur, below := cmask.Row(y-1), cmask.Row(y), cmask.Row(y+1)
		for x := 0; x < width; x++ {
			if above[x] != 0 && cur[x] != 0 && below[x] != 0 {
				g.add(cells, x, y, 1)
			}
		}
	}

	for y := 1; y < min(g.YHalf, height-1); y++ {
		perPixel(y)
	}

	for y := g.YHalf; y < g.HeightA; y += g.YHalf {
		for x := 0; x < g.WidthA; x += g.XHalf {
			var sum int32
			for u := 0; u < g.YHalf; u++ {
				for v := 0; v < g.XHalf; v++ {
					if hit(x+v, y+u) {
						sum++
					}
				}
			}
			if sum > 0 {
				g.add(cells, x, y, sum)
			}
		}
		for x := g.WidthA; x < width; x++ {
			var sum int32
			for u := 0; u < g.YHalf; u++ {
				if hit(x, y+u) {
					sum++
				}
			}
			if sum > 0 {
				g.add(cells, x, y, sum)
			}
		}
	}

	for y := max(g.HeightA, g.YHalf); y < height-1; y++ {
		perPixel(y)
	}
}

// MaxCell returns the largest cell value, or zero for an empty histogram.
func MaxCell(cells []int32) int32 {
	var m int32
	for _, c := range cells {
		if c > m {
			m = c
		}
	}
	return m
}
