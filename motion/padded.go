package motion

import "github.com/opd-ai/tdeint/frame"

// Pad is the number of mirrored columns on each side of a padded row.
const Pad = 1

// Padded is a plane buffer with one extra column on each side. Logical
// column x is stored at index x+Pad of Line(y).
type Padded[T frame.Sample] struct {
	Width  int
	Height int
	Stride int
	Data   []T
}

// NewPadded allocates a zeroed padded buffer for a width x height plane.
func NewPadded[T frame.Sample](width, height int) *Padded[T] {
	stride := width + 2*Pad
	return &Padded[T]{
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]T, stride*height),
	}
}

// Line returns the full padded row y.
func (p *Padded[T]) Line(y int) []T {
	off := y * p.Stride
	return p.Data[off : off+p.Stride : off+p.Stride]
}

// At returns the sample at logical column x, -1 <= x <= Width.
func (p *Padded[T]) At(x, y int) T {
	return p.Data[y*p.Stride+x+Pad]
}

// Mirror rewrites the pad columns of every row from columns 1 and Width-2.
func (p *Padded[T]) Mirror() {
	for y := 0; y < p.Height; y++ {
		mirrorLine(p.Line(y), p.Width)
	}
}

// Fill sets every sample of the buffer, pad columns included.
func (p *Padded[T]) Fill(v T) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

func mirrorLine[T frame.Sample](line []T, width int) {
	if width < 2 {
		line[0] = line[Pad]
		line[width+Pad] = line[Pad]
		return
	}
	line[0] = line[1+Pad]
	line[width+Pad] = line[width-2+Pad]
}

// CopyPad copies src into dst and mirrors the border columns.
func CopyPad[T frame.Sample](src *frame.Plane[T], dst *Padded[T]) {
	for y := 0; y < src.Height; y++ {
		line := dst.Line(y)
		copy(line[Pad:Pad+src.Width], src.Row(y))
		mirrorLine(line, src.Width)
	}
}

// Pair holds the quarter and half threshold (or mask) layers of one plane.
type Pair[T frame.Sample] struct {
	Quarter *Padded[T]
	Half    *Padded[T]
}

// NewPair allocates both layers for a width x height plane.
func NewPair[T frame.Sample](width, height int) *Pair[T] {
	return &Pair[T]{
		Quarter: NewPadded[T](width, height),
		Half:    NewPadded[T](width, height),
	}
}

// layers returns both layers in quarter, half order.
func (p *Pair[T]) layers() [2]*Padded[T] {
	return [2]*Padded[T]{p.Quarter, p.Half}
}

// reflectRow maps rows -1 and h onto rows 1 and h-2.
func reflectRow(y, h int) int {
	if y < 0 {
		y = 1
	} else if y >= h {
		y = h - 2
	}
	return min(max(y, 0), h-1)
}
