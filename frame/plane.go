package frame

// Sample is the set of storage types a plane can hold.
type Sample interface {
	~uint8 | ~uint16
}

// MaxOf returns the numeric maximum of T. Binary masks use it as their
// "set" value regardless of the clip's bit depth.
func MaxOf[T Sample]() T {
	return ^T(0)
}

// Plane is a row-major grid of samples.
type Plane[T Sample] struct {
	Width  int
	Height int
	Stride int
	Data   []T
}

// NewPlane allocates a zeroed plane with Stride equal to Width.
func NewPlane[T Sample](width, height int) *Plane[T] {
	return &Plane[T]{
		Width:  width,
		Height: height,
		Stride: width,
		Data:   make([]T, width*height),
	}
}

// Row returns the Width logical samples of row y.
func (p *Plane[T]) Row(y int) []T {
	off := y * p.Stride
	return p.Data[off : off+p.Width : off+p.Width]
}

// At returns the sample at (x, y).
func (p *Plane[T]) At(x, y int) T {
	return p.Data[y*p.Stride+x]
}

// Set stores v at (x, y).
func (p *Plane[T]) Set(x, y int, v T) {
	p.Data[y*p.Stride+x] = v
}

// Fill sets every logical sample to v.
func (p *Plane[T]) Fill(v T) {
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

// FillRow sets every sample of row y to v.
func (p *Plane[T]) FillRow(y int, v T) {
	row := p.Row(y)
	for x := range row {
		row[x] = v
	}
}

// CopyFrom copies the logical area of src into p. The planes must have the
// same width and height.
func (p *Plane[T]) CopyFrom(src *Plane[T]) {
	for y := 0; y < p.Height; y++ {
		copy(p.Row(y), src.Row(y))
	}
}

// Clone returns a packed deep copy of p.
func (p *Plane[T]) Clone() *Plane[T] {
	c := NewPlane[T](p.Width, p.Height)
	c.CopyFrom(p)
	return c
}

// Equal reports whether p and o have the same dimensions and logical samples.
func (p *Plane[T]) Equal(o *Plane[T]) bool {
	if p.Width != o.Width || p.Height != o.Height {
		return false
	}
	for y := 0; y < p.Height; y++ {
		a, b := p.Row(y), o.Row(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}
