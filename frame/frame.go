package frame

import "fmt"

// Frame is a multi-plane video frame with an attached property bag.
type Frame[T Sample] struct {
	Format Format
	Width  int
	Height int
	Planes []*Plane[T]
	Props  Props
}

// NewFrame allocates a zeroed frame. Width and height are luma dimensions.
func NewFrame[T Sample](format Format, width, height int) *Frame[T] {
	f := &Frame[T]{
		Format: format,
		Width:  width,
		Height: height,
		Planes: make([]*Plane[T], format.NumPlanes()),
		Props:  Props{},
	}
	for i := range f.Planes {
		w, h := format.PlaneSize(i, width, height)
		f.Planes[i] = NewPlane[T](w, h)
	}
	return f
}

// NewFrameLike allocates a zeroed frame with the format and dimensions of
// tmpl and a copy of its properties.
func NewFrameLike[T Sample](tmpl *Frame[T]) *Frame[T] {
	f := NewFrame[T](tmpl.Format, tmpl.Width, tmpl.Height)
	f.Props = tmpl.Props.Clone()
	return f
}

// Plane returns plane i.
func (f *Frame[T]) Plane(i int) *Plane[T] {
	return f.Planes[i]
}

// Clone returns a deep copy of the frame including its properties.
func (f *Frame[T]) Clone() *Frame[T] {
	c := &Frame[T]{
		Format: f.Format,
		Width:  f.Width,
		Height: f.Height,
		Planes: make([]*Plane[T], len(f.Planes)),
		Props:  f.Props.Clone(),
	}
	for i, p := range f.Planes {
		c.Planes[i] = p.Clone()
	}
	return c
}

// Validate checks that every plane matches the size implied by the format.
func (f *Frame[T]) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, f.Width, f.Height)
	}
	if len(f.Planes) != f.Format.NumPlanes() {
		return fmt.Errorf("%w: %d planes for %s", ErrFormatMismatch, len(f.Planes), f.Format)
	}
	for i, p := range f.Planes {
		w, h := f.Format.PlaneSize(i, f.Width, f.Height)
		if p == nil || p.Width != w || p.Height != h {
			return fmt.Errorf("%w: plane %d", ErrInvalidDimensions, i)
		}
		if p.Stride < p.Width || len(p.Data) < (p.Height-1)*p.Stride+p.Width {
			return fmt.Errorf("%w: plane %d buffer too small", ErrInvalidDimensions, i)
		}
	}
	return nil
}

// Fill sets every sample of every plane to v.
func (f *Frame[T]) Fill(v T) {
	for _, p := range f.Planes {
		p.Fill(v)
	}
}
