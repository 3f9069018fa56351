package frame

import "context"

// SeparateField returns a new frame holding the rows of f whose index has
// the given parity (0 = top field, 1 = bottom field). Each plane's height is
// halved.
func SeparateField[T Sample](f *Frame[T], parity int) *Frame[T] {
	out := &Frame[T]{
		Format: f.Format,
		Width:  f.Width,
		Height: f.Height / 2,
		Planes: make([]*Plane[T], len(f.Planes)),
		Props:  f.Props.Clone(),
	}
	for i, p := range f.Planes {
		fp := NewPlane[T](p.Width, p.Height/2)
		for y := 0; y < fp.Height; y++ {
			copy(fp.Row(y), p.Row(2*y+parity))
		}
		out.Planes[i] = fp
	}
	out.Props.Set(PropFieldBased, FieldProgressive)
	return out
}

// FieldSource exposes one field of every frame of a clip as its own clip.
// Frame n of a FieldSource with parity 0 is the top field of frame n.
type FieldSource[T Sample] struct {
	src    Source[T]
	parity int
}

// NewFieldSource wraps src, selecting fields of the given parity.
func NewFieldSource[T Sample](src Source[T], parity int) *FieldSource[T] {
	return &FieldSource[T]{src: src, parity: parity}
}

// Info returns the clip description with the height halved.
func (s *FieldSource[T]) Info() VideoInfo {
	vi := s.src.Info()
	vi.Height /= 2
	return vi
}

// GetFrame returns the selected field of frame n.
func (s *FieldSource[T]) GetFrame(ctx context.Context, n int) (*Frame[T], error) {
	f, err := s.src.GetFrame(ctx, n)
	if err != nil {
		return nil, err
	}
	return SeparateField(f, s.parity), nil
}
