package temporal

import (
	"errors"
	"fmt"

	"github.com/opd-ai/tdeint/limits"
)

// ErrInvalidMotionType indicates a motion type outside MType0..MType2.
var ErrInvalidMotionType = errors.New("invalid motion type")

// MotionType selects how strict the temporal pattern matching is.
type MotionType int

// Motion types, from most to least permissive about using neighbouring
// fields.
const (
	MType0 MotionType = iota
	MType1
	MType2
)

var vlutMType0 = [64]uint8{
	0, 1, 2, 2, 3, 0, 2, 2,
	1, 1, 2, 2, 0, 1, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	3, 0, 2, 2, 3, 3, 2, 2,
	0, 1, 2, 2, 3, 1, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
}

var vlutMType1 = [64]uint8{
	0, 0, 2, 2, 0, 0, 2, 2,
	0, 1, 2, 2, 0, 1, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	0, 0, 2, 2, 3, 3, 2, 2,
	0, 1, 2, 2, 3, 1, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
}

var vlutMType2 = [64]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 1, 0, 1, 0, 1, 0, 1,
	0, 0, 2, 2, 0, 0, 2, 2,
	0, 1, 2, 2, 0, 1, 2, 2,
	0, 0, 0, 0, 3, 3, 3, 3,
	0, 1, 0, 1, 3, 1, 3, 1,
	0, 0, 2, 2, 3, 3, 2, 2,
	0, 1, 2, 2, 3, 1, 2, 2,
}

// tmmlut16 maps (order, field, pattern class) to a decision code.
var tmmlut16 = [16]Code{
	60, 20, 50, 10, 60, 10, 40, 30,
	60, 10, 40, 30, 60, 20, 50, 10,
}

// Valid reports whether m is one of the defined motion types.
func (m MotionType) Valid() bool {
	return m >= MType0 && m <= MType2
}

// vlut returns the pattern classification table of m.
func (m MotionType) vlut() [64]uint8 {
	switch m {
	case MType0:
		return vlutMType0
	case MType2:
		return vlutMType2
	default:
		return vlutMType1
	}
}

// Tables holds the immutable lookup tables for one motion type and period
// length.
type Tables struct {
	length int
	gvlut  []uint8
	vlut   [64]uint8
}

// NewTables builds the tables for mtype and a static period of length
// fields.
func NewTables(mtype MotionType, length int) (*Tables, error) {
	if !mtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMotionType, int(mtype))
	}
	if err := limits.ValidateMin("length", length, limits.MinLength); err != nil {
		return nil, err
	}

	gvlut := make([]uint8, length)
	for i := range gvlut {
		switch i {
		case 0:
			gvlut[i] = 1
		case length - 1:
			gvlut[i] = 4
		default:
			gvlut[i] = 2
		}
	}

	return &Tables{length: length, gvlut: gvlut, vlut: mtype.vlut()}, nil
}

// Length returns the static period length.
func (tb *Tables) Length() int {
	return tb.length
}

// final returns the pattern-to-code table for the given order and field.
func (tb *Tables) final(order, field int) [64]Code {
	var out [64]Code
	base := order*8 + field*4
	for i := range out {
		out[i] = tmmlut16[base+int(tb.vlut[i])]
	}
	return out
}
