// Package refine post-processes a decision grid before reconstruction.
//
// The refiners run in a fixed order: the spatial check demotes Interpolate
// codes where the source shows no combing, expansion widens the remaining
// Interpolate runs horizontally, and linking propagates luma decisions to
// the chroma planes.
package refine

import (
	"errors"
	"fmt"

	"github.com/opd-ai/tdeint/frame"
)

// ErrNilFrame is returned when a refiner receives a nil source or mask.
var ErrNilFrame = errors.New("frame cannot be nil")

// Refiner rewrites decision codes in mask in place.
type Refiner[T frame.Sample] interface {
	// Apply refines mask for the rows of parity field, reading src as needed.
	Apply(src, mask *frame.Frame[T], field int) error
	// Name returns the refiner name for identification.
	Name() string
}

// Chain manages multiple refiners applied in sequence.
type Chain[T frame.Sample] struct {
	refiners []Refiner[T]
}

// NewChain creates an empty refiner chain.
func NewChain[T frame.Sample]() *Chain[T] {
	return &Chain[T]{
		refiners: make([]Refiner[T], 0, 3),
	}
}

// Add appends a refiner to the chain.
func (c *Chain[T]) Add(r Refiner[T]) {
	c.refiners = append(c.refiners, r)
}

// Apply runs every refiner on mask in order.
func (c *Chain[T]) Apply(src, mask *frame.Frame[T], field int) error {
	if src == nil || mask == nil {
		return ErrNilFrame
	}

	for i, r := range c.refiners {
		if err := r.Apply(src, mask, field); err != nil {
			return fmt.Errorf("refiner %d (%s) failed: %w", i, r.Name(), err)
		}
	}
	return nil
}

// Len returns the number of refiners in the chain.
func (c *Chain[T]) Len() int {
	return len(c.refiners)
}

// Names returns the refiner names in application order.
func (c *Chain[T]) Names() []string {
	names := make([]string, len(c.refiners))
	for i, r := range c.refiners {
		names[i] = r.Name()
	}
	return names
}

// Clear removes all refiners from the chain.
func (c *Chain[T]) Clear() {
	c.refiners = c.refiners[:0]
}
