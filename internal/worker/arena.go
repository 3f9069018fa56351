// Package worker provides frame-parallel execution and per-worker scratch
// storage.
package worker

import "context"

// Arena hands out a fixed set of scratch values. A value is owned by one
// goroutine between Acquire and Release; the channel handoff is the only
// synchronization.
type Arena[S any] struct {
	slots chan S
	size  int
}

// NewArena creates an arena of n slots filled by alloc. n < 1 is treated
// as 1.
func NewArena[S any](n int, alloc func() S) *Arena[S] {
	if n < 1 {
		n = 1
	}
	a := &Arena[S]{
		slots: make(chan S, n),
		size:  n,
	}
	for i := 0; i < n; i++ {
		a.slots <- alloc()
	}
	return a
}

// Acquire blocks until a slot is free or ctx is done.
func (a *Arena[S]) Acquire(ctx context.Context) (S, error) {
	select {
	case s := <-a.slots:
		return s, nil
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// Release returns a slot obtained from Acquire.
func (a *Arena[S]) Release(s S) {
	a.slots <- s
}

// Size returns the number of slots.
func (a *Arena[S]) Size() int {
	return a.size
}

// Free returns the number of slots currently available.
func (a *Arena[S]) Free() int {
	return len(a.slots)
}
