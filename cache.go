package tdeint

import (
	"sync"

	"github.com/opd-ai/tdeint/frame"
)

// maskKey identifies the static mask of one field: parity 0 is the top
// field clip, parity 1 the bottom field clip.
type maskKey struct {
	parity int
	index  int
}

// maskCache holds recently built field masks. Each field mask is read by
// length-2 neighbouring output frames, so a small window avoids rebuilding
// them. Cached frames are never modified.
type maskCache[T frame.Sample] struct {
	mu      sync.Mutex
	entries map[maskKey]*frame.Frame[T]
	order   []maskKey
	maxSize int
	hits    uint64
	misses  uint64
}

func newMaskCache[T frame.Sample](maxSize int) *maskCache[T] {
	return &maskCache[T]{
		entries: make(map[maskKey]*frame.Frame[T], maxSize),
		order:   make([]maskKey, 0, maxSize),
		maxSize: maxSize,
	}
}

// get returns the cached mask for k.
func (c *maskCache[T]) get(k maskKey) (*frame.Frame[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.entries[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

// put stores m under k, evicting the oldest entries once the cache is full.
// A concurrent builder that lost the race keeps the first stored mask.
func (c *maskCache[T]) put(k maskKey, m *frame.Frame[T]) *frame.Frame[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[k]; ok {
		return existing
	}
	c.entries[k] = m
	c.order = append(c.order, k)
	for len(c.order) > c.maxSize {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return m
}

// stats returns the hit and miss counters.
func (c *maskCache[T]) stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
