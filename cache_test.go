package tdeint

import (
	"sync"
	"testing"

	"github.com/opd-ai/tdeint/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskCache_GetPut(t *testing.T) {
	c := newMaskCache[uint8](4)
	m := frame.NewFrame[uint8](frame.Gray8, 8, 4)

	_, ok := c.get(maskKey{parity: 0, index: 1})
	assert.False(t, ok)

	stored := c.put(maskKey{parity: 0, index: 1}, m)
	assert.Same(t, m, stored)

	got, ok := c.get(maskKey{parity: 0, index: 1})
	require.True(t, ok)
	assert.Same(t, m, got)

	_, ok = c.get(maskKey{parity: 1, index: 1})
	assert.False(t, ok, "parities are cached separately")

	hits, misses := c.stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestMaskCache_KeepsFirstStored(t *testing.T) {
	c := newMaskCache[uint8](4)
	first := frame.NewFrame[uint8](frame.Gray8, 8, 4)
	second := frame.NewFrame[uint8](frame.Gray8, 8, 4)

	c.put(maskKey{index: 3}, first)
	assert.Same(t, first, c.put(maskKey{index: 3}, second))

	got, ok := c.get(maskKey{index: 3})
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestMaskCache_EvictsOldest(t *testing.T) {
	c := newMaskCache[uint8](3)
	for i := 0; i < 5; i++ {
		c.put(maskKey{index: i}, frame.NewFrame[uint8](frame.Gray8, 8, 4))
	}

	for i := 0; i < 2; i++ {
		_, ok := c.get(maskKey{index: i})
		assert.False(t, ok, "index %d should be evicted", i)
	}
	for i := 2; i < 5; i++ {
		_, ok := c.get(maskKey{index: i})
		assert.True(t, ok, "index %d should be cached", i)
	}
	assert.Len(t, c.entries, 3)
	assert.Len(t, c.order, 3)
}

func TestMaskCache_ConcurrentPut(t *testing.T) {
	c := newMaskCache[uint8](8)
	results := make([]*frame.Frame[uint8], 16)

	var wg sync.WaitGroup
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			results[g] = c.put(maskKey{index: 7}, frame.NewFrame[uint8](frame.Gray8, 8, 4))
		}(g)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
