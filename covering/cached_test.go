package covering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCached(t *testing.T) {
	counting := NewCounting(S2{})
	c := NewCached(counting, 4)

	poly := rect(t, 40, -74.1, 40.1, -74.0)
	first := c.Cover(poly, defaultParams)
	assertWellFormed(t, first, defaultParams)

	second := c.Cover(poly, defaultParams)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), counting.Calls())

	// Callers own the returned slice.
	second[0] = 0
	assert.Equal(t, first, c.Cover(poly, defaultParams))

	coarse := Params{MinLevel: 0, MaxLevel: 8, LevelMod: 2, MaxCells: 4}
	c.Cover(poly, coarse)
	assert.Equal(t, int64(2), counting.Calls(), "params are part of the key")

	// An equal polygon with separate storage is a different key.
	c.Cover(rect(t, 40, -74.1, 40.1, -74.0), defaultParams)
	assert.Equal(t, int64(3), counting.Calls())

	c.Forget(poly)
	c.Cover(poly, defaultParams)
	assert.Equal(t, int64(4), counting.Calls())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(4), misses)

	assert.Nil(t, c.Cover(nil, defaultParams))
}
