package covering

import (
	"slices"

	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/internal/cache"
)

type cacheKey struct {
	poly   *s2.Polygon
	params Params
}

// Cached memoizes the coverings of another Coverer by polygon identity.
//
// Geography values are immutable, so rows that share a value's storage share
// its covering. Polygons must not be modified after they were covered.
type Cached struct {
	inner Coverer
	lru   *cache.LRU[cacheKey, []s2.CellID]
}

// NewCached wraps c with an LRU of at most capacity coverings.
func NewCached(c Coverer, capacity int) *Cached {
	return &Cached{
		inner: c,
		lru:   cache.NewLRU[cacheKey, []s2.CellID](capacity),
	}
}

// Cover implements Coverer.
func (c *Cached) Cover(poly *s2.Polygon, p Params) []s2.CellID {
	if poly == nil {
		return nil
	}
	key := cacheKey{poly: poly, params: p}
	if cells, ok := c.lru.Get(key); ok {
		return slices.Clone(cells)
	}
	cells := c.inner.Cover(poly, p)
	c.lru.Set(key, slices.Clone(cells))
	return cells
}

// Forget drops the cached coverings of poly.
func (c *Cached) Forget(poly *s2.Polygon) {
	c.lru.Invalidate(func(k cacheKey) bool { return k.poly == poly })
}

// Stats returns cache hit and miss counts.
func (c *Cached) Stats() (hits, misses int64) {
	hits, misses, _ = c.lru.Stats()
	return hits, misses
}
