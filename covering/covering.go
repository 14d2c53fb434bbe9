// Package covering provides the cell covering service consumed by the index.
//
// A Coverer approximates a polygon by at most Params.MaxCells S2 cells whose
// levels lie in [MinLevel, MaxLevel] and are congruent to MinLevel modulo
// LevelMod. Implementations must be safe for concurrent use; the index bulk
// loader calls Cover from several goroutines.
package covering

import (
	"slices"
	"sync/atomic"

	"github.com/golang/geo/s2"
)

// Params bounds a covering.
type Params struct {
	MinLevel int
	MaxLevel int
	LevelMod int
	MaxCells int
}

// Coverer computes cell coverings.
type Coverer interface {
	Cover(poly *s2.Polygon, p Params) []s2.CellID
}

// Func adapts a function to the Coverer interface.
type Func func(poly *s2.Polygon, p Params) []s2.CellID

// Cover implements Coverer.
func (f Func) Cover(poly *s2.Polygon, p Params) []s2.CellID {
	return f(poly, p)
}

// S2 covers polygons with s2.RegionCoverer.
type S2 struct{}

// Cover implements Coverer.
//
// The region coverer may exceed MaxCells after expanding cells to the allowed
// levels; in that case the deepest cells are replaced by their ancestors until
// the covering fits. Coarser cells only grow the covered area. The result
// still exceeds MaxCells when the polygon spans more than MaxCells cells at
// MinLevel, which cannot happen for MinLevel 0 and MaxCells >= 6.
func (S2) Cover(poly *s2.Polygon, p Params) []s2.CellID {
	if poly == nil || poly.IsEmpty() {
		return nil
	}
	rc := &s2.RegionCoverer{
		MinLevel: p.MinLevel,
		MaxLevel: p.MaxLevel,
		LevelMod: p.LevelMod,
		MaxCells: p.MaxCells,
	}
	cells := []s2.CellID(rc.Covering(poly))
	if len(cells) > p.MaxCells {
		cells = Coarsen(cells, p)
	}
	return cells
}

// Coarsen lifts the deepest cells to their ancestor LevelMod levels up, and
// drops cells covered by others, until at most MaxCells remain or every cell
// sits at MinLevel. The result is sorted by cell id.
func Coarsen(cells []s2.CellID, p Params) []s2.CellID {
	step := max(p.LevelMod, 1)
	out := slices.Clone(cells)
	for len(out) > p.MaxCells {
		deepest := p.MinLevel
		for _, c := range out {
			deepest = max(deepest, c.Level())
		}
		if deepest-step < p.MinLevel {
			break
		}
		for i, c := range out {
			if c.Level() == deepest {
				out[i] = c.Parent(deepest - step)
			}
		}
		out = dropCovered(out)
	}
	slices.Sort(out)
	return out
}

// dropCovered removes duplicates and cells contained in another cell.
func dropCovered(cells []s2.CellID) []s2.CellID {
	kept := make([]s2.CellID, 0, len(cells))
	for i, c := range cells {
		covered := false
		for j, o := range cells {
			if o == c {
				if j < i {
					covered = true
					break
				}
				continue
			}
			if o.Contains(c) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, c)
		}
	}
	return kept
}

// Static returns fixed coverings keyed by polygon identity.
// Polygons without an entry get an empty covering.
type Static map[*s2.Polygon][]s2.CellID

// Cover implements Coverer. Params are ignored.
func (s Static) Cover(poly *s2.Polygon, _ Params) []s2.CellID {
	return slices.Clone(s[poly])
}

// Counting wraps a Coverer and counts Cover calls.
type Counting struct {
	Coverer Coverer
	calls   atomic.Int64
}

// NewCounting wraps c.
func NewCounting(c Coverer) *Counting {
	return &Counting{Coverer: c}
}

// Cover implements Coverer.
func (c *Counting) Cover(poly *s2.Polygon, p Params) []s2.CellID {
	c.calls.Add(1)
	return c.Coverer.Cover(poly, p)
}

// Calls returns the number of Cover calls so far.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}
