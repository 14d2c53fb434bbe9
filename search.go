package geocell

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
)

type searchOptions struct {
	dedup bool
}

// SearchOption configures Search.
type SearchOption func(*searchOptions)

// WithDedup suppresses rows already yielded by the same search.
//
// The cursor protocol itself yields a row once per matching covering cell.
// Coverings produced by the region coverer never hold a cell together with
// its ancestor, so duplicates only arise from custom coverers.
func WithDedup() SearchOption {
	return func(o *searchOptions) {
		o.dedup = true
	}
}

// Search yields the candidate rows whose covering may contain pt, finest
// matching level first. Candidates are not refined against the polygon; use
// geo.Geography.ContainsPoint for exact containment.
//
// The index must not be modified while the sequence is being consumed.
func (idx *Index) Search(pt geo.Point, optFns ...SearchOption) iter.Seq[model.RowHandle] {
	var o searchOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	return func(yield func(model.RowHandle) bool) {
		var c Cursor
		if !idx.BeginSearch(pt, &c) {
			return
		}

		var seen *roaring64.Bitmap
		if o.dedup {
			seen = roaring64.New()
		}

		for !c.Empty() {
			row := idx.Advance(&c)
			if seen != nil && !seen.CheckedAdd(uint64(row)) {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}
