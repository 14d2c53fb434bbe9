package geocell_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocell"
	"github.com/hupe1980/geocell/covering"
	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
	"github.com/hupe1980/geocell/table"
	"github.com/hupe1980/geocell/testutil"
)

// containing refines the index candidates to rows whose polygon holds pt.
func containing(tb *table.Table, idx *geocell.Index, pt geo.Point) []model.RowHandle {
	var out []model.RowHandle
	for h := range idx.Search(pt, geocell.WithDedup()) {
		row, ok := tb.Get(h)
		if ok && row.Geography(idx.Column()).ContainsPoint(pt) {
			out = append(out, h)
		}
	}
	return out
}

func newIndexedTable(t *testing.T, optFns ...geocell.Option) (*table.Table, *geocell.Index) {
	t.Helper()
	tb := table.New(2)
	idx, err := geocell.New(1, optFns...)
	require.NoError(t, err)
	require.NoError(t, tb.AddIndex(idx))
	return tb, idx
}

func TestLifecycle(t *testing.T) {
	cached := covering.NewCached(covering.S2{}, 16)
	tb, idx := newIndexedTable(t, geocell.WithCoverer(cached))
	check := func() {
		t.Helper()
		require.NoError(t, idx.CheckValidity(tb))
	}

	manhattan, err := geo.RectFromDegrees(40.70, -74.02, 40.80, -73.93)
	require.NoError(t, err)
	brooklyn, err := geo.RectFromDegrees(40.57, -74.04, 40.70, -73.85)
	require.NoError(t, err)
	pt := geo.PointFromDegrees(40.75, -73.98)

	h1, err := tb.Insert("manhattan", manhattan)
	require.NoError(t, err)
	h2, err := tb.Insert("unknown", nil)
	require.NoError(t, err)
	h3, err := tb.Insert("brooklyn", brooklyn)
	require.NoError(t, err)
	check()
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []model.RowHandle{h1}, containing(tb, idx, pt))

	// Rename only; the geography keeps its storage.
	require.NoError(t, tb.Update(h1, "new york", manhattan))
	check()

	// Null to value. The shared polygon is covered only once.
	require.NoError(t, tb.Update(h2, "also manhattan", manhattan))
	check()
	hits, _ := cached.Stats()
	assert.Equal(t, int64(1), hits)
	assert.ElementsMatch(t, []model.RowHandle{h1, h2}, containing(tb, idx, pt))

	// Value to null.
	require.NoError(t, tb.Update(h1, "gone", nil))
	check()
	assert.Equal(t, []model.RowHandle{h2}, containing(tb, idx, pt))

	moved, err := tb.Move(h2)
	require.NoError(t, err)
	check()
	assert.Equal(t, []model.RowHandle{moved}, containing(tb, idx, pt))

	remap, err := tb.Compact()
	require.NoError(t, err)
	check()
	assert.Len(t, remap, 3)
	assert.Equal(t, []model.RowHandle{remap[moved]}, containing(tb, idx, pt))

	require.NoError(t, tb.Delete(remap[h3]))
	require.NoError(t, tb.Delete(remap[moved]))
	check()
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.NumCells())
	assert.Empty(t, slices.Collect(idx.Search(pt)))
}

// indexedRows counts the stored rows with a non-null geography in column 1.
func indexedRows(tb *table.Table) int {
	n := 0
	for row := range tb.Scan() {
		if !row.Geography(1).IsNull() {
			n++
		}
	}
	return n
}

func TestRandomMutations(t *testing.T) {
	rng := testutil.NewRNG(4711)

	// Polygons in rejected get no covering, so adding them fails.
	rejected := make(map[*s2.Polygon]bool)
	coverer := covering.Func(func(poly *s2.Polygon, p covering.Params) []s2.CellID {
		if rejected[poly] {
			return nil
		}
		return covering.S2{}.Cover(poly, p)
	})
	tb, idx := newIndexedTable(t, geocell.WithCoverer(coverer))

	isRejected := func(v any) bool {
		g, ok := v.(geo.Geography)
		return ok && rejected[g.Polygon()]
	}
	value := func() any {
		switch rng.Intn(6) {
		case 0:
			return nil
		case 1:
			g := rng.Rect(3)
			rejected[g.Polygon()] = true
			return g
		default:
			return rng.Rect(3)
		}
	}

	live := make(map[model.RowHandle]bool)
	pick := func() model.RowHandle {
		handles := slices.Sorted(maps.Keys(live))
		return handles[rng.Intn(len(handles))]
	}

	for step := range 400 {
		op := rng.Intn(10)
		if len(live) == 0 {
			op = 0
		}
		switch {
		case op < 3:
			v := value()
			h, err := tb.Insert("row", v)
			if isRejected(v) {
				require.ErrorIs(t, err, geocell.ErrEmptyCovering, "step %d", step)
				break
			}
			require.NoError(t, err, "step %d", step)
			live[h] = true
		case op < 5:
			h := pick()
			before, _ := tb.Get(h)
			v := value()
			err := tb.Update(h, "row", v)
			if isRejected(v) {
				require.ErrorIs(t, err, geocell.ErrEmptyCovering, "step %d", step)
				after, _ := tb.Get(h)
				assert.True(t, after.Geography(1).SameStorage(before.Geography(1)), "step %d", step)
				break
			}
			require.NoError(t, err, "step %d", step)
		case op == 5:
			// Share the geography of another row.
			h, other := pick(), pick()
			src, _ := tb.Get(other)
			require.NoError(t, tb.Update(h, "copy", src.Value(1)), "step %d", step)
		case op < 8:
			h := pick()
			require.NoError(t, tb.Delete(h), "step %d", step)
			delete(live, h)
		case op == 8:
			h := pick()
			nh, err := tb.Move(h)
			require.NoError(t, err, "step %d", step)
			delete(live, h)
			live[nh] = true
		default:
			remap, err := tb.Compact()
			require.NoError(t, err, "step %d", step)
			live = make(map[model.RowHandle]bool, len(remap))
			for _, nh := range remap {
				live[nh] = true
			}
		}

		require.NoError(t, idx.CheckValidity(tb), "step %d", step)
		require.Equal(t, tb.Len(), len(live), "step %d", step)
		require.Equal(t, indexedRows(tb), idx.Len(), "step %d", step)
	}

	for h := range live {
		require.NoError(t, tb.Delete(h))
	}
	require.NoError(t, idx.CheckValidity(tb))
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.NumCells())
}
