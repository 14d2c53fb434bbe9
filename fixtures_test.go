package geocell

import (
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocell/covering"
	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
)

// testRow is a row with a single geography column.
type testRow struct {
	h model.RowHandle
	g geo.Geography
}

func (r testRow) Handle() model.RowHandle { return r.h }

func (r testRow) Geography(col int) geo.Geography {
	if col != 0 {
		return geo.NullGeography()
	}
	return r.g
}

type testSource struct {
	rows map[model.RowHandle]testRow
}

func newTestSource(rows ...testRow) *testSource {
	s := &testSource{rows: make(map[model.RowHandle]testRow)}
	for _, r := range rows {
		s.put(r)
	}
	return s
}

func (s *testSource) put(r testRow)         { s.rows[r.h] = r }
func (s *testSource) del(h model.RowHandle) { delete(s.rows, h) }

func (s *testSource) Scan() iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		for _, h := range slices.Sorted(maps.Keys(s.rows)) {
			if !yield(s.rows[h]) {
				return
			}
		}
	}
}

func (s *testSource) Row(h model.RowHandle) (Tuple, bool) {
	r, ok := s.rows[h]
	return r, ok
}

func mustRect(t *testing.T, latLo, lngLo, latHi, lngHi float64) geo.Geography {
	t.Helper()
	g, err := geo.RectFromDegrees(latLo, lngLo, latHi, lngHi)
	require.NoError(t, err)
	return g
}

// fixture indexes rows whose coverings are chosen by the test.
type fixture struct {
	t      *testing.T
	idx    *Index
	static covering.Static
	src    *testSource
	pt     geo.Point
	leaf   s2.CellID
}

func newFixture(t *testing.T, optFns ...Option) *fixture {
	t.Helper()
	static := covering.Static{}
	idx, err := New(0, append([]Option{WithCoverer(static)}, optFns...)...)
	require.NoError(t, err)

	pt := geo.PointFromDegrees(40.7128, -74.0060)
	return &fixture{
		t:      t,
		idx:    idx,
		static: static,
		src:    newTestSource(),
		pt:     pt,
		leaf:   pt.LeafCell(),
	}
}

// row returns a row with a fresh polygon covered by cells.
func (f *fixture) row(h model.RowHandle, cells ...s2.CellID) testRow {
	g := mustRect(f.t, 40, -75, 41, -73)
	f.static[g.Polygon()] = cells
	return testRow{h: h, g: g}
}

// add indexes a row and stores it in the source.
func (f *fixture) add(h model.RowHandle, cells ...s2.CellID) testRow {
	r := f.row(h, cells...)
	require.NoError(f.t, f.idx.AddEntry(r))
	f.src.put(r)
	return r
}

// at returns the ancestor of the fixture point at level.
func (f *fixture) at(level int) s2.CellID {
	return f.leaf.Parent(level)
}

func (f *fixture) search(optFns ...SearchOption) []model.RowHandle {
	return slices.Collect(f.idx.Search(f.pt, optFns...))
}

func requireValid(t *testing.T, idx *Index, src RowSource) {
	t.Helper()
	require.NoError(t, idx.CheckValidity(src))
}

func requireAssertion(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected assertion panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.HasAssertionFailure(err), "got %v", err)
	}()
	fn()
}
