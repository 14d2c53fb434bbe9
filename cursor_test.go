package geocell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
)

func TestCursor_SingleRow(t *testing.T) {
	f := newFixture(t)
	a := f.add(1, f.at(6))

	var c Cursor
	require.True(t, f.idx.BeginSearch(f.pt, &c))
	assert.False(t, c.Empty())
	assert.True(t, c.Forward())
	assert.Equal(t, model.RowHandle(1), c.Match())

	assert.Equal(t, model.RowHandle(1), f.idx.Advance(&c))
	assert.True(t, c.Empty())
	assert.Equal(t, model.NullHandle, f.idx.Advance(&c))

	require.NoError(t, f.idx.DeleteEntry(a))
	assert.False(t, f.idx.BeginSearch(f.pt, &c))
	assert.True(t, c.Empty())
}

func TestCursor_SharedCellInHandleOrder(t *testing.T) {
	f := newFixture(t)
	f.add(2, f.at(4))
	f.add(1, f.at(4))

	assert.Equal(t, []model.RowHandle{1, 2}, f.search())
}

func TestCursor_FinestLevelFirst(t *testing.T) {
	f := newFixture(t)
	f.add(3, f.at(0))
	f.add(1, f.at(16))
	f.add(2, f.at(8))
	f.add(4, f.at(8).Next())
	f.add(5, f.at(16).Next())

	assert.Equal(t, []model.RowHandle{1, 2, 3}, f.search())
}

func TestCursor_CustomLevels(t *testing.T) {
	f := newFixture(t, WithLevels(4, 12, 4))
	f.add(1, f.at(8))

	var c Cursor
	require.True(t, f.idx.BeginSearch(f.pt, &c))
	assert.Equal(t, model.RowHandle(1), f.idx.Advance(&c))
	assert.True(t, c.Empty())
}

func TestCursor_NoMatch(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(6).Next())

	var c Cursor
	assert.False(t, f.idx.BeginSearch(f.pt, &c))
	assert.True(t, c.Empty())
	assert.Equal(t, model.NullHandle, c.Match())
	assert.Equal(t, model.NullHandle, f.idx.Advance(&c))
}

func TestCursor_NullPoint(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(0))

	var c Cursor
	assert.False(t, f.idx.BeginSearch(geo.NullPoint(), &c))
	assert.True(t, c.Empty())
}

func TestCursor_RestartClearsPreviousState(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(6))
	f.add(2, f.at(6))

	var c Cursor
	require.True(t, f.idx.BeginSearch(f.pt, &c))
	f.idx.Advance(&c)
	require.False(t, c.Empty())

	assert.False(t, f.idx.BeginSearch(geo.PointFromDegrees(-40, 120), &c))
	assert.True(t, c.Empty())
	assert.Equal(t, model.NullHandle, c.Match())
}

func TestCursor_RowAtSeveralLevels(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(10), f.at(2))
	f.add(2, f.at(6))

	assert.Equal(t, []model.RowHandle{1, 2, 1}, f.search())
	assert.Equal(t, []model.RowHandle{1, 2}, f.search(WithDedup()))
}

func TestSearch_EarlyBreak(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(12))
	f.add(2, f.at(10))
	f.add(3, f.at(2))

	var got []model.RowHandle
	for row := range f.idx.Search(f.pt) {
		got = append(got, row)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []model.RowHandle{1, 2}, got)
}

func TestSearch_Empty(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.search())
	assert.Empty(t, f.search(WithDedup(), nil))
}

func TestCursor_ContinuesAfterDelete(t *testing.T) {
	f := newFixture(t)
	a := f.add(1, f.at(10))
	f.add(2, f.at(6))
	f.add(3, f.at(6).Next())

	var c Cursor
	require.True(t, f.idx.BeginSearch(f.pt, &c))
	require.Equal(t, model.RowHandle(1), c.Match())

	// The active entry disappears; the cursor still walks the query
	// point's ancestors and reaches row 2, but never the sibling row 3.
	require.NoError(t, f.idx.DeleteEntry(a))

	assert.Equal(t, model.RowHandle(1), f.idx.Advance(&c))
	assert.Equal(t, model.RowHandle(2), c.Match())
	assert.Equal(t, model.RowHandle(2), f.idx.Advance(&c))
	assert.True(t, c.Empty())
}
