package geocell

import (
	"context"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
)

// sliceSource yields rows verbatim, duplicates included.
type sliceSource []testRow

func (s sliceSource) Scan() iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		for _, r := range s {
			if !yield(r) {
				return
			}
		}
	}
}

func (s sliceSource) Row(h model.RowHandle) (Tuple, bool) {
	for _, r := range s {
		if r.h == h {
			return r, true
		}
	}
	return nil, false
}

func TestBuild(t *testing.T) {
	mc := &BasicMetricsCollector{}
	idx, err := New(0, WithBuildConcurrency(2), WithMetricsCollector(mc))
	require.NoError(t, err)

	src := newTestSource(
		testRow{h: 1, g: mustRect(t, 40, -74.1, 40.1, -74.0)},
		testRow{h: 2},
		testRow{h: 3, g: mustRect(t, 0, 0, 5, 5)},
		testRow{h: 4, g: mustRect(t, 39.9, -74.2, 40.2, -73.9)},
	)
	require.NoError(t, idx.Build(context.Background(), src))

	assert.Equal(t, 3, idx.Len())
	requireValid(t, idx, src)
	assert.Equal(t, int64(3), mc.GetStats().BuildRows)

	got := slices.Collect(idx.Search(geo.PointFromDegrees(40.05, -74.05), WithDedup()))
	assert.ElementsMatch(t, []model.RowHandle{1, 4}, got)
}

func TestBuild_ReplacesContents(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(6))

	fresh := f.row(7, f.at(10))
	src := newTestSource(fresh)
	require.NoError(t, f.idx.Build(context.Background(), src))

	assert.Equal(t, []model.RowHandle{7}, f.search())
	requireValid(t, f.idx, src)
}

func TestBuild_ErrorLeavesIndexUntouched(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(6))

	bad := newTestSource(f.row(5, f.at(8)), testRow{h: 6, g: mustRect(t, 1, 1, 2, 2)})
	err := f.idx.Build(context.Background(), bad)
	require.ErrorIs(t, err, ErrEmptyCovering)

	assert.Equal(t, []model.RowHandle{1}, f.search())
	requireValid(t, f.idx, f.src)
}

func TestBuild_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.add(1, f.at(6))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.idx.Build(ctx, newTestSource(f.row(5, f.at(8))))
	require.ErrorIs(t, err, context.Canceled)
	requireValid(t, f.idx, f.src)
}

func TestBuild_DuplicateHandle(t *testing.T) {
	f := newFixture(t)

	src := sliceSource{f.row(1, f.at(6)), f.row(1, f.at(8))}
	err := f.idx.Build(context.Background(), src)
	require.ErrorIs(t, err, ErrDuplicateRow)
	assert.Equal(t, 0, f.idx.Len())
}
