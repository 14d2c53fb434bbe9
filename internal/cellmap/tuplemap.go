package cellmap

import (
	"iter"

	"github.com/google/btree"

	"github.com/hupe1980/geocell/internal/cellkey"
	"github.com/hupe1980/geocell/model"
)

type tupleEntry struct {
	key   cellkey.TupleKey
	cells Covering
}

func lessTupleEntry(a, b tupleEntry) bool {
	return a.key.Compare(b.key) < 0
}

// TupleMap maps rows to their cached coverings.
type TupleMap struct {
	tree *btree.BTreeG[tupleEntry]
}

// NewTupleMap creates an empty tuple map.
func NewTupleMap() *TupleMap {
	return &TupleMap{tree: btree.NewG[tupleEntry](degree, lessTupleEntry)}
}

// Insert stores the covering of row. It returns false if row was already present,
// in which case the stored covering is left unchanged.
func (m *TupleMap) Insert(row model.RowHandle, cells Covering) bool {
	e := tupleEntry{key: cellkey.Tuple(row), cells: cells}
	if m.tree.Has(e) {
		return false
	}
	m.tree.ReplaceOrInsert(e)
	return true
}

// Find returns the covering stored for row.
func (m *TupleMap) Find(row model.RowHandle) (Covering, bool) {
	e, ok := m.tree.Get(tupleEntry{key: cellkey.Tuple(row)})
	return e.cells, ok
}

// Erase removes row. It returns false if row was absent.
func (m *TupleMap) Erase(row model.RowHandle) bool {
	_, ok := m.tree.Delete(tupleEntry{key: cellkey.Tuple(row)})
	return ok
}

// Len returns the number of rows.
func (m *TupleMap) Len() int {
	return m.tree.Len()
}

// Clear removes all rows.
func (m *TupleMap) Clear() {
	m.tree.Clear(false)
}

// All yields every (row, covering) pair in row order.
func (m *TupleMap) All() iter.Seq2[model.RowHandle, Covering] {
	return func(yield func(model.RowHandle, Covering) bool) {
		m.tree.Ascend(func(e tupleEntry) bool {
			return yield(cellkey.TupleRow(e.key), e.cells)
		})
	}
}
