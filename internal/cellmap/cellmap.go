package cellmap

import (
	"iter"

	"github.com/golang/geo/s2"
	"github.com/google/btree"

	"github.com/hupe1980/geocell/internal/cellkey"
	"github.com/hupe1980/geocell/model"
)

// degree is the B-tree branching factor for both maps.
const degree = 16

type cellEntry struct {
	key cellkey.CellKey
	row model.RowHandle
}

func lessCellEntry(a, b cellEntry) bool {
	return a.key.Compare(b.key) < 0
}

// CellMap maps (cell, row) keys to rows.
type CellMap struct {
	tree *btree.BTreeG[cellEntry]
}

// NewCellMap creates an empty cell map.
func NewCellMap() *CellMap {
	return &CellMap{tree: btree.NewG[cellEntry](degree, lessCellEntry)}
}

// Insert adds (cell, row) -> row. It returns false if the key was already present.
func (m *CellMap) Insert(cell s2.CellID, row model.RowHandle) bool {
	_, replaced := m.tree.ReplaceOrInsert(cellEntry{key: cellkey.Cell(cell, row), row: row})
	return !replaced
}

// Find returns the value stored under (cell, row).
func (m *CellMap) Find(cell s2.CellID, row model.RowHandle) (model.RowHandle, bool) {
	e, ok := m.tree.Get(cellEntry{key: cellkey.Cell(cell, row)})
	if !ok {
		return model.NullHandle, false
	}
	return e.row, true
}

// Erase removes (cell, row). It returns false if the key was absent.
func (m *CellMap) Erase(cell s2.CellID, row model.RowHandle) bool {
	_, ok := m.tree.Delete(cellEntry{key: cellkey.Cell(cell, row)})
	return ok
}

// Len returns the number of entries.
func (m *CellMap) Len() int {
	return m.tree.Len()
}

// Clear removes all entries.
func (m *CellMap) Clear() {
	m.tree.Clear(false)
}

// EqualRange returns an iterator positioned at the first entry of cell.
// The iterator is exhausted immediately if no row is stored under cell.
func (m *CellMap) EqualRange(cell s2.CellID) Iterator {
	it := Iterator{m: m, cell: cell}
	it.seek(cellkey.CellPrefix(cell), true)
	return it
}

// All yields every entry as (key, row value) in key order.
func (m *CellMap) All() iter.Seq2[cellkey.CellKey, model.RowHandle] {
	return func(yield func(cellkey.CellKey, model.RowHandle) bool) {
		m.tree.Ascend(func(e cellEntry) bool {
			return yield(e.key, e.row)
		})
	}
}

// Iterator walks the equal range of one cell.
//
// The iterator holds the last visited key rather than a tree position, so it
// stays well defined if the map is modified between steps.
type Iterator struct {
	m     *CellMap
	cell  s2.CellID
	cur   cellEntry
	valid bool
}

// Valid reports whether the iterator points at an entry of its cell.
// An invalid iterator is equal to the end of the range.
func (it *Iterator) Valid() bool {
	return it.valid
}

// Cell returns the cell whose range the iterator walks.
func (it *Iterator) Cell() s2.CellID {
	return it.cell
}

// Key returns the key at the current position.
func (it *Iterator) Key() cellkey.CellKey {
	return it.cur.key
}

// Value returns the row stored at the current position.
func (it *Iterator) Value() model.RowHandle {
	return it.cur.row
}

// Next moves to the following entry of the same cell.
func (it *Iterator) Next() {
	if !it.valid {
		return
	}
	it.seek(it.cur.key, false)
}

func (it *Iterator) seek(pivot cellkey.CellKey, inclusive bool) {
	it.valid = false
	it.m.tree.AscendGreaterOrEqual(cellEntry{key: pivot}, func(e cellEntry) bool {
		if !inclusive && e.key == pivot {
			return true
		}
		if e.key.HasPrefix(it.cell) {
			it.cur = e
			it.valid = true
		}
		return false
	})
}
