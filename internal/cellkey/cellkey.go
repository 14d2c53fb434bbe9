// Package cellkey encodes the fixed-width keys of the cell map and the tuple map.
//
// A cell key is the big-endian cell id followed by the big-endian row handle,
// so byte order equals (cell, row) order. A prefix key leaves the row bytes
// zero and sorts before every entry of its cell.
package cellkey

import (
	"bytes"
	"encoding/binary"

	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/model"
)

const (
	// CellKeySize is the encoded size of a cell map key.
	CellKeySize = 16
	// TupleKeySize is the encoded size of a tuple map key.
	TupleKeySize = 8
)

// CellKey is an encoded (cell id, row handle) pair.
type CellKey [CellKeySize]byte

// TupleKey is an encoded row handle.
type TupleKey [TupleKeySize]byte

// Cell encodes a cell map key.
func Cell(cell s2.CellID, row model.RowHandle) CellKey {
	var k CellKey
	binary.BigEndian.PutUint64(k[:8], uint64(cell))
	binary.BigEndian.PutUint64(k[8:], uint64(row))
	return k
}

// CellPrefix encodes the lower bound of all keys for cell.
func CellPrefix(cell s2.CellID) CellKey {
	return Cell(cell, model.NullHandle)
}

// Tuple encodes a tuple map key.
func Tuple(row model.RowHandle) TupleKey {
	var k TupleKey
	binary.BigEndian.PutUint64(k[:], uint64(row))
	return k
}

// CellID extracts the cell id of a cell key.
func CellID(k CellKey) s2.CellID {
	return s2.CellID(binary.BigEndian.Uint64(k[:8]))
}

// CellRow extracts the row handle of a cell key.
func CellRow(k CellKey) model.RowHandle {
	return model.RowHandle(binary.BigEndian.Uint64(k[8:]))
}

// TupleRow extracts the row handle of a tuple key.
func TupleRow(k TupleKey) model.RowHandle {
	return model.RowHandle(binary.BigEndian.Uint64(k[:]))
}

// Compare orders cell keys byte-wise.
func (k CellKey) Compare(o CellKey) int {
	return bytes.Compare(k[:], o[:])
}

// HasPrefix reports whether k belongs to cell.
func (k CellKey) HasPrefix(cell s2.CellID) bool {
	return CellID(k) == cell
}

// Compare orders tuple keys byte-wise.
func (k TupleKey) Compare(o TupleKey) int {
	return bytes.Compare(k[:], o[:])
}
