// Package model defines the identity types shared by the index, the row
// storage and the key codec.
//
// # Identity Types
//
//   - RowHandle: opaque, stable identity of one stored row version (uint64)
//   - NullHandle: the zero handle, never assigned to a row
//
// A RowHandle is the join key between the cell map and the tuple map. Row
// relocation produces a new handle; the index is told about the move
// explicitly instead of tracking storage addresses.
package model
