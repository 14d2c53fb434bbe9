package model

import "fmt"

// RowHandle identifies the storage slot of one row version.
// It is assigned by the row storage and stays valid until the row is deleted
// or relocated.
type RowHandle uint64

// NullHandle is the reserved "no row" handle.
const NullHandle RowHandle = 0

// IsNull reports whether h is the reserved null handle.
func (h RowHandle) IsNull() bool {
	return h == NullHandle
}

// String returns a string representation of the handle.
func (h RowHandle) String() string {
	if h.IsNull() {
		return "Row(null)"
	}
	return fmt.Sprintf("Row(%d)", h)
}
