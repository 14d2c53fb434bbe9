package cellmap

import (
	"github.com/golang/geo/s2"
)

// MaxCellCount is the capacity of a Covering.
const MaxCellCount = 8

// Sentinel marks an unused Covering slot.
const Sentinel = s2.SentinelCellID

// Covering is the fixed-capacity, sentinel-terminated cell set of one row.
type Covering [MaxCellCount]s2.CellID

// NewCovering builds a Covering from cells, padding unused slots with Sentinel.
// Cells beyond MaxCellCount are ignored; callers enforce the capacity first.
func NewCovering(cells []s2.CellID) Covering {
	var c Covering
	for i := range c {
		if i < len(cells) {
			c[i] = cells[i]
		} else {
			c[i] = Sentinel
		}
	}
	return c
}

// Len returns the number of cells before the first Sentinel.
func (c Covering) Len() int {
	for i, cell := range c {
		if cell == Sentinel {
			return i
		}
	}
	return MaxCellCount
}

// Cells returns the cells before the first Sentinel.
func (c Covering) Cells() []s2.CellID {
	return append([]s2.CellID(nil), c[:c.Len()]...)
}

// Contains reports whether cell appears anywhere in the covering.
func (c Covering) Contains(cell s2.CellID) bool {
	for _, x := range c {
		if x == cell {
			return true
		}
	}
	return false
}
