package geocell

import (
	"github.com/hupe1980/geocell/internal/cellkey"
	"github.com/hupe1980/geocell/internal/cellmap"
)

// CheckValidity cross-checks the index against src and both maps against
// each other. It returns nil or a *ValidityError naming the first violation.
func (idx *Index) CheckValidity(src RowSource) error {
	err := idx.checkValidity(src)
	if err != nil {
		idx.logger.LogValidity(err)
		return err
	}
	return nil
}

func (idx *Index) checkValidity(src RowSource) *ValidityError {
	// Every stored row is indexed iff its geography is non-null.
	for t := range src.Scan() {
		isNull := t.Geography(idx.column).IsNull()
		_, indexed := idx.tuples.Find(t.Handle())
		if !indexed && !isNull {
			return invalid("found non-null polygon not in tuple map")
		}
		if indexed && isNull {
			return invalid("found null polygon in tuple map")
		}
	}

	// Every tuple map entry is a stored row with a cell entry per cell.
	n := 0
	for row, cov := range idx.tuples.All() {
		if _, ok := src.Row(row); !ok {
			return invalid("tuple map entry references a row missing from storage")
		}

		i := 0
		for ; i < cellmap.MaxCellCount; i++ {
			if cov[i] == cellmap.Sentinel {
				if i == 0 {
					return invalid("should have at least one valid cell")
				}
				break
			}
			v, ok := idx.cells.Find(cov[i], row)
			if !ok {
				return invalid("could not find cell entry for existing %d-th tuple at cell %d", n, i)
			}
			if v != row {
				return invalid("value in cell map entry doesn't match expected")
			}
		}

		for ; i < cellmap.MaxCellCount; i++ {
			if cov[i] != cellmap.Sentinel {
				return invalid("found non-sentinel cell after sentinel indicating end of cells")
			}
			if _, ok := idx.cells.Find(cov[i], row); ok {
				return invalid("found sentinel cell in cell map")
			}
		}
		n++
	}

	// Every cell map entry belongs to a covering in the tuple map.
	for key, row := range idx.cells.All() {
		if cellkey.CellRow(key) != row {
			return invalid("value in cell map entry doesn't match expected")
		}
		cov, ok := idx.tuples.Find(row)
		if !ok {
			return invalid("did not find tuple from cell map in tuple map")
		}
		if !cov.Contains(cellkey.CellID(key)) {
			return invalid("did not find cell from cell map in tuple map")
		}
	}

	return nil
}
