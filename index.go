package geocell

import (
	"fmt"
	"iter"
	"time"

	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/covering"
	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/internal/cellmap"
	"github.com/hupe1980/geocell/model"
)

// Tuple is a read-only view of one stored row version.
type Tuple interface {
	// Handle returns the row's storage identity.
	Handle() model.RowHandle
	// Geography returns the geography value of column col; NULL for other types.
	Geography(col int) geo.Geography
}

// RowSource is the row storage an index is validated or rebuilt against.
type RowSource interface {
	// Scan yields every stored row.
	Scan() iter.Seq[Tuple]
	// Row rebinds a handle to its stored row.
	Row(h model.RowHandle) (Tuple, bool)
}

// Index is a covering cell index over one geography column.
//
// Every row with a non-null geography owns one tuple map entry holding its
// covering, and one cell map entry per covering cell. Index is not safe for
// concurrent use.
type Index struct {
	column  int
	opts    options
	params  covering.Params
	cells   *cellmap.CellMap
	tuples  *cellmap.TupleMap
	metrics MetricsCollector
	logger  *Logger
}

// New creates an empty index over geography column column.
func New(column int, optFns ...Option) (*Index, error) {
	if column < 0 {
		return nil, &ConfigError{Field: "column", Reason: fmt.Sprintf("%d is negative", column)}
	}
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Index{
		column:  column,
		opts:    opts,
		params:  opts.params(),
		cells:   cellmap.NewCellMap(),
		tuples:  cellmap.NewTupleMap(),
		metrics: opts.metricsCollector,
		logger:  opts.logger.WithColumn(column),
	}, nil
}

// Column returns the indexed column.
func (idx *Index) Column() int {
	return idx.column
}

// Params returns the covering parameters.
func (idx *Index) Params() covering.Params {
	return idx.params
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int {
	return idx.tuples.Len()
}

// NumCells returns the number of cell map entries.
func (idx *Index) NumCells() int {
	return idx.cells.Len()
}

// Covering returns the cached covering of row.
func (idx *Index) Covering(row model.RowHandle) ([]s2.CellID, bool) {
	cov, ok := idx.tuples.Find(row)
	if !ok {
		return nil, false
	}
	return cov.Cells(), true
}

// AddEntry indexes t. Rows with a NULL geography are not indexed.
// Duplicate geography values are allowed, so AddEntry never reports a conflict.
func (idx *Index) AddEntry(t Tuple) error {
	g := t.Geography(idx.column)
	if g.IsNull() {
		return nil
	}

	start := time.Now()
	row := t.Handle()
	cells := idx.opts.coverer.Cover(g.Polygon(), idx.params)
	cov, err := idx.toCovering(cells)
	if err == nil {
		err = idx.insert(row, cov)
	}
	if err != nil {
		err = fmt.Errorf("add %v: %w", row, err)
	}

	idx.metrics.RecordAdd(time.Since(start), len(cells), err)
	idx.logger.LogAdd(row, len(cells), err)
	return err
}

// DeleteEntry removes t from the index. NULL geographies are a no-op.
// A non-null row without a tuple map entry yields ErrNotFound.
func (idx *Index) DeleteEntry(t Tuple) error {
	if t.Geography(idx.column).IsNull() {
		return nil
	}

	start := time.Now()
	row := t.Handle()
	err := idx.remove(row)

	idx.metrics.RecordDelete(time.Since(start), err)
	idx.logger.LogDelete(row, err)
	return err
}

// ReplaceEntryNoKeyChange re-keys the entries of oldT under newT's handle.
// It is used when a row moves without a change to its geography; the cached
// covering is reused and the coverer is not called.
func (idx *Index) ReplaceEntryNoKeyChange(newT, oldT Tuple) error {
	if newT.Geography(idx.column).IsNull() {
		return nil
	}

	start := time.Now()
	from, to := oldT.Handle(), newT.Handle()
	err := idx.rekey(from, to)

	idx.metrics.RecordReplace(time.Since(start), err)
	idx.logger.LogReplace(from, to, err)
	return err
}

// CheckForIndexChange reports whether replacing lhs by rhs requires index work.
// It is false when both geographies are NULL or share storage, which includes
// comparing a row with itself.
func (idx *Index) CheckForIndexChange(lhs, rhs Tuple) bool {
	lg, rg := lhs.Geography(idx.column), rhs.Geography(idx.column)
	if lg.IsNull() && rg.IsNull() {
		return false
	}
	if lg.SameStorage(rg) {
		return false
	}
	return true
}

// toCovering validates coverer output and packs it into a Covering.
func (idx *Index) toCovering(cells []s2.CellID) (cellmap.Covering, error) {
	if len(cells) == 0 {
		return cellmap.Covering{}, ErrEmptyCovering
	}
	if len(cells) > idx.params.MaxCells {
		return cellmap.Covering{}, fmt.Errorf("%w: %d cells, limit %d", ErrCoveringOverflow, len(cells), idx.params.MaxCells)
	}
	for i, c := range cells {
		if !c.IsValid() {
			return cellmap.Covering{}, fmt.Errorf("%w: cell %d is not a valid cell id", ErrInvalidCell, i)
		}
		lvl := c.Level()
		if lvl < idx.params.MinLevel || lvl > idx.params.MaxLevel || (lvl-idx.params.MinLevel)%idx.params.LevelMod != 0 {
			return cellmap.Covering{}, fmt.Errorf("%w: cell %s at unsearchable level %d", ErrInvalidCell, c.ToToken(), lvl)
		}
		for _, prev := range cells[:i] {
			if prev == c {
				return cellmap.Covering{}, fmt.Errorf("%w: duplicate cell %s", ErrInvalidCell, c.ToToken())
			}
		}
	}
	return cellmap.NewCovering(cells), nil
}

func (idx *Index) insert(row model.RowHandle, cov cellmap.Covering) error {
	if !idx.tuples.Insert(row, cov) {
		return ErrDuplicateRow
	}
	for _, c := range cov.Cells() {
		if !idx.cells.Insert(c, row) {
			assertf("cell entry (%s, %d) exists for unindexed row", c.ToToken(), row)
		}
	}
	return nil
}

func (idx *Index) remove(row model.RowHandle) error {
	cov, ok := idx.tuples.Find(row)
	if !ok {
		return fmt.Errorf("delete %v: %w", row, ErrNotFound)
	}
	cells := cov.Cells()
	idx.mustHaveCells(row, cells)
	for _, c := range cells {
		idx.cells.Erase(c, row)
	}
	idx.tuples.Erase(row)
	return nil
}

func (idx *Index) rekey(from, to model.RowHandle) error {
	cov, ok := idx.tuples.Find(from)
	if !ok {
		return fmt.Errorf("replace %v: %w", from, ErrNotFound)
	}
	if from == to {
		return nil
	}
	if _, exists := idx.tuples.Find(to); exists {
		return fmt.Errorf("replace %v with %v: %w", from, to, ErrDuplicateRow)
	}
	cells := cov.Cells()
	idx.mustHaveCells(from, cells)
	for _, c := range cells {
		idx.cells.Erase(c, from)
		idx.cells.Insert(c, to)
	}
	idx.tuples.Erase(from)
	idx.tuples.Insert(to, cov)
	return nil
}

// mustHaveCells checks every (cell, row) entry before any is erased, so a
// corrupt index panics without being modified further.
func (idx *Index) mustHaveCells(row model.RowHandle, cells []s2.CellID) {
	if len(cells) == 0 {
		assertf("tuple map entry for row %d has no cells", row)
	}
	for _, c := range cells {
		v, ok := idx.cells.Find(c, row)
		if !ok {
			assertf("cell entry (%s, %d) missing", c.ToToken(), row)
		}
		if v != row {
			assertf("cell entry (%s, %d) maps to row %d", c.ToToken(), row, v)
		}
	}
}
