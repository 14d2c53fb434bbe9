// Package table is a minimal in-memory row store that maintains secondary
// indexes on every mutation.
//
// Rows live in slots addressed by model.RowHandle. Handles are never reused:
// Move and Compact relocate rows to fresh handles and tell the indexes through
// ReplaceEntryNoKeyChange, mirroring how a storage engine compacts blocks.
package table

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/hupe1980/geocell"
	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/model"
)

var (
	// ErrRowNotFound is returned for handles without a stored row.
	ErrRowNotFound = errors.New("row not found")

	// ErrColumnCount is returned when a row has the wrong number of values.
	ErrColumnCount = errors.New("wrong number of column values")
)

// SecondaryIndex is the contract between the table and its indexes.
type SecondaryIndex interface {
	AddEntry(t geocell.Tuple) error
	DeleteEntry(t geocell.Tuple) error
	ReplaceEntryNoKeyChange(newT, oldT geocell.Tuple) error
	CheckForIndexChange(lhs, rhs geocell.Tuple) bool
}

// Tuple is one stored row version.
type Tuple struct {
	handle model.RowHandle
	values []any
}

// Handle implements geocell.Tuple.
func (t *Tuple) Handle() model.RowHandle {
	return t.handle
}

// Geography implements geocell.Tuple. Non-geography columns read as NULL.
func (t *Tuple) Geography(col int) geo.Geography {
	if col < 0 || col >= len(t.values) {
		return geo.NullGeography()
	}
	g, _ := t.values[col].(geo.Geography)
	return g
}

// Value returns the raw value of column col.
func (t *Tuple) Value(col int) any {
	return t.values[col]
}

func (t *Tuple) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v[", t.handle)
	for i, v := range t.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v == nil {
			sb.WriteString("NULL")
			continue
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteString("]")
	return sb.String()
}

// Table stores rows and keeps its indexes in sync.
type Table struct {
	columns int
	rows    map[model.RowHandle]*Tuple
	next    model.RowHandle
	indexes []SecondaryIndex
}

// New creates an empty table with the given number of columns.
func New(columns int) *Table {
	return &Table{
		columns: columns,
		rows:    make(map[model.RowHandle]*Tuple),
		next:    1,
	}
}

// AddIndex registers idx and back-fills it with the stored rows.
func (tb *Table) AddIndex(idx SecondaryIndex) error {
	var added []*Tuple
	for _, h := range tb.handles() {
		t := tb.rows[h]
		if err := idx.AddEntry(t); err != nil {
			for _, a := range added {
				err = errors.Join(err, idx.DeleteEntry(a))
			}
			return err
		}
		added = append(added, t)
	}
	tb.indexes = append(tb.indexes, idx)
	return nil
}

// Len returns the number of stored rows.
func (tb *Table) Len() int {
	return len(tb.rows)
}

// Insert stores a new row and returns its handle.
func (tb *Table) Insert(values ...any) (model.RowHandle, error) {
	if len(values) != tb.columns {
		return model.NullHandle, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), tb.columns)
	}
	t := &Tuple{handle: tb.next, values: slices.Clone(values)}
	for i, idx := range tb.indexes {
		if err := idx.AddEntry(t); err != nil {
			for _, done := range tb.indexes[:i] {
				err = errors.Join(err, done.DeleteEntry(t))
			}
			return model.NullHandle, err
		}
	}
	tb.next++
	tb.rows[t.handle] = t
	return t.handle, nil
}

// Update replaces the values of row h in place.
//
// Indexes whose key changed get a delete and an add. If any index fails,
// every index already updated is restored to the old row and the stored row
// is left unchanged.
func (tb *Table) Update(h model.RowHandle, values ...any) error {
	old, ok := tb.rows[h]
	if !ok {
		return fmt.Errorf("update %v: %w", h, ErrRowNotFound)
	}
	if len(values) != tb.columns {
		return fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), tb.columns)
	}
	t := &Tuple{handle: h, values: slices.Clone(values)}
	var done []SecondaryIndex
	for _, idx := range tb.indexes {
		if !idx.CheckForIndexChange(old, t) {
			continue
		}
		if err := idx.DeleteEntry(old); err != nil {
			return errors.Join(err, revertUpdate(done, old, t))
		}
		if err := idx.AddEntry(t); err != nil {
			return errors.Join(err, idx.AddEntry(old), revertUpdate(done, old, t))
		}
		done = append(done, idx)
	}
	tb.rows[h] = t
	return nil
}

// revertUpdate swaps t back to old in the given indexes.
func revertUpdate(done []SecondaryIndex, old, t *Tuple) error {
	var errs []error
	for _, idx := range done {
		errs = append(errs, idx.DeleteEntry(t), idx.AddEntry(old))
	}
	return errors.Join(errs...)
}

// Delete removes row h. If an index fails, the indexes already updated get
// the row back.
func (tb *Table) Delete(h model.RowHandle) error {
	t, ok := tb.rows[h]
	if !ok {
		return fmt.Errorf("delete %v: %w", h, ErrRowNotFound)
	}
	for i, idx := range tb.indexes {
		if err := idx.DeleteEntry(t); err != nil {
			for _, done := range tb.indexes[:i] {
				err = errors.Join(err, done.AddEntry(t))
			}
			return err
		}
	}
	delete(tb.rows, h)
	return nil
}

// Move relocates row h to a fresh handle and returns it. If an index fails,
// the indexes already re-keyed are moved back.
func (tb *Table) Move(h model.RowHandle) (model.RowHandle, error) {
	old, ok := tb.rows[h]
	if !ok {
		return model.NullHandle, fmt.Errorf("move %v: %w", h, ErrRowNotFound)
	}
	t := &Tuple{handle: tb.next, values: old.values}
	for i, idx := range tb.indexes {
		if err := idx.ReplaceEntryNoKeyChange(t, old); err != nil {
			for _, done := range tb.indexes[:i] {
				err = errors.Join(err, done.ReplaceEntryNoKeyChange(old, t))
			}
			return model.NullHandle, err
		}
	}
	tb.next++
	delete(tb.rows, h)
	tb.rows[t.handle] = t
	return t.handle, nil
}

// Compact relocates every row, in handle order, and returns the old-to-new mapping.
func (tb *Table) Compact() (map[model.RowHandle]model.RowHandle, error) {
	moved := make(map[model.RowHandle]model.RowHandle, len(tb.rows))
	for _, h := range tb.handles() {
		nh, err := tb.Move(h)
		if err != nil {
			return moved, err
		}
		moved[h] = nh
	}
	return moved, nil
}

// Get returns the stored row h.
func (tb *Table) Get(h model.RowHandle) (*Tuple, bool) {
	t, ok := tb.rows[h]
	return t, ok
}

// Row implements geocell.RowSource.
func (tb *Table) Row(h model.RowHandle) (geocell.Tuple, bool) {
	t, ok := tb.rows[h]
	if !ok {
		return nil, false
	}
	return t, true
}

// Scan implements geocell.RowSource. Rows are yielded in handle order.
func (tb *Table) Scan() iter.Seq[geocell.Tuple] {
	return func(yield func(geocell.Tuple) bool) {
		for _, h := range tb.handles() {
			if !yield(tb.rows[h]) {
				return
			}
		}
	}
}

func (tb *Table) handles() []model.RowHandle {
	return slices.Sorted(maps.Keys(tb.rows))
}
