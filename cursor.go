package geocell

import (
	"time"

	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/internal/cellkey"
	"github.com/hupe1980/geocell/internal/cellmap"
	"github.com/hupe1980/geocell/model"
)

type cursorState uint8

const (
	cursorEmpty cursorState = iota
	cursorActive
)

// Cursor holds the position of a containment search.
//
// An active cursor points into the cell map range of one ancestor cell of the
// query point and carries the row that the next Advance returns. The zero
// value is an empty cursor.
type Cursor struct {
	state   cursorState
	forward bool
	leaf    s2.CellID
	it      cellmap.Iterator
	match   model.RowHandle
}

// Empty reports whether the cursor has no pending match.
func (c *Cursor) Empty() bool {
	return c.state == cursorEmpty
}

// Forward reports the scan direction. Covering searches always run forward.
func (c *Cursor) Forward() bool {
	return c.forward
}

// Match returns the row the next Advance returns, or NullHandle.
func (c *Cursor) Match() model.RowHandle {
	return c.match
}

func (c *Cursor) clear() {
	c.state = cursorEmpty
	c.it = cellmap.Iterator{}
	c.match = model.NullHandle
}

// BeginSearch positions c on the first row whose covering holds an ancestor
// of pt's leaf cell. Ancestors are probed from MaxLevel down to MinLevel; a
// cell has one parent but four children, so walking upward needs no extra
// state. It returns false and leaves c empty if pt is NULL or nothing matches.
func (idx *Index) BeginSearch(pt geo.Point, c *Cursor) bool {
	start := time.Now()
	c.forward = true
	c.clear()

	levels, matched := 0, false
	if !pt.IsNull() {
		leaf := pt.LeafCell()
		for level := idx.params.MaxLevel; level >= idx.params.MinLevel; level -= idx.params.LevelMod {
			levels++
			it := idx.cells.EqualRange(leaf.Parent(level))
			if it.Valid() {
				c.state = cursorActive
				c.leaf = leaf
				c.it = it
				c.match = it.Value()
				matched = true
				break
			}
		}
	}

	idx.metrics.RecordSearch(time.Since(start), levels, matched)
	idx.logger.LogSearch(levels, matched)
	return matched
}

// Advance returns the current match of c and moves c to the next candidate.
//
// Rows sharing the active cell are returned in handle order; once the range
// is exhausted the search continues with the query point's ancestor LevelMod
// levels coarser. After the last
// candidate has been returned c is empty and Advance returns NullHandle.
func (idx *Index) Advance(c *Cursor) model.RowHandle {
	if c.state == cursorEmpty {
		return model.NullHandle
	}

	ret := c.match
	level := cellkey.CellID(c.it.Key()).Level()

	c.it.Next()
	for !c.it.Valid() {
		level -= idx.params.LevelMod
		if level < idx.params.MinLevel {
			c.clear()
			return ret
		}
		c.it = idx.cells.EqualRange(c.leaf.Parent(level))
	}

	c.match = c.it.Value()
	return ret
}
