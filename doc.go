// Package geocell provides a covering cell index: a secondary index answering
// "which rows' polygons might contain this point?" over one geography column.
//
// Each indexed polygon is approximated by at most MaxCellCount S2 cells. The
// index keeps two ordered maps in sync:
//
//	cell map:  (cell id, row) -> row     one entry per covering cell
//	tuple map: row -> covering           the cached covering of each row
//
// # Quick Start
//
//	idx, _ := geocell.New(geoColumn)
//	_ = idx.AddEntry(row)                 // index a row
//	for h := range idx.Search(geo.PointFromDegrees(52.5, 13.4)) {
//	    fmt.Println(h)                    // candidate rows, finest cell first
//	}
//
// # Row Mutation
//
// The storage layer drives the index through four calls:
//
//   - AddEntry on insert, or when an update makes the geography non-null
//   - DeleteEntry on delete, or when an update makes the geography null
//   - ReplaceEntryNoKeyChange when a row moves but its geography is unchanged
//   - CheckForIndexChange to decide whether an update needs any index work
//
// ReplaceEntryNoKeyChange reuses the cached covering, so relocating rows
// never recomputes cells. Wrap the coverer with covering.NewCached to also
// share coverings between rows holding the same geography value.
//
// # Cursor Protocol
//
// BeginSearch computes the query point's leaf cell and probes its ancestors
// from MaxCellLevel down to MinCellLevel, every CellLevelMod levels, until a
// cell map range is non-empty. Advance returns the current match and moves on,
// descending to coarser ancestors as ranges run out:
//
//	var c geocell.Cursor
//	if idx.BeginSearch(pt, &c) {
//	    for !c.Empty() {
//	        row := idx.Advance(&c)
//	        ...
//	    }
//	}
//
// # Invariants
//
// Invariant violations found during mutation (a cached cell without its cell
// map entry) panic with an assertion failure. CheckValidity verifies both maps
// against a row source and reports the first violation as a *ValidityError.
//
// # Thread Safety
//
// Index is not safe for concurrent use. The enclosing storage layer serializes
// access; only Build uses goroutines internally, to compute coverings.
package geocell
