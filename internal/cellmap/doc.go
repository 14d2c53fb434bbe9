// Package cellmap implements the two ordered maps behind the covering cell index.
//
// # Architecture
//
//	CellMap:  (cell id, row) -> row        ordered by cell, then row
//	TupleMap: row -> Covering              ordered by row
//
// Both maps are B-trees keyed by the fixed-width encodings of package cellkey.
// A CellMap lookup by cell id alone returns an Iterator over the equal range
// of that cell; rows sharing a cell are visited in row order.
//
// # Thread Safety
//
// Neither map is safe for concurrent use. The owning index serializes access.
package cellmap
