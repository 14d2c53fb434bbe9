package geocell

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/geo"
	"github.com/hupe1980/geocell/internal/cellkey"
)

// Stats summarizes how well the coverings approximate the indexed polygons.
// Areas are in square meters.
type Stats struct {
	NumPolygons   int
	NumCells      int
	DistinctCells uint64
	CellsArea     float64
	PolygonsArea  float64
}

// Overhead returns the ratio of covered area to polygon area, or 0 when empty.
func (s Stats) Overhead() float64 {
	if s.PolygonsArea == 0 {
		return 0
	}
	return s.CellsArea / s.PolygonsArea
}

// Stats computes index statistics. Polygon areas are read from src; rows
// missing from src are skipped.
func (idx *Index) Stats(src RowSource) Stats {
	st := Stats{
		NumPolygons: idx.tuples.Len(),
		NumCells:    idx.cells.Len(),
	}

	distinct := roaring64.New()
	for key := range idx.cells.All() {
		cell := cellkey.CellID(key)
		distinct.Add(uint64(cell))
		st.CellsArea += s2.CellFromCellID(cell).ExactArea() * geo.EarthRadiusMeters * geo.EarthRadiusMeters
	}
	st.DistinctCells = distinct.GetCardinality()

	for row := range idx.tuples.All() {
		t, ok := src.Row(row)
		if !ok {
			continue
		}
		st.PolygonsArea += t.Geography(idx.column).Area()
	}

	return st
}
