package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// Point is a nullable point on the sphere. The zero value is NULL.
type Point struct {
	p     s2.Point
	valid bool
}

// NullPoint returns the NULL point.
func NullPoint() Point {
	return Point{}
}

// PointFromDegrees returns the point at the given latitude and longitude.
func PointFromDegrees(lat, lng float64) Point {
	return Point{p: s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)), valid: true}
}

// PointFromS2 wraps an s2 point.
func PointFromS2(p s2.Point) Point {
	return Point{p: p, valid: true}
}

// IsNull reports whether the point is NULL.
func (pt Point) IsNull() bool {
	return !pt.valid
}

// S2Point returns the underlying s2 point.
func (pt Point) S2Point() s2.Point {
	return pt.p
}

// LeafCell returns the finest-level cell containing the point.
func (pt Point) LeafCell() s2.CellID {
	return s2.CellFromPoint(pt.p).ID()
}

func (pt Point) String() string {
	if !pt.valid {
		return "NULL"
	}
	ll := s2.LatLngFromPoint(pt.p)
	return fmt.Sprintf("POINT(%.6f %.6f)", ll.Lng.Degrees(), ll.Lat.Degrees())
}
