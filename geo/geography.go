package geo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used to convert steradians to m².
const EarthRadiusMeters = 6371008.8

var (
	// ErrNullGeography is returned when encoding a NULL value.
	ErrNullGeography = errors.New("geography is null")

	// ErrEmptyPolygon is returned when a polygon has no loops.
	ErrEmptyPolygon = errors.New("polygon is empty")

	// ErrTooFewVertices is returned when a ring has fewer than three vertices.
	ErrTooFewVertices = errors.New("polygon ring needs at least 3 vertices")
)

// storage is the immutable backing of a non-null Geography.
type storage struct {
	polygon *s2.Polygon
}

// Geography is an immutable polygon value. The zero value is NULL.
type Geography struct {
	s *storage
}

// NullGeography returns the NULL geography.
func NullGeography() Geography {
	return Geography{}
}

// NewGeography wraps a polygon. A nil or empty polygon yields ErrEmptyPolygon.
// The polygon must not be modified afterwards.
func NewGeography(p *s2.Polygon) (Geography, error) {
	if p == nil || p.IsEmpty() {
		return Geography{}, ErrEmptyPolygon
	}
	return Geography{s: &storage{polygon: p}}, nil
}

// MustGeography is like NewGeography but panics on error.
func MustGeography(p *s2.Polygon) Geography {
	g, err := NewGeography(p)
	if err != nil {
		panic(err)
	}
	return g
}

// IsNull reports whether g is NULL.
func (g Geography) IsNull() bool {
	return g.s == nil
}

// Polygon returns the underlying polygon, or nil for NULL.
func (g Geography) Polygon() *s2.Polygon {
	if g.s == nil {
		return nil
	}
	return g.s.polygon
}

// SameStorage reports whether g and o are non-null and share backing storage.
// Values sharing storage are byte-identical.
func (g Geography) SameStorage(o Geography) bool {
	return g.s != nil && g.s == o.s
}

// ContainsPoint reports whether the polygon contains pt. NULL operands never contain.
func (g Geography) ContainsPoint(pt Point) bool {
	if g.s == nil || pt.IsNull() {
		return false
	}
	return g.s.polygon.ContainsPoint(pt.p)
}

// Area returns the polygon area in square meters.
func (g Geography) Area() float64 {
	if g.s == nil {
		return 0
	}
	return g.s.polygon.Area() * EarthRadiusMeters * EarthRadiusMeters
}

// MarshalBinary encodes the polygon with the s2 polygon encoding.
func (g Geography) MarshalBinary() ([]byte, error) {
	if g.s == nil {
		return nil, ErrNullGeography
	}
	var buf bytes.Buffer
	if err := g.s.polygon.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode polygon: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeGeography parses a value produced by MarshalBinary.
func DecodeGeography(data []byte) (Geography, error) {
	p := &s2.Polygon{}
	if err := p.Decode(bytes.NewReader(data)); err != nil {
		return Geography{}, fmt.Errorf("decode polygon: %w", err)
	}
	return NewGeography(p)
}

// String returns a short debug representation.
func (g Geography) String() string {
	if g.s == nil {
		return "NULL"
	}
	return fmt.Sprintf("POLYGON(loops=%d, edges=%d)", g.s.polygon.NumLoops(), g.s.polygon.NumEdges())
}

// PolygonFromDegrees builds a single-ring polygon from (lat, lng) pairs in degrees.
// The ring is implicitly closed and normalized so it encloses at most half the sphere.
func PolygonFromDegrees(ring ...[2]float64) (*s2.Polygon, error) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, ErrTooFewVertices
	}
	pts := make([]s2.Point, len(ring))
	for i, ll := range ring {
		pts[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(ll[0], ll[1]))
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return s2.PolygonFromLoops([]*s2.Loop{loop}), nil
}

// RectFromDegrees is a convenience for an axis-aligned lat/lng box.
func RectFromDegrees(latLo, lngLo, latHi, lngHi float64) (Geography, error) {
	p, err := PolygonFromDegrees(
		[2]float64{latLo, lngLo},
		[2]float64{latLo, lngHi},
		[2]float64{latHi, lngHi},
		[2]float64{latHi, lngLo},
	)
	if err != nil {
		return Geography{}, err
	}
	return NewGeography(p)
}
