package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/golang/geo/s2"

	"github.com/hupe1980/geocell/geo"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// LatLng returns a point uniformly distributed over the sphere, clamped to
// |lat| <= maxLat so that boxes around it stay away from the poles.
func (r *RNG) LatLng(maxLat float64) (lat, lng float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		lat = math.Asin(2*r.rand.Float64()-1) * 180 / math.Pi
		if math.Abs(lat) <= maxLat {
			break
		}
	}
	lng = r.rand.Float64()*360 - 180
	return lat, lng
}

// Point returns a random point with |lat| <= 80.
func (r *RNG) Point() geo.Point {
	lat, lng := r.LatLng(80)
	return geo.PointFromDegrees(lat, lng)
}

// Rect returns a random lat/lng box with sides in (0, maxSpan] degrees.
func (r *RNG) Rect(maxSpan float64) geo.Geography {
	lat, lng := r.LatLng(80 - maxSpan)
	dLat := (r.Float64()*0.9 + 0.1) * maxSpan
	dLng := (r.Float64()*0.9 + 0.1) * maxSpan
	if lng+dLng > 180 {
		lng -= dLng
	}
	g, err := geo.RectFromDegrees(lat, lng, lat+dLat, lng+dLng)
	if err != nil {
		panic(err)
	}
	return g
}

// Rects returns n random boxes.
func (r *RNG) Rects(n int, maxSpan float64) []geo.Geography {
	out := make([]geo.Geography, n)
	for i := range out {
		out[i] = r.Rect(maxSpan)
	}
	return out
}

// PointNear returns a random point within spread degrees of g's bounding box.
func (r *RNG) PointNear(g geo.Geography, spread float64) geo.Point {
	b := g.Polygon().RectBound()
	lat := b.Lat.Lo*180/math.Pi - spread + r.Float64()*(b.Lat.Length()*180/math.Pi+2*spread)
	lng := b.Lng.Lo*180/math.Pi - spread + r.Float64()*(b.Lng.Length()*180/math.Pi+2*spread)
	return geo.PointFromDegrees(math.Max(-90, math.Min(90, lat)), lng)
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// Useful to pick hot query regions.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// BruteForceContains returns the positions of the geographies containing pt,
// in ascending order.
func BruteForceContains(geographies []geo.Geography, pt geo.Point) []int {
	var out []int
	for i, g := range geographies {
		if g.ContainsPoint(pt) {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// CellsCover reports whether some cell is an ancestor-or-self of pt's leaf cell.
func CellsCover(cells []s2.CellID, pt geo.Point) bool {
	leaf := pt.LeafCell()
	for _, c := range cells {
		if c.Contains(leaf) {
			return true
		}
	}
	return false
}
