package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
)

var (
	// ErrInvalid is returned when a point cannot be indexed.
	ErrInvalid = errors.New("invalid point")
	// ErrNotFound is returned by Lookup for an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrEmpty is returned by Nearest when the index has no points.
	ErrEmpty = errors.New("empty index")
)

// Point is a labeled coordinate. Meta carries optional extra attributes, such
// as a station name, and must not be modified after the point is indexed.
type Point[K comparable] struct {
	ID   K
	Lat  float64
	Lon  float64
	Meta map[string]string
}

// Index is an immutable set of points keyed by ID.
type Index[K comparable] struct {
	points []Point[K]
	byID   map[K]int

	// tree is only built for indexes large enough to benefit from it.
	tree *rtreego.Rtree
}

// Build indexes points. The input order is remembered: when two points are
// equally close to a query, Nearest returns the one that came first.
func Build[K comparable](points []Point[K]) (*Index[K], error) {
	idx := &Index[K]{
		points: make([]Point[K], len(points)),
		byID:   make(map[K]int, len(points)),
	}
	for i, p := range points {
		if !finite(p.Lat) || !finite(p.Lon) {
			return nil, fmt.Errorf("point %v at (%v, %v): coordinates not finite: %w", p.ID, p.Lat, p.Lon, ErrInvalid)
		}
		if prev, ok := idx.byID[p.ID]; ok {
			return nil, fmt.Errorf("point %v at position %d duplicates position %d: %w", p.ID, i, prev, ErrInvalid)
		}
		idx.byID[p.ID] = i
		idx.points[i] = p
	}
	if len(idx.points) >= treeThreshold {
		idx.tree = buildTree(idx.points)
	}
	return idx, nil
}

// Len returns the number of indexed points.
func (idx *Index[K]) Len() int {
	return len(idx.points)
}

// Lookup returns the point with the given id.
func (idx *Index[K]) Lookup(id K) (Point[K], error) {
	i, ok := idx.byID[id]
	if !ok {
		return Point[K]{}, fmt.Errorf("id %v: %w", id, ErrNotFound)
	}
	return idx.points[i], nil
}

// Nearest returns the point closest to (lat, lon).
func (idx *Index[K]) Nearest(lat, lon float64) (Point[K], error) {
	if len(idx.points) == 0 {
		return Point[K]{}, ErrEmpty
	}
	if !finite(lat) || !finite(lon) {
		return Point[K]{}, fmt.Errorf("query (%v, %v) not finite: %w", lat, lon, ErrInvalid)
	}
	if idx.tree == nil {
		return idx.points[idx.scan(lat, lon)], nil
	}
	return idx.points[idx.treeNearest(lat, lon)], nil
}

// scan is the reference nearest-neighbour search. A later point only wins if
// it is strictly closer, which makes the first of several equidistant points
// the result.
func (idx *Index[K]) scan(lat, lon float64) int {
	best, bestD := 0, math.Inf(1)
	for i, p := range idx.points {
		if d := SquaredDistance(lat, lon, p.Lat, p.Lon); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// SquaredDistance is the planar squared distance between two coordinates in
// degrees. No correction is made for longitude compression.
func SquaredDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dlat, dlon := lat1-lat2, lon1-lon2
	return dlat*dlat + dlon*dlon
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
