package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

const (
	// treeThreshold is the index size at which Nearest switches from a plain
	// scan to the R-tree.
	treeThreshold = 256

	// pointTol is the half-size of the box each point occupies in the tree.
	// rtreego cannot store degenerate rectangles.
	pointTol = 1e-9

	minChildren = 25
	maxChildren = 50
)

// entry is a point's position in Index.points plus its bounding box.
type entry struct {
	pos  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

func buildTree[K comparable](points []Point[K]) *rtreego.Rtree {
	objs := make([]rtreego.Spatial, 0, len(points))
	for i, p := range points {
		// lengths are positive, so NewRect cannot fail here.
		rect, _ := rtreego.NewRect(
			rtreego.Point{p.Lat - pointTol, p.Lon - pointTol},
			[]float64{2 * pointTol, 2 * pointTol})
		objs = append(objs, &entry{pos: i, rect: rect})
	}
	return rtreego.NewTree(2, minChildren, maxChildren, objs...)
}

// treeNearest gives the same answer as scan. The tree proposes a candidate;
// every point at least as close as the candidate lies inside the square of
// half-width equal to the candidate's distance, so the scan rule applied to
// that square's contents picks the true nearest, ties included.
func (idx *Index[K]) treeNearest(lat, lon float64) int {
	cand, ok := idx.tree.NearestNeighbor(rtreego.Point{lat, lon}).(*entry)
	if !ok {
		return idx.scan(lat, lon)
	}
	c := idx.points[cand.pos]
	r := math.Sqrt(SquaredDistance(lat, lon, c.Lat, c.Lon)) + 4*pointTol
	box, err := rtreego.NewRect(rtreego.Point{lat - r, lon - r}, []float64{2 * r, 2 * r})
	if err != nil {
		return idx.scan(lat, lon)
	}

	best, bestD := cand.pos, SquaredDistance(lat, lon, c.Lat, c.Lon)
	for _, s := range idx.tree.SearchIntersect(box) {
		e := s.(*entry)
		p := idx.points[e.pos]
		d := SquaredDistance(lat, lon, p.Lat, p.Lon)
		if d < bestD || (d == bestD && e.pos < best) {
			best, bestD = e.pos, d
		}
	}
	return best
}
