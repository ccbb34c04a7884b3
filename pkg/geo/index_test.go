package geo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildRejects(t *testing.T) {
	table := []struct {
		name   string
		points []Point[int]
	}{{
		name:   "duplicate id",
		points: []Point[int]{{ID: 1, Lat: 1, Lon: 1}, {ID: 1, Lat: 2, Lon: 2}},
	}, {
		name:   "nan latitude",
		points: []Point[int]{{ID: 1, Lat: math.NaN(), Lon: 1}},
	}, {
		name:   "infinite longitude",
		points: []Point[int]{{ID: 1, Lat: 1, Lon: math.Inf(-1)}},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.points)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got err %v, want ErrInvalid", err)
			}
		})
	}
}

func TestEmptyIndex(t *testing.T) {
	idx, err := Build[string](nil)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if _, err := idx.Nearest(0, 0); !errors.Is(err, ErrEmpty) {
		t.Errorf("got err %v, want ErrEmpty", err)
	}
	if _, err := idx.Lookup("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	idx, err := Build([]Point[string]{
		{ID: "9446828", Lat: 47.1, Lon: -122.9, Meta: map[string]string{"name": "Budd Inlet"}},
		{ID: "9413745", Lat: 36.9, Lon: -122.0},
	})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	got, err := idx.Lookup("9446828")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got.Meta["name"] != "Budd Inlet" || got.Lat != 47.1 {
		t.Errorf("got %+v", got)
	}
	if _, err := idx.Lookup("0000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestNearestRejectsBadQuery(t *testing.T) {
	idx, _ := Build([]Point[int]{{ID: 1}})
	if _, err := idx.Nearest(math.NaN(), 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("got err %v, want ErrInvalid", err)
	}
}

// gridPoints lays out n points on a grid with quarter-degree spacing. Every
// fifth point repeats the coordinates of the one before it, so ties occur.
func gridPoints(n int) []Point[int] {
	points := make([]Point[int], n)
	for i := range points {
		cell := i
		if i%5 == 4 {
			cell = i - 1
		}
		points[i] = Point[int]{
			ID:  i,
			Lat: 40 + float64(cell/40)*0.25,
			Lon: -125 + float64(cell%40)*0.25,
		}
	}
	return points
}

func TestSelfQuery(t *testing.T) {
	for _, n := range []int{1, 10, treeThreshold + 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			points := gridPoints(n)
			idx, err := Build(points)
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			for _, p := range points {
				got, err := idx.Nearest(p.Lat, p.Lon)
				if err != nil {
					t.Fatalf("unexpected: %v", err)
				}
				if got.Lat != p.Lat || got.Lon != p.Lon {
					t.Errorf("self query for %d landed at (%v, %v)", p.ID, got.Lat, got.Lon)
				}
				// Duplicated coordinates resolve to the earlier point.
				if p.ID%5 == 4 && got.ID != p.ID-1 {
					t.Errorf("tie for %d resolved to %d, want %d", p.ID, got.ID, p.ID-1)
				}
			}
		})
	}
}

func TestTieBreakFirstInInputOrder(t *testing.T) {
	points := []Point[string]{
		{ID: "east", Lat: 0, Lon: 1},
		{ID: "west", Lat: 0, Lon: -1},
	}
	idx, err := Build(points)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, _ := idx.Nearest(0, 0)
		if got.ID != "east" {
			t.Fatalf("query %d: got %q, want %q", i, got.ID, "east")
		}
	}

	// Reversing the input reverses the winner.
	idx, _ = Build([]Point[string]{points[1], points[0]})
	if got, _ := idx.Nearest(0, 0); got.ID != "west" {
		t.Errorf("got %q, want %q", got.ID, "west")
	}
}

func TestTreeMatchesScan(t *testing.T) {
	points := gridPoints(2000)
	idx, err := Build(points)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if idx.tree == nil {
		t.Fatalf("expected an R-tree for %d points", len(points))
	}

	rng := rand.New(rand.NewSource(1))
	var queries [][2]float64
	for i := 0; i < 500; i++ {
		queries = append(queries, [2]float64{
			39 + rng.Float64()*15,
			-126 + rng.Float64()*12,
		})
	}
	// Midpoints between grid cells are equidistant from two or four points.
	for i := 0; i < 200; i++ {
		queries = append(queries, [2]float64{
			40 + float64(rng.Intn(40))*0.25 + 0.125,
			-125 + float64(rng.Intn(40))*0.25 + 0.125,
		})
	}

	for _, q := range queries {
		want := idx.points[idx.scan(q[0], q[1])]
		got, err := idx.Nearest(q[0], q[1])
		if err != nil {
			t.Fatalf("unexpected: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("query %v (-scan,+tree):\n%s", q, diff)
		}
	}
}
