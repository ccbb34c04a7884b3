package zipcode

import (
	"fmt"

	"github.com/spencer-p/lowtide/pkg/geo"
)

// Row is one gazetteer entry: a zip code and its internal point.
type Row struct {
	Zip int
	Lat float64
	Lon float64
}

// Locator maps zip codes to coordinates and back. It is read-only once built
// and may be shared between goroutines.
type Locator struct {
	idx *geo.Index[int]
}

// NewLocator indexes rows. Duplicate zip codes or non-finite coordinates fail
// the whole build.
func NewLocator(rows []Row) (*Locator, error) {
	points := make([]geo.Point[int], len(rows))
	for i, r := range rows {
		points[i] = geo.Point[int]{ID: r.Zip, Lat: r.Lat, Lon: r.Lon}
	}
	idx, err := geo.Build(points)
	if err != nil {
		return nil, fmt.Errorf("indexing gazetteer: %w", err)
	}
	return &Locator{idx: idx}, nil
}

// ToLatLong returns the centroid of zip.
func (l *Locator) ToLatLong(zip int) (lat, lon float64, err error) {
	p, err := l.idx.Lookup(zip)
	if err != nil {
		return 0, 0, fmt.Errorf("zip code %05d: %w", zip, err)
	}
	return p.Lat, p.Lon, nil
}

// ToZip returns the zip code whose centroid is nearest to (lat, lon).
func (l *Locator) ToZip(lat, lon float64) (int, error) {
	p, err := l.idx.Nearest(lat, lon)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Len is the number of zip codes known.
func (l *Locator) Len() int {
	return l.idx.Len()
}
