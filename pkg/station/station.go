// Package station finds the tide prediction station closest to a coordinate.
package station

import (
	"fmt"

	"github.com/umahmood/haversine"

	"github.com/spencer-p/lowtide/pkg/geo"
	"github.com/spencer-p/lowtide/pkg/noaa"
)

const nameKey = "name"

// Info describes a resolved station.
type Info struct {
	ID   noaa.Station
	Name string
	Lat  float64
	Lon  float64

	// DistanceMiles is the great-circle distance from the query point. It is
	// reported for display and plays no part in choosing the station.
	DistanceMiles float64
}

// Resolver indexes one snapshot of the station directory.
type Resolver struct {
	idx *geo.Index[noaa.Station]
}

// NewResolver indexes stations, keeping their directory order for ties.
func NewResolver(stations []noaa.StationInfo) (*Resolver, error) {
	points := make([]geo.Point[noaa.Station], len(stations))
	for i, s := range stations {
		points[i] = geo.Point[noaa.Station]{
			ID:   s.ID,
			Lat:  s.Lat,
			Lon:  s.Lng,
			Meta: map[string]string{nameKey: s.Name},
		}
	}
	idx, err := geo.Build(points)
	if err != nil {
		return nil, fmt.Errorf("indexing stations: %w", err)
	}
	return &Resolver{idx: idx}, nil
}

// Nearest returns the station closest to (lat, lon).
func (r *Resolver) Nearest(lat, lon float64) (Info, error) {
	p, err := r.idx.Nearest(lat, lon)
	if err != nil {
		return Info{}, fmt.Errorf("nearest station to (%v, %v): %w", lat, lon, err)
	}
	mi, _ := haversine.Distance(
		haversine.Coord{Lat: lat, Lon: lon},
		haversine.Coord{Lat: p.Lat, Lon: p.Lon})
	return Info{
		ID:            p.ID,
		Name:          p.Meta[nameKey],
		Lat:           p.Lat,
		Lon:           p.Lon,
		DistanceMiles: mi,
	}, nil
}

// Len is the number of stations indexed.
func (r *Resolver) Len() int {
	return r.idx.Len()
}
