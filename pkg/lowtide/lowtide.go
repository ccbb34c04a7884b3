// Package lowtide ties the pieces together: zip code to coordinates, nearest
// station, NOAA predictions, then the tide filters.
package lowtide

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spencer-p/lowtide/pkg/noaa"
	"github.com/spencer-p/lowtide/pkg/station"
	"github.com/spencer-p/lowtide/pkg/sunset"
	"github.com/spencer-p/lowtide/pkg/tides"
)

const dateFormat = "2006-01-02"

// ErrInvalidRequest is returned for a Request that fails validation.
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New()

type ZipLocator interface {
	ToLatLong(zip int) (lat, lon float64, err error)
}

type StationLister interface {
	ListStations(ctx context.Context) ([]noaa.StationInfo, error)
}

type PredictionGetter interface {
	GetPredictions(ctx context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error)
}

// Request is one lookup. Begin and End are calendar days, "2006-01-02".
type Request struct {
	Begin    string         `validate:"required,datetime=2006-01-02"`
	End      string         `validate:"required,datetime=2006-01-02"`
	Zip      int            `validate:"gte=0,lte=99999"`
	Criteria tides.Criteria `validate:"-"`

	// Daylight, when set, also keeps only events between sunrise and sunset
	// at the chosen station, with station wall clocks read in this zone.
	Daylight *time.Location `validate:"-"`
}

// Result is a completed lookup.
type Result struct {
	Zip      int
	Lat, Lon float64
	Station  station.Info
	Begin    time.Time
	End      time.Time
	Criteria tides.Criteria
	Tides    noaa.Predictions
}

// Fetcher runs lookups. Zips is built once and reused; the station directory
// is fetched again on every Run.
type Fetcher struct {
	Zips     ZipLocator
	Stations StationLister
	Tides    PredictionGetter
}

// Run performs a lookup. The first failing step aborts it; no partial Result
// is returned.
func (f *Fetcher) Run(ctx context.Context, req Request) (*Result, error) {
	begin, end, err := req.dates()
	if err != nil {
		return nil, err
	}

	lat, lon, err := f.Zips.ToLatLong(req.Zip)
	if err != nil {
		return nil, err
	}

	stations, err := f.Stations.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	resolver, err := station.NewResolver(stations)
	if err != nil {
		return nil, err
	}
	nearest, err := resolver.Nearest(lat, lon)
	if err != nil {
		return nil, err
	}

	preds, err := f.Tides.GetPredictions(ctx, &noaa.PredictionQuery{
		Begin:   begin,
		End:     end,
		Station: nearest.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching predictions for %s: %w", nearest.ID, err)
	}
	if len(preds) == 0 {
		return nil, fmt.Errorf("station %s from %s to %s: %w", nearest.ID, req.Begin, req.End, noaa.ErrNoPredictions)
	}

	criteria := req.Criteria
	if req.Daylight != nil {
		criteria.Daylight = &sunset.Place{Lat: nearest.Lat, Long: nearest.Lon, Location: req.Daylight}
	}

	return &Result{
		Zip:      req.Zip,
		Lat:      lat,
		Lon:      lon,
		Station:  nearest,
		Begin:    begin,
		End:      end,
		Criteria: criteria,
		Tides:    tides.Filter(preds, criteria),
	}, nil
}

func (req *Request) dates() (begin, end time.Time, err error) {
	if err := validate.Struct(req); err != nil {
		return begin, end, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	// validate has already checked the format.
	begin, _ = time.Parse(dateFormat, req.Begin)
	end, _ = time.Parse(dateFormat, req.End)
	if end.Before(begin) {
		return begin, end, fmt.Errorf("%w: end date %s is before begin date %s", ErrInvalidRequest, req.End, req.Begin)
	}
	return begin, end, nil
}
