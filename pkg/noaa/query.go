package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spencer-p/lowtide/pkg/metrics"
)

const (
	NOAA_URL     = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	STATIONS_URL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi/stations.json?type=tidepredictions"
	TIME_FMT     = "20060102"

	application = "NOS.COOPS.TAC.TidePred"
)

var (
	// ErrTransport covers failures to reach NOAA or to read its answer.
	ErrTransport = errors.New("noaa transport error")
	// ErrNoPredictions is returned when NOAA has no data for a query.
	ErrNoPredictions = errors.New("no predictions")
)

// Client talks to the CO-OPS data and metadata APIs.
type Client struct {
	HTTPClient     *http.Client
	PredictionsURL string
	StationsURL    string
}

// NewClient creates a Client for the public NOAA endpoints. Every request is
// bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient:     &http.Client{Timeout: timeout},
		PredictionsURL: NOAA_URL,
		StationsURL:    STATIONS_URL,
	}
}

// GetPredictions fetches high and low tide predictions for a query.
func (c *Client) GetPredictions(ctx context.Context, q *PredictionQuery) (Predictions, error) {
	var result NOAAResult

	// Build request URL first
	addr, err := c.predictionsURL(q)
	if err != nil {
		return nil, err
	}

	if err := c.getJSON(ctx, "noaa_predictions", addr.String(), &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("station %s from %s to %s: %s: %w",
			q.Station, q.Begin.Format(TIME_FMT), q.End.Format(TIME_FMT), result.Error.Message, ErrNoPredictions)
	}

	return result.Predictions, nil
}

// ListStations fetches the directory of stations that have tide predictions.
func (c *Client) ListStations(ctx context.Context) ([]StationInfo, error) {
	var result struct {
		Stations []StationInfo `json:"stations"`
	}
	addr := c.StationsURL
	if addr == "" {
		addr = STATIONS_URL
	}
	if err := c.getJSON(ctx, "noaa_stations", addr, &result); err != nil {
		return nil, err
	}
	return result.Stations, nil
}

func (c *Client) getJSON(ctx context.Context, source, addr string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", addr, err)
	}

	// Make the request to NOAA
	resp, err := c.httpClient().Do(req)
	if err != nil {
		metrics.ObserveUpstream(source, "error")
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream(source, "status")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s answered %s: %q", ErrTransport, source, resp.Status, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.ObserveUpstream(source, "decode")
		if errors.Is(err, ErrParse) {
			return err
		}
		return fmt.Errorf("%w: decoding %s response: %w", ErrTransport, source, err)
	}
	metrics.ObserveUpstream(source, "ok")
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) predictionsURL(q *PredictionQuery) (*url.URL, error) {
	base := c.PredictionsURL
	if base == "" {
		base = NOAA_URL
	}
	addr, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = q.build().Encode()
	return addr, nil
}

func (q *PredictionQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("begin_date", q.Begin.Format(TIME_FMT))
	vals.Add("end_date", q.End.Format(TIME_FMT))
	vals.Add("station", string(q.Station))
	vals.Add("product", "predictions")
	vals.Add("application", application)
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "lst_ldt")
	vals.Add("interval", "hilo")
	vals.Add("units", "english")
	vals.Add("format", "json")
	return vals
}
