package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestQueryURL(t *testing.T) {
	in := PredictionQuery{
		Begin:   time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2020, time.January, 7, 0, 0, 0, 0, time.UTC),
		Station: SantaCruz,
	}
	want := fmt.Sprintf("https://api.tidesandcurrents.noaa.gov/api/prod/datagetter?application=NOS.COOPS.TAC.TidePred&begin_date=20200105&datum=MLLW&end_date=20200107&format=json&interval=hilo&product=predictions&station=%s&time_zone=lst_ldt&units=english", SantaCruz)
	c := NewClient(time.Second)
	got, err := c.predictionsURL(&in)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if want != got.String() {
		t.Errorf("got  %q", got)
		t.Errorf("want %q", want)
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(5 * time.Second)
	c.PredictionsURL = srv.URL + "/datagetter"
	c.StationsURL = srv.URL + "/stations.json?type=tidepredictions"
	return c
}

var june5 = PredictionQuery{
	Begin:   time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC),
	End:     time.Date(2023, time.June, 6, 0, 0, 0, 0, time.UTC),
	Station: BuddInlet,
}

func TestGetPredictions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("station"); got != string(BuddInlet) {
			t.Errorf("station = %q", got)
		}
		fmt.Fprint(w, `{"predictions":[
			{"t":"2023-06-05 06:00", "v":"-0.5", "type":"L"},
			{"t":"2023-06-05 14:00", "v":"1.2", "type":"H"}]}`)
	})

	got, err := c.GetPredictions(context.Background(), &june5)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	want := Predictions{{
		Time:   Time(time.Date(2023, time.June, 5, 6, 0, 0, 0, time.UTC)),
		Height: -0.5,
		Type:   LowTide,
	}, {
		Time:   Time(time.Date(2023, time.June, 5, 14, 0, 0, 0, time.UTC)),
		Height: 1.2,
		Type:   HighTide,
	}}
	if diff := cmp.Diff(fmt.Sprint(want), fmt.Sprint(got)); diff != "" {
		t.Errorf("predictions (-want,+got):\n%s", diff)
	}
}

func TestGetPredictionsErrors(t *testing.T) {
	table := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{{
		name:    "no data",
		status:  http.StatusOK,
		body:    `{"error": {"message": "No Predictions data was found. Please make sure the Datum input is valid."}}`,
		wantErr: ErrNoPredictions,
	}, {
		name:    "server error",
		status:  http.StatusInternalServerError,
		body:    "oops",
		wantErr: ErrTransport,
	}, {
		name:    "garbage",
		status:  http.StatusOK,
		body:    "<html>",
		wantErr: ErrTransport,
	}, {
		name:    "malformed timestamp",
		status:  http.StatusOK,
		body:    `{"predictions":[{"t":"06/05/2023 6AM", "v":"-0.5", "type":"L"}]}`,
		wantErr: ErrParse,
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			})
			preds, err := c.GetPredictions(context.Background(), &june5)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got err %v, want %v", err, tc.wantErr)
			}
			if preds != nil {
				t.Errorf("got partial predictions %v", preds)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(time.Second)
	c.PredictionsURL = srv.URL
	srv.Close()

	if _, err := c.GetPredictions(context.Background(), &june5); !errors.Is(err, ErrTransport) {
		t.Errorf("got err %v, want ErrTransport", err)
	}
}

func TestListStations(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "tidepredictions" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"count": 2, "units": null, "stations": [
			{"state": "WA", "id": "9446828", "name": "DOFFLEMYER POINT", "lat": 47.1417, "lng": -122.9067, "timezonecorr": -8},
			{"state": "CA", "id": "9413745", "name": "Santa Cruz", "lat": 36.9583, "lng": -122.0167}]}`)
	})

	got, err := c.ListStations(context.Background())
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	want := []StationInfo{
		{ID: BuddInlet, Name: "DOFFLEMYER POINT", State: "WA", Lat: 47.1417, Lng: -122.9067},
		{ID: SantaCruz, Name: "Santa Cruz", State: "CA", Lat: 36.9583, Lng: -122.0167},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stations (-want,+got):\n%s", diff)
	}
}

// recordingTransport answers every request with body and remembers the URLs.
type recordingTransport struct {
	body string
	urls []string
}

func (rt *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rt.urls = append(rt.urls, r.URL.String())
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func TestZeroClientUsesPublicEndpoints(t *testing.T) {
	rt := &recordingTransport{body: `{"stations": [], "predictions": []}`}
	c := &Client{HTTPClient: &http.Client{Transport: rt}}

	if _, err := c.ListStations(context.Background()); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if _, err := c.GetPredictions(context.Background(), &june5); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(rt.urls) != 2 {
		t.Fatalf("got %d requests, want 2", len(rt.urls))
	}
	if rt.urls[0] != STATIONS_URL {
		t.Errorf("stations fetched from %q, want %q", rt.urls[0], STATIONS_URL)
	}
	if !strings.HasPrefix(rt.urls[1], NOAA_URL+"?") {
		t.Errorf("predictions fetched from %q", rt.urls[1])
	}
}
