package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/spencer-p/lowtide/pkg/cache"
	"github.com/spencer-p/lowtide/pkg/geo"
	"github.com/spencer-p/lowtide/pkg/lowtide"
	"github.com/spencer-p/lowtide/pkg/metrics"
	"github.com/spencer-p/lowtide/pkg/noaa"
	"github.com/spencer-p/lowtide/pkg/report"
	"github.com/spencer-p/lowtide/pkg/tides"
	"github.com/spencer-p/lowtide/pkg/zipcode"
)

const (
	day            = 24 * time.Hour
	forecastLength = 7 * day
	dateFormat     = "2006-01-02"
)

type Runner interface {
	Run(ctx context.Context, req lowtide.Request) (*lowtide.Result, error)
}

type Recorder interface {
	Record(ctx context.Context, res *lowtide.Result) error
}

// Options configure a Server. Zero values fall back to the package defaults.
type Options struct {
	Prefix     string
	DefaultZip int
	Location   *time.Location
	CacheTTL   time.Duration
	Sessions   sessions.Store

	// Now is the clock used for default dates.
	Now func() time.Time
}

// Server serves low tide lookups over HTTP.
type Server struct {
	runner   Runner
	recorder Recorder
	opts     Options
	cache    *cache.Timed
}

func New(runner Runner, recorder Recorder, opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = "/"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Sessions == nil {
		opts.Sessions = NewStore("", "")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		runner:   runner,
		recorder: recorder,
		opts:     opts,
		cache:    cache.NewTimed(opts.CacheTTL),
	}
}

// Register adds the server's routes to r.
func (s *Server) Register(r *mux.Router) {
	r.Handle("/api/v1/lowtides", s.makeServeLowTides()).Methods(http.MethodGet)
	r.Handle("/config", s.makeConfigPreferences()).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok\n")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
}

// StatusFor maps a lookup failure to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, lowtide.ErrInvalidRequest),
		errors.Is(err, tides.ErrInvalidCriteria),
		errors.Is(err, geo.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, geo.ErrNotFound),
		errors.Is(err, geo.ErrEmpty),
		errors.Is(err, noaa.ErrNoPredictions):
		return http.StatusNotFound
	case errors.Is(err, noaa.ErrTransport),
		errors.Is(err, zipcode.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) makeServeLowTides() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.opts.Sessions.Get(r, sessionName)
		prefs := s.preferencesFrom(session)
		session.Values[sessionLastViewed] = r.URL.RequestURI()
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
		}

		req, format, err := s.parseRequest(r, prefs)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		key := cacheKey(format, req)
		if cached, ok := s.cache.Get(key); ok {
			w.Header().Add("Content-Type", contentType(format))
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		log.Println("No cache data")

		res, err := s.runner.Run(r.Context(), req)
		if err != nil {
			writeError(w, StatusFor(err), err)
			return
		}
		metrics.ObserveLookup(string(res.Station.ID))
		if err := s.recorder.Record(r.Context(), res); err != nil {
			log.Printf("Failed to record lookup: %v", err)
		}

		var body bytes.Buffer
		if err := report.Write(&body, format, res); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.cache.Set(key, body.Bytes())

		w.Header().Add("Content-Type", contentType(format))
		w.WriteHeader(http.StatusOK)
		w.Write(body.Bytes())
	})
}

// parseRequest reads query parameters, falling back to prefs and then to a
// week starting today.
func (s *Server) parseRequest(r *http.Request, prefs preferences) (lowtide.Request, string, error) {
	q := r.URL.Query()
	format := valueOr(q.Get("o"), report.FormatText)
	switch format {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		return lowtide.Request{}, "", fmt.Errorf("unknown output format %q", format)
	}

	today := s.opts.Now().In(s.opts.Location)
	begin := valueOr(q.Get("begin"), today.Format(dateFormat))
	end := q.Get("end")
	if end == "" {
		parsed, err := time.Parse(dateFormat, begin)
		if err != nil {
			return lowtide.Request{}, "", fmt.Errorf("begin date %q: %w", begin, lowtide.ErrInvalidRequest)
		}
		end = parsed.Add(forecastLength - day).Format(dateFormat)
	}

	zip := prefs.Zip
	if z := q.Get("zip"); z != "" {
		parsed, err := strconv.Atoi(z)
		if err != nil {
			return lowtide.Request{}, "", fmt.Errorf("zip %q: %w", z, lowtide.ErrInvalidRequest)
		}
		zip = parsed
	}

	low := prefs.Low
	if l := q.Get("low"); l != "" {
		parsed, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return lowtide.Request{}, "", fmt.Errorf("low tide %q: %w", l, tides.ErrInvalidCriteria)
		}
		low = parsed
	}

	criteria, err := tides.NewCriteria(low,
		valueOr(q.Get("weekdays"), prefs.Weekdays),
		valueOr(q.Get("start"), "00:00"),
		valueOr(q.Get("end_time"), "23:59"))
	if err != nil {
		return lowtide.Request{}, "", err
	}

	req := lowtide.Request{Begin: begin, End: end, Zip: zip, Criteria: criteria}
	if d := q.Get("daylight"); d != "" {
		daylight, err := strconv.ParseBool(d)
		if err != nil {
			return lowtide.Request{}, "", fmt.Errorf("daylight %q: %w", d, lowtide.ErrInvalidRequest)
		}
		if daylight {
			req.Daylight = s.opts.Location
		}
	}
	return req, format, nil
}

// cacheKey names a resolved request. Dates defaulted from the clock are
// already filled in, so a new day misses the cache.
func cacheKey(format string, req lowtide.Request) string {
	zone := "-"
	if req.Daylight != nil {
		zone = req.Daylight.String()
	}
	c := req.Criteria
	return fmt.Sprintf("%s %s..%s zip=%05d low=%g weekdays=%s %s-%s daylight=%s",
		format, req.Begin, req.End, req.Zip, c.MaxHeight, c.Weekdays, c.Start, c.End, zone)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(status)
	fmt.Fprintf(w, "Failed to get data: %v\n", err)
	log.Printf("Failed to get data: %+v", err)
}

func contentType(format string) string {
	switch format {
	case report.FormatJSON:
		return "application/json"
	case report.FormatYAML:
		return "application/yaml"
	default:
		return "text/plain"
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
