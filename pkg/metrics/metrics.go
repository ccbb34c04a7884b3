package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "lowtide",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "upstream_requests_total",
			Subsystem: "lowtide",
			Help:      "Requests to NOAA and the Census Bureau by outcome.",
		},
		[]string{"source", "outcome"},
	)

	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "lookups_total",
			Subsystem: "lowtide",
			Help:      "Low tide lookups by nearest station.",
		},
		[]string{"station"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		upstreamRequests,
		lookups,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveUpstream counts one request to an external data source.
func ObserveUpstream(source, outcome string) {
	upstreamRequests.With(prometheus.Labels{
		"source":  source,
		"outcome": outcome,
	}).Inc()
}

// ObserveLookup counts a completed lookup that resolved to station.
func ObserveLookup(station string) {
	lookups.With(prometheus.Labels{"station": station}).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// LatencyHandler observes request latency per route. Use it as mux
// middleware so the route is known; requests outside any route share the
// "unmatched" path label.
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := routeLabel(r)
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(sw.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(sw, r)
	})
}

func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
