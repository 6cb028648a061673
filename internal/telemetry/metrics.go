package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Filter outcomes recorded by ObserveFilter.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeParseError = "parse_error"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	filterRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_requests_total",
			Help: "Filter requests by outcome",
		},
		[]string{"outcome"},
	)
	filterRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_records_total",
			Help: "Records scanned (input) and returned (matched) by successful filter requests",
		},
		[]string{"stage"},
	)
)

// NewRegistry returns a registry holding the service collectors plus the Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpReqs, httpDur, filterRequests, filterRecords,
	)
	return reg
}

// Handler exposes reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveFilter records the outcome of one filter request. scanned and matched
// are only counted for OutcomeOK.
func ObserveFilter(outcome string, scanned, matched int) {
	filterRequests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	filterRecords.WithLabelValues("input").Add(float64(scanned))
	filterRecords.WithLabelValues("matched").Add(float64(matched))
}

// unmatchedRoute is the route label for requests chi could not route.
const unmatchedRoute = "unmatched"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		// route pattern is only known once chi has routed the request
		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
