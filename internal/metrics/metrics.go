// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the transit search engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helioselene_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helioselene_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helioselene_scan_duration_seconds",
			Help:    "Duration of complete transit prediction scans in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helioselene_scans_total",
			Help: "Total number of transit prediction scans.",
		},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helioselene_events_total",
			Help: "Total number of emitted transit events.",
		},
		[]string{"kind", "body"},
	)

	propagationErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helioselene_propagation_errors_total",
			Help: "Total number of per-instant propagation failures skipped during scans.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(scanDurationSeconds)
	prometheus.MustRegister(scansTotal)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(propagationErrorsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScan records a completed prediction scan.
func RecordScan(duration time.Duration) {
	scansTotal.Inc()
	scanDurationSeconds.Observe(duration.Seconds())
}

// RecordEvent records one emitted event by classification kind and body name.
func RecordEvent(kind, body string) {
	eventsTotal.WithLabelValues(kind, body).Inc()
}

// RecordPropagationError records a skipped per-instant propagation failure.
func RecordPropagationError() {
	propagationErrorsTotal.Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
