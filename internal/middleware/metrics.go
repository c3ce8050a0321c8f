package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrdesk_http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	scansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrdesk_scans_total",
			Help: "Total QR code scans resolved",
		},
	)
)

// CountScan bumps the scan counter; called from the scan handler so
// redirects and hosted pages both count once.
func CountScan() {
	scansTotal.Inc()
}

// Metrics records request counts and latency. Paths are normalized so
// per-record ids do not blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
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

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// normalizePath collapses id segments to {id}.
func normalizePath(path string) string {
	for _, prefix := range []string{"/scan/", "/preview/", "/qr-image/", "/files/", "/api/scan-info/"} {
		if strings.HasPrefix(path, prefix) {
			return prefix + "{id}"
		}
	}

	const apiPrefix = "/api/qr/"
	if strings.HasPrefix(path, apiPrefix) {
		rest := strings.TrimPrefix(path, apiPrefix)
		if rest == "create" || rest == "stats" {
			return path
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return apiPrefix + "{id}" + rest[i:]
		}
		if rest != "" {
			return apiPrefix + "{id}"
		}
	}

	return path
}
