package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/yearend/internal/infrastructure/metrics"
)

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	m *metrics.Metrics
}

// NewHTTPMetrics creates a new HTTPMetrics middleware.
func NewHTTPMetrics(m *metrics.Metrics) *HTTPMetrics {
	return &HTTPMetrics{m: m}
}

// Wrap records HTTP metrics for next.
func (h *HTTPMetrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		h.m.HTTPInFlight.Inc()
		defer h.m.HTTPInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePattern(r)

		h.m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		h.m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// routePattern prefers the matched chi pattern and falls back to
// normalizePath for requests served outside a chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// fixedSegments are path segments that are never IDs.
var fixedSegments = map[string]bool{
	"current": true,
	"open":    true,
}

// normalizePath replaces IDs in URL paths to avoid high cardinality.
// /api/v1/companies/co-1/fiscal-years/01ABC/close -> /api/v1/companies/:id/fiscal-years/:id/close
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "companies", "fiscal-years":
			if parts[i] != "" && !fixedSegments[parts[i]] {
				parts[i] = ":id"
			}
		}
	}
	return strings.Join(parts, "/")
}
