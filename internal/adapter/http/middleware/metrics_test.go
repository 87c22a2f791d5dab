package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/openbooks/yearend/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes fiscal year path",
			method:     http.MethodPost,
			path:       "/api/v1/companies/co-1/fiscal-years/01ABC/close",
			statusCode: http.StatusConflict,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			NewHTTPMetrics(m).Wrap(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, normalizePath(tc.path), strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(NewHTTPMetrics(m).Wrap)
	r.Post("/api/v1/companies/{companyID}/fiscal-years/{id}/close", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies/co-1/fiscal-years/fy-2024/close", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	counter := m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/companies/{companyID}/fiscal-years/{id}/close", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter for route pattern to be 1, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fiscal year list",
			input:    "/api/v1/companies/co-1/fiscal-years",
			expected: "/api/v1/companies/:id/fiscal-years",
		},
		{
			name:     "fiscal year action",
			input:    "/api/v1/companies/co-1/fiscal-years/01ABC/refresh",
			expected: "/api/v1/companies/:id/fiscal-years/:id/refresh",
		},
		{
			name:     "current fiscal year",
			input:    "/api/v1/companies/co-1/fiscal-years/current",
			expected: "/api/v1/companies/:id/fiscal-years/current",
		},
		{
			name:     "non-matching path",
			input:    "/metrics",
			expected: "/metrics",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
