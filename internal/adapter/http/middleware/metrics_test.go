package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/contaledger/contaledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(NewMetrics(m))
	r.Post("/api/v1/periods/{id}/close", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/periods/01ABC/close", nil))

	counter := m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/periods/{id}/close", "409")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}
}

func TestMetricsMiddlewareWithoutRouter(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	NewMetrics(m)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/A1", nil))

	if !handlerCalled {
		t.Fatalf("next handler was not invoked")
	}
	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/accounts/{id}", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "period path without suffix",
			input:    "/api/v1/periods/ABC123",
			expected: "/api/v1/periods/{id}",
		},
		{
			name:     "period path with suffix",
			input:    "/api/v1/periods/ABC123/reopen",
			expected: "/api/v1/periods/{id}/reopen",
		},
		{
			name:     "account path",
			input:    "/api/v1/accounts/XYZ789",
			expected: "/api/v1/accounts/{id}",
		},
		{
			name:     "collection root",
			input:    "/api/v1/periods/",
			expected: "/api/v1/periods/",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
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
