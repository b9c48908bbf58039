package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()
	httpRequestsInFlight.Set(0)

	r := chi.NewRouter()
	r.Use(Metrics)
	r.Put("/api/v1/drafts/{id}/lines/{idx}/amount", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/api/v1/drafts/01ABC/lines/0/amount", "/api/v1/drafts/01XYZ/lines/3/amount"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, path, nil))
	}

	if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}

	counter := httpRequestsTotal.WithLabelValues(http.MethodPut, "/api/v1/drafts/{id}/lines/{idx}/amount", "418")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected both requests under one pattern, got %v", got)
	}
}

func TestMetricsMiddlewareUnroutedRequest(t *testing.T) {
	httpRequestsTotal.Reset()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	Metrics(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/anything/123", nil))

	counter := httpRequestsTotal.WithLabelValues(http.MethodPost, "unmatched", "201")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}
