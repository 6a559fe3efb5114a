package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-test"))
	r.Post("/admin/urls/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	counter := httpRequestsTotal.WithLabelValues("metrics-test", http.MethodPost, "/admin/urls/{id}/status", "409")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/urls/"+id+"/status", nil))
	}

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0.001)
	assert.InDelta(t, 0, testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("metrics-test")), 0.001)
}

func TestPrometheusMetrics_DefaultStatusIsOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-default"))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := httpRequestsTotal.WithLabelValues("metrics-default", http.MethodGet, "/ok", "200")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}

func TestPrometheusMetrics_UnmatchedRoute(t *testing.T) {
	handler := PrometheusMetrics("metrics-unmatched")(http.NotFoundHandler())

	counter := httpRequestsTotal.WithLabelValues("metrics-unmatched", http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}
