package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"delivery-sync/internal/metrics"
	testlog "delivery-sync/internal/testutil"
)

func TestObservability_UsesRoutePatternForLabels(t *testing.T) {
	t.Parallel()

	m := metrics.NewHTTP()
	rec := testlog.New()

	r := chi.NewRouter()
	r.Use(Observability(rec.Logger(), m))
	r.Get("/requests/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/requests/local-123", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/requests/{id}", "204")))
	require.Equal(t, uint64(1), histogramCount(t, m.Duration, http.MethodGet, "/requests/{id}", "204"))

	entries := rec.Find("info", "http request")
	require.Len(t, entries, 1)
	path, _ := entries[0].Field("path")
	require.Equal(t, "/requests/{id}", path)
}

func TestObservability_ImplicitOKAndNilMetrics(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(Observability(nil, nil))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func histogramCount(t *testing.T, hv *prometheus.HistogramVec, method, path, status string) uint64 {
	t.Helper()

	obs, err := hv.GetMetricWithLabelValues(method, path, status)
	require.NoError(t, err)

	metric, ok := obs.(prometheus.Metric)
	require.True(t, ok, "must implement prometheus.Metric")

	m := &dto.Metric{}
	require.NoError(t, metric.Write(m))

	h := m.GetHistogram()
	require.NotNil(t, h)
	return h.GetSampleCount()
}
