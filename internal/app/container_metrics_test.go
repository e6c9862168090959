package app

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"delivery-sync/internal/metrics"
)

func withRegistry(t *testing.T, reg prometheus.Registerer) {
	t.Helper()
	old := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	t.Cleanup(func() { prometheus.DefaultRegisterer = old })
}

func TestProvideMetrics_Success_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	withRegistry(t, reg)

	out, err := provideMetrics()
	require.NoError(t, err)
	require.NotNil(t, out.RateLimitExceededTotal)
	require.NotNil(t, out.GatewayRetriesTotal)
	require.NotNil(t, out.StoreErrorsTotal)
	require.NotNil(t, out.Sync)
	require.NotNil(t, out.HTTP)

	out.Sync.Observe("create", "synced")
	out.HTTP.Requests.WithLabelValues("GET", "/ping", "200").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "sync_attempts_total")
	require.Contains(t, names, "http_requests_total")
	require.Contains(t, names, "rate_limit_exceeded_total")
}

func TestProvideMetrics_AlreadyRegistered_ReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	withRegistry(t, reg)

	existingRL := metrics.NewRateLimitExceededTotal()
	existingGR := metrics.NewGatewayRetriesTotal()
	existingSync := metrics.NewSync()

	require.NoError(t, reg.Register(existingRL))
	require.NoError(t, reg.Register(existingGR))
	require.NoError(t, reg.Register(existingSync.Attempts))

	out, err := provideMetrics()
	require.NoError(t, err)

	require.Same(t, existingRL, out.RateLimitExceededTotal)
	require.Same(t, existingGR, out.GatewayRetriesTotal)
	require.Same(t, existingSync.Attempts, out.Sync.Attempts)

	again, err := provideMetrics()
	require.NoError(t, err)
	require.Same(t, out.HTTP.Requests, again.HTTP.Requests)
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestProvideMetrics_RegisterError_NotAlreadyRegistered(t *testing.T) {
	withRegistry(t, errRegisterer{err: errors.New("boom")})

	_, err := provideMetrics()
	require.Error(t, err)
	require.Contains(t, err.Error(), "register rate_limit_exceeded_total")
}
