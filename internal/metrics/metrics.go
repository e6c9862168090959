package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retries against the remote delivery API
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts against the remote delivery API",
	})
}

// NewStoreErrorsTotal returns a counter of absorbed local store failures by operation.
func NewStoreErrorsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of local store failures absorbed by the record store",
	}, []string{"op"})
}

// Sync groups the sync engine collectors.
type Sync struct {
	Attempts *prometheus.CounterVec
	Pending  prometheus.Gauge
}

// NewSync returns unregistered sync collectors.
func NewSync() *Sync {
	return &Sync{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_attempts_total",
			Help: "Total number of remote sync attempts by path and outcome",
		}, []string{"path", "outcome"}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sync_pending_queue_size",
			Help: "Number of records waiting in the pending sync queue",
		}),
	}
}

// Collectors returns the collectors for registration.
func (s *Sync) Collectors() []prometheus.Collector {
	return []prometheus.Collector{s.Attempts, s.Pending}
}

// Observe counts one sync attempt. Safe on a nil receiver.
func (s *Sync) Observe(path, outcome string) {
	if s == nil {
		return
	}
	s.Attempts.WithLabelValues(path, outcome).Inc()
}

// SetPending publishes the pending queue size. Safe on a nil receiver.
func (s *Sync) SetPending(n int) {
	if s == nil {
		return
	}
	s.Pending.Set(float64(n))
}

// HTTP groups the loopback HTTP surface collectors.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP returns unregistered HTTP collectors labeled by method, route pattern and status.
func NewHTTP() *HTTP {
	return &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Collectors returns the collectors for registration.
func (h *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{h.Requests, h.Duration}
}
