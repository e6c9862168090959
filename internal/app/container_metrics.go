package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-sync/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal    prometheus.Counter     `name:"gateway_retries_total"`
	StoreErrorsTotal       *prometheus.CounterVec `name:"store_errors_total"`
	Sync                   *metrics.Sync
	HTTP                   *metrics.HTTP
}

// provideMetrics registers collectors on the default registerer. Collectors
// that are already registered are reused so repeated container builds work.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	var out metricsOut
	var err error
	if out.RateLimitExceededTotal, err = register(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GatewayRetriesTotal, err = register(reg, "gateway_retries_total", metrics.NewGatewayRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.StoreErrorsTotal, err = register(reg, "store_errors_total", metrics.NewStoreErrorsTotal()); err != nil {
		return metricsOut{}, err
	}

	s := metrics.NewSync()
	if s.Attempts, err = register(reg, "sync_attempts_total", s.Attempts); err != nil {
		return metricsOut{}, err
	}
	if s.Pending, err = register(reg, "sync_pending_queue_size", s.Pending); err != nil {
		return metricsOut{}, err
	}
	out.Sync = s

	h := metrics.NewHTTP()
	if h.Requests, err = register(reg, "http_requests_total", h.Requests); err != nil {
		return metricsOut{}, err
	}
	if h.Duration, err = register(reg, "http_request_duration_seconds", h.Duration); err != nil {
		return metricsOut{}, err
	}
	out.HTTP = h

	return out, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
