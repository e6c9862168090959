package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-sync/internal/config"
	"delivery-sync/internal/gateway/deliveryapi"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
	"delivery-sync/internal/reachability"
	"delivery-sync/internal/repository"
	"delivery-sync/internal/service/syncer"
	"delivery-sync/internal/transport/kafka"
)

type retryingClientIn struct {
	dig.In
	Config  *config.Config
	Logger  logx.Logger
	Client  *deliveryapi.Client
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

type engineIn struct {
	dig.In
	Ctx       context.Context
	Config    *config.Config
	Logger    logx.Logger
	Store     *repository.RecordStore
	Remote    *deliveryapi.RetryingClient
	Monitor   *reachability.Monitor
	Publisher *kafka.Publisher
	Metrics   *metrics.Sync
}

func registerSync(container *dig.Container) error {
	return provideAll(container,
		newAPIClient,
		newRetryingClient,
		newMonitor,
		newProber,
		newPublisher,
		newEngine,
	)
}

func newAPIClient(cfg *config.Config) *deliveryapi.Client {
	return deliveryapi.New(deliveryapi.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
		Rate:    cfg.API.Rate,
		Burst:   cfg.API.Burst,
	})
}

func newRetryingClient(in retryingClientIn) *deliveryapi.RetryingClient {
	return deliveryapi.NewRetryingClient(in.Client, in.Logger, in.Retries, deliveryapi.RetryConfig{
		MaxAttempts: in.Config.Retry.MaxAttempts,
		BaseDelay:   in.Config.Retry.BaseDelay,
		MaxDelay:    in.Config.Retry.MaxDelay,
	})
}

// newMonitor starts offline; the first successful probe counts as a reconnect
// and drains whatever was queued before the restart.
func newMonitor(logger logx.Logger) *reachability.Monitor {
	return reachability.NewMonitor(false, reachability.WithLogger(logger))
}

// newProber pings the unwrapped client so a probe never retries.
func newProber(cfg *config.Config, logger logx.Logger, monitor *reachability.Monitor, client *deliveryapi.Client) *reachability.Prober {
	return reachability.NewProber(monitor, client, cfg.Reachability.ProbeInterval, cfg.Reachability.ProbeTimeout, logger)
}

func newPublisher(cfg *config.Config, logger logx.Logger) (*kafka.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("sync event journal disabled")
		return nil, nil
	}
	return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
}

func newEngine(in engineIn) *syncer.Engine {
	opts := []syncer.Option{
		syncer.WithLogger(in.Logger),
		syncer.WithMetrics(in.Metrics),
		syncer.WithMaxPages(in.Config.Sync.MaxPages),
		syncer.WithBatchEndpoint(in.Config.Sync.UseBatchEndpoint),
	}
	if in.Publisher != nil {
		opts = append(opts, syncer.WithPublisher(in.Publisher))
	}
	engine := syncer.NewEngine(in.Store, in.Remote, in.Monitor, opts...)

	ctx := in.Ctx
	in.Monitor.OnReconnect(func() { engine.Reconnected(ctx) })
	return engine
}
