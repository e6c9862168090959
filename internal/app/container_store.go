package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-sync/internal/config"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/repository"
)

type recordStoreIn struct {
	dig.In
	Slots  repository.SlotBackend
	Logger logx.Logger
	Errors *prometheus.CounterVec `name:"store_errors_total"`
}

func registerStore(container *dig.Container, dbConnect dbConnectFunc) error {
	slotsProvider := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (repository.SlotBackend, error) {
		return openSlots(ctx, cfg, logger, dbConnect)
	}
	return provideAll(container,
		slotsProvider,
		func(in recordStoreIn) *repository.RecordStore {
			return repository.NewRecordStore(in.Slots, in.Logger, in.Errors)
		},
	)
}

func openSlots(ctx context.Context, cfg *config.Config, logger logx.Logger, dbConnect dbConnectFunc) (repository.SlotBackend, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		logger.Warn("using in-memory store, local state is lost on exit")
		return repository.NewMemorySlots(), nil
	case config.StorePostgres:
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		slots := repository.NewPGSlots(pool)
		if err := slots.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return slots, nil
	case config.StoreBadger, "":
		slots, err := repository.OpenBadgerSlots(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("badger store opened", logx.String("path", cfg.Store.Path))
		return slots, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
