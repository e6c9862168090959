package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"delivery-sync/internal/logx"
	"delivery-sync/internal/reachability"
	"delivery-sync/internal/repository"
	"delivery-sync/internal/transport/kafka"
)

// Runner runs the HTTP surface and the background prober
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the service using the provided DI container
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

// MustRun starts the service and blocks until the container context is done
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Info("startup aborted: startup timeout exceeded")
	default:
		log.Fatalf("run error: %v", err)
	}
}

type runIn struct {
	dig.In
	Ctx       context.Context
	Logger    logx.Logger
	Server    *http.Server
	Debug     *http.Server `name:"debug_server" optional:"true"`
	Prober    *reachability.Prober
	Slots     repository.SlotBackend
	Publisher *kafka.Publisher
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in runIn) error {
	servers := []*http.Server{in.Server}
	if in.Debug != nil {
		servers = append(servers, in.Debug)
	}
	defer closeResources(in.Logger, in.Slots, in.Publisher)

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		startServer(srv, in.Logger, errCh)
	}

	proberCtx, stopProber := context.WithCancel(in.Ctx)
	defer stopProber()
	go in.Prober.Run(proberCtx)

	var runErr error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down delivery-sync")
		runErr = in.Ctx.Err()
	case runErr = <-errCh:
		in.Logger.Error("listener failed", logx.Err(runErr))
	}

	stopProber()
	for _, srv := range servers {
		gracefulShutdown(srv, in.Logger, 15*time.Second)
	}
	return runErr
}

func startServer(server *http.Server, logger logx.Logger, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(logger logx.Logger, slots repository.SlotBackend, publisher *kafka.Publisher) {
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	if slots != nil {
		if err := slots.Close(); err != nil {
			logger.Error("store close error", logx.Err(err))
		}
	}
}
