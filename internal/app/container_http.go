package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"delivery-sync/internal/config"
	"delivery-sync/internal/gateway/deliveryapi"
	"delivery-sync/internal/http/debugserver"
	"delivery-sync/internal/http/handlers"
	"delivery-sync/internal/http/middleware"
	"delivery-sync/internal/http/middleware/ratelimit"
	"delivery-sync/internal/http/router"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
	"delivery-sync/internal/reachability"
	"delivery-sync/internal/service/syncer"
)

type routerIn struct {
	dig.In
	Logger    logx.Logger
	Base      *handlers.Handlers
	Requests  *handlers.RequestHandler
	Sync      *handlers.SyncHandler
	Session   *handlers.SessionHandler
	Remote    *handlers.RemoteHandler
	RateLimit *ratelimit.Middleware
	Metrics   *metrics.HTTP
}

type debugServerOut struct {
	dig.Out
	Server *http.Server `name:"debug_server"`
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, engine *syncer.Engine) *handlers.RequestHandler {
			return handlers.NewRequestHandler(logger, engine)
		},
		func(logger logx.Logger, engine *syncer.Engine, monitor *reachability.Monitor) *handlers.SyncHandler {
			return handlers.NewSyncHandler(logger, engine, monitor)
		},
		func(logger logx.Logger, engine *syncer.Engine) *handlers.SessionHandler {
			return handlers.NewSessionHandler(logger, engine)
		},
		func(logger logx.Logger, remote *deliveryapi.RetryingClient, monitor *reachability.Monitor) *handlers.RemoteHandler {
			return handlers.NewRemoteHandler(logger, remote, monitor)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServer,
		newDebugServer,
	)
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:     in.Base,
		Requests: in.Requests,
		Sync:     in.Sync,
		Session:  in.Session,
		Remote:   in.Remote,
		Metrics:  promhttp.Handler(),
		Middlewares: []func(http.Handler) http.Handler{
			middleware.Observability(in.Logger, in.Metrics),
			in.RateLimit.Handler(),
		},
	})
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// newDebugServer returns a nil server when the listener is disabled.
func newDebugServer(cfg *config.Config, logger logx.Logger, engine *syncer.Engine) debugServerOut {
	if !cfg.Debug.Enabled {
		return debugServerOut{}
	}
	h := debugserver.Handler(debugserver.Config{User: cfg.Debug.User, Pass: cfg.Debug.Pass}, engine, logger)
	return debugServerOut{Server: &http.Server{
		Addr:              cfg.Debug.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
