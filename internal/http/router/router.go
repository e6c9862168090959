package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"delivery-sync/internal/http/handlers"
)

// Deps carries the handlers and middlewares mounted by New.
type Deps struct {
	Base     *handlers.Handlers
	Requests *handlers.RequestHandler
	Sync     *handlers.SyncHandler
	Session  *handlers.SessionHandler
	Remote   *handlers.RemoteHandler
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// Middlewares run after the chi base stack, in order.
	Middlewares []func(http.Handler) http.Handler
	// Timeout bounds each request; zero means 45s.
	Timeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	for _, mw := range d.Middlewares {
		r.Use(mw)
	}

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/requests", func(r chi.Router) {
		r.Get("/", d.Requests.List)
		r.Post("/", d.Requests.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Requests.GetByID)
			r.Patch("/status", d.Requests.UpdateStatus)
			r.Post("/partner", d.Requests.AssignPartner)
			r.Post("/sync", d.Requests.Sync)
		})
	})

	r.Route("/sync", func(r chi.Router) {
		r.Get("/status", d.Sync.Status)
		r.Get("/pending", d.Sync.Pending)
		r.Post("/pending", d.Sync.Drain)
		r.Post("/refresh", d.Sync.Refresh)
		r.Post("/force", d.Sync.Force)
		if d.Remote != nil {
			r.Get("/remote-status", d.Remote.SyncStatus)
		}
	})
	r.Put("/connectivity", d.Sync.SetConnectivity)
	if d.Remote != nil {
		r.Get("/partners", d.Remote.Partners)
	}

	r.Get("/statistics", d.Sync.LocalStats)
	r.Get("/statistics/remote", d.Sync.RemoteStats)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", d.Session.Get)
		r.Put("/", d.Session.Put)
		r.Delete("/", d.Session.Delete)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(d.Base.MethodNotAllowed))

	return r
}
