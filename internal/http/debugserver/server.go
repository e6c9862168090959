// Package debugserver serves profiling and sync diagnostics on a separate listener.
package debugserver

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/service/syncer"
)

// Config stores listener credentials. Loopback callers skip the check.
type Config struct {
	User string
	Pass string
}

// Inspector exposes the sync state shown on /debug/sync.
type Inspector interface {
	Status(ctx context.Context) syncer.StatusReport
	Pending(ctx context.Context) []domain.DeliveryRequest
}

type snapshot struct {
	Status  syncer.StatusReport      `json:"status"`
	Pending []domain.DeliveryRequest `json:"pending"`
}

// Handler returns the diagnostics mux. A nil inspector omits /debug/sync.
func Handler(cfg Config, insp Inspector, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()
	r.Use(guard(cfg))

	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	for _, name := range []string{"heap", "goroutine", "allocs", "block", "mutex", "threadcreate"} {
		r.Handle("/debug/pprof/"+name, pprof.Handler(name))
	}

	if insp != nil {
		r.Get("/debug/sync", func(w http.ResponseWriter, req *http.Request) {
			snap := snapshot{
				Status:  insp.Status(req.Context()),
				Pending: insp.Pending(req.Context()),
			}
			if snap.Pending == nil {
				snap.Pending = []domain.DeliveryRequest{}
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(snap); err != nil {
				logger.Warn("debug snapshot write failed", logx.Err(err))
			}
		})
	}
	return r
}

func guard(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) || authorized(r, cfg) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func authorized(r *http.Request, cfg Config) bool {
	if cfg.User == "" || cfg.Pass == "" {
		return false
	}
	u, p, ok := r.BasicAuth()
	return ok && secureEq(u, cfg.User) && secureEq(p, cfg.Pass)
}

func secureEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
