package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
)

// Observability records request counters and latency under the chi route
// pattern and logs one line per request. A nil m disables the metrics.
func Observability(logger logx.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor) // через прокси читаем статус
			next.ServeHTTP(ww, r)

			// шаблон роута, а не сырой путь, иначе метки разрастутся
			path := pathPattern(r)
			tm := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			status := strconv.Itoa(code)

			if m != nil {
				m.Requests.WithLabelValues(r.Method, path, status).Inc()
				m.Duration.WithLabelValues(r.Method, path, status).Observe(tm.Seconds())
			}

			logger.Info("http request",
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", tm),
			)
		})
	}
}

// pathPattern возвращает шаблон chi или unmatched
func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
