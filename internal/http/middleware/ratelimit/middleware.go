package ratelimit

import (
	"io"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"delivery-sync/internal/logx"
)

// Middleware отклоняет запросы сверх лимита клиента с кодом 429
type Middleware struct {
	logger  logx.Logger         // логгер
	counter prometheus.Counter  // счетчик отказов
	limiter Limiter             // лимитер
	exempt  map[string]struct{} // пути без лимита
}

// New создает новый Middleware. Пути из exempt идут мимо лимитера
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, exempt ...string) *Middleware {
	if logger == nil {
		logger = logx.Nop()
	}
	if limiter == nil {
		limiter = NopLimiter{}
	}
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
		exempt:  skip,
	}
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := m.exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if m.limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			// считаю отказы
			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("ip", ip),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			// отвечаю 429, next не вызываю
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				// клиент мог оборвать соединение, это не ошибка бизнес-логики
				m.logger.Debug("rate limit response write failed",
					logx.String("ip", ip),
					logx.Err(err),
				)
			}
		})
	}
}

// clientIP пока без учета X-Forwarded-For
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
