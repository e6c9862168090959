package deliveryapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

type api interface {
	Ping(ctx context.Context) error
	CreateRequest(ctx context.Context, rec domain.DeliveryRequest) (domain.DeliveryRequest, error)
	UpdateRequest(ctx context.Context, serverID int64, upd domain.RequestUpdate) (domain.DeliveryRequest, error)
	GetRequest(ctx context.Context, serverID int64) (domain.DeliveryRequest, error)
	DeleteRequest(ctx context.Context, serverID int64) error
	ListRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error)
	ListAssignedRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error)
	SyncBatch(ctx context.Context, recs []domain.DeliveryRequest) ([]domain.DeliveryRequest, error)
	SyncStatus(ctx context.Context) (map[string]any, error)
	Statistics(ctx context.Context, period domain.StatsPeriod, role domain.Role) (domain.Statistics, error)
	ListPartners(ctx context.Context, location string, radius int) ([]domain.Partner, error)
}

var _ api = (*Client)(nil)

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingClient
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingClient retries transient failures of the wrapped client with
// capped exponential backoff. Non-idempotent calls (create, batch) are only
// retried when the server explicitly refused to process them (429, 503).
type RetryingClient struct {
	next    api
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingClient оборачивает next, при next == nil возвращает nil
func NewRetryingClient(next api, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingClient {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingClient{next: next, logger: logger.With(logx.Component("delivery_api")), retries: retries, cfg: cfg}
}

// Ping is never retried; the prober polls on its own schedule.
func (g *RetryingClient) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// CreateRequest implements the remote create.
func (g *RetryingClient) CreateRequest(ctx context.Context, rec domain.DeliveryRequest) (domain.DeliveryRequest, error) {
	return retry(ctx, g, "CreateRequest", false, func(ctx context.Context) (domain.DeliveryRequest, error) {
		return g.next.CreateRequest(ctx, rec)
	})
}

// UpdateRequest implements the remote partial update.
func (g *RetryingClient) UpdateRequest(ctx context.Context, serverID int64, upd domain.RequestUpdate) (domain.DeliveryRequest, error) {
	return retry(ctx, g, "UpdateRequest", true, func(ctx context.Context) (domain.DeliveryRequest, error) {
		return g.next.UpdateRequest(ctx, serverID, upd)
	})
}

// GetRequest implements the remote fetch of one record.
func (g *RetryingClient) GetRequest(ctx context.Context, serverID int64) (domain.DeliveryRequest, error) {
	return retry(ctx, g, "GetRequest", true, func(ctx context.Context) (domain.DeliveryRequest, error) {
		return g.next.GetRequest(ctx, serverID)
	})
}

// DeleteRequest implements the remote delete.
func (g *RetryingClient) DeleteRequest(ctx context.Context, serverID int64) error {
	_, err := retry(ctx, g, "DeleteRequest", true, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.next.DeleteRequest(ctx, serverID)
	})
	return err
}

// ListRequests implements the remote listing.
func (g *RetryingClient) ListRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error) {
	return retry(ctx, g, "ListRequests", true, func(ctx context.Context) (domain.RequestPage, error) {
		return g.next.ListRequests(ctx, q)
	})
}

// ListAssignedRequests implements the remote driver listing.
func (g *RetryingClient) ListAssignedRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error) {
	return retry(ctx, g, "ListAssignedRequests", true, func(ctx context.Context) (domain.RequestPage, error) {
		return g.next.ListAssignedRequests(ctx, q)
	})
}

// SyncBatch implements the bulk sync.
func (g *RetryingClient) SyncBatch(ctx context.Context, recs []domain.DeliveryRequest) ([]domain.DeliveryRequest, error) {
	return retry(ctx, g, "SyncBatch", false, func(ctx context.Context) ([]domain.DeliveryRequest, error) {
		return g.next.SyncBatch(ctx, recs)
	})
}

// SyncStatus implements the server sync report.
func (g *RetryingClient) SyncStatus(ctx context.Context) (map[string]any, error) {
	return retry(ctx, g, "SyncStatus", true, func(ctx context.Context) (map[string]any, error) {
		return g.next.SyncStatus(ctx)
	})
}

// Statistics implements the remote statistics.
func (g *RetryingClient) Statistics(ctx context.Context, period domain.StatsPeriod, role domain.Role) (domain.Statistics, error) {
	return retry(ctx, g, "Statistics", true, func(ctx context.Context) (domain.Statistics, error) {
		return g.next.Statistics(ctx, period, role)
	})
}

// ListPartners implements the remote partner listing.
func (g *RetryingClient) ListPartners(ctx context.Context, location string, radius int) ([]domain.Partner, error) {
	return retry(ctx, g, "ListPartners", true, func(ctx context.Context) ([]domain.Partner, error) {
		return g.next.ListPartners(ctx, location, radius)
	})
}

func retry[T any](ctx context.Context, g *RetryingClient, method string, idempotent bool, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		// проверяем условия повтора
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err, idempotent) {
			break
		}
		// вычисляем задержку
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("delivery api retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

func isRetryable(err error, idempotent bool) bool {
	if se, ok := AsStatusError(err); ok {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return true
		}
		return idempotent && se.Temporary()
	}
	return idempotent && errors.Is(err, apperr.ErrRemoteUnavailable)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
