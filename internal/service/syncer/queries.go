package syncer

import (
	"context"
	"fmt"
	"time"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
)

// StatusReport is the sync health shown to the user.
type StatusReport struct {
	Online    bool       `json:"online"`
	Pending   int        `json:"pending"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// List returns every local record.
func (e *Engine) List(ctx context.Context) []domain.DeliveryRequest {
	return e.store.GetAll(ctx)
}

// Get returns one local record.
func (e *Engine) Get(ctx context.Context, id string) (domain.DeliveryRequest, error) {
	rec, ok := e.store.Get(ctx, id)
	if !ok {
		return domain.DeliveryRequest{}, fmt.Errorf("record %s: %w", id, apperr.ErrNotFound)
	}
	return rec, nil
}

// Pending returns the queued records in drain order.
func (e *Engine) Pending(ctx context.Context) []domain.DeliveryRequest {
	return e.store.GetPendingQueue(ctx)
}

// Stats aggregates the local record set.
func (e *Engine) Stats(ctx context.Context) domain.LocalStats {
	return localStats(e.store.GetAll(ctx))
}

func localStats(recs []domain.DeliveryRequest) domain.LocalStats {
	st := domain.LocalStats{
		Total:        len(recs),
		ByStatus:     make(map[domain.Status]int),
		BySyncStatus: make(map[domain.SyncStatus]int),
	}
	for _, r := range recs {
		st.ByStatus[r.Status]++
		st.BySyncStatus[r.SyncStatus]++
		switch r.Status {
		case domain.StatusPending, domain.StatusInProgress:
			st.Active++
		case domain.StatusCompleted:
			st.Completed++
		}
	}
	return st
}

// RemoteStatistics fetches the aggregate for the signed-in role.
func (e *Engine) RemoteStatistics(ctx context.Context, period domain.StatsPeriod) (domain.Statistics, error) {
	if period == "" {
		period = domain.PeriodAll
	}
	if !period.Valid() {
		return domain.Statistics{}, fmt.Errorf("period %q: %w", period, apperr.ErrInvalid)
	}
	if !e.net.IsOnline() {
		return domain.Statistics{}, fmt.Errorf("statistics: %w", apperr.ErrNetworkUnavailable)
	}
	role := domain.RoleCustomer
	if e.store.Session(ctx).IsDriver() {
		role = domain.RoleDriver
	}
	return e.remote.Statistics(ctx, period, role)
}

// Status reports connectivity, queue depth and the last sync outcome.
func (e *Engine) Status(ctx context.Context) StatusReport {
	rep := StatusReport{
		Online:  e.net.IsOnline(),
		Pending: len(e.store.GetPendingQueue(ctx)),
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.lastSync.IsZero() {
		at := e.lastSync
		rep.LastSync = &at
	}
	rep.LastError = e.lastErr
	return rep
}

// SaveSession caches the signed-in profile.
func (e *Engine) SaveSession(ctx context.Context, sess domain.Session) error {
	if !sess.Role.Valid() {
		return fmt.Errorf("role %q: %w", sess.Role, apperr.ErrInvalid)
	}
	e.store.SaveSession(ctx, sess)
	return nil
}

// Session returns the cached profile, or nil.
func (e *Engine) Session(ctx context.Context) *domain.Session {
	return e.store.Session(ctx)
}

// Logout wipes every local slot.
func (e *Engine) Logout(ctx context.Context) {
	e.store.ClearAll(ctx)
	e.setPending(0)
	e.mu.Lock()
	e.lastSync = time.Time{}
	e.lastErr = ""
	e.mu.Unlock()
}
