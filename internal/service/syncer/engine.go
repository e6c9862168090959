// Package syncer reconciles locally committed delivery requests with the
// remote delivery API under intermittent connectivity.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/EagleChen/mapmutex"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
	"delivery-sync/internal/syncstate"
)

const (
	defaultMaxPages   = 20
	lockRetryInterval = 5 * time.Millisecond
)

// Engine is the synchronization engine. All intents commit to the local
// store first and reach the remote system only when online.
type Engine struct {
	store     recordStore
	remote    remoteAPI
	net       connectivity
	publisher eventPublisher
	metrics   *metrics.Sync
	logger    logx.Logger

	locks    *mapmutex.Mutex
	group    singleflight.Group
	validate *validator.Validate

	now      func() time.Time
	newID    func() string
	maxPages int
	useBatch bool

	mu       sync.Mutex
	lastSync time.Time
	lastErr  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logx.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPublisher sets the sync event journal.
func WithPublisher(p eventPublisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithMetrics sets the sync collectors.
func WithMetrics(m *metrics.Sync) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides local id generation.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithMaxPages bounds how many remote pages a refresh follows.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithBatchEndpoint routes queued creates through the bulk sync endpoint.
func WithBatchEndpoint(on bool) Option {
	return func(e *Engine) { e.useBatch = on }
}

// WithLocker replaces the per-record lock table.
func WithLocker(m *mapmutex.Mutex) Option {
	return func(e *Engine) {
		if m != nil {
			e.locks = m
		}
	}
}

// NewEngine wires the engine to its collaborators.
func NewEngine(store recordStore, remote remoteAPI, net connectivity, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		remote:    remote,
		net:       net,
		publisher: nopPublisher{},
		logger:    logx.Nop(),
		locks:     mapmutex.NewMapMutex(),
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		maxPages:  defaultMaxPages,
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With(logx.Component("syncer"))
	return e
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.SyncEvent) error { return nil }

// Create commits a new request locally and, when online, pushes it to the
// remote system. Only input validation can fail; remote failures are
// reflected in the returned record's SyncStatus.
func (e *Engine) Create(ctx context.Context, in domain.NewRequest) (domain.DeliveryRequest, error) {
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	in.DropoffAddress = strings.TrimSpace(in.DropoffAddress)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	if err := e.validate.Struct(in); err != nil {
		return domain.DeliveryRequest{}, invalid(err)
	}

	online := e.net.IsOnline()
	now := e.now()
	rec := domain.DeliveryRequest{
		ID:             e.newID(),
		PickupAddress:  in.PickupAddress,
		DropoffAddress: in.DropoffAddress,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		DeliveryNote:   in.DeliveryNote,
		Status:         domain.StatusPending,
		SyncStatus:     syncstate.Mutated(domain.SyncOffline, online),
		CreatedAt:      now,
		UpdatedAt:      now,
		Coordinates:    in.Coordinates,
	}
	if sess := e.store.Session(ctx); sess != nil && rec.CustomerEmail == "" {
		rec.CustomerEmail = sess.Email
	}

	if !e.locks.TryLock(rec.ID) {
		return domain.DeliveryRequest{}, fmt.Errorf("record %s: %w", rec.ID, apperr.ErrConflict)
	}
	defer e.locks.Unlock(rec.ID)

	e.store.Add(ctx, rec)
	e.logger.Info("request created",
		logx.String("event", "request_created"),
		logx.String("id", rec.ID),
		logx.Bool("online", online),
	)

	if !online {
		e.enqueue(ctx, rec)
		return rec, nil
	}
	out, _ := e.syncLocked(ctx, rec)
	return out, nil
}

// SyncOne runs the single-record sync path: a record without a server id is
// created, any other is updated. Offline, an unsettled record is only queued.
func (e *Engine) SyncOne(ctx context.Context, id string) (domain.DeliveryRequest, error) {
	if !e.locks.TryLock(id) {
		return domain.DeliveryRequest{}, fmt.Errorf("record %s: %w", id, apperr.ErrConflict)
	}
	defer e.locks.Unlock(id)

	rec, ok := e.store.Get(ctx, id)
	if !ok {
		return domain.DeliveryRequest{}, fmt.Errorf("record %s: %w", id, apperr.ErrNotFound)
	}
	if !e.net.IsOnline() {
		// a settled record has nothing to send
		if rec.SyncStatus.Unsettled() {
			e.enqueue(ctx, rec)
		}
		return rec, nil
	}
	out, _ := e.syncLocked(ctx, rec)
	return out, nil
}

// UpdateStatus applies a driver status change locally and syncs it when the
// record is already known to the remote system.
func (e *Engine) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.DeliveryRequest, error) {
	if !status.Valid() {
		return domain.DeliveryRequest{}, fmt.Errorf("status %q: %w", status, apperr.ErrInvalid)
	}
	sess := e.store.Session(ctx)
	if sess.IsCustomer() {
		return domain.DeliveryRequest{}, fmt.Errorf("customers cannot change delivery status: %w", apperr.ErrForbidden)
	}

	return e.mutate(ctx, id, func(r *domain.DeliveryRequest) error {
		if sess.IsDriver() && r.PartnerID != nil && *r.PartnerID != sess.ID {
			return fmt.Errorf("request %s is assigned to another driver: %w", r.ID, apperr.ErrForbidden)
		}
		r.Status = status
		return nil
	})
}

// AssignPartner assigns a driver to the request on behalf of a customer.
func (e *Engine) AssignPartner(ctx context.Context, id string, partnerID int64, partnerName string) (domain.DeliveryRequest, error) {
	if partnerID <= 0 {
		return domain.DeliveryRequest{}, fmt.Errorf("partner id %d: %w", partnerID, apperr.ErrInvalid)
	}
	sess := e.store.Session(ctx)
	if sess != nil && !sess.IsCustomer() {
		return domain.DeliveryRequest{}, fmt.Errorf("only customers assign partners: %w", apperr.ErrForbidden)
	}

	return e.mutate(ctx, id, func(r *domain.DeliveryRequest) error {
		switch r.Status {
		case domain.StatusCompleted, domain.StatusCancelled:
			return fmt.Errorf("request %s is %s: %w", r.ID, r.Status, apperr.ErrConflict)
		}
		at := e.now()
		r.PartnerID = domain.Ptr(partnerID)
		r.PartnerName = partnerName
		r.DriverName = partnerName
		r.Status = domain.StatusAssigned
		r.AssignedAt = &at
		if sess != nil {
			r.AssignedByEmail = sess.Email
		}
		return nil
	})
}

// mutate applies fn as an optimistic local change, reopens the sync cycle
// and pushes the change when possible. It waits for the record lock.
func (e *Engine) mutate(ctx context.Context, id string, fn func(*domain.DeliveryRequest) error) (domain.DeliveryRequest, error) {
	if err := e.waitLock(ctx, id); err != nil {
		return domain.DeliveryRequest{}, err
	}
	defer e.locks.Unlock(id)

	online := e.net.IsOnline()
	rec, err := e.store.Modify(ctx, id, func(r *domain.DeliveryRequest) error {
		if err := fn(r); err != nil {
			return err
		}
		r.UpdatedAt = e.now()
		r.SyncStatus = syncstate.Mutated(r.SyncStatus, online)
		return nil
	})
	if err != nil {
		return domain.DeliveryRequest{}, err
	}

	if !online || !rec.HasServerID() {
		e.enqueue(ctx, rec)
		return rec, nil
	}
	out, _ := e.syncLocked(ctx, rec)
	return out, nil
}

// waitLock blocks until the record lock is free or ctx ends. An intent
// queues behind an in-flight attempt on the same record.
func (e *Engine) waitLock(ctx context.Context, id string) error {
	t := time.NewTicker(lockRetryInterval)
	defer t.Stop()
	for !e.locks.TryLock(id) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("record %s: %w", id, ctx.Err())
		case <-t.C:
		}
	}
	return nil
}

// syncLocked performs one remote attempt for rec. The caller holds the
// record lock. The stored record ends synced or failed.
func (e *Engine) syncLocked(ctx context.Context, rec domain.DeliveryRequest) (domain.DeliveryRequest, error) {
	if cur, ok := e.store.Get(ctx, rec.ID); ok {
		rec = cur
	}
	rec = e.setSyncStatus(ctx, rec, domain.SyncPending)

	path := domain.PathCreate
	var (
		ack domain.DeliveryRequest
		err error
	)
	if rec.HasServerID() {
		path = domain.PathUpdate
		ack, err = e.remote.UpdateRequest(ctx, *rec.ServerID, domain.RequestUpdate{
			Status:   rec.Status,
			DriverID: rec.PartnerID,
		})
	} else {
		ack, err = e.remote.CreateRequest(ctx, rec)
	}

	return e.settle(ctx, rec, path, ack.ServerID, err), err
}

// settle records the outcome of an attempt on the stored record and the queue.
func (e *Engine) settle(ctx context.Context, rec domain.DeliveryRequest, path domain.SyncPath, serverID *int64, err error) domain.DeliveryRequest {
	final := syncstate.Settle(err == nil)
	out, modErr := e.store.Modify(ctx, rec.ID, func(r *domain.DeliveryRequest) error {
		if err == nil && serverID != nil && r.ServerID == nil {
			r.ServerID = domain.Ptr(*serverID)
		}
		r.SyncStatus = final
		return nil
	})
	if modErr != nil {
		out = rec
		out.SyncStatus = final
		if err == nil && serverID != nil && out.ServerID == nil {
			out.ServerID = domain.Ptr(*serverID)
		}
		e.logger.Warn("synced record vanished from local store", logx.String("id", rec.ID))
	}

	if err == nil {
		e.setPending(e.store.RemovePending(ctx, rec.ID))
		e.logger.Info("request synced",
			logx.String("event", "request_synced"),
			logx.String("id", out.ID),
			logx.String("path", string(path)),
		)
	} else {
		if modErr == nil {
			e.enqueue(ctx, out)
		}
		e.recordError(err)
		e.logger.Warn("request sync failed",
			logx.String("event", "request_sync_failed"),
			logx.String("id", out.ID),
			logx.String("path", string(path)),
			logx.Err(err),
		)
	}
	e.observe(ctx, out, path, err)
	return out
}

func (e *Engine) setSyncStatus(ctx context.Context, rec domain.DeliveryRequest, st domain.SyncStatus) domain.DeliveryRequest {
	out, err := e.store.Modify(ctx, rec.ID, func(r *domain.DeliveryRequest) error {
		r.SyncStatus = st
		return nil
	})
	if err != nil {
		rec.SyncStatus = st
		return rec
	}
	return out
}

func (e *Engine) enqueue(ctx context.Context, rec domain.DeliveryRequest) {
	e.setPending(e.store.EnqueuePending(ctx, rec))
}

func (e *Engine) setPending(n int) {
	e.metrics.SetPending(n)
}

func (e *Engine) observe(ctx context.Context, rec domain.DeliveryRequest, path domain.SyncPath, err error) {
	ev := domain.SyncEvent{
		RecordID: rec.ID,
		ServerID: rec.ServerID,
		Path:     path,
		Outcome:  domain.OutcomeSynced,
		Status:   rec.Status,
		At:       e.now(),
	}
	if err != nil {
		ev.Outcome = domain.OutcomeFailed
		ev.Error = err.Error()
	}
	e.metrics.Observe(string(path), string(ev.Outcome))
	if pubErr := e.publisher.Publish(ctx, ev); pubErr != nil {
		e.logger.Warn("sync event not published", logx.String("id", rec.ID), logx.Err(pubErr))
	}
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = err.Error()
}

func (e *Engine) markSynced() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSync = e.now()
	e.lastErr = ""
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
		return fmt.Errorf("%w: %s", apperr.ErrInvalid, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
}
