package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

// RecordStore is the best-effort local cache of delivery requests, the
// pending sync queue and the session profile.
//
// Read failures yield empty results and write failures are logged and
// swallowed. Every whole-set read-modify-write runs under one mutex.
type RecordStore struct {
	mu     sync.Mutex
	slots  SlotBackend
	logger logx.Logger
	errs   *prometheus.CounterVec
}

// NewRecordStore wraps a slot backend. errs may be nil.
func NewRecordStore(slots SlotBackend, logger logx.Logger, errs *prometheus.CounterVec) *RecordStore {
	if logger == nil {
		logger = logx.Nop()
	}
	return &RecordStore{
		slots:  slots,
		logger: logger.With(logx.Component("record_store")),
		errs:   errs,
	}
}

// GetAll returns all records in stored order.
func (s *RecordStore) GetAll(ctx context.Context) []domain.DeliveryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList(ctx, SlotRecords)
}

// SaveAll replaces the whole record set.
func (s *RecordStore) SaveAll(ctx context.Context, records []domain.DeliveryRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeList(ctx, SlotRecords, records)
}

// Add appends one record.
func (s *RecordStore) Add(ctx context.Context, rec domain.DeliveryRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.readList(ctx, SlotRecords)
	s.writeList(ctx, SlotRecords, append(all, rec))
}

// Get returns the record with the given local id.
func (s *RecordStore) Get(ctx context.Context, id string) (domain.DeliveryRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.readList(ctx, SlotRecords) {
		if r.ID == id {
			return r, true
		}
	}
	return domain.DeliveryRequest{}, false
}

// Update merges patch into the record with the given id. It is a no-op when
// the record is missing; the second return value reports whether it was found.
func (s *RecordStore) Update(ctx context.Context, id string, patch domain.RecordPatch) (domain.DeliveryRequest, bool) {
	rec, err := s.Modify(ctx, id, func(r *domain.DeliveryRequest) error {
		patch.Apply(r)
		return nil
	})
	return rec, err == nil
}

// Modify runs fn against the record with the given id and persists the result.
// It returns apperr.ErrNotFound when the record is missing; an error from fn
// leaves the store untouched.
func (s *RecordStore) Modify(ctx context.Context, id string, fn func(*domain.DeliveryRequest) error) (domain.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readList(ctx, SlotRecords)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		next := all[i]
		if err := fn(&next); err != nil {
			return all[i], err
		}
		all[i] = next
		s.writeList(ctx, SlotRecords, all)
		return next, nil
	}
	return domain.DeliveryRequest{}, fmt.Errorf("record %s: %w", id, apperr.ErrNotFound)
}

// Transform replaces the record set with fn applied to the current one, in a
// single read-modify-write.
func (s *RecordStore) Transform(ctx context.Context, fn func([]domain.DeliveryRequest) []domain.DeliveryRequest) []domain.DeliveryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.readList(ctx, SlotRecords))
	s.writeList(ctx, SlotRecords, next)
	return next
}

// GetPendingQueue returns the records waiting for a remote sync, in queue order.
func (s *RecordStore) GetPendingQueue(ctx context.Context) []domain.DeliveryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList(ctx, SlotPending)
}

// SavePendingQueue replaces the pending queue.
func (s *RecordStore) SavePendingQueue(ctx context.Context, records []domain.DeliveryRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeList(ctx, SlotPending, records)
}

// ClearPendingQueue empties the pending queue.
func (s *RecordStore) ClearPendingQueue(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(ctx, SlotPending)
}

// EnqueuePending adds rec to the queue, replacing a queued entry with the same id
// in place. It returns the queue length.
func (s *RecordStore) EnqueuePending(ctx context.Context, rec domain.DeliveryRequest) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.readList(ctx, SlotPending)
	replaced := false
	for i := range queue {
		if queue[i].ID == rec.ID {
			queue[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		queue = append(queue, rec)
	}
	s.writeList(ctx, SlotPending, queue)
	return len(queue)
}

// RemovePending drops the given ids from the queue and returns the new length.
func (s *RecordStore) RemovePending(ctx context.Context, ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.readList(ctx, SlotPending)
	if len(queue) == 0 || len(ids) == 0 {
		return len(queue)
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := queue[:0]
	for _, r := range queue {
		if _, ok := drop[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		s.remove(ctx, SlotPending)
		return 0
	}
	s.writeList(ctx, SlotPending, kept)
	return len(kept)
}

// SaveSession caches the signed-in profile.
func (s *RecordStore) SaveSession(ctx context.Context, sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(sess)
	if err != nil {
		s.fail("encode", SlotSession, err)
		return
	}
	if err := s.slots.Store(ctx, SlotSession, data); err != nil {
		s.fail("write", SlotSession, err)
	}
}

// Session returns the cached profile, or nil when none is stored or readable.
func (s *RecordStore) Session(ctx context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.slots.Load(ctx, SlotSession)
	if err != nil {
		s.fail("read", SlotSession, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.fail("decode", SlotSession, errors.Join(apperr.ErrLocalStoreUnreadable, err))
		return nil
	}
	return &sess
}

// ClearAll wipes records, the pending queue and the session.
func (s *RecordStore) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(ctx, SlotRecords, SlotPending, SlotSession)
}

func (s *RecordStore) readList(ctx context.Context, slot string) []domain.DeliveryRequest {
	data, err := s.slots.Load(ctx, slot)
	if err != nil {
		s.fail("read", slot, errors.Join(apperr.ErrLocalStoreUnreadable, err))
		return []domain.DeliveryRequest{}
	}
	if len(data) == 0 {
		return []domain.DeliveryRequest{}
	}
	var out []domain.DeliveryRequest
	if err := json.Unmarshal(data, &out); err != nil {
		s.fail("decode", slot, errors.Join(apperr.ErrLocalStoreUnreadable, err))
		return []domain.DeliveryRequest{}
	}
	if out == nil {
		out = []domain.DeliveryRequest{}
	}
	return out
}

func (s *RecordStore) writeList(ctx context.Context, slot string, records []domain.DeliveryRequest) {
	if records == nil {
		records = []domain.DeliveryRequest{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		s.fail("encode", slot, err)
		return
	}
	if err := s.slots.Store(ctx, slot, data); err != nil {
		s.fail("write", slot, err)
	}
}

func (s *RecordStore) remove(ctx context.Context, slots ...string) {
	if err := s.slots.Remove(ctx, slots...); err != nil {
		s.fail("remove", fmt.Sprint(slots), err)
	}
}

func (s *RecordStore) fail(op, slot string, err error) {
	if s.errs != nil {
		s.errs.WithLabelValues(op).Inc()
	}
	s.logger.Error("local store operation failed",
		logx.String("op", op),
		logx.String("slot", slot),
		logx.Err(err),
	)
}
