package syncer

import (
	"context"
	"fmt"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

// DrainResult summarizes one pass over the pending queue.
type DrainResult struct {
	Attempted int  `json:"attempted"`
	Synced    int  `json:"synced"`
	Failed    int  `json:"failed"`
	Busy      int  `json:"busy"`
	Offline   bool `json:"offline"`
}

// Complete reports whether the pass left nothing unsynced.
func (r DrainResult) Complete() bool {
	return !r.Offline && r.Failed == 0 && r.Busy == 0
}

// ForceResult summarizes a forced full sync.
type ForceResult struct {
	Drain DrainResult `json:"drain"`
	Merge MergeResult `json:"merge"`
	Total int         `json:"total"`
}

// SyncPending drains the pending queue in order. Concurrent callers share
// one pass. Offline it returns immediately without touching the queue.
func (e *Engine) SyncPending(ctx context.Context) (DrainResult, error) {
	v, err, _ := e.group.Do("drain", func() (any, error) {
		return e.drain(ctx), nil
	})
	if err != nil {
		return DrainResult{}, err
	}
	return v.(DrainResult), nil
}

// Reconnected is the reachability hook run on every offline to online transition.
func (e *Engine) Reconnected(ctx context.Context) {
	res, _ := e.SyncPending(ctx)
	e.logger.Info("reconnect drain finished",
		logx.String("event", "reconnected"),
		logx.Int("synced", res.Synced),
		logx.Int("failed", res.Failed),
	)
}

func (e *Engine) drain(ctx context.Context) DrainResult {
	if !e.net.IsOnline() {
		return DrainResult{Offline: true}
	}

	queue := e.store.GetPendingQueue(ctx)
	var (
		res    DrainResult
		locked []string
		batch  []domain.DeliveryRequest
		single []domain.DeliveryRequest
	)
	defer func() {
		for _, id := range locked {
			e.locks.Unlock(id)
		}
	}()

	for _, snap := range queue {
		if err := ctx.Err(); err != nil {
			break
		}
		if !e.locks.TryLock(snap.ID) {
			res.Busy++
			continue
		}
		locked = append(locked, snap.ID)

		rec, ok := e.store.Get(ctx, snap.ID)
		if !ok {
			e.store.Add(ctx, snap)
			rec = snap
		}
		if e.useBatch && !rec.HasServerID() {
			batch = append(batch, rec)
			continue
		}
		single = append(single, rec)
	}

	if len(batch) > 0 {
		synced, failed := e.syncBatch(ctx, batch)
		res.Attempted += len(batch)
		res.Synced += synced
		res.Failed += failed
	}
	for _, rec := range single {
		if ctx.Err() != nil {
			break
		}
		res.Attempted++
		if _, err := e.syncLocked(ctx, rec); err != nil {
			res.Failed++
			continue
		}
		res.Synced++
	}

	pending := len(e.store.GetPendingQueue(ctx))
	e.setPending(pending)
	if res.Attempted > 0 && res.Failed == 0 {
		e.markSynced()
	}
	e.logger.Info("pending queue drained",
		logx.String("event", "queue_drained"),
		logx.Int("attempted", res.Attempted),
		logx.Int("synced", res.Synced),
		logx.Int("failed", res.Failed),
		logx.Int("busy", res.Busy),
		logx.Int("remaining", pending),
	)
	return res
}

// syncBatch pushes server-less records through the bulk endpoint. Echoed
// records carry their local id and the server id to attach.
func (e *Engine) syncBatch(ctx context.Context, recs []domain.DeliveryRequest) (synced, failed int) {
	for i := range recs {
		recs[i] = e.setSyncStatus(ctx, recs[i], domain.SyncPending)
	}

	acks, err := e.remote.SyncBatch(ctx, recs)
	if err != nil {
		for _, rec := range recs {
			e.settle(ctx, rec, domain.PathBatch, nil, err)
		}
		return 0, len(recs)
	}

	byLocal := make(map[string]*int64, len(acks))
	for _, a := range acks {
		if a.ID != "" && a.ServerID != nil {
			byLocal[a.ID] = a.ServerID
		}
	}
	for _, rec := range recs {
		e.settle(ctx, rec, domain.PathBatch, byLocal[rec.ID], nil)
	}
	return len(recs), 0
}

// Refresh pulls the remote record set and merges it into the local store
// without overwriting local data. It is a no-op offline.
func (e *Engine) Refresh(ctx context.Context) (MergeResult, error) {
	if !e.net.IsOnline() {
		return MergeResult{Offline: true}, nil
	}
	fetched, err := e.fetchAll(ctx)
	if err != nil {
		e.recordError(err)
		return MergeResult{}, fmt.Errorf("refresh: %w", err)
	}

	var res MergeResult
	e.store.Transform(ctx, func(local []domain.DeliveryRequest) []domain.DeliveryRequest {
		var merged []domain.DeliveryRequest
		merged, res = mergeFetched(local, fetched, e.newID)
		return merged
	})
	e.logger.Info("remote records merged",
		logx.String("event", "refresh_merged"),
		logx.Int("added", res.Added),
		logx.Int("attached", res.Attached),
		logx.Int("unchanged", res.Unchanged),
		logx.Int("ignored", res.Ignored),
	)
	return res, nil
}

// ForceSync drains the queue and, only when every queued record reached the
// remote system, replaces the local record set with the authoritative one.
func (e *Engine) ForceSync(ctx context.Context) (ForceResult, error) {
	v, err, _ := e.group.Do("force", func() (any, error) {
		return e.forceSync(ctx)
	})
	res, _ := v.(ForceResult)
	return res, err
}

func (e *Engine) forceSync(ctx context.Context) (ForceResult, error) {
	if !e.net.IsOnline() {
		return ForceResult{}, fmt.Errorf("force sync: %w", apperr.ErrNetworkUnavailable)
	}

	drained, _ := e.SyncPending(ctx)
	out := ForceResult{Drain: drained}
	if !drained.Complete() {
		cause := apperr.ErrSyncIncomplete
		if drained.Offline {
			cause = apperr.ErrNetworkUnavailable
		}
		return out, fmt.Errorf("force sync: %d failed, %d busy: %w", drained.Failed, drained.Busy, cause)
	}

	fetched, err := e.fetchAll(ctx)
	if err != nil {
		e.recordError(err)
		return out, fmt.Errorf("force sync: %w", err)
	}

	var (
		merge MergeResult
		keep  []string
	)
	next := e.store.Transform(ctx, func(local []domain.DeliveryRequest) []domain.DeliveryRequest {
		var replaced []domain.DeliveryRequest
		replaced, merge, keep = replaceWith(local, fetched, e.newID)
		return replaced
	})

	var drop []string
	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	for _, q := range e.store.GetPendingQueue(ctx) {
		if _, ok := keepSet[q.ID]; !ok {
			drop = append(drop, q.ID)
		}
	}
	e.setPending(e.store.RemovePending(ctx, drop...))
	e.markSynced()

	out.Merge = merge
	out.Total = len(next)
	e.logger.Info("force sync finished",
		logx.String("event", "force_sync"),
		logx.Int("total", out.Total),
		logx.Int("kept_local", len(keep)),
	)
	return out, nil
}

// fetchAll follows remote pagination. Drivers see only their assignments.
func (e *Engine) fetchAll(ctx context.Context) ([]domain.DeliveryRequest, error) {
	list := e.remote.ListRequests
	if e.store.Session(ctx).IsDriver() {
		list = e.remote.ListAssignedRequests
	}

	var all []domain.DeliveryRequest
	for page := 1; page <= e.maxPages; page++ {
		p, err := list(ctx, domain.ListQuery{Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if !p.HasNext() {
			return all, nil
		}
	}
	e.logger.Warn("remote pagination truncated", logx.Int("max_pages", e.maxPages))
	return all, nil
}
