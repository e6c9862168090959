package syncer

import "delivery-sync/internal/domain"

// MergeResult counts how fetched remote records were folded into the local set.
type MergeResult struct {
	Added     int  `json:"added"`
	Attached  int  `json:"attached"`
	Unchanged int  `json:"unchanged"`
	Ignored   int  `json:"ignored"`
	Offline   bool `json:"offline"`
}

// mergeFetched adds remote records the local set does not know yet. Local
// records are never overwritten; a local record still lacking a server id
// only gains the id the remote system reports for its local id.
func mergeFetched(local, fetched []domain.DeliveryRequest, newID func() string) ([]domain.DeliveryRequest, MergeResult) {
	var res MergeResult
	out := make([]domain.DeliveryRequest, len(local), len(local)+len(fetched))
	copy(out, local)

	bySrv := make(map[int64]struct{}, len(out))
	byLocal := make(map[string]int, len(out))
	for i, r := range out {
		if r.ServerID != nil {
			bySrv[*r.ServerID] = struct{}{}
			continue
		}
		byLocal[r.ID] = i
	}

	for _, f := range fetched {
		if f.ServerID == nil {
			res.Ignored++
			continue
		}
		sid := *f.ServerID
		if _, ok := bySrv[sid]; ok {
			res.Unchanged++
			continue
		}
		if i, ok := byLocal[f.ID]; ok && f.ID != "" {
			out[i].ServerID = domain.Ptr(sid)
			delete(byLocal, f.ID)
			bySrv[sid] = struct{}{}
			res.Attached++
			continue
		}
		f.ID = newID()
		f.SyncStatus = domain.SyncSynced
		out = append(out, f)
		bySrv[sid] = struct{}{}
		res.Added++
	}
	return out, res
}

// replaceWith builds the authoritative record set from fetched. Local ids
// survive when a fetched record matches by server id or local id. Local-only
// records that never reached the remote system are kept and their ids returned.
func replaceWith(local, fetched []domain.DeliveryRequest, newID func() string) ([]domain.DeliveryRequest, MergeResult, []string) {
	var res MergeResult

	bySrv := make(map[int64]string, len(local))
	byLocal := make(map[string]struct{}, len(local))
	for _, r := range local {
		if r.ServerID != nil {
			bySrv[*r.ServerID] = r.ID
			continue
		}
		byLocal[r.ID] = struct{}{}
	}

	used := make(map[string]struct{}, len(fetched))
	out := make([]domain.DeliveryRequest, 0, len(fetched)+len(local))
	for _, f := range fetched {
		if f.ServerID == nil {
			res.Ignored++
			continue
		}
		sid := *f.ServerID
		id, ok := bySrv[sid]
		switch {
		case ok:
			res.Unchanged++
		case f.ID != "" && hasKey(byLocal, f.ID):
			id = f.ID
			delete(byLocal, f.ID)
			res.Attached++
		default:
			id = newID()
			res.Added++
		}
		if _, dup := used[id]; dup {
			res.Ignored++
			continue
		}
		used[id] = struct{}{}
		bySrv[sid] = id

		f.ID = id
		f.SyncStatus = domain.SyncSynced
		out = append(out, f)
	}

	var kept []string
	for _, r := range local {
		if _, ok := used[r.ID]; ok {
			continue
		}
		if r.ServerID == nil && r.SyncStatus.Unsettled() {
			out = append(out, r)
			kept = append(kept, r.ID)
		}
	}
	return out, res, kept
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
