// Package syncstate holds the per-record reconciliation state machine:
// offline -> pending -> synced, with pending -> failed -> pending on retry.
package syncstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"delivery-sync/internal/domain"
)

// Event names a transition of the reconciliation cycle.
type Event string

// List of transition events
const (
	// EventSuspend parks a mutated record while offline.
	EventSuspend Event = "suspend"
	// EventEnqueue marks a record as awaiting a sync attempt.
	EventEnqueue Event = "enqueue"
	// EventAck records a confirmed remote acknowledgment.
	EventAck Event = "ack"
	// EventFail records a failed sync attempt.
	EventFail Event = "fail"
)

var allStates = []string{
	string(domain.SyncOffline),
	string(domain.SyncPending),
	string(domain.SyncSynced),
	string(domain.SyncFailed),
}

func events() fsm.Events {
	return fsm.Events{
		{Name: string(EventSuspend), Src: allStates, Dst: string(domain.SyncOffline)},
		{Name: string(EventEnqueue), Src: allStates, Dst: string(domain.SyncPending)},
		{Name: string(EventAck), Src: []string{string(domain.SyncPending)}, Dst: string(domain.SyncSynced)},
		{Name: string(EventFail), Src: []string{string(domain.SyncPending)}, Dst: string(domain.SyncFailed)},
	}
}

// Next returns the state reached from `from` by firing ev.
// Unknown source states are treated as offline. Self transitions are allowed.
func Next(from domain.SyncStatus, ev Event) (domain.SyncStatus, error) {
	if !from.Valid() {
		from = domain.SyncOffline
	}
	m := fsm.NewFSM(string(from), events(), fsm.Callbacks{})
	if err := m.Event(context.Background(), string(ev)); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return from, fmt.Errorf("sync state %s -> %s: %w", from, ev, err)
		}
	}
	return domain.SyncStatus(m.Current()), nil
}

// Mutated is the state a record takes after a local mutation.
func Mutated(from domain.SyncStatus, online bool) domain.SyncStatus {
	ev := EventSuspend
	if online {
		ev = EventEnqueue
	}
	next, err := Next(from, ev)
	if err != nil {
		return domain.SyncOffline
	}
	return next
}

// Settle is the state after a sync attempt completes. The attempt always
// starts from pending, so the result is synced or failed.
func Settle(ok bool) domain.SyncStatus {
	ev := EventFail
	if ok {
		ev = EventAck
	}
	next, err := Next(domain.SyncPending, ev)
	if err != nil {
		return domain.SyncFailed
	}
	return next
}
