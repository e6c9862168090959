package apperr

import "errors"

// Intent errors surfaced to the presentation layer.
var (
	// ErrInvalid is returned when the input fails domain validation.
	ErrInvalid = errors.New("invalid input")
	// ErrConflict indicates a state conflict, e.g. the record is locked by an in-flight sync.
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates that the requested record does not exist locally.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the session role may not perform the intent.
	ErrForbidden = errors.New("forbidden")
)

// Sync errors.
var (
	// ErrNetworkUnavailable means there was no connectivity at call time.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrRemoteRejected covers 4xx validation and auth failures.
	ErrRemoteRejected = errors.New("remote rejected")
	// ErrRemoteUnavailable covers 5xx, throttling, timeouts and transport failures.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrLocalStoreUnreadable is absorbed by the record store and only reaches logs and metrics.
	ErrLocalStoreUnreadable = errors.New("local store unreadable")
	// ErrSyncIncomplete means a queue drain left records unsynced.
	ErrSyncIncomplete = errors.New("sync incomplete")
)
