package kafka

import (
	"time"

	"delivery-sync/internal/domain"
)

// EventDTO is the wire form of a sync journal entry.
type EventDTO struct {
	RecordID string    `json:"record_id"`
	ServerID *int64    `json:"server_id,omitempty"`
	Path     string    `json:"path"`
	Outcome  string    `json:"outcome"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
	Error    string    `json:"error,omitempty"`
}

// FromDomain converts a domain.SyncEvent to EventDTO
func FromDomain(ev domain.SyncEvent) EventDTO {
	return EventDTO{
		RecordID: ev.RecordID,
		ServerID: ev.ServerID,
		Path:     string(ev.Path),
		Outcome:  string(ev.Outcome),
		Status:   string(ev.Status),
		At:       ev.At.UTC(),
		Error:    ev.Error,
	}
}
