package repository

import (
	"context"
	"sync"
)

// Slot names of the persisted local state.
const (
	SlotRecords = "delivery_requests"
	SlotPending = "pending_sync"
	SlotSession = "user_data"
)

// SlotBackend persists named opaque payloads.
// Load returns nil, nil when the slot was never written.
type SlotBackend interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Store(ctx context.Context, slot string, data []byte) error
	Remove(ctx context.Context, slots ...string) error
	Close() error
}

// MemorySlots keeps slots in process memory.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlots returns an empty in-memory backend.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

// Load returns a copy of the slot payload.
func (m *MemorySlots) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Store replaces the slot payload.
func (m *MemorySlots) Store(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

// Remove deletes the given slots.
func (m *MemorySlots) Remove(_ context.Context, slots ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		delete(m.slots, s)
	}
	return nil
}

// Close is a no-op.
func (m *MemorySlots) Close() error { return nil }

var _ SlotBackend = (*MemorySlots)(nil)
