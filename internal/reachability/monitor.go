// Package reachability tracks the last known connectivity state and
// notifies listeners when the process comes back online.
package reachability

import (
	"sync"
	"sync/atomic"

	"delivery-sync/internal/logx"
)

// Monitor holds the online flag. The zero value is not usable; use NewMonitor.
type Monitor struct {
	online    atomic.Bool
	mu        sync.Mutex
	listeners []func()
	dispatch  func(func())
	logger    logx.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDispatch replaces the goroutine launcher used for reconnect listeners.
func WithDispatch(fn func(func())) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.dispatch = fn
		}
	}
}

// WithLogger sets the monitor logger.
func WithLogger(l logx.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMonitor returns a monitor with the given initial state.
func NewMonitor(initial bool, opts ...Option) *Monitor {
	m := &Monitor{
		dispatch: func(fn func()) { go fn() },
		logger:   logx.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With(logx.Component("reachability"))
	m.online.Store(initial)
	return m
}

// IsOnline returns the last known state. It never probes.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// OnReconnect registers fn to run on every false -> true transition.
func (m *Monitor) OnReconnect(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Set records the new state and reports whether it changed.
func (m *Monitor) Set(online bool) bool {
	prev := m.online.Swap(online)
	if prev == online {
		return false
	}
	m.logger.Info("connectivity changed", logx.Bool("online", online))
	if online {
		m.mu.Lock()
		listeners := append([]func(){}, m.listeners...)
		m.mu.Unlock()
		for _, fn := range listeners {
			m.dispatch(fn)
		}
	}
	return true
}
