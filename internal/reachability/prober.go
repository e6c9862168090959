package reachability

import (
	"context"
	"time"

	"delivery-sync/internal/logx"
)

// Pinger checks whether the remote system answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober feeds a Monitor from periodic pings.
type Prober struct {
	monitor  *Monitor
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logx.Logger
}

// NewProber creates a prober. Non-positive durations fall back to 15s / 3s.
func NewProber(monitor *Monitor, pinger Pinger, interval, timeout time.Duration, logger logx.Logger) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Prober{
		monitor:  monitor,
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With(logx.Component("prober")),
	}
}

// ProbeOnce pings once and updates the monitor. It returns the observed state.
// A cancelled ctx leaves the monitor untouched and returns the last known state.
func (p *Prober) ProbeOnce(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(pctx)
	if ctx.Err() != nil {
		// shutting down, the failed ping says nothing about the network
		return p.monitor.IsOnline()
	}
	online := err == nil
	if err != nil {
		p.logger.Debug("probe failed", logx.Err(err))
	}
	p.monitor.Set(online)
	return online
}

// Run probes immediately and then on every tick until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	p.ProbeOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProbeOnce(ctx)
		}
	}
}
