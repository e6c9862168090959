package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config stores KeyedLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets are evicted after TTL, 0 keeps them
	MaxBuckets int           // 0 means unbounded; new keys are denied once full
}

// KeyedLimiter keeps one token bucket per key.
type KeyedLimiter struct {
	cfg         Config
	clock       Clock
	mu          sync.RWMutex
	buckets     map[string]*bucket
	lastCleanup time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// NewKeyedLimiter creates a limiter with an injected clock.
func NewKeyedLimiter(clock Clock, cfg Config) *KeyedLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &KeyedLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow returns true if key is allowed to proceed.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.clock.Now()
	l.maybeCleanup(now)

	b := l.bucketFor(key, now)
	if b == nil {
		return false
	}
	b.lastSeen.Store(now.UnixNano())
	return b.lim.AllowN(now, 1)
}

// Len returns the number of live buckets.
func (l *KeyedLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

func (l *KeyedLimiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b = l.buckets[key]; b != nil {
		return b
	}
	if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
		return nil
	}

	b = &bucket{lim: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
	b.lastSeen.Store(now.UnixNano())
	l.buckets[key] = b
	return b
}

func (l *KeyedLimiter) maybeCleanup(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}

	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now

	cutoff := now.Add(-l.cfg.TTL).UnixNano()
	for k, b := range l.buckets {
		if b.lastSeen.Load() < cutoff {
			delete(l.buckets, k)
		}
	}
}
