// Package ratelimit implements the fixed-window per-IP limiter guarding the
// score-submission path.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// idleMultiple controls eviction: an entry whose window started more than
// idleMultiple windows ago is swept.
const idleMultiple = 10

type entry struct {
	windowStart time.Time
	count       int
}

// Limiter counts requests per IP inside a fixed window. Exceeding max inside
// one window denies the request without mutating anything else.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]*entry

	now func() time.Time // test hook
}

func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		window:  window,
		max:     max,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether a request from ip fits in the current window.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok {
		e = &entry{windowStart: now}
		l.entries[ip] = e
	}
	if now.Sub(e.windowStart) > l.window {
		e.windowStart = now
		e.count = 0
	}
	e.count++
	return e.count <= l.max
}

// Sweep evicts entries idle beyond idleMultiple windows. Purely a memory
// bound, not a correctness concern.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for ip, e := range l.entries {
		if now.Sub(e.windowStart) > l.window*idleMultiple {
			delete(l.entries, ip)
		}
	}
}

// Run sweeps on a fixed cadence until ctx is done.
func (l *Limiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := l.Len()
			l.Sweep()
			log.Debug().Int("before", before).Int("after", l.Len()).Msg("rate limit sweep")
		}
	}
}

// Len returns the number of tracked IPs.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
