package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Queue accumulates presses that the server has not acknowledged yet. The
// displayed score always runs ahead of the recorded score by exactly the
// pending amount (ignoring in-flight requests).
type Queue struct {
	mu      sync.Mutex
	pending int64
}

// Record counts one press. Never blocks, never touches the network.
func (q *Queue) Record() {
	q.mu.Lock()
	q.pending++
	q.mu.Unlock()
}

// TakeAll atomically reads and zeroes the pending count.
func (q *Queue) TakeAll() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.pending
	q.pending = 0
	return n
}

// Refund adds a failed flush's delta back. It adds rather than overwrites:
// presses recorded during the attempt must survive.
func (q *Queue) Refund(n int64) {
	q.mu.Lock()
	q.pending += n
	q.mu.Unlock()
}

// Pending returns the current unacknowledged press count.
func (q *Queue) Pending() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Flusher drains a Queue to the server on a fixed cadence. A single ticker
// goroutine drives it, so flushes never overlap themselves: a tick that
// fires while a previous delta is still un-refunded simply sees pending = 0.
type Flusher struct {
	Queue    *Queue
	Name     string
	Interval time.Duration
	Submit   func(ctx context.Context, name string, delta int64) error

	// OnSuccess fires after an accepted flush, used to kick an immediate
	// community refresh. Optional.
	OnSuccess func()
}

// Run flushes every Interval until ctx is done, then attempts one final
// flush so a clean shutdown loses nothing.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.Flush(context.Background())
			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush exchanges the pending count for one network write. On failure the
// delta goes back into the queue and the error is logged, never surfaced:
// the game keeps playing and the next tick retries.
func (f *Flusher) Flush(ctx context.Context) {
	if f.Name == "" {
		return
	}
	delta := f.Queue.TakeAll()
	if delta <= 0 {
		return
	}

	if err := f.Submit(ctx, f.Name, delta); err != nil {
		f.Queue.Refund(delta)
		log.Debug().Err(err).Int64("delta", delta).Msg("flush failed, re-queued")
		return
	}
	if f.OnSuccess != nil {
		f.OnSuccess()
	}
}
