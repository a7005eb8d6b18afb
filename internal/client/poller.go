package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"debirunpop/internal/storage"
)

// LeaderboardPoller refreshes the ranked list on a fixed interval. Issuing a
// new fetch cancels the previous one, so a slow response can never land on
// top of a newer list.
type LeaderboardPoller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) ([]storage.Entry, error)
	Apply    func(entries []storage.Entry)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Run polls until ctx is done. An immediate first poll precedes the ticker.
func (p *LeaderboardPoller) Run(ctx context.Context) {
	p.Poll(ctx)
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			if p.cancel != nil {
				p.cancel()
			}
			p.mu.Unlock()
			p.wg.Wait()
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll supersedes any in-flight fetch and starts a new one.
func (p *LeaderboardPoller) Poll(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		entries, err := p.Fetch(fetchCtx)
		if err != nil {
			if fetchCtx.Err() == nil {
				log.Debug().Err(err).Msg("leaderboard poll failed")
			}
			return
		}
		// A fetch that was superseded while its response was in transit
		// must not overwrite the newer state.
		if fetchCtx.Err() != nil {
			return
		}
		p.Apply(entries)
	}()
}

// CommunityPoller refreshes the global total. Last write wins, so no
// cancellation is needed; Kick forces an immediate out-of-band refresh
// (used right after a successful flush).
type CommunityPoller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) (int64, error)
	Apply    func(total int64)

	kick chan struct{}
	once sync.Once
}

// Kick requests an immediate refresh. Safe from any goroutine; coalesces if
// a refresh is already queued.
func (p *CommunityPoller) Kick() {
	p.init()
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run polls until ctx is done.
func (p *CommunityPoller) Run(ctx context.Context) {
	p.init()
	p.poll(ctx)
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.kick:
			p.poll(ctx)
		}
	}
}

func (p *CommunityPoller) poll(ctx context.Context) {
	total, err := p.Fetch(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("community poll failed")
		return
	}
	p.Apply(total)
}

func (p *CommunityPoller) init() {
	p.once.Do(func() {
		p.kick = make(chan struct{}, 1)
	})
}
