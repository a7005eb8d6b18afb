// Package ledger is the server-side scoring service. It validates incoming
// deltas and applies them through the storage layer, which guarantees that
// the player score and the community total move together.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"debirunpop/internal/names"
	"debirunpop/internal/storage"
)

// DefaultMaxDelta caps a single submission. A client flushing every 1.5s
// cannot legitimately accumulate more.
const DefaultMaxDelta = 500

// ErrBadInput rejects an empty/over-length name or a non-positive delta.
var ErrBadInput = errors.New("bad input")

type Service struct {
	store    storage.Store
	maxDelta int64
}

func New(store storage.Store, maxDelta int) *Service {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &Service{store: store, maxDelta: int64(maxDelta)}
}

// SubmitDelta sanitizes name, clamps delta to [0, maxDelta] and applies the
// result atomically. Rejections leave no side effects.
func (s *Service) SubmitDelta(ctx context.Context, name string, delta int64) error {
	clean := names.Sanitize(name)

	if delta < 0 {
		delta = 0
	}
	if delta > s.maxDelta {
		delta = s.maxDelta
	}

	if clean == "" || delta <= 0 {
		return ErrBadInput
	}

	if err := s.store.AddScore(ctx, clean, delta); err != nil {
		return fmt.Errorf("adding score: %w", err)
	}
	return nil
}

// Leaderboard returns up to the top 50 players, score descending, earliest
// reacher first on ties.
func (s *Service) Leaderboard(ctx context.Context) ([]storage.Entry, error) {
	entries, err := s.store.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	return entries, nil
}

// Player looks up a single player by (sanitized) name. Unknown players
// surface storage.ErrNotFound.
func (s *Service) Player(ctx context.Context, name string) (storage.Entry, error) {
	clean := names.Sanitize(name)
	if clean == "" {
		return storage.Entry{}, storage.ErrNotFound
	}
	return s.store.Player(ctx, clean)
}

// CommunityTotal returns the global accepted-delta sum, 0 if nothing has
// been recorded yet.
func (s *Service) CommunityTotal(ctx context.Context) (int64, error) {
	total, err := s.store.CommunityTotal(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting community total: %w", err)
	}
	return total, nil
}
