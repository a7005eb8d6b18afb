// Package storage provides the persistent score store behind the ledger.
// Three interchangeable backends exist: an embedded SQLite file, Postgres,
// and Firestore. The ledger only ever sees the Store interface.
package storage

import (
	"context"
	"errors"
	"fmt"

	"debirunpop/internal/config"
)

// LeaderboardLimit caps ranked listings.
const LeaderboardLimit = 50

// ErrNotFound is returned by Player for unknown names. It is an expected
// outcome, callers treat it as "score 0".
var ErrNotFound = errors.New("player not found")

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Store is the uniform capability the ledger consumes.
//
// AddScore must apply the player upsert, the player score increment and the
// community counter increment as a single atomic unit: concurrent readers
// observe all three or none, and concurrent submissions never lose updates.
type Store interface {
	AddScore(ctx context.Context, name string, delta int64) error
	Leaderboard(ctx context.Context) ([]Entry, error)
	Player(ctx context.Context, name string) (Entry, error)
	CommunityTotal(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
	Type() string
}

// Open builds the store selected by the config.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "scores.db"
		}
		return OpenSQLite(path)
	case "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres driver selected but storage.url is empty")
		}
		return OpenPostgres(cfg.URL)
	case "firestore":
		if cfg.FirestoreProject == "" {
			return nil, fmt.Errorf("firestore driver selected but storage.firestore_project is empty")
		}
		return OpenFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
