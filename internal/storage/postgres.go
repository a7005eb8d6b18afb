package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore backs the ledger with a shared Postgres database.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}
	for _, entry := range entries {
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
		}
		log.Debug().Str("migration", entry.Name()).Msg("applied migration")
	}
	return nil
}

func (s *PostgresStore) AddScore(ctx context.Context, name string, delta int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO players (name, score) VALUES ($1, 0)
		ON CONFLICT (name) DO NOTHING
	`, name); err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	// Row-level locking on the player and counter rows serializes
	// concurrent submissions for the same name.
	if _, err := tx.ExecContext(ctx, `
		UPDATE players SET score = score + $1, updated_at = now() WHERE name = $2
	`, delta, name); err != nil {
		return fmt.Errorf("updating player score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE counters SET total = total + $1 WHERE id = 1
	`, delta); err != nil {
		return fmt.Errorf("updating community total: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) Leaderboard(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, score FROM players
		ORDER BY score DESC, updated_at ASC, id ASC
		LIMIT $1
	`, LeaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Player(ctx context.Context, name string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT name, score FROM players WHERE name = $1
	`, name).Scan(&e.Name, &e.Score)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting player: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) CommunityTotal(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT total FROM counters WHERE id = 1`).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting community total: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Type() string {
	return "postgres"
}
