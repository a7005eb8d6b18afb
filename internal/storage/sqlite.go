package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	score INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_players_score ON players(score DESC);
CREATE TABLE IF NOT EXISTS counters (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	total INTEGER NOT NULL DEFAULT 0
);
INSERT INTO counters (id, total) VALUES (1, 0) ON CONFLICT(id) DO NOTHING;
`

// SQLiteStore is the embedded relational backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the score database at path.
// Pass ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// A single connection serializes writers, which sidesteps
	// SQLITE_BUSY under concurrent submissions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddScore(ctx context.Context, name string, delta int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO players (name, score) VALUES (?, 0)
		ON CONFLICT(name) DO NOTHING
	`, name); err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE players SET score = score + ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?
	`, delta, name); err != nil {
		return fmt.Errorf("updating player score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE counters SET total = total + ? WHERE id = 1
	`, delta); err != nil {
		return fmt.Errorf("updating community total: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Leaderboard(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, score FROM players
		ORDER BY score DESC, updated_at ASC, id ASC
		LIMIT ?
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

func (s *SQLiteStore) Player(ctx context.Context, name string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT name, score FROM players WHERE name = ?
	`, name).Scan(&e.Name, &e.Score)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting player: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) CommunityTotal(ctx context.Context) (int64, error) {
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

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Type() string {
	return "sqlite"
}
