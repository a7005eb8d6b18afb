package storage

import (
	"context"
	"os"
	"testing"
)

func getPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres tests")
	}
	s, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() error: %v", err)
	}
	t.Cleanup(func() {
		s.db.Exec("DELETE FROM players")
		s.db.Exec("UPDATE counters SET total = 0 WHERE id = 1")
		s.Close()
	})
	return s
}

func TestPostgres_AddScoreAccumulates(t *testing.T) {
	s := getPostgresStore(t)
	ctx := context.Background()

	if err := s.AddScore(ctx, "Ada", 10); err != nil {
		t.Fatalf("AddScore() error: %v", err)
	}
	if err := s.AddScore(ctx, "Ada", 5); err != nil {
		t.Fatalf("AddScore() error: %v", err)
	}

	p, err := s.Player(ctx, "Ada")
	if err != nil {
		t.Fatalf("Player() error: %v", err)
	}
	if p.Score != 15 {
		t.Errorf("score = %d, want 15", p.Score)
	}

	total, err := s.CommunityTotal(ctx)
	if err != nil {
		t.Fatalf("CommunityTotal() error: %v", err)
	}
	if total != 15 {
		t.Errorf("community total = %d, want 15", total)
	}
}

func TestPostgres_PlayerNotFound(t *testing.T) {
	s := getPostgresStore(t)

	_, err := s.Player(context.Background(), "nobody")
	if err != ErrNotFound {
		t.Errorf("Player() error = %v, want ErrNotFound", err)
	}
}

func TestPostgres_LeaderboardTieBreak(t *testing.T) {
	s := getPostgresStore(t)
	ctx := context.Background()

	s.AddScore(ctx, "first", 42)
	s.AddScore(ctx, "second", 42)

	entries, err := s.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Name != "first" {
		t.Errorf("tie winner = %q, want %q", entries[0].Name, "first")
	}
}
