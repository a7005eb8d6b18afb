package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	playersCollection  = "players"
	countersCollection = "counters"
	communityDoc       = "community"
)

// FirestoreStore backs the ledger with Firestore. Player documents are keyed
// by name, the community counter lives at counters/community.
type FirestoreStore struct {
	client *firestore.Client
}

func OpenFirestore(ctx context.Context, project, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) AddScore(ctx context.Context, name string, delta int64) error {
	playerRef := s.client.Collection(playersCollection).Doc(name)
	communityRef := s.client.Collection(countersCollection).Doc(communityDoc)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var old int64
		doc, err := tx.Get(playerRef)
		switch {
		case err == nil:
			old = docScore(doc)
		case status.Code(err) == codes.NotFound:
			// First submission for this name.
		default:
			return err
		}

		if err := tx.Set(playerRef, map[string]interface{}{
			"score":      old + delta,
			"updated_at": firestore.ServerTimestamp,
		}, firestore.MergeAll); err != nil {
			return err
		}
		return tx.Set(communityRef, map[string]interface{}{
			"total": firestore.Increment(delta),
		}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("adding score: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Leaderboard(ctx context.Context) ([]Entry, error) {
	iter := s.client.Collection(playersCollection).
		OrderBy("score", firestore.Desc).
		OrderBy("updated_at", firestore.Asc).
		Limit(LeaderboardLimit).
		Documents(ctx)
	defer iter.Stop()

	var entries []Entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("getting leaderboard: %w", err)
		}
		entries = append(entries, Entry{Name: doc.Ref.ID, Score: docScore(doc)})
	}
	return entries, nil
}

func (s *FirestoreStore) Player(ctx context.Context, name string) (Entry, error) {
	doc, err := s.client.Collection(playersCollection).Doc(name).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting player: %w", err)
	}
	return Entry{Name: doc.Ref.ID, Score: docScore(doc)}, nil
}

func (s *FirestoreStore) CommunityTotal(ctx context.Context) (int64, error) {
	doc, err := s.client.Collection(countersCollection).Doc(communityDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting community total: %w", err)
	}
	if v, ok := doc.Data()["total"].(int64); ok {
		return v, nil
	}
	return 0, nil
}

// Ping reads the community counter document; a NotFound still proves the
// backend is reachable.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(countersCollection).Doc(communityDoc).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return err
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) Type() string {
	return "firestore"
}

func docScore(doc *firestore.DocumentSnapshot) int64 {
	if v, ok := doc.Data()["score"].(int64); ok {
		return v
	}
	return 0
}
