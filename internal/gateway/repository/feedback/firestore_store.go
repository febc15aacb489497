package feedback

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"prepwise/internal/gateway/entity"
)

const collection = "feedback"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Create(ctx context.Context, f entity.Feedback) (entity.Feedback, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, f); err != nil {
		return entity.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	f.ID = ref.ID
	return f, nil
}

func (s *FirestoreStore) Put(ctx context.Context, f entity.Feedback) error {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return fmt.Errorf("feedback id is required")
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, f); err != nil {
		return fmt.Errorf("set feedback %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) FindByInterview(ctx context.Context, interviewID string, userID entity.UserID) (entity.Feedback, error) {
	it := s.client.Collection(collection).
		Where("interviewId", "==", interviewID).
		Where("userId", "==", userID.String()).
		OrderBy("createdAt", firestore.Asc).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return entity.Feedback{}, ErrNotFound
	}
	if err != nil {
		return entity.Feedback{}, fmt.Errorf("query feedback: %w", err)
	}
	var f entity.Feedback
	if err := snap.DataTo(&f); err != nil {
		return entity.Feedback{}, fmt.Errorf("decode feedback %s: %w", snap.Ref.ID, err)
	}
	f.ID = snap.Ref.ID
	return f, nil
}
