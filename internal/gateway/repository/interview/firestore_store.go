package interview

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"prepwise/internal/gateway/entity"
)

const collection = "interviews"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Create(ctx context.Context, iv entity.Interview) (entity.Interview, error) {
	col := s.client.Collection(collection)
	ref := col.NewDoc()
	if id := strings.TrimSpace(iv.ID); id != "" {
		ref = col.Doc(id)
	}
	if _, err := ref.Create(ctx, iv); err != nil {
		return entity.Interview{}, fmt.Errorf("create interview: %w", err)
	}
	iv.ID = ref.ID
	return iv, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (entity.Interview, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.Interview{}, ErrNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return entity.Interview{}, ErrNotFound
	}
	if err != nil {
		return entity.Interview{}, fmt.Errorf("get interview: %w", err)
	}
	return decode(snap)
}

func (s *FirestoreStore) ListLatest(ctx context.Context, excludeUser entity.UserID, limit int) ([]entity.Interview, error) {
	q := s.client.Collection(collection).
		OrderBy("createdAt", firestore.Desc).
		Where("finalized", "==", true).
		Where("userId", "!=", excludeUser.String()).
		Limit(normalizeLimit(limit))
	return collect(q.Documents(ctx))
}

func (s *FirestoreStore) ListByUser(ctx context.Context, userID entity.UserID) ([]entity.Interview, error) {
	q := s.client.Collection(collection).
		Where("userId", "==", userID.String()).
		OrderBy("createdAt", firestore.Desc)
	return collect(q.Documents(ctx))
}

func collect(it *firestore.DocumentIterator) ([]entity.Interview, error) {
	defer it.Stop()
	out := make([]entity.Interview, 0, 32)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("query interviews: %w", err)
		}
		iv, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
}

func decode(snap *firestore.DocumentSnapshot) (entity.Interview, error) {
	var iv entity.Interview
	if err := snap.DataTo(&iv); err != nil {
		return entity.Interview{}, fmt.Errorf("decode interview %s: %w", snap.Ref.ID, err)
	}
	iv.ID = snap.Ref.ID
	return iv, nil
}
