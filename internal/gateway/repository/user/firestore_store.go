package user

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"prepwise/internal/gateway/entity"
)

const collection = "users"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, id entity.UserID) (entity.User, error) {
	if id.IsZero() {
		return entity.User{}, ErrNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id.String()).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return entity.User{}, ErrNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("get user: %w", err)
	}
	var u entity.User
	if err := snap.DataTo(&u); err != nil {
		return entity.User{}, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	u.ID = entity.NormalizeUserID(snap.Ref.ID)
	return u, nil
}

// Create uses Firestore's create precondition so two concurrent sign-ups for
// the same uid cannot both succeed.
func (s *FirestoreStore) Create(ctx context.Context, u entity.User) error {
	if u.ID.IsZero() {
		return fmt.Errorf("user id is required")
	}
	_, err := s.client.Collection(collection).Doc(u.ID.String()).Create(ctx, u)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
