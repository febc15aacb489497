package user

import (
	"context"
	"errors"

	"prepwise/internal/gateway/entity"
)

// Store persists user profiles keyed by the identity uid.
type Store interface {
	Get(ctx context.Context, id entity.UserID) (entity.User, error)
	// Create writes the profile only if no document exists for u.ID.
	Create(ctx context.Context, u entity.User) error
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)
