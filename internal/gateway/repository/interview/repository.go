package interview

import (
	"context"
	"errors"

	"prepwise/internal/gateway/entity"
)

// DefaultLatestLimit is used when a listing asks for a non-positive limit.
const DefaultLatestLimit = 20

// Store persists interviews. Records are immutable once created.
type Store interface {
	// Create assigns an id when iv.ID is empty and returns the stored record.
	Create(ctx context.Context, iv entity.Interview) (entity.Interview, error)
	Get(ctx context.Context, id string) (entity.Interview, error)
	// ListLatest returns finalized interviews not owned by excludeUser,
	// newest first, at most limit of them.
	ListLatest(ctx context.Context, excludeUser entity.UserID, limit int) ([]entity.Interview, error)
	// ListByUser returns every interview owned by userID, newest first.
	ListByUser(ctx context.Context, userID entity.UserID) ([]entity.Interview, error)
}

var ErrNotFound = errors.New("interview not found")

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLatestLimit
	}
	return limit
}
