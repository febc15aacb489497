package feedback

import (
	"context"
	"errors"

	"prepwise/internal/gateway/entity"
)

// Store persists feedback documents.
type Store interface {
	// Create always writes a new document under a fresh id.
	Create(ctx context.Context, f entity.Feedback) (entity.Feedback, error)
	// Put writes f under f.ID, replacing whatever was stored there.
	Put(ctx context.Context, f entity.Feedback) error
	// FindByInterview returns the oldest feedback for the pair.
	FindByInterview(ctx context.Context, interviewID string, userID entity.UserID) (entity.Feedback, error)
}

var ErrNotFound = errors.New("feedback not found")
