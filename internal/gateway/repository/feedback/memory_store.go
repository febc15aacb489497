package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"prepwise/internal/gateway/entity"
)

type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]entity.Feedback
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]entity.Feedback)}
}

func (s *MemoryStore) Create(ctx context.Context, f entity.Feedback) (entity.Feedback, error) {
	f.ID = uuid.NewString()
	if err := s.Put(ctx, f); err != nil {
		return entity.Feedback{}, err
	}
	return f, nil
}

func (s *MemoryStore) Put(_ context.Context, f entity.Feedback) error {
	f.ID = strings.TrimSpace(f.ID)
	if f.ID == "" {
		return fmt.Errorf("feedback id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[f.ID]; !exists {
		s.order = append(s.order, f.ID)
	}
	s.byID[f.ID] = f
	return nil
}

func (s *MemoryStore) FindByInterview(_ context.Context, interviewID string, userID entity.UserID) (entity.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		first entity.Feedback
		found bool
	)
	for _, id := range s.order {
		f := s.byID[id]
		if f.InterviewID != interviewID || f.UserID != userID {
			continue
		}
		if !found || f.CreatedAt.Before(first.CreatedAt) {
			first, found = f, true
		}
	}
	if !found {
		return entity.Feedback{}, ErrNotFound
	}
	return first, nil
}

// Len reports how many documents are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
