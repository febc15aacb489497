package user

import (
	"context"
	"fmt"
	"sync"

	"prepwise/internal/gateway/entity"
)

type MemoryStore struct {
	mu   sync.RWMutex
	byID map[entity.UserID]entity.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[entity.UserID]entity.User)}
}

func (s *MemoryStore) Get(_ context.Context, id entity.UserID) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[entity.NormalizeUserID(string(id))]
	if !ok {
		return entity.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Create(_ context.Context, u entity.User) error {
	if u.ID.IsZero() {
		return fmt.Errorf("user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[u.ID]; exists {
		return ErrAlreadyExists
	}
	s.byID[u.ID] = u
	return nil
}
