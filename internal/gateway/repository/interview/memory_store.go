package interview

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"prepwise/internal/gateway/entity"
)

type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]entity.Interview
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]entity.Interview)}
}

func (s *MemoryStore) Create(_ context.Context, iv entity.Interview) (entity.Interview, error) {
	if strings.TrimSpace(iv.ID) == "" {
		iv.ID = uuid.NewString()
	}
	iv = cloneInterview(iv)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[iv.ID]; !exists {
		s.order = append(s.order, iv.ID)
	}
	s.byID[iv.ID] = iv
	return cloneInterview(iv), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (entity.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return entity.Interview{}, ErrNotFound
	}
	return cloneInterview(iv), nil
}

func (s *MemoryStore) ListLatest(_ context.Context, excludeUser entity.UserID, limit int) ([]entity.Interview, error) {
	limit = normalizeLimit(limit)
	out := s.filter(func(iv entity.Interview) bool {
		return iv.Finalized && iv.UserID != excludeUser
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID entity.UserID) ([]entity.Interview, error) {
	return s.filter(func(iv entity.Interview) bool {
		return iv.UserID == userID
	}), nil
}

func (s *MemoryStore) filter(keep func(entity.Interview) bool) []entity.Interview {
	s.mu.RLock()
	out := make([]entity.Interview, 0, len(s.order))
	for _, id := range s.order {
		if iv := s.byID[id]; keep(iv) {
			out = append(out, cloneInterview(iv))
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneInterview(iv entity.Interview) entity.Interview {
	iv.Techstack = append([]string(nil), iv.Techstack...)
	iv.Questions = append([]string(nil), iv.Questions...)
	return iv
}
