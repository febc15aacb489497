package interview

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"prepwise/internal/gateway/entity"
	interviewrepo "prepwise/internal/gateway/repository/interview"
)

type Store = interviewrepo.Store

type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxEntries: 512,
		TTL:        10 * time.Minute,
	}
}

type MetricsSnapshot struct {
	Hits        uint64
	Misses      uint64
	OriginReads uint64
}

// CachedStore serves Get from memory. Interviews never change after creation,
// so entries only leave the cache through eviction or expiry.
type CachedStore struct {
	origin Store
	byID   *expirable.LRU[string, entity.Interview]

	hits        atomic.Uint64
	misses      atomic.Uint64
	originReads atomic.Uint64
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	def := DefaultCacheConfig()
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &CachedStore{
		origin: origin,
		byID:   expirable.NewLRU[string, entity.Interview](cfg.MaxEntries, nil, cfg.TTL),
	}
}

func (s *CachedStore) Create(ctx context.Context, iv entity.Interview) (entity.Interview, error) {
	stored, err := s.origin.Create(ctx, iv)
	if err != nil {
		return entity.Interview{}, err
	}
	s.byID.Add(stored.ID, stored)
	return stored, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (entity.Interview, error) {
	if iv, ok := s.byID.Get(id); ok {
		s.hits.Add(1)
		return clone(iv), nil
	}
	s.misses.Add(1)
	s.originReads.Add(1)
	iv, err := s.origin.Get(ctx, id)
	if err != nil {
		return entity.Interview{}, err
	}
	s.byID.Add(id, iv)
	return clone(iv), nil
}

func (s *CachedStore) ListLatest(ctx context.Context, excludeUser entity.UserID, limit int) ([]entity.Interview, error) {
	s.originReads.Add(1)
	return s.origin.ListLatest(ctx, excludeUser, limit)
}

func (s *CachedStore) ListByUser(ctx context.Context, userID entity.UserID) ([]entity.Interview, error) {
	s.originReads.Add(1)
	return s.origin.ListByUser(ctx, userID)
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		OriginReads: s.originReads.Load(),
	}
}

func clone(iv entity.Interview) entity.Interview {
	iv.Techstack = append([]string(nil), iv.Techstack...)
	iv.Questions = append([]string(nil), iv.Questions...)
	return iv
}
