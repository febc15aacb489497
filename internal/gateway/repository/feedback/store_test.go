package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepwise/internal/gateway/entity"
	"prepwise/internal/storetest"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testPutOverwritesByID(t *testing.T, s Store) {
	ctx := context.Background()
	first := entity.Feedback{
		ID: "f1", InterviewID: "i1", UserID: "u1", TotalScore: 40, CreatedAt: base,
		CategoryScores: []entity.CategoryScore{{Name: "Communication Skills", Score: 40, Comment: "quiet"}},
	}
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("first put: %v", err)
	}
	second := first
	second.TotalScore = 80
	second.FinalAssessment = "better"
	second.CategoryScores = []entity.CategoryScore{{Name: "Communication Skills", Score: 80, Comment: "clear"}}
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := s.FindByInterview(ctx, "i1", "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "f1" || got.TotalScore != 80 || got.FinalAssessment != "better" {
		t.Fatalf("find = %+v, want overwritten f1", got)
	}
	if len(got.CategoryScores) != 1 || got.CategoryScores[0].Comment != "clear" {
		t.Fatalf("category scores = %+v", got.CategoryScores)
	}
}

func testCreateAlwaysAddsDocument(t *testing.T, s Store) {
	ctx := context.Background()
	a, err := s.Create(ctx, entity.Feedback{InterviewID: "i1", UserID: "u1", TotalScore: 10, CreatedAt: base})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := s.Create(ctx, entity.Feedback{InterviewID: "i1", UserID: "u1", TotalScore: 20, CreatedAt: base.Add(time.Minute)})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not distinct: %q %q", a.ID, b.ID)
	}

	first, err := s.FindByInterview(ctx, "i1", "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if first.ID != a.ID {
		t.Fatalf("find = %q, want oldest %q", first.ID, a.ID)
	}
}

func testFindReturnsOldest(t *testing.T, s Store) {
	ctx := context.Background()
	if err := s.Put(ctx, entity.Feedback{ID: "late", InterviewID: "i1", UserID: "u1", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("put late: %v", err)
	}
	if err := s.Put(ctx, entity.Feedback{ID: "early", InterviewID: "i1", UserID: "u1", CreatedAt: base}); err != nil {
		t.Fatalf("put early: %v", err)
	}
	got, err := s.FindByInterview(ctx, "i1", "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "early" {
		t.Fatalf("find = %q, want early", got.ID)
	}
}

func testFindByInterviewMissing(t *testing.T, s Store) {
	ctx := context.Background()
	if err := s.Put(ctx, entity.Feedback{ID: "other", InterviewID: "i1", UserID: "u2", CreatedAt: base}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.FindByInterview(ctx, "i1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("find error = %v, want ErrNotFound", err)
	}
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("PutOverwritesByID", func(t *testing.T) { testPutOverwritesByID(t, newStore(t)) })
	t.Run("CreateAlwaysAddsDocument", func(t *testing.T) { testCreateAlwaysAddsDocument(t, newStore(t)) })
	t.Run("FindReturnsOldest", func(t *testing.T) { testFindReturnsOldest(t, newStore(t)) })
	t.Run("FindByInterviewMissing", func(t *testing.T) { testFindByInterviewMissing(t, newStore(t)) })
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(*testing.T) Store { return NewMemoryStore() })
}

func TestPostgresStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return NewPostgresStore(storetest.Postgres(t)) })
}

func TestFirestoreStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return NewFirestoreStore(storetest.Firestore(t)) })
}

func TestMemoryStoreLen(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 2; i++ {
		if err := s.Put(ctx, entity.Feedback{ID: "f1", InterviewID: "i1", UserID: "u1"}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if _, err := s.Create(ctx, entity.Feedback{InterviewID: "i1", UserID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
}
