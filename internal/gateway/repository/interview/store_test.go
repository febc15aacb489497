package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"prepwise/internal/gateway/entity"
	"prepwise/internal/storetest"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, s Store, owner entity.UserID, finalized bool, at time.Time) entity.Interview {
	t.Helper()
	iv, err := s.Create(context.Background(), entity.Interview{
		Role:      fmt.Sprintf("role-%d", at.Unix()),
		UserID:    owner,
		Finalized: finalized,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if iv.ID == "" {
		t.Fatalf("create did not assign an id")
	}
	return iv
}

func ids(ivs []entity.Interview) []string {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, iv.ID)
	}
	return out
}

func testListLatestExcludesViewerAndDrafts(t *testing.T, s Store) {
	ctx := context.Background()
	seed(t, s, "u1", true, base.Add(5*time.Hour))
	older := seed(t, s, "u2", true, base.Add(1*time.Hour))
	seed(t, s, "u3", false, base.Add(4*time.Hour))
	newest := seed(t, s, "u3", true, base.Add(3*time.Hour))
	middle := seed(t, s, "u2", true, base.Add(2*time.Hour))

	got, err := s.ListLatest(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(got) != 2 || got[0].ID != newest.ID || got[1].ID != middle.ID {
		t.Fatalf("list latest = %v, want [%s %s]", ids(got), newest.ID, middle.ID)
	}
	for _, iv := range got {
		if !iv.Finalized || iv.UserID == "u1" {
			t.Fatalf("unexpected interview in listing: %+v", iv)
		}
	}

	all, err := s.ListLatest(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list latest default limit: %v", err)
	}
	if len(all) != 3 || all[2].ID != older.ID {
		t.Fatalf("list latest default limit = %v", ids(all))
	}
}

func testListByUserNewestFirst(t *testing.T, s Store) {
	a := seed(t, s, "u1", true, base)
	b := seed(t, s, "u1", false, base.Add(time.Hour))
	seed(t, s, "u2", true, base.Add(2*time.Hour))

	got, err := s.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("list by user = %v, want [%s %s]", ids(got), b.ID, a.ID)
	}
}

func testGetRoundTrip(t *testing.T, s Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, entity.Interview{
		ID:         "iv-fixed",
		Role:       "Backend Engineer",
		Level:      "Senior",
		Type:       "Technical",
		Techstack:  []string{"go", "postgresql"},
		Questions:  []string{"Q1", "Q2"},
		UserID:     "u1",
		Finalized:  true,
		CoverImage: "/covers/adobe.png",
		CreatedAt:  base,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "iv-fixed" {
		t.Fatalf("id = %q, want iv-fixed", created.ID)
	}

	got, err := s.Get(ctx, "iv-fixed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != "Backend Engineer" || got.UserID != "u1" || !got.Finalized || got.CoverImage != "/covers/adobe.png" {
		t.Fatalf("get = %+v", got)
	}
	if len(got.Questions) != 2 || got.Questions[1] != "Q2" || len(got.Techstack) != 2 {
		t.Fatalf("lists not preserved: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, base)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing error = %v, want ErrNotFound", err)
	}
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("ListLatestExcludesViewerAndDrafts", func(t *testing.T) { testListLatestExcludesViewerAndDrafts(t, newStore(t)) })
	t.Run("ListByUserNewestFirst", func(t *testing.T) { testListByUserNewestFirst(t, newStore(t)) })
	t.Run("GetRoundTrip", func(t *testing.T) { testGetRoundTrip(t, newStore(t)) })
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

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	iv, err := s.Create(ctx, entity.Interview{Role: "dev", Questions: []string{"Q1"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, iv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Questions[0] = "mutated"

	again, err := s.Get(ctx, iv.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Questions[0] != "Q1" {
		t.Fatalf("stored interview was mutated through a returned copy")
	}
}
