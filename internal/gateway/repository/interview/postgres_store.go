package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepwise/internal/gateway/entity"
)

type PostgresStore struct {
	pool       *pgxpool.Pool
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const selectColumns = `id, role, level, type, techstack, questions, user_id, finalized, cover_image, created_at`

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS interviews (
  id TEXT PRIMARY KEY,
  role TEXT NOT NULL,
  level TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  techstack TEXT[] NOT NULL DEFAULT '{}',
  questions TEXT[] NOT NULL DEFAULT '{}',
  user_id TEXT NOT NULL DEFAULT '',
  finalized BOOLEAN NOT NULL DEFAULT FALSE,
  cover_image TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_interviews_user_id ON interviews (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_interviews_finalized ON interviews (finalized, created_at DESC);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Create(ctx context.Context, iv entity.Interview) (entity.Interview, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return entity.Interview{}, err
	}
	if strings.TrimSpace(iv.ID) == "" {
		iv.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO interviews (`+selectColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		iv.ID, iv.Role, iv.Level, iv.Type, nonNil(iv.Techstack), nonNil(iv.Questions),
		iv.UserID.String(), iv.Finalized, iv.CoverImage, iv.CreatedAt)
	if err != nil {
		return entity.Interview{}, fmt.Errorf("insert interview: %w", err)
	}
	return iv, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (entity.Interview, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return entity.Interview{}, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM interviews WHERE id = $1`, strings.TrimSpace(id))
	iv, err := scanInterview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Interview{}, ErrNotFound
	}
	if err != nil {
		return entity.Interview{}, fmt.Errorf("get interview: %w", err)
	}
	return iv, nil
}

func (s *PostgresStore) ListLatest(ctx context.Context, excludeUser entity.UserID, limit int) ([]entity.Interview, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
SELECT `+selectColumns+`
FROM interviews
WHERE finalized = TRUE AND user_id <> $1
ORDER BY created_at DESC
LIMIT $2`, excludeUser.String(), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list latest interviews: %w", err)
	}
	return collectRows(rows)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID entity.UserID) ([]entity.Interview, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
SELECT `+selectColumns+`
FROM interviews
WHERE user_id = $1
ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list interviews by user: %w", err)
	}
	return collectRows(rows)
}

func collectRows(rows pgx.Rows) ([]entity.Interview, error) {
	defer rows.Close()
	out := make([]entity.Interview, 0, 32)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func scanInterview(row pgx.Row) (entity.Interview, error) {
	var iv entity.Interview
	var userID string
	err := row.Scan(&iv.ID, &iv.Role, &iv.Level, &iv.Type, &iv.Techstack, &iv.Questions,
		&userID, &iv.Finalized, &iv.CoverImage, &iv.CreatedAt)
	if err != nil {
		return entity.Interview{}, err
	}
	iv.UserID = entity.NormalizeUserID(userID)
	return iv, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
