package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

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

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, id entity.UserID) (entity.User, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return entity.User{}, err
	}
	var u entity.User
	var rawID string
	err := s.pool.QueryRow(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id.String()).
		Scan(&rawID, &u.Name, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, ErrNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("get user: %w", err)
	}
	u.ID = entity.NormalizeUserID(rawID)
	return u, nil
}

func (s *PostgresStore) Create(ctx context.Context, u entity.User) error {
	if u.ID.IsZero() {
		return fmt.Errorf("user id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
INSERT INTO users (id, name, email)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING`, u.ID.String(), u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}
