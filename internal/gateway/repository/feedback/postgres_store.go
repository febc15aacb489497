package feedback

import (
	"context"
	"encoding/json"
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

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS feedback (
  id TEXT PRIMARY KEY,
  interview_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  category_scores JSONB NOT NULL DEFAULT '[]'::jsonb,
  strengths TEXT[] NOT NULL DEFAULT '{}',
  areas_for_improvement TEXT[] NOT NULL DEFAULT '{}',
  final_assessment TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_feedback_interview_user ON feedback (interview_id, user_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Create(ctx context.Context, f entity.Feedback) (entity.Feedback, error) {
	f.ID = uuid.NewString()
	if err := s.Put(ctx, f); err != nil {
		return entity.Feedback{}, err
	}
	return f, nil
}

func (s *PostgresStore) Put(ctx context.Context, f entity.Feedback) error {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return fmt.Errorf("feedback id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	scores, err := json.Marshal(f.CategoryScores)
	if err != nil {
		return fmt.Errorf("encode category scores: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO feedback (
  id, interview_id, user_id, total_score, category_scores,
  strengths, areas_for_improvement, final_assessment, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id)
DO UPDATE SET interview_id=EXCLUDED.interview_id,
  user_id=EXCLUDED.user_id,
  total_score=EXCLUDED.total_score,
  category_scores=EXCLUDED.category_scores,
  strengths=EXCLUDED.strengths,
  areas_for_improvement=EXCLUDED.areas_for_improvement,
  final_assessment=EXCLUDED.final_assessment,
  created_at=EXCLUDED.created_at`,
		id, f.InterviewID, f.UserID.String(), f.TotalScore, string(scores),
		nonNil(f.Strengths), nonNil(f.AreasForImprovement), f.FinalAssessment, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByInterview(ctx context.Context, interviewID string, userID entity.UserID) (entity.Feedback, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return entity.Feedback{}, err
	}
	var (
		f      entity.Feedback
		uid    string
		scores []byte
	)
	err := s.pool.QueryRow(ctx, `
SELECT id, interview_id, user_id, total_score, category_scores,
  strengths, areas_for_improvement, final_assessment, created_at
FROM feedback
WHERE interview_id = $1 AND user_id = $2
ORDER BY created_at ASC
LIMIT 1`, interviewID, userID.String()).
		Scan(&f.ID, &f.InterviewID, &uid, &f.TotalScore, &scores,
			&f.Strengths, &f.AreasForImprovement, &f.FinalAssessment, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Feedback{}, ErrNotFound
	}
	if err != nil {
		return entity.Feedback{}, fmt.Errorf("find feedback: %w", err)
	}
	if err := json.Unmarshal(scores, &f.CategoryScores); err != nil {
		return entity.Feedback{}, fmt.Errorf("decode category scores: %w", err)
	}
	f.UserID = entity.NormalizeUserID(uid)
	return f, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
