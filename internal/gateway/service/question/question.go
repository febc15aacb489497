package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/gateway/entity"
	"prepwise/internal/gateway/repository/cover"
	interviewrepo "prepwise/internal/gateway/repository/interview"
	"prepwise/internal/llm"
	"prepwise/internal/logging"
)

var ErrMalformedQuestions = errors.New("generated questions are not a JSON array of strings")

// Params is the body of a question generation request.
type Params struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	Techstack string `json:"techstack"`
	Amount    Amount `json:"amount"`
	UserID    string `json:"userid"`
}

// Amount accepts either a JSON number or a numeric string.
type Amount int

func (a *Amount) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*a = Amount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*a = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = Amount(n)
	return nil
}

// BuildPrompt renders the generation prompt. The output shape line is what
// ParseQuestions expects back.
func BuildPrompt(p Params) string {
	var b strings.Builder
	b.WriteString("Prepare questions for a job interview.\n")
	fmt.Fprintf(&b, "The job role is %s.\n", p.Role)
	fmt.Fprintf(&b, "The job experience level is %s.\n", p.Level)
	fmt.Fprintf(&b, "The tech stack used in the job is: %s.\n", p.Techstack)
	fmt.Fprintf(&b, "The focus between behavioural and technical questions should lean towards: %s.\n", p.Type)
	fmt.Fprintf(&b, "The amount of questions required is: %d.\n", p.Amount)
	b.WriteString("Please return only the questions, without any additional text.\n")
	b.WriteString(`The questions are going to be read by a voice assistant so do not use "/" or "*" or any other special characters which might break the voice assistant.` + "\n")
	b.WriteString("Return the questions formatted like this:\n")
	b.WriteString(`["Question 1", "Question 2", "Question 3"]` + "\n\n")
	b.WriteString("Thank you! <3\n")
	return b.String()
}

// ParseQuestions decodes generated text as a JSON array of strings.
// No repair is attempted.
func ParseQuestions(text string) ([]string, error) {
	var qs []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &qs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuestions, err)
	}
	if qs == nil {
		return nil, ErrMalformedQuestions
	}
	return qs, nil
}

type Service struct {
	llm   llm.Client
	store interviewrepo.Store
	now   func() time.Time
	cover func() string
}

func New(client llm.Client, store interviewrepo.Store) *Service {
	return &Service{llm: client, store: store, now: time.Now, cover: cover.Random}
}

// Generate asks the model for questions and persists a finalized interview.
// Nothing is written when generation or parsing fails.
func (s *Service) Generate(ctx context.Context, p Params) (entity.Interview, error) {
	log := logging.Logger(ctx)
	text, err := s.llm.GenerateText(ctx, llm.Request{Prompt: BuildPrompt(p)})
	if err != nil {
		return entity.Interview{}, fmt.Errorf("generate questions: %w", err)
	}
	qs, err := ParseQuestions(text)
	if err != nil {
		log.Warn("discarding generated questions", zap.Error(err))
		return entity.Interview{}, err
	}
	iv := entity.Interview{
		Role:       strings.TrimSpace(p.Role),
		Level:      strings.TrimSpace(p.Level),
		Type:       strings.TrimSpace(p.Type),
		Techstack:  entity.SplitTechstack(p.Techstack),
		Questions:  qs,
		UserID:     entity.NormalizeUserID(p.UserID),
		Finalized:  true,
		CoverImage: s.cover(),
		CreatedAt:  s.now().UTC(),
	}
	stored, err := s.store.Create(ctx, iv)
	if err != nil {
		return entity.Interview{}, fmt.Errorf("save interview: %w", err)
	}
	log.Info("interview generated",
		zap.String("interview_id", stored.ID),
		zap.String("user_id", stored.UserID.String()),
		zap.Int("questions", len(qs)))
	return stored, nil
}
