package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"prepwise/internal/gateway/entity"
	feedbackrepo "prepwise/internal/gateway/repository/feedback"
	"prepwise/internal/llm"
	"prepwise/internal/logging"
)

// Categories are the fixed evaluation areas, in output order.
var Categories = []string{
	"Communication Skills",
	"Technical Knowledge",
	"Problem Solving",
	"Cultural Fit",
	"Confidence and Clarity",
}

const SystemInstruction = "You are a professional interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories"

type Params struct {
	InterviewID string                  `json:"interviewId"`
	UserID      string                  `json:"userId"`
	Transcript  []entity.TranscriptTurn `json:"transcript"`
	FeedbackID  string                  `json:"feedbackId,omitempty"`
}

// FormatTranscript flattens turns into "- role: content\n" lines.
func FormatTranscript(turns []entity.TranscriptTurn) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "- %s: %s\n", t.Role, t.Content)
	}
	return b.String()
}

func BuildPrompt(formatted string) string {
	return `You are an AI interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories. Be thorough and detailed in your analysis. Don't be lenient with the candidate. If there are mistakes or areas for improvement, point them out.
Transcript:
` + formatted + `
Please score the candidate from 0 to 100 in the following areas. Do not add categories other than the ones provided:
- **Communication Skills**: Clarity, articulation, structured responses.
- **Technical Knowledge**: Understanding of key concepts for the role.
- **Problem Solving**: Ability to analyze problems and propose solutions.
- **Cultural Fit**: Alignment with company values and job role.
- **Confidence and Clarity**: Confidence in responses, engagement, and clarity.
`
}

// Schema is the structured output contract for GenerateObject.
func Schema() *genai.Schema {
	score := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc, Minimum: ptr(0.0), Maximum: ptr(100.0)}
	}
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	n := int64(len(Categories))
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"totalScore": score("overall score"),
			"categoryScores": {
				Type:     genai.TypeArray,
				MinItems: &n,
				MaxItems: &n,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":    {Type: genai.TypeString, Enum: Categories},
						"score":   score("category score"),
						"comment": {Type: genai.TypeString},
					},
					Required:         []string{"name", "score", "comment"},
					PropertyOrdering: []string{"name", "score", "comment"},
				},
			},
			"strengths":           stringList,
			"areasForImprovement": stringList,
			"finalAssessment":     {Type: genai.TypeString},
		},
		Required:         []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
		PropertyOrdering: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
	}
}

func ptr[T any](v T) *T { return &v }

type generated struct {
	TotalScore          float64                `json:"totalScore"`
	CategoryScores      []entity.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
}

type Service struct {
	llm   llm.Client
	store feedbackrepo.Store
	now   func() time.Time
}

func New(client llm.Client, store feedbackrepo.Store) *Service {
	return &Service{llm: client, store: store, now: time.Now}
}

// Create scores the transcript and stores the result. With a FeedbackID the
// existing document is overwritten, otherwise a new one is created.
func (s *Service) Create(ctx context.Context, p Params) (string, error) {
	log := logging.Logger(ctx).With(zap.String("interview_id", p.InterviewID))
	raw, err := s.llm.GenerateObject(ctx, llm.Request{
		System: SystemInstruction,
		Prompt: BuildPrompt(FormatTranscript(p.Transcript)),
		Schema: Schema(),
	})
	if err != nil {
		log.Error("feedback generation failed", zap.Error(err))
		return "", fmt.Errorf("generate feedback: %w", err)
	}
	var out generated
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("feedback object rejected", zap.Error(err))
		return "", fmt.Errorf("decode feedback: %w", err)
	}
	f := entity.Feedback{
		ID:                  strings.TrimSpace(p.FeedbackID),
		InterviewID:         p.InterviewID,
		UserID:              entity.NormalizeUserID(p.UserID),
		TotalScore:          out.TotalScore,
		CategoryScores:      out.CategoryScores,
		Strengths:           out.Strengths,
		AreasForImprovement: out.AreasForImprovement,
		FinalAssessment:     out.FinalAssessment,
		CreatedAt:           s.now().UTC(),
	}
	if f.ID != "" {
		if err := s.store.Put(ctx, f); err != nil {
			log.Error("saving feedback failed", zap.Error(err))
			return "", fmt.Errorf("save feedback: %w", err)
		}
	} else {
		created, err := s.store.Create(ctx, f)
		if err != nil {
			log.Error("saving feedback failed", zap.Error(err))
			return "", fmt.Errorf("save feedback: %w", err)
		}
		f.ID = created.ID
	}
	log.Info("feedback saved", zap.String("feedback_id", f.ID), zap.Float64("total_score", f.TotalScore))
	return f.ID, nil
}

// ForInterview returns the user's feedback for an interview, if any.
func (s *Service) ForInterview(ctx context.Context, interviewID string, userID entity.UserID) (entity.Feedback, bool, error) {
	if strings.TrimSpace(interviewID) == "" || userID.IsZero() {
		return entity.Feedback{}, false, nil
	}
	f, err := s.store.FindByInterview(ctx, interviewID, userID)
	if errors.Is(err, feedbackrepo.ErrNotFound) {
		return entity.Feedback{}, false, nil
	}
	if err != nil {
		return entity.Feedback{}, false, err
	}
	return f, true, nil
}
