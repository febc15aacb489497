package view

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"prepwise/internal/gateway/entity"
	interviewrepo "prepwise/internal/gateway/repository/interview"
	"prepwise/internal/techicon"
)

const (
	TypeMixed      = "Mixed"
	TypeBehavioral = "Behavioral"
	TypeTechnical  = "Technical"

	DateLayout      = "Jan 2, 2006"
	NoScore         = "---"
	NotTakenMessage = "You haven't taken this interview yet. Take it now to improve your skills."
)

var mixPattern = regexp.MustCompile(`(?i)mix`)

var badgeColors = map[string]string{
	TypeBehavioral: "bg-light-400",
	TypeMixed:      "bg-light-600",
	TypeTechnical:  "bg-light-800",
}

// NormalizeType collapses any type mentioning "mix" into "Mixed".
func NormalizeType(t string) string {
	if mixPattern.MatchString(t) {
		return TypeMixed
	}
	return t
}

// BadgeColor expects an already normalized type.
func BadgeColor(normalized string) string {
	if c, ok := badgeColors[normalized]; ok {
		return c
	}
	return badgeColors[TypeMixed]
}

// FeedbackFinder looks up the viewer's feedback for an interview.
type FeedbackFinder interface {
	ForInterview(ctx context.Context, interviewID string, userID entity.UserID) (entity.Feedback, bool, error)
}

type InterviewCard struct {
	ID          string           `json:"id"`
	Role        string           `json:"role"`
	Type        string           `json:"type"`
	BadgeColor  string           `json:"badgeColor"`
	CoverImage  string           `json:"coverImage"`
	Date        string           `json:"date"`
	Score       string           `json:"score"`
	Assessment  string           `json:"assessment"`
	TechIcons   []techicon.Logo  `json:"techIcons"`
	Link        string           `json:"link"`
	ActionLabel string           `json:"actionLabel"`
	Feedback    *entity.Feedback `json:"feedback,omitempty"`
}

// InterviewDetail is a single interview with its full icon list.
type InterviewDetail struct {
	entity.Interview
	TechIcons []techicon.Logo `json:"techIcons"`
}

type Service struct {
	interviews interviewrepo.Store
	feedback   FeedbackFinder
	now        func() time.Time
}

func New(interviews interviewrepo.Store, feedback FeedbackFinder) *Service {
	return &Service{interviews: interviews, feedback: feedback, now: time.Now}
}

// Card renders one interview for viewer. Feedback is only joined when both
// the interview id and viewer are known.
func (s *Service) Card(ctx context.Context, iv entity.Interview, viewer entity.UserID) (InterviewCard, error) {
	var fb *entity.Feedback
	if iv.ID != "" && !viewer.IsZero() {
		f, ok, err := s.feedback.ForInterview(ctx, iv.ID, viewer)
		if err != nil {
			return InterviewCard{}, err
		}
		if ok {
			fb = &f
		}
	}
	typ := NormalizeType(iv.Type)
	card := InterviewCard{
		ID:          iv.ID,
		Role:        iv.Role,
		Type:        typ,
		BadgeColor:  BadgeColor(typ),
		CoverImage:  iv.CoverImage,
		Score:       NoScore,
		Assessment:  NotTakenMessage,
		TechIcons:   techicon.Logos(iv.Techstack),
		Link:        "/interview/" + iv.ID,
		ActionLabel: "View Interview",
		Feedback:    fb,
	}
	date := iv.CreatedAt
	if fb != nil {
		if !fb.CreatedAt.IsZero() {
			date = fb.CreatedAt
		}
		if fb.TotalScore != 0 {
			card.Score = strconv.FormatFloat(fb.TotalScore, 'f', -1, 64)
		}
		if fb.FinalAssessment != "" {
			card.Assessment = fb.FinalAssessment
		}
		card.Link = "/interview/" + iv.ID + "/feedback"
		card.ActionLabel = "Check Feedback"
	}
	if date.IsZero() {
		date = s.now()
	}
	card.Date = date.Format(DateLayout)
	return card, nil
}

func (s *Service) cards(ctx context.Context, ivs []entity.Interview, viewer entity.UserID) ([]InterviewCard, error) {
	out := make([]InterviewCard, 0, len(ivs))
	for _, iv := range ivs {
		c, err := s.Card(ctx, iv, viewer)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// LatestInterviews lists other users' finalized interviews, newest first.
func (s *Service) LatestInterviews(ctx context.Context, viewer entity.UserID, limit int) ([]InterviewCard, error) {
	ivs, err := s.interviews.ListLatest(ctx, viewer, limit)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, ivs, viewer)
}

// UserInterviews lists the viewer's own interviews, newest first.
func (s *Service) UserInterviews(ctx context.Context, viewer entity.UserID) ([]InterviewCard, error) {
	ivs, err := s.interviews.ListByUser(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, ivs, viewer)
}

// Interview returns one interview, or false when it does not exist.
func (s *Service) Interview(ctx context.Context, id string) (InterviewDetail, bool, error) {
	iv, err := s.interviews.Get(ctx, id)
	if errors.Is(err, interviewrepo.ErrNotFound) {
		return InterviewDetail{}, false, nil
	}
	if err != nil {
		return InterviewDetail{}, false, err
	}
	return InterviewDetail{Interview: iv, TechIcons: techicon.Logos(iv.Techstack)}, true, nil
}
