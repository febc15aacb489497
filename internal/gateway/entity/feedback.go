package entity

import "time"

// CategoryScore is one of the fixed evaluation categories.
type CategoryScore struct {
	Name    string  `json:"name" firestore:"name"`
	Score   float64 `json:"score" firestore:"score"`
	Comment string  `json:"comment" firestore:"comment"`
}

// Feedback is the scored assessment of one interview session.
// At most one per (InterviewID, UserID) is expected, but nothing enforces it.
type Feedback struct {
	ID                  string          `json:"id" firestore:"-"`
	InterviewID         string          `json:"interviewId" firestore:"interviewId"`
	UserID              UserID          `json:"userId" firestore:"userId"`
	TotalScore          float64         `json:"totalScore" firestore:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores" firestore:"categoryScores"`
	Strengths           []string        `json:"strengths" firestore:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement" firestore:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment" firestore:"finalAssessment"`
	CreatedAt           time.Time       `json:"createdAt" firestore:"createdAt"`
}

// TranscriptTurn is a single finalized utterance from a voice call.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
