package entity

import (
	"strings"
	"time"
)

// Interview is a generated question set. It is written once by the question
// generator and never modified afterwards.
type Interview struct {
	ID         string    `json:"id" firestore:"-"`
	Role       string    `json:"role" firestore:"role"`
	Level      string    `json:"level" firestore:"level"`
	Type       string    `json:"type" firestore:"type"`
	Techstack  []string  `json:"techstack" firestore:"techstack"`
	Questions  []string  `json:"questions" firestore:"questions"`
	UserID     UserID    `json:"userId" firestore:"userId"`
	Finalized  bool      `json:"finalized" firestore:"finalized"`
	CoverImage string    `json:"coverImage" firestore:"coverImage"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// SplitTechstack turns the comma separated form input into a list,
// dropping blank entries.
func SplitTechstack(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
