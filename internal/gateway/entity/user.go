package entity

import "strings"

// UserID is the stable identifier the Identity Provider assigns to a user.
// It doubles as the document id of the user's profile record.
type UserID string

// User is the profile mirrored in the document store.
type User struct {
	ID    UserID `json:"id" firestore:"-"`
	Name  string `json:"name" firestore:"name"`
	Email string `json:"email" firestore:"email"`
}

func NewUser(rawID, name, email string) User {
	return User{
		ID:    NormalizeUserID(rawID),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
}

func NormalizeUserID(raw string) UserID {
	return UserID(strings.TrimSpace(raw))
}

func (id UserID) String() string {
	return strings.TrimSpace(string(id))
}

func (id UserID) IsZero() bool {
	return id.String() == ""
}
