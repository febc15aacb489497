package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("identity: user not found")
	ErrInvalidSession = errors.New("identity: invalid session cookie")
)

// Provider is the external identity service. It owns credentials; the
// application only mirrors profile data.
type Provider interface {
	// UserIDByEmail resolves a registered email to its stable uid.
	UserIDByEmail(ctx context.Context, email string) (string, error)
	// CreateSessionCookie exchanges a client-side id token for a session cookie.
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	// VerifySessionCookie returns the uid behind a session cookie. Expired,
	// tampered and revoked cookies all yield ErrInvalidSession.
	VerifySessionCookie(ctx context.Context, cookie string) (string, error)
}
