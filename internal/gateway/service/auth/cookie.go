package auth

import (
	"context"
	"net/http"

	"prepwise/internal/gateway/entity"
)

const CookieName = "session"

// SessionCookie builds the cookie carrying a minted session.
func SessionCookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie deletes the session cookie on the client.
func ClearedCookie(secure bool) *http.Cookie {
	c := SessionCookie("", secure)
	c.MaxAge = -1
	return c
}

// CookieValue returns the session cookie from r, or "".
func CookieValue(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

type userKey struct{}

// WithUser attaches the resolved user to ctx.
func WithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user set by WithUser, or nil.
func UserFrom(ctx context.Context) *entity.User {
	u, _ := ctx.Value(userKey{}).(*entity.User)
	return u
}
