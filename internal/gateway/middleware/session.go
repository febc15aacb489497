package middleware

import (
	"context"
	"net/http"

	"prepwise/internal/gateway/entity"
	authsvc "prepwise/internal/gateway/service/auth"
)

// UserResolver maps a session cookie to a user, nil when not signed in.
type UserResolver interface {
	CurrentUser(ctx context.Context, cookie string) *entity.User
}

// Session resolves the current user once per request and stores it in the
// request context. Anonymous requests pass through.
func Session(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie := authsvc.CookieValue(r); cookie != "" {
				if u := users.CurrentUser(r.Context(), cookie); u != nil {
					r = r.WithContext(authsvc.WithUser(r.Context(), u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests without a signed-in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authsvc.UserFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"unauthenticated"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
