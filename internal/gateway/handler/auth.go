package handler

import (
	"net/http"

	"prepwise/internal/gateway/entity"
	authsvc "prepwise/internal/gateway/service/auth"
)

type AuthHandler struct {
	svc    *authsvc.Service
	secure bool
}

// NewAuthHandler marks cookies Secure when secure is set.
func NewAuthHandler(svc *authsvc.Service, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, secure: secure}
}

func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var p authsvc.SignUpParams
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, r, http.StatusBadRequest, authsvc.Result{Message: authsvc.MsgSignUpFailed})
		return
	}
	writeJSON(w, r, http.StatusOK, h.svc.SignUp(r.Context(), p))
}

func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var p authsvc.SignInParams
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, r, http.StatusBadRequest, authsvc.Result{Message: authsvc.MsgSignInFailed})
		return
	}
	res, cookie := h.svc.SignIn(r.Context(), p)
	if res.Success {
		http.SetCookie(w, authsvc.SessionCookie(cookie, h.secure))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, authsvc.ClearedCookie(h.secure))
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *entity.User `json:"user,omitempty"`
}

// HandleMe relies on middleware.Session having resolved the cookie.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u := authsvc.UserFrom(r.Context())
	writeJSON(w, r, http.StatusOK, meResponse{Authenticated: u != nil, User: u})
}
