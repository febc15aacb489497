package server

import (
	"net/http"

	"prepwise/internal/gateway/handler"
	"prepwise/internal/gateway/middleware"
)

type Handlers struct {
	Generate   *handler.GenerateHandler
	Auth       *handler.AuthHandler
	Interviews *handler.InterviewHandler
	Sessions   *handler.SessionHandler
	Covers     *handler.CoverHandler
}

func NewMux(h Handlers, users middleware.UserResolver, origins *middleware.Origins) http.Handler {
	mux := http.NewServeMux()
	authed := func(f http.HandlerFunc) http.Handler { return middleware.RequireUser(f) }

	// Voice workflow callback
	mux.HandleFunc("GET /api/vapi/generate", h.Generate.HandlePing)
	mux.HandleFunc("POST /api/vapi/generate", h.Generate.HandleGenerate)

	// Auth
	mux.HandleFunc("POST /api/auth/sign-up", h.Auth.HandleSignUp)
	mux.HandleFunc("POST /api/auth/sign-in", h.Auth.HandleSignIn)
	mux.HandleFunc("POST /api/auth/sign-out", h.Auth.HandleSignOut)
	mux.HandleFunc("GET /api/auth/me", h.Auth.HandleMe)

	// Interviews
	mux.Handle("GET /api/interviews/latest", authed(h.Interviews.HandleLatest))
	mux.Handle("GET /api/interviews/mine", authed(h.Interviews.HandleMine))
	mux.Handle("GET /api/interviews/{id}", authed(h.Interviews.HandleGet))
	mux.Handle("GET /api/interviews/{id}/feedback", authed(h.Interviews.HandleGetFeedback))
	mux.Handle("POST /api/interviews/{id}/feedback", authed(h.Interviews.HandleCreateFeedback))

	// Voice session
	mux.Handle("GET /api/session/ws", authed(h.Sessions.HandleSessionWS))

	mux.HandleFunc("GET /covers/{name}", h.Covers.HandleCover)

	return middleware.RequestLog(middleware.CORS(origins)(middleware.Session(users)(mux)))
}
