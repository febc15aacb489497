package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	authsvc "prepwise/internal/gateway/service/auth"
	feedbacksvc "prepwise/internal/gateway/service/feedback"
	"prepwise/internal/gateway/service/view"
	"prepwise/internal/logging"
	"prepwise/internal/session"
	"prepwise/internal/voice"
)

type SessionConfig struct {
	WebToken   string
	WorkflowID string
	// CheckOrigin guards the upgrade; nil keeps the same-host check.
	CheckOrigin func(r *http.Request) bool
}

// SessionHandler hosts one orchestrator per websocket. The browser runs the
// voice SDK and relays its events; see voice.Bridge.
type SessionHandler struct {
	view     *view.Service
	feedback *feedbacksvc.Service
	cfg      SessionConfig
	upgrader websocket.Upgrader
}

func NewSessionHandler(view *view.Service, feedback *feedbacksvc.Service, cfg SessionConfig) *SessionHandler {
	if cfg.CheckOrigin == nil {
		cfg.CheckOrigin = sameOrigin
	}
	return &SessionHandler{
		view:     view,
		feedback: feedback,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

func (h *SessionHandler) HandleSessionWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.Logger(ctx)
	user := authsvc.UserFrom(ctx)
	if user == nil {
		writeFailure(w, r, http.StatusUnauthorized, "unauthenticated")
		return
	}
	q := r.URL.Query()
	mode, err := session.ParseMode(q.Get("mode"))
	if err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	cfg := session.Config{
		Mode:       mode,
		UserName:   user.Name,
		UserID:     user.ID,
		WorkflowID: h.cfg.WorkflowID,
		FeedbackID: strings.TrimSpace(q.Get("feedbackId")),
	}
	if mode == session.ModeInterview {
		d, ok, err := h.view.Interview(ctx, strings.TrimSpace(q.Get("interviewId")))
		if err != nil {
			log.Error("loading interview for session failed", zap.Error(err))
			writeFailure(w, r, http.StatusInternalServerError, "failed to load interview")
			return
		}
		if !ok {
			writeFailure(w, r, http.StatusNotFound, "interview not found")
			return
		}
		cfg.InterviewID = d.ID
		cfg.Questions = d.Questions
	}

	if !h.cfg.CheckOrigin(r) {
		log.Warn("session origin rejected", zap.String("origin", r.Header.Get("Origin")))
		writeFailure(w, r, http.StatusForbidden, "origin not allowed")
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	bridge := voice.NewBridge(conn, h.cfg.WebToken)
	served := make(chan struct{})
	go func() {
		defer close(served)
		bridge.Serve(ctx)
	}()
	defer func() {
		bridge.Close()
		<-served
	}()

	orch, err := session.New(cfg, bridge, h.feedback)
	if err != nil {
		log.Error("creating session failed", zap.Error(err))
		return
	}
	if err := orch.Start(ctx); err != nil {
		log.Warn("starting voice call failed", zap.Error(err))
	}
	out := orch.Run(ctx)
	log.Info("session finished",
		zap.String("mode", string(mode)),
		zap.String("redirect", out.Redirect),
		zap.String("feedback_id", out.FeedbackID))
	if err := bridge.Navigate(ctx, out.Redirect); err != nil {
		log.Debug("navigate not delivered", zap.Error(err))
	}
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
