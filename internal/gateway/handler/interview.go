package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"prepwise/internal/gateway/entity"
	authsvc "prepwise/internal/gateway/service/auth"
	feedbacksvc "prepwise/internal/gateway/service/feedback"
	"prepwise/internal/gateway/service/view"
	"prepwise/internal/logging"
)

// InterviewHandler serves interview listings and feedback. Every route
// expects middleware.RequireUser in front of it.
type InterviewHandler struct {
	view     *view.Service
	feedback *feedbacksvc.Service
}

func NewInterviewHandler(view *view.Service, feedback *feedbacksvc.Service) *InterviewHandler {
	return &InterviewHandler{view: view, feedback: feedback}
}

func viewerID(r *http.Request) entity.UserID {
	if u := authsvc.UserFrom(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

func (h *InterviewHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeFailure(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	cards, err := h.view.LatestInterviews(r.Context(), viewerID(r), limit)
	if err != nil {
		logging.Logger(r.Context()).Error("listing latest interviews failed", zap.Error(err))
		writeFailure(w, r, http.StatusInternalServerError, "failed to load interviews")
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (h *InterviewHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	cards, err := h.view.UserInterviews(r.Context(), viewerID(r))
	if err != nil {
		logging.Logger(r.Context()).Error("listing user interviews failed", zap.Error(err))
		writeFailure(w, r, http.StatusInternalServerError, "failed to load interviews")
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (h *InterviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, ok, err := h.view.Interview(r.Context(), r.PathValue("id"))
	if err != nil {
		logging.Logger(r.Context()).Error("loading interview failed", zap.Error(err))
		writeFailure(w, r, http.StatusInternalServerError, "failed to load interview")
		return
	}
	if !ok {
		writeFailure(w, r, http.StatusNotFound, "interview not found")
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (h *InterviewHandler) HandleGetFeedback(w http.ResponseWriter, r *http.Request) {
	f, ok, err := h.feedback.ForInterview(r.Context(), r.PathValue("id"), viewerID(r))
	if err != nil {
		logging.Logger(r.Context()).Error("loading feedback failed", zap.Error(err))
		writeFailure(w, r, http.StatusInternalServerError, "failed to load feedback")
		return
	}
	if !ok {
		writeFailure(w, r, http.StatusNotFound, "feedback not found")
		return
	}
	writeJSON(w, r, http.StatusOK, f)
}

type createFeedbackRequest struct {
	Transcript []entity.TranscriptTurn `json:"transcript"`
	FeedbackID string                  `json:"feedbackId"`
}

// HandleCreateFeedback reports only success or failure; the cause stays in the logs.
func (h *InterviewHandler) HandleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}
	id, err := h.feedback.Create(r.Context(), feedbacksvc.Params{
		InterviewID: r.PathValue("id"),
		UserID:      viewerID(r).String(),
		Transcript:  req.Transcript,
		FeedbackID:  req.FeedbackID,
	})
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "feedbackId": id})
}
