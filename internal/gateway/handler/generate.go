package handler

import (
	"net/http"

	"go.uber.org/zap"

	"prepwise/internal/gateway/service/question"
	"prepwise/internal/logging"
)

// GenerateHandler serves /api/vapi/generate, called by the voice workflow.
type GenerateHandler struct {
	svc *question.Service
}

func NewGenerateHandler(svc *question.Service) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var p question.Params
	if err := decodeJSON(r, &p); err != nil {
		writeFailure(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := h.svc.Generate(r.Context(), p); err != nil {
		logging.Logger(r.Context()).Error("question generation failed", zap.Error(err))
		writeFailure(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// HandlePing is the route's GET health check.
func (h *GenerateHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "data": "Thank you!"})
}
