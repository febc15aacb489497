package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"prepwise/internal/gateway/repository/cover"
	"prepwise/internal/logging"
)

// CoverHandler redirects cover paths to object storage. Without a store every
// cover is reported missing so a static front end can serve it instead.
type CoverHandler struct {
	store cover.Store
}

func NewCoverHandler(store cover.Store) *CoverHandler {
	return &CoverHandler{store: store}
}

func (h *CoverHandler) HandleCover(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if h.store == nil || !cover.Known(name) {
		http.NotFound(w, r)
		return
	}
	url, err := h.store.URL(r.Context(), name)
	if errors.Is(err, cover.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logging.Logger(r.Context()).Error("presigning cover failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "cover unavailable", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
