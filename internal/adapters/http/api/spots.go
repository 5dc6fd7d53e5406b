package api

import (
	"context"
	"net/http"

	"github.com/okian/pizzarank/internal/domain/model"
)

// SpotDependencies lists the catalog.
type SpotDependencies interface {
	ListSpots(ctx context.Context, session model.Session) (model.SpotListing, error)
}

// SpotsHandler handles spot listing requests.
type SpotsHandler struct {
	deps SpotDependencies
	responder
}

// NewSpotsHandler creates a new spots handler.
func NewSpotsHandler(deps SpotDependencies, r responder) *SpotsHandler {
	return &SpotsHandler{deps: deps, responder: r}
}

// HandleList handles GET /spots requests. Without an identity code every
// spot is reported as not completed.
func (h *SpotsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_spots"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	listing, err := h.deps.ListSpots(r.Context(), sessionFrom(r))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
