package api

import (
	"context"
	"net/http"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/stats"
)

// IdentityDependencies reads and writes display names.
type IdentityDependencies interface {
	SetDisplayName(ctx context.Context, session model.Session, name string) error
	GetDisplayName(ctx context.Context, session model.Session) (string, bool, error)
}

// IdentityHandler handles display name requests.
type IdentityHandler struct {
	deps IdentityDependencies
	responder
}

// NewIdentityHandler creates a new identity handler.
func NewIdentityHandler(deps IdentityDependencies, r responder) *IdentityHandler {
	return &IdentityHandler{deps: deps, responder: r}
}

type nameRequest struct {
	Name string `json:"name"`
}

type nameResponse struct {
	Name string `json:"name"`
	Set  bool   `json:"set"`
}

// HandleName handles GET and POST /identity/name requests. GET falls back to
// the placeholder name when none is stored.
func (h *IdentityHandler) HandleName(w http.ResponseWriter, r *http.Request) {
	const op = "api.identity_name"
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		http.NotFound(w, r)
		return
	}
	session, err := requireSession(r, op)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	if r.Method == http.MethodPost {
		var req nameRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetDisplayName(r.Context(), session, req.Name); err != nil {
			h.fail(w, r, op, err)
			return
		}
	}

	name, ok, err := h.deps.GetDisplayName(r.Context(), session)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if !ok {
		name = stats.PlaceholderName
	}
	writeJSON(w, http.StatusOK, nameResponse{Name: name, Set: ok})
}
