package api

import (
	"context"
	"net/http"

	"github.com/okian/pizzarank/internal/domain/model"
)

// CodeDependencies issues and validates identity codes.
type CodeDependencies interface {
	IssueCode(ctx context.Context) (model.Session, error)
	ValidateCode(ctx context.Context, session model.Session, candidate string) (bool, error)
}

// CodesHandler handles identity code requests.
type CodesHandler struct {
	deps CodeDependencies
	responder
}

// NewCodesHandler creates a new codes handler.
func NewCodesHandler(deps CodeDependencies, r responder) *CodesHandler {
	return &CodesHandler{deps: deps, responder: r}
}

type codeResponse struct {
	Code string `json:"code"`
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// HandleIssue handles POST /codes requests.
func (h *CodesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	const op = "api.issue_code"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	session, err := h.deps.IssueCode(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, codeResponse{Code: session.Code})
}

// HandleValidate handles POST /codes/validate requests. The caller's own
// code, when sent, lets the service report a no-op link attempt.
func (h *CodesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate_code"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	valid, err := h.deps.ValidateCode(r.Context(), sessionFrom(r), req.Code)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: valid})
}
