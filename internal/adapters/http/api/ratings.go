package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/pizzarank/internal/domain/model"
)

// RatingDependencies reads and writes the caller's ratings.
type RatingDependencies interface {
	SubmitRating(ctx context.Context, session model.Session, spotName string, scores model.Scores, notes string) error
	GetRating(ctx context.Context, session model.Session, spotName string) (*model.Rating, error)
	GetUserRatings(ctx context.Context, session model.Session) ([]model.Rating, error)
}

// RatingsHandler handles rating requests.
type RatingsHandler struct {
	deps RatingDependencies
	responder
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies, r responder) *RatingsHandler {
	return &RatingsHandler{deps: deps, responder: r}
}

// ratingRequest mirrors the OpenAPI schema for POST /ratings. Scores are
// pointers so that a missing field is told apart from a zero.
type ratingRequest struct {
	SpotName string   `json:"spot_name"`
	Crust    *float64 `json:"crust"`
	Sauce    *float64 `json:"sauce"`
	Cheese   *float64 `json:"cheese"`
	Flavor   *float64 `json:"flavor"`
	Notes    string   `json:"notes"`
}

func (req ratingRequest) validate() error {
	switch {
	case strings.TrimSpace(req.SpotName) == "":
		return errors.New("missing spot_name")
	case req.Crust == nil:
		return errors.New("missing crust")
	case req.Sauce == nil:
		return errors.New("missing sauce")
	case req.Cheese == nil:
		return errors.New("missing cheese")
	case req.Flavor == nil:
		return errors.New("missing flavor")
	}
	return nil
}

func (req ratingRequest) scores() model.Scores {
	return model.Scores{Crust: *req.Crust, Sauce: *req.Sauce, Cheese: *req.Cheese, Flavor: *req.Flavor}
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandleRatings handles POST /ratings and GET /ratings?spot=NAME requests.
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.get(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RatingsHandler) submit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_rating"
	session, err := requireSession(r, op)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var req ratingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SubmitRating(r.Context(), session, req.SpotName, req.scores(), req.Notes); err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "saved"})
}

func (h *RatingsHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rating"
	session, err := requireSession(r, op)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	spot := r.URL.Query().Get("spot")
	if strings.TrimSpace(spot) == "" {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("missing spot")))
		return
	}
	rating, err := h.deps.GetRating(r.Context(), session, spot)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if rating == nil {
		h.fail(w, r, op, NewKind(op, model.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// HandleMine handles GET /ratings/mine requests.
func (h *RatingsHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_ratings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	session, err := requireSession(r, op)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	ratings, err := h.deps.GetUserRatings(r.Context(), session)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}
