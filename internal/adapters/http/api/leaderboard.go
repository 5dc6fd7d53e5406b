package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/pizzarank/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	GetLeaderboard(ctx context.Context) (model.Leaderboard, error)
	GetUserStats(ctx context.Context, session model.Session) (*model.UserStats, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	responder
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, r responder) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, responder: r}
}

// HandleGetLeaderboard handles GET /leaderboard[?limit=N] requests. The
// limit trims entries only; category winners always cover every spot.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			h.fail(w, r, op, NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	lb, err := h.deps.GetLeaderboard(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if limit > 0 && limit < len(lb.Entries) {
		lb.Entries = lb.Entries[:limit]
	}
	writeJSON(w, http.StatusOK, lb)
}

// UserStatsHandler handles personal stats requests.
type UserStatsHandler struct {
	deps LeaderboardDependencies
	responder
}

// NewUserStatsHandler creates a new user stats handler.
func NewUserStatsHandler(deps LeaderboardDependencies, r responder) *UserStatsHandler {
	return &UserStatsHandler{deps: deps, responder: r}
}

// HandleGetUserStats handles GET /stats/me requests. A caller without
// ratings gets 204 and no body.
func (h *UserStatsHandler) HandleGetUserStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	session, err := requireSession(r, op)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	st, err := h.deps.GetUserStats(r.Context(), session)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if st == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
