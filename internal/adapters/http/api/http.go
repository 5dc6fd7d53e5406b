// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/pizzarank/pkg/logger"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CodeDependencies
	IdentityDependencies
	SpotDependencies
	RatingDependencies
	LeaderboardDependencies
	StatsProvider
	HealthDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	codesHandler       *CodesHandler
	identityHandler    *IdentityHandler
	spotsHandler       *SpotsHandler
	ratingsHandler     *RatingsHandler
	leaderboardHandler *LeaderboardHandler
	userStatsHandler   *UserStatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	r := responder{log: logger.Named("api")}
	return &Server{
		healthHandler:      NewHealthHandler(deps, r),
		statsHandler:       NewStatsHandler(deps, r),
		codesHandler:       NewCodesHandler(deps, r),
		identityHandler:    NewIdentityHandler(deps, r),
		spotsHandler:       NewSpotsHandler(deps, r),
		ratingsHandler:     NewRatingsHandler(deps, r),
		leaderboardHandler: NewLeaderboardHandler(deps, r),
		userStatsHandler:   NewUserStatsHandler(deps, r),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats/me", MetricsMiddleware(s.userStatsHandler.HandleGetUserStats, "user_stats"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/codes/validate", MetricsMiddleware(s.codesHandler.HandleValidate, "codes_validate"))
	mux.HandleFunc("/codes", MetricsMiddleware(s.codesHandler.HandleIssue, "codes"))
	mux.HandleFunc("/identity/name", MetricsMiddleware(s.identityHandler.HandleName, "identity_name"))
	mux.HandleFunc("/spots", MetricsMiddleware(s.spotsHandler.HandleList, "spots"))
	mux.HandleFunc("/ratings/mine", MetricsMiddleware(s.ratingsHandler.HandleMine, "ratings_mine"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandleRatings, "ratings"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// responder writes service errors with the status their kind maps to.
type responder struct {
	log logger.Logger
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		rs.log.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("requestID", RequestIDFromContext(r.Context())),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		err = Wrap(op, err)
	}
	writeError(w, status, code, err)
}
