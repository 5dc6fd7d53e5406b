package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthDependencies reports whether the backing store is reachable.
type HealthDependencies interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps    HealthDependencies
	metrics http.Handler
	responder
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies, r responder) *HealthHandler {
	return &HealthHandler{
		deps:      deps,
		metrics:   promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
		responder: r,
	}
}

// HandleHealth pings the store and, when it answers, serves the Prometheus
// registry. An unreachable store is reported as 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	const op = "api.health"
	if err := h.deps.Ping(r.Context()); err != nil {
		if !errors.Is(err, model.ErrStoreUnavailable) {
			err = WrapKind(op, model.ErrStoreUnavailable, err)
		}
		h.fail(w, r, op, err)
		return
	}
	h.metrics.ServeHTTP(w, r)
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
