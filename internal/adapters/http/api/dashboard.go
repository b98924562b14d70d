// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	repository "github.com/palate/palate/internal/adapters/repository"
	"github.com/palate/palate/internal/domain/model"
)

// DashboardDependencies defines the interface for dashboard reads.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, f repository.Filter) []model.DashboardRow
}

// DashboardHandler serves the precomputed dashboard projection.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests, optionally filtered
// by pickBatchId and country query parameters.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows := h.deps.Dashboard(r.Context(), filterFromQuery(r))
	if rows == nil {
		rows = []model.DashboardRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
