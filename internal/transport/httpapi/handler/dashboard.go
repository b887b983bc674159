package handler

import (
	"context"
	"net/http"

	"github.com/be9expensphie/expensphie/internal/platform/dashboard"
	"github.com/be9expensphie/expensphie/internal/platform/timeseries"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
)

// DashboardServiceInterface defines the dashboard operations used by the handler
type DashboardServiceInterface interface {
	Refresh(ctx context.Context, userID, householdID int64, g timeseries.Granularity) (*dashboard.Snapshot, error)
}

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /households/{householdID}/stats?granularity=daily|weekly|monthly
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	householdID, err := pathID(r, "householdID")
	if err != nil {
		respondError(w, "invalid household id", http.StatusBadRequest)
		return
	}

	g := timeseries.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = timeseries.Monthly
	}
	if !g.IsValid() {
		respondError(w, "invalid granularity, expected daily, weekly or monthly", http.StatusBadRequest)
		return
	}

	snap, err := h.service.Refresh(r.Context(), userID, householdID, g)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"data": snap}, http.StatusOK)
}
