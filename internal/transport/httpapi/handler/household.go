package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
)

// HouseholdServiceInterface defines the household operations used by the handler
type HouseholdServiceInterface interface {
	Create(ctx context.Context, userID int64, name string) (*household.Membership, error)
	Join(ctx context.Context, userID int64, code string) (*household.Membership, error)
	ListForUser(ctx context.Context, userID int64) ([]household.Membership, error)
	Members(ctx context.Context, userID, householdID int64) ([]*household.Member, error)
	Active(ctx context.Context, userID int64) (*household.Membership, []household.Membership, error)
	SetActive(ctx context.Context, userID, householdID int64) (*household.Member, error)
	ClearActive(ctx context.Context, userID int64) error
}

// HouseholdHandler handles household-related HTTP requests
type HouseholdHandler struct {
	service HouseholdServiceInterface
}

// NewHouseholdHandler creates a new household handler
func NewHouseholdHandler(service HouseholdServiceInterface) *HouseholdHandler {
	return &HouseholdHandler{service: service}
}

// CreateHouseholdRequest represents the create request body
type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

// JoinHouseholdRequest represents the join request body
type JoinHouseholdRequest struct {
	Code string `json:"code"`
}

// Create handles POST /households/create
func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	membership, err := h.service.Create(r.Context(), userID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"household": membership}, http.StatusCreated)
}

// Join handles POST /households/join
func (h *HouseholdHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req JoinHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	membership, err := h.service.Join(r.Context(), userID, req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"household": membership}, http.StatusOK)
}

// List handles GET /households/my
func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	memberships, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if memberships == nil {
		memberships = []household.Membership{}
	}

	respondJSON(w, map[string]any{"households": memberships}, http.StatusOK)
}

// Members handles GET /households/{householdID}/members
func (h *HouseholdHandler) Members(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.service.Members(r.Context(), userID, householdID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if members == nil {
		members = []*household.Member{}
	}

	respondJSON(w, map[string]any{"members": members}, http.StatusOK)
}

// ActiveHousehold handles GET /session/active-household. The response
// carries the resolved active membership (null when the user belongs to
// no household) and every membership for the switcher.
func (h *HouseholdHandler) ActiveHousehold(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	active, memberships, err := h.service.Active(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if memberships == nil {
		memberships = []household.Membership{}
	}

	respondJSON(w, map[string]any{
		"active":     active,
		"households": memberships,
	}, http.StatusOK)
}

// SetActiveRequest represents the set-active request body
type SetActiveRequest struct {
	HouseholdID int64 `json:"householdId"`
}

// SetActiveHousehold handles PUT /session/active-household
func (h *HouseholdHandler) SetActiveHousehold(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	member, err := h.service.SetActive(r.Context(), userID, req.HouseholdID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"member": member}, http.StatusOK)
}

// ClearActiveHousehold handles DELETE /session/active-household
func (h *HouseholdHandler) ClearActiveHousehold(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.ClearActive(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
