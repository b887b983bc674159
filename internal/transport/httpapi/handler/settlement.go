package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/be9expensphie/expensphie/internal/platform/settlement"
	apperrors "github.com/be9expensphie/expensphie/internal/shared/errors"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
)

// SettlementServiceInterface defines the settlement operations used by the handler
type SettlementServiceInterface interface {
	Create(ctx context.Context, userID int64, req settlement.CreateRequest) (*settlement.Settlement, error)
	ListForMember(ctx context.Context, userID, memberID, householdID int64) ([]*settlement.Settlement, error)
	ListAwaiting(ctx context.Context, userID, householdID int64) ([]*settlement.Settlement, error)
	Request(ctx context.Context, userID, settlementID, memberID int64) (*settlement.Settlement, error)
	Cancel(ctx context.Context, userID, settlementID, memberID int64) (*settlement.Settlement, error)
	Approve(ctx context.Context, userID, settlementID, memberID int64) (*settlement.Settlement, error)
	Reject(ctx context.Context, userID, settlementID, memberID int64) (*settlement.Settlement, error)
	CurrentMonthStats(ctx context.Context, userID, memberID, householdID int64) (*settlement.Stats, error)
	LastThreeMonthsStats(ctx context.Context, userID, memberID, householdID int64) (*settlement.Stats, error)
}

// SettlementHandler handles settlement-related HTTP requests
type SettlementHandler struct {
	service SettlementServiceInterface
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(service SettlementServiceInterface) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// CreateSettlementRequest represents the create request body
type CreateSettlementRequest struct {
	ExpenseID      int64 `json:"expenseId"`
	ExpenseSplitID int64 `json:"expenseSplitId"`
	FromMemberID   int64 `json:"fromMemberId"`
	ToMemberID     int64 `json:"toMemberId"`
}

// Create handles POST /settlements/create
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	stl, err := h.service.Create(r.Context(), userID, settlement.CreateRequest{
		ExpenseID:      req.ExpenseID,
		ExpenseSplitID: req.ExpenseSplitID,
		FromMemberID:   req.FromMemberID,
		ToMemberID:     req.ToMemberID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"settlement": stl}, http.StatusCreated)
}

// List handles GET /settlements/{memberID}/{householdID}
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	memberID, householdID, err := memberAndHousehold(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	settlements, err := h.service.ListForMember(r.Context(), userID, memberID, householdID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if settlements == nil {
		settlements = []*settlement.Settlement{}
	}

	respondJSON(w, map[string]any{"settlements": settlements}, http.StatusOK)
}

// Awaiting handles GET /settlements/awaiting/{memberID}/{householdID}
func (h *SettlementHandler) Awaiting(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	_, householdID, err := memberAndHousehold(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	settlements, err := h.service.ListAwaiting(r.Context(), userID, householdID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if settlements == nil {
		settlements = []*settlement.Settlement{}
	}

	respondJSON(w, map[string]any{"settlements": settlements}, http.StatusOK)
}

// Toggle handles PUT /settlements/{settlementID}/toggle/{memberID}. The
// paying member uses it to request completion of a pending settlement or
// withdraw a request that has not been ruled on yet.
func (h *SettlementHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	settlementID, err := pathID(r, "settlementID")
	if err != nil {
		respondError(w, "invalid settlement id", http.StatusBadRequest)
		return
	}
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondError(w, "invalid member id", http.StatusBadRequest)
		return
	}

	stl, err := h.service.Request(r.Context(), userID, settlementID, memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"settlement": stl}, http.StatusOK)
}

// Cancel handles PUT /settlements/{settlementID}/cancel/{memberID}
func (h *SettlementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

// Approve handles PUT /settlements/{settlementID}/approve/{memberID}
func (h *SettlementHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// Reject handles PUT /settlements/{settlementID}/reject/{memberID}
func (h *SettlementHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

// CurrentMonthStats handles GET /settlements/pending/{memberID}/{householdID}/current-month
func (h *SettlementHandler) CurrentMonthStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, h.service.CurrentMonthStats)
}

// LastThreeMonthsStats handles GET /settlements/pending/{memberID}/{householdID}/last-three-months
func (h *SettlementHandler) LastThreeMonthsStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, h.service.LastThreeMonthsStats)
}

func (h *SettlementHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64, int64) (*settlement.Settlement, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	settlementID, err := pathID(r, "settlementID")
	if err != nil {
		respondError(w, "invalid settlement id", http.StatusBadRequest)
		return
	}
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondError(w, "invalid member id", http.StatusBadRequest)
		return
	}

	stl, err := op(r.Context(), userID, settlementID, memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"settlement": stl}, http.StatusOK)
}

func (h *SettlementHandler) stats(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64, int64) (*settlement.Stats, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	memberID, householdID, err := memberAndHousehold(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	stats, err := op(r.Context(), userID, memberID, householdID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"data": stats}, http.StatusOK)
}

func memberAndHousehold(r *http.Request) (memberID, householdID int64, err error) {
	memberID, err = pathID(r, "memberID")
	if err != nil {
		return 0, 0, errInvalidMemberID
	}
	householdID, err = pathID(r, "householdID")
	if err != nil {
		return 0, 0, errInvalidHouseholdID
	}
	return memberID, householdID, nil
}

var (
	errInvalidMemberID    = apperrors.BadRequest("invalid member id")
	errInvalidHouseholdID = apperrors.BadRequest("invalid household id")
)
