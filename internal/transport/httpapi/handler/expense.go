package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	apperrors "github.com/be9expensphie/expensphie/internal/shared/errors"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
	"github.com/be9expensphie/expensphie/pkg/money"
)

// ExpenseServiceInterface defines the expense operations used by the handler
type ExpenseServiceInterface interface {
	Create(ctx context.Context, userID int64, e *expense.Expense) (*expense.Expense, error)
	List(ctx context.Context, userID, householdID int64, f expense.Filter) ([]*expense.Expense, error)
	Get(ctx context.Context, userID, householdID, expenseID int64) (*expense.Expense, error)
	Approve(ctx context.Context, userID, householdID, expenseID int64) (*expense.Expense, error)
	Reject(ctx context.Context, userID, householdID, expenseID int64) (*expense.Expense, error)
	Rollback(ctx context.Context, userID, householdID, expenseID int64) (*expense.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	service ExpenseServiceInterface
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(service ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// CreateExpenseRequest represents the create request body. Amount accepts
// a number, a numeric string, or null.
type CreateExpenseRequest struct {
	Category string       `json:"category"`
	Amount   money.Amount `json:"amount"`
	Currency string       `json:"currency"`
	Date     string       `json:"date"`
	Method   string       `json:"method"`
	Splits   []splitInput `json:"splits"`
}

type splitInput struct {
	MemberID int64        `json:"memberId"`
	Amount   money.Amount `json:"amount"`
}

// Create handles POST /households/{householdID}/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	e := &expense.Expense{
		HouseholdID: householdID,
		Category:    req.Category,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Method:      req.Method,
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		e.Date = &d
	}
	for _, s := range req.Splits {
		e.Splits = append(e.Splits, expense.Split{MemberID: s.MemberID, Amount: s.Amount})
	}

	created, err := h.service.Create(r.Context(), userID, e)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"expense": created}, http.StatusCreated)
}

// List handles GET /households/{householdID}/expenses?status=&period=
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
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

	f, err := parseExpenseFilter(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	expenses, err := h.service.List(r.Context(), userID, householdID, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*expense.Expense{}
	}

	respondJSON(w, map[string]any{"expenses": expenses}, http.StatusOK)
}

// Get handles GET /households/{householdID}/expenses/{expenseID}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		respondError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	e, err := h.service.Get(r.Context(), userID, householdID, expenseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"expense": e}, http.StatusOK)
}

// Approve handles PUT /households/{householdID}/expenses/{expenseID}/approve
func (h *ExpenseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Approve)
}

// Reject handles PUT /households/{householdID}/expenses/{expenseID}/reject
func (h *ExpenseHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

// Rollback handles PUT /households/{householdID}/expenses/{expenseID}/rollback
func (h *ExpenseHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Rollback)
}

func (h *ExpenseHandler) review(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64, int64) (*expense.Expense, error)) {
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
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		respondError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	e, err := op(r.Context(), userID, householdID, expenseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]any{"expense": e}, http.StatusOK)
}

// parseExpenseFilter reads the status and period query parameters. Period
// is either "current-month" or "last-three-months"; both windows end now.
func parseExpenseFilter(r *http.Request) (expense.Filter, error) {
	var f expense.Filter

	if s := r.URL.Query().Get("status"); s != "" {
		status := expense.Status(s)
		if !status.IsValid() {
			return f, expense.ErrInvalidStatus
		}
		f.Status = status
	}

	switch period := r.URL.Query().Get("period"); period {
	case "":
	case "current-month":
		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		f.From = &from
		f.To = &now
	case "last-three-months":
		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -2, 0)
		f.From = &from
		f.To = &now
	default:
		return f, errInvalidPeriod
	}

	return f, nil
}

var errInvalidPeriod = apperrors.BadRequest("invalid period, expected current-month or last-three-months")
