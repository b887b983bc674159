package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/be9expensphie/expensphie/internal/platform/dashboard"
	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/internal/platform/settlement"
	"github.com/be9expensphie/expensphie/internal/platform/user"
	apperrors "github.com/be9expensphie/expensphie/internal/shared/errors"
)

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Message: message}, statusCode)
}

// respondServiceError maps domain errors onto HTTP statuses. Anything not
// recognized becomes a 500 with a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	if ae := apperrors.GetAppError(err); ae != nil {
		respondError(w, ae.Message, statusForCode(ae.Code))
		return
	}
	switch {
	case errors.Is(err, household.ErrHouseholdNotFound),
		errors.Is(err, household.ErrMemberNotFound),
		errors.Is(err, expense.ErrExpenseNotFound),
		errors.Is(err, settlement.ErrSettlementNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, household.ErrNotMember),
		errors.Is(err, household.ErrNotAdmin),
		errors.Is(err, settlement.ErrNotCounterparty),
		errors.Is(err, settlement.ErrAdminOnly):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, household.ErrDuplicateName),
		errors.Is(err, settlement.ErrDuplicateSettlement),
		errors.Is(err, user.ErrUserAlreadyExists),
		errors.Is(err, dashboard.ErrStaleSnapshot):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, household.ErrMissingName),
		errors.Is(err, household.ErrNameTooLong),
		errors.Is(err, household.ErrInvalidCode),
		errors.Is(err, expense.ErrMissingCategory),
		errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidSplit),
		errors.Is(err, expense.ErrInvalidStatus),
		errors.Is(err, expense.ErrNotPending),
		errors.Is(err, expense.ErrNotApproved),
		errors.Is(err, settlement.ErrExpenseNotApproved),
		errors.Is(err, settlement.ErrSplitMismatch),
		errors.Is(err, settlement.ErrSameMember),
		errors.Is(err, settlement.ErrCrossHousehold),
		errors.Is(err, settlement.ErrAlreadyCompleted),
		errors.Is(err, settlement.ErrInvalidTransition),
		errors.Is(err, settlement.ErrUnknownAction),
		errors.Is(err, dashboard.ErrInvalidGranularity),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidFullName),
		errors.Is(err, user.ErrPasswordTooShort):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, user.ErrInvalidPassword):
		respondError(w, "invalid email or password", http.StatusUnauthorized)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

func statusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses an int64 URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
