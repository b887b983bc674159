package dashboard

import (
	"context"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
)

// ExpenseSource lists a household's expenses on the requesting user's
// behalf, authorization included.
type ExpenseSource interface {
	List(ctx context.Context, userID, householdID int64, f expense.Filter) ([]*expense.Expense, error)
}

// MemberSource lists a household's members on the requesting user's
// behalf, authorization included.
type MemberSource interface {
	Members(ctx context.Context, userID, householdID int64) ([]*household.Member, error)
}
