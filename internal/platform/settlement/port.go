package settlement

import (
	"context"
	"time"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
)

// Repository defines the interface for settlement data access.
type Repository interface {
	// Create persists a new settlement
	Create(ctx context.Context, s *Settlement) error

	// GetByID retrieves a settlement by ID
	GetByID(ctx context.Context, id int64) (*Settlement, error)

	// ListForMember retrieves settlements where the member is either side,
	// restricted to approved expenses, newest first
	ListForMember(ctx context.Context, memberID int64) ([]*Settlement, error)

	// ListAwaitingForHousehold retrieves the household's settlements in
	// AWAITING_APPROVAL, newest first
	ListAwaitingForHousehold(ctx context.Context, householdID int64) ([]*Settlement, error)

	// ListPendingForMemberInWindow retrieves the member's not-yet-completed
	// settlements dated inside [from, to]
	ListPendingForMemberInWindow(ctx context.Context, memberID int64, from, to time.Time) ([]*Settlement, error)

	// UpdateStatus sets the status of a settlement
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// ExistsForSplit checks for an existing settlement on the same split
	// and member pair
	ExistsForSplit(ctx context.Context, fromMemberID, toMemberID, splitID int64) (bool, error)
}

// ExpenseSource is the slice of expense data the settlement service needs
// when deriving a settlement from a split.
type ExpenseSource interface {
	GetByID(ctx context.Context, id int64) (*expense.Expense, error)
	GetSplit(ctx context.Context, splitID int64) (*expense.Split, error)
}

// MemberSource resolves household members and enforces role checks.
type MemberSource interface {
	GetMember(ctx context.Context, id int64) (*household.Member, error)
	RequireMember(ctx context.Context, userID, householdID int64) (*household.Member, error)
	RequireAdmin(ctx context.Context, userID, householdID int64) (*household.Member, error)
}
