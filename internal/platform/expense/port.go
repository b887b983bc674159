package expense

import (
	"context"
	"time"

	"github.com/be9expensphie/expensphie/internal/platform/household"
)

// Filter narrows an expense listing. Zero values mean "no constraint".
type Filter struct {
	Status Status
	From   *time.Time
	To     *time.Time
}

// Repository defines the interface for expense data access.
type Repository interface {
	// Create persists an expense together with its splits
	Create(ctx context.Context, e *Expense) error

	// GetByIDAndHousehold retrieves an expense scoped to a household
	GetByIDAndHousehold(ctx context.Context, id, householdID int64) (*Expense, error)

	// ListByHousehold retrieves a household's expenses, newest first
	ListByHousehold(ctx context.Context, householdID int64, f Filter) ([]*Expense, error)

	// UpdateStatus sets the status of an expense
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// GetSplit retrieves a single split with its parent expense id
	GetSplit(ctx context.Context, splitID int64) (*Split, error)
}

// MemberGate is the slice of the household service the expense service
// needs for authorization checks.
type MemberGate interface {
	RequireMember(ctx context.Context, userID, householdID int64) (*household.Member, error)
	RequireAdmin(ctx context.Context, userID, householdID int64) (*household.Member, error)
}
