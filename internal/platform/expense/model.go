package expense

import (
	"time"

	"github.com/be9expensphie/expensphie/pkg/money"
)

// Status is the approval state of an expense.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Expense is a household expense awaiting or past admin review.
// Date and currency are optional upstream; absent values are excluded
// from time bucketing and render as "-".
type Expense struct {
	ID            int64        `json:"id"`
	HouseholdID   int64        `json:"household_id"`
	Category      string       `json:"category"`
	Amount        money.Amount `json:"amount"`
	Currency      string       `json:"currency,omitempty"`
	Date          *time.Time   `json:"date,omitempty"`
	Method        string       `json:"method,omitempty"`
	Status        Status       `json:"status"`
	CreatedBy     int64        `json:"created_by"`
	CreatedByName string       `json:"created_by_name,omitempty"`
	Splits        []Split      `json:"splits,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Split assigns a share of an expense to one household member.
type Split struct {
	ID        int64        `json:"id"`
	ExpenseID int64        `json:"expense_id"`
	MemberID  int64        `json:"member_id"`
	Amount    money.Amount `json:"amount"`
}

// ValidateCreate validates expense fields for creation.
func (e *Expense) ValidateCreate() error {
	if e.Category == "" {
		return ErrMissingCategory
	}
	if !e.Amount.Valid() {
		return ErrInvalidAmount
	}
	for _, s := range e.Splits {
		if s.MemberID == 0 {
			return ErrInvalidSplit
		}
		if !s.Amount.Valid() {
			return ErrInvalidSplit
		}
	}
	return nil
}
