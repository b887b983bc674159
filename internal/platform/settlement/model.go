package settlement

import (
	"strings"
	"time"

	"github.com/be9expensphie/expensphie/pkg/money"
)

// Status is the lifecycle state of a settlement.
type Status string

const (
	// StatusPending: the debt exists and nothing has been requested.
	StatusPending Status = "PENDING"
	// StatusAwaitingApproval: the paying member has requested completion
	// and an admin has not yet ruled on it.
	StatusAwaitingApproval Status = "AWAITING_APPROVAL"
	// StatusCompleted: an admin confirmed the debt as settled. Terminal.
	StatusCompleted Status = "COMPLETED"
)

// legacyAwaitingApproval is an alias some historical payloads carry for
// StatusAwaitingApproval. It names the same state.
const legacyAwaitingApproval = "WAITING_FOR_APPROVAL"

// ParseStatus normalizes a status string, folding the legacy alias into
// the canonical AWAITING_APPROVAL.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusAwaitingApproval, Status(legacyAwaitingApproval):
		return StatusAwaitingApproval, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// IsValid checks if the status is a known canonical value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAwaitingApproval, StatusCompleted:
		return true
	}
	return false
}

// Settlement is an obligation between two household members derived from
// one expense split: fromMember owes toMember the amount.
type Settlement struct {
	ID              int64        `json:"id"`
	FromMemberID    int64        `json:"from_member_id"`
	ToMemberID      int64        `json:"to_member_id"`
	ToMemberName    string       `json:"to_member_name,omitempty"`
	ExpenseSplitID  int64        `json:"expense_split_details_id"`
	ExpenseCategory string       `json:"expense_category,omitempty"`
	Amount          money.Amount `json:"amount"`
	Currency        string       `json:"currency,omitempty"`
	Date            *time.Time   `json:"date,omitempty"`
	Status          Status       `json:"status"`
}
