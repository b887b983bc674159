package settlement

import "github.com/be9expensphie/expensphie/internal/platform/household"

// Action is one of the four transition triggers on a settlement.
type Action string

const (
	// ActionRequest: the paying member asks for the debt to be marked
	// settled (PENDING -> AWAITING_APPROVAL).
	ActionRequest Action = "request"
	// ActionCancel: the paying member withdraws the request
	// (AWAITING_APPROVAL -> PENDING).
	ActionCancel Action = "cancel"
	// ActionApprove: an admin confirms (AWAITING_APPROVAL -> COMPLETED).
	ActionApprove Action = "approve"
	// ActionReject: an admin declines (AWAITING_APPROVAL -> PENDING).
	ActionReject Action = "reject"
)

// Actor identifies who triggers a transition.
type Actor struct {
	MemberID int64
	Role     household.Role
}

// Transition computes the status a settlement moves to when actor performs
// action, or an error when the transition is not legal. The settlement is
// not mutated; persisting the result is the caller's job, and callers must
// re-read the authoritative record afterwards rather than trusting local
// state.
func Transition(s *Settlement, action Action, actor Actor) (Status, error) {
	switch action {
	case ActionRequest, ActionCancel:
		if actor.MemberID != s.FromMemberID {
			return "", ErrNotCounterparty
		}
	case ActionApprove, ActionReject:
		if actor.Role != household.RoleAdmin {
			return "", ErrAdminOnly
		}
	default:
		return "", ErrUnknownAction
	}

	if s.Status == StatusCompleted {
		return "", ErrAlreadyCompleted
	}

	switch {
	case action == ActionRequest && s.Status == StatusPending:
		return StatusAwaitingApproval, nil
	case action == ActionCancel && s.Status == StatusAwaitingApproval:
		return StatusPending, nil
	case action == ActionApprove && s.Status == StatusAwaitingApproval:
		return StatusCompleted, nil
	case action == ActionReject && s.Status == StatusAwaitingApproval:
		return StatusPending, nil
	}
	return "", ErrInvalidTransition
}
