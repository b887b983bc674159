package settlement

import "errors"

var (
	// Repository errors
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrDuplicateSettlement = errors.New("a settlement for this split and member pair already exists")

	// Creation guards
	ErrExpenseNotApproved = errors.New("cannot create settlement for a non-approved expense")
	ErrSplitMismatch      = errors.New("expense split does not belong to the provided expense")
	ErrSameMember         = errors.New("settlement requires two distinct members")
	ErrCrossHousehold     = errors.New("both members must belong to the same household")

	// Transition guards
	ErrNotCounterparty   = errors.New("only the paying member can request or cancel")
	ErrAdminOnly         = errors.New("only a household admin can approve or reject")
	ErrAlreadyCompleted  = errors.New("settlement is already completed")
	ErrInvalidTransition = errors.New("settlement status does not allow this action")
	ErrUnknownAction     = errors.New("unknown settlement action")
)
