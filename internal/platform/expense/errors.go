package expense

import "errors"

var (
	// Validation errors
	ErrMissingCategory = errors.New("expense category is required")
	ErrInvalidAmount   = errors.New("expense amount must be a number")
	ErrInvalidSplit    = errors.New("each split needs a member and a numeric amount")
	ErrInvalidStatus   = errors.New("unknown expense status")

	// Repository errors
	ErrExpenseNotFound = errors.New("expense not found")

	// Transition guards
	ErrNotPending  = errors.New("only a pending expense can be reviewed")
	ErrNotApproved = errors.New("only an approved expense can be rolled back")
)
