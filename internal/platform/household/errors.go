package household

import "errors"

var (
	// Validation errors
	ErrMissingName   = errors.New("household name is required")
	ErrNameTooLong   = errors.New("household name exceeds 100 characters")
	ErrDuplicateName = errors.New("household name already exists")
	ErrInvalidCode   = errors.New("invite code must be 8 alphanumeric characters")

	// Repository errors
	ErrHouseholdNotFound = errors.New("household not found")
	ErrMemberNotFound    = errors.New("household member not found")

	// Authorization errors
	ErrNotMember = errors.New("user is not a member of this household")
	ErrNotAdmin  = errors.New("only a household admin can perform this action")
)
