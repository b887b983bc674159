package expense

import (
	"context"
	"fmt"
)

// Service provides business logic for expense operations.
type Service struct {
	repo Repository
	gate MemberGate
}

// NewService creates a new expense service.
func NewService(repo Repository, gate MemberGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Create records a new expense with its splits. Expenses created by an
// admin start APPROVED; expenses created by a regular member start
// PENDING and wait for admin review.
func (s *Service) Create(ctx context.Context, userID int64, e *Expense) (*Expense, error) {
	member, err := s.gate.RequireMember(ctx, userID, e.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := e.ValidateCreate(); err != nil {
		return nil, err
	}

	e.CreatedBy = member.ID
	if member.IsAdmin() {
		e.Status = StatusApproved
	} else {
		e.Status = StatusPending
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

// List retrieves a household's expenses for a member, optionally filtered
// by status and time period.
func (s *Service) List(ctx context.Context, userID, householdID int64, f Filter) ([]*Expense, error) {
	if _, err := s.gate.RequireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	expenses, err := s.repo.ListByHousehold(ctx, householdID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Get retrieves a single expense for a member of its household.
func (s *Service) Get(ctx context.Context, userID, householdID, expenseID int64) (*Expense, error) {
	if _, err := s.gate.RequireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	return s.repo.GetByIDAndHousehold(ctx, expenseID, householdID)
}

// Approve moves a pending expense to APPROVED. Admin only.
func (s *Service) Approve(ctx context.Context, userID, householdID, expenseID int64) (*Expense, error) {
	return s.review(ctx, userID, householdID, expenseID, StatusPending, StatusApproved, ErrNotPending)
}

// Reject moves a pending expense to REJECTED. Admin only. Rejected
// expenses stay on record so aggregates can still account for them.
func (s *Service) Reject(ctx context.Context, userID, householdID, expenseID int64) (*Expense, error) {
	return s.review(ctx, userID, householdID, expenseID, StatusPending, StatusRejected, ErrNotPending)
}

// Rollback returns an approved expense to PENDING. Admin only.
func (s *Service) Rollback(ctx context.Context, userID, householdID, expenseID int64) (*Expense, error) {
	return s.review(ctx, userID, householdID, expenseID, StatusApproved, StatusPending, ErrNotApproved)
}

func (s *Service) review(ctx context.Context, userID, householdID, expenseID int64, from, to Status, guard error) (*Expense, error) {
	if _, err := s.gate.RequireAdmin(ctx, userID, householdID); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByIDAndHousehold(ctx, expenseID, householdID)
	if err != nil {
		return nil, err
	}
	if e.Status != from {
		return nil, guard
	}

	if err := s.repo.UpdateStatus(ctx, expenseID, to); err != nil {
		return nil, fmt.Errorf("failed to update expense status: %w", err)
	}
	e.Status = to
	return e, nil
}
