package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
)

// Stats is a pending-settlement summary over one time window.
type Stats struct {
	PendingSettlements []*Settlement `json:"pendingSettlements"`
	TotalPendingAmount float64       `json:"totalPendingAmount"`
}

// Service provides business logic for settlement operations.
type Service struct {
	repo     Repository
	expenses ExpenseSource
	members  MemberSource
	now      func() time.Time
}

// NewService creates a new settlement service.
func NewService(repo Repository, expenses ExpenseSource, members MemberSource) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		members:  members,
		now:      time.Now,
	}
}

// CreateRequest carries the inputs for deriving a settlement from an
// expense split.
type CreateRequest struct {
	ExpenseID      int64
	ExpenseSplitID int64
	FromMemberID   int64
	ToMemberID     int64
}

// Create derives a settlement from an approved expense's split. Amount
// comes from the split, currency from the expense; the settlement starts
// PENDING and dated today.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*Settlement, error) {
	if req.FromMemberID == req.ToMemberID {
		return nil, ErrSameMember
	}

	exp, err := s.expenses.GetByID(ctx, req.ExpenseID)
	if err != nil {
		return nil, err
	}

	split, err := s.expenses.GetSplit(ctx, req.ExpenseSplitID)
	if err != nil {
		return nil, err
	}
	if split.ExpenseID != exp.ID {
		return nil, ErrSplitMismatch
	}
	if exp.Status != expense.StatusApproved {
		return nil, ErrExpenseNotApproved
	}

	from, err := s.members.GetMember(ctx, req.FromMemberID)
	if err != nil {
		return nil, err
	}
	to, err := s.members.GetMember(ctx, req.ToMemberID)
	if err != nil {
		return nil, err
	}
	if from.HouseholdID != to.HouseholdID {
		return nil, ErrCrossHousehold
	}

	// The requesting user must belong to the household the debt lives in.
	if _, err := s.members.RequireMember(ctx, userID, from.HouseholdID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForSplit(ctx, from.ID, to.ID, split.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing settlement: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSettlement
	}

	today := s.now()
	stl := &Settlement{
		FromMemberID:    from.ID,
		ToMemberID:      to.ID,
		ToMemberName:    to.FullName,
		ExpenseSplitID:  split.ID,
		ExpenseCategory: exp.Category,
		Amount:          split.Amount,
		Currency:        exp.Currency,
		Date:            &today,
		Status:          StatusPending,
	}
	if err := s.repo.Create(ctx, stl); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}
	return stl, nil
}

// ListForMember retrieves the settlements visible to a member: both sides
// of the debt, approved expenses only. The requesting user must own the
// member record.
func (s *Service) ListForMember(ctx context.Context, userID, memberID, householdID int64) ([]*Settlement, error) {
	if err := s.requireOwnMember(ctx, userID, memberID, householdID); err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// ListAwaiting retrieves the household's settlements waiting for a ruling.
// Admin only.
func (s *Service) ListAwaiting(ctx context.Context, userID, householdID int64) ([]*Settlement, error) {
	if _, err := s.members.RequireAdmin(ctx, userID, householdID); err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListAwaitingForHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awaiting settlements: %w", err)
	}
	return settlements, nil
}

// Request marks the settlement as awaiting admin approval. Only the
// paying member may request, and never on a completed settlement.
func (s *Service) Request(ctx context.Context, userID, settlementID, memberID int64) (*Settlement, error) {
	return s.transition(ctx, userID, settlementID, memberID, ActionRequest)
}

// Cancel withdraws a pending approval request.
func (s *Service) Cancel(ctx context.Context, userID, settlementID, memberID int64) (*Settlement, error) {
	return s.transition(ctx, userID, settlementID, memberID, ActionCancel)
}

// Approve completes a settlement. Admin only.
func (s *Service) Approve(ctx context.Context, userID, settlementID, memberID int64) (*Settlement, error) {
	return s.transition(ctx, userID, settlementID, memberID, ActionApprove)
}

// Reject sends an awaiting settlement back to PENDING. Admin only.
func (s *Service) Reject(ctx context.Context, userID, settlementID, memberID int64) (*Settlement, error) {
	return s.transition(ctx, userID, settlementID, memberID, ActionReject)
}

func (s *Service) transition(ctx context.Context, userID, settlementID, memberID int64, action Action) (*Settlement, error) {
	actorMember, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if actorMember.UserID != userID {
		return nil, ErrNotCounterparty
	}

	stl, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	// The settlement lives in its from-member's household. Tie the actor
	// to that household, so an admin elsewhere holds no power here.
	fromMember, err := s.members.GetMember(ctx, stl.FromMemberID)
	if err != nil {
		return nil, err
	}
	if actorMember.HouseholdID != fromMember.HouseholdID {
		return nil, household.ErrNotMember
	}

	next, err := Transition(stl, action, Actor{MemberID: actorMember.ID, Role: actorMember.Role})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, stl.ID, next); err != nil {
		return nil, fmt.Errorf("failed to update settlement status: %w", err)
	}

	// Re-read the authoritative record instead of patching local state.
	return s.repo.GetByID(ctx, stl.ID)
}

// CurrentMonthStats summarizes the member's not-yet-completed settlements
// dated in the current calendar month.
func (s *Service) CurrentMonthStats(ctx context.Context, userID, memberID, householdID int64) (*Stats, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.pendingStats(ctx, userID, memberID, householdID, from, now)
}

// LastThreeMonthsStats summarizes the member's not-yet-completed
// settlements dated in the current month and the two before it.
func (s *Service) LastThreeMonthsStats(ctx context.Context, userID, memberID, householdID int64) (*Stats, error) {
	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := firstOfMonth.AddDate(0, -2, 0)
	return s.pendingStats(ctx, userID, memberID, householdID, from, now)
}

func (s *Service) pendingStats(ctx context.Context, userID, memberID, householdID int64, from, to time.Time) (*Stats, error) {
	if err := s.requireOwnMember(ctx, userID, memberID, householdID); err != nil {
		return nil, err
	}

	pending, err := s.repo.ListPendingForMemberInWindow(ctx, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending settlements: %w", err)
	}

	stats := &Stats{PendingSettlements: pending}
	for _, stl := range pending {
		stats.TotalPendingAmount += stl.Amount.Value()
	}
	if stats.PendingSettlements == nil {
		stats.PendingSettlements = []*Settlement{}
	}
	return stats, nil
}

// requireOwnMember verifies that the member record belongs to the
// requesting user and to the given household.
func (s *Service) requireOwnMember(ctx context.Context, userID, memberID, householdID int64) error {
	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member.UserID != userID || member.HouseholdID != householdID {
		return ErrNotCounterparty
	}
	return nil
}
