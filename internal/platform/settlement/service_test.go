package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/pkg/money"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	settlements map[int64]*Settlement
	households  map[int64]int64 // settlement id -> household id
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		settlements: make(map[int64]*Settlement),
		households:  make(map[int64]int64),
		nextID:      1,
	}
}

func (r *mockRepository) Create(_ context.Context, s *Settlement) error {
	s.ID = r.nextID
	r.nextID++
	r.settlements[s.ID] = s
	return nil
}

func (r *mockRepository) GetByID(_ context.Context, id int64) (*Settlement, error) {
	s, ok := r.settlements[id]
	if !ok {
		return nil, ErrSettlementNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *mockRepository) ListForMember(_ context.Context, memberID int64) ([]*Settlement, error) {
	var out []*Settlement
	for _, s := range r.settlements {
		if s.FromMemberID == memberID || s.ToMemberID == memberID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mockRepository) ListAwaitingForHousehold(_ context.Context, householdID int64) ([]*Settlement, error) {
	var out []*Settlement
	for id, s := range r.settlements {
		if r.households[id] == householdID && s.Status == StatusAwaitingApproval {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mockRepository) ListPendingForMemberInWindow(_ context.Context, memberID int64, from, to time.Time) ([]*Settlement, error) {
	var out []*Settlement
	for _, s := range r.settlements {
		if s.FromMemberID != memberID || s.Status == StatusCompleted {
			continue
		}
		if s.Date == nil || s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *mockRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	s, ok := r.settlements[id]
	if !ok {
		return ErrSettlementNotFound
	}
	s.Status = status
	return nil
}

func (r *mockRepository) ExistsForSplit(_ context.Context, fromMemberID, toMemberID, splitID int64) (bool, error) {
	for _, s := range r.settlements {
		if s.FromMemberID == fromMemberID && s.ToMemberID == toMemberID && s.ExpenseSplitID == splitID {
			return true, nil
		}
	}
	return false, nil
}

// mockExpenses serves expenses and splits by id.
type mockExpenses struct {
	expenses map[int64]*expense.Expense
	splits   map[int64]*expense.Split
}

func newMockExpenses() *mockExpenses {
	return &mockExpenses{
		expenses: make(map[int64]*expense.Expense),
		splits:   make(map[int64]*expense.Split),
	}
}

func (m *mockExpenses) GetByID(_ context.Context, id int64) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, expense.ErrExpenseNotFound
	}
	return e, nil
}

func (m *mockExpenses) GetSplit(_ context.Context, splitID int64) (*expense.Split, error) {
	s, ok := m.splits[splitID]
	if !ok {
		return nil, expense.ErrExpenseNotFound
	}
	return s, nil
}

// mockMembers resolves members by id and by (user, household).
type mockMembers struct {
	members map[int64]*household.Member
}

func newMockMembers() *mockMembers {
	return &mockMembers{members: make(map[int64]*household.Member)}
}

func (m *mockMembers) add(member *household.Member) {
	m.members[member.ID] = member
}

func (m *mockMembers) GetMember(_ context.Context, id int64) (*household.Member, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, household.ErrMemberNotFound
	}
	return member, nil
}

func (m *mockMembers) RequireMember(_ context.Context, userID, householdID int64) (*household.Member, error) {
	for _, member := range m.members {
		if member.UserID == userID && member.HouseholdID == householdID {
			return member, nil
		}
	}
	return nil, household.ErrNotMember
}

func (m *mockMembers) RequireAdmin(ctx context.Context, userID, householdID int64) (*household.Member, error) {
	member, err := m.RequireMember(ctx, userID, householdID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, household.ErrNotAdmin
	}
	return member, nil
}

// Fixture: household 5 with admin (user 1, member 10) and two members
// (user 2, member 20 and user 3, member 30), plus an approved expense 100
// with splits 101 (member 20) and 102 (member 30).
func newTestService(t *testing.T) (*Service, *mockRepository, *mockExpenses, *mockMembers) {
	t.Helper()

	repo := newMockRepository()
	expenses := newMockExpenses()
	members := newMockMembers()

	members.add(&household.Member{ID: 10, HouseholdID: 5, UserID: 1, FullName: "Ada Admin", Role: household.RoleAdmin})
	members.add(&household.Member{ID: 20, HouseholdID: 5, UserID: 2, FullName: "Mia Member", Role: household.RoleMember})
	members.add(&household.Member{ID: 30, HouseholdID: 5, UserID: 3, FullName: "Max Member", Role: household.RoleMember})
	members.add(&household.Member{ID: 90, HouseholdID: 9, UserID: 4, FullName: "Ole Outsider", Role: household.RoleMember})

	expenses.expenses[100] = &expense.Expense{
		ID:          100,
		HouseholdID: 5,
		Category:    "Groceries",
		Amount:      money.FromFloat(60),
		Currency:    "EUR",
		Status:      expense.StatusApproved,
	}
	expenses.splits[101] = &expense.Split{ID: 101, ExpenseID: 100, MemberID: 20, Amount: money.FromFloat(20)}
	expenses.splits[102] = &expense.Split{ID: 102, ExpenseID: 100, MemberID: 30, Amount: money.FromFloat(20)}

	svc := NewService(repo, expenses, members)
	svc.now = func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) }
	return svc, repo, expenses, members
}

func TestService_Create(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, stl.Status)
	assert.Equal(t, int64(101), stl.ExpenseSplitID)
	assert.Equal(t, "Groceries", stl.ExpenseCategory)
	assert.Equal(t, "EUR", stl.Currency)
	assert.Equal(t, "Ada Admin", stl.ToMemberName)
	assert.InDelta(t, 20.0, stl.Amount.Value(), 1e-9)
	require.NotNil(t, stl.Date)
	assert.Equal(t, 2025, stl.Date.Year())
}

func TestService_Create_Duplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	req := CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10}
	_, err := svc.Create(ctx, 2, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 2, req)
	assert.ErrorIs(t, err, ErrDuplicateSettlement)
}

func TestService_Create_Guards(t *testing.T) {
	svc, _, expenses, _ := newTestService(t)
	ctx := context.Background()

	// same member on both sides
	_, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 20})
	assert.ErrorIs(t, err, ErrSameMember)

	// split from a different expense
	expenses.expenses[200] = &expense.Expense{ID: 200, HouseholdID: 5, Category: "Rent", Amount: money.FromFloat(900), Status: expense.StatusApproved}
	_, err = svc.Create(ctx, 2, CreateRequest{ExpenseID: 200, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	assert.ErrorIs(t, err, ErrSplitMismatch)

	// non-approved expense
	expenses.expenses[100].Status = expense.StatusPending
	_, err = svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	assert.ErrorIs(t, err, ErrExpenseNotApproved)
	expenses.expenses[100].Status = expense.StatusApproved

	// members from different households
	_, err = svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 90})
	assert.ErrorIs(t, err, ErrCrossHousehold)

	// requester outside the household
	_, err = svc.Create(ctx, 4, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	assert.ErrorIs(t, err, household.ErrNotMember)
}

func TestService_RequestApproveFlow(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)

	// payer requests completion
	got, err := svc.Request(ctx, 2, stl.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingApproval, got.Status)

	// a non-admin cannot approve
	_, err = svc.Approve(ctx, 3, stl.ID, 30)
	assert.ErrorIs(t, err, ErrAdminOnly)

	// the admin approves
	got, err = svc.Approve(ctx, 1, stl.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// completed is terminal
	_, err = svc.Request(ctx, 2, stl.ID, 20)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestService_RejectReturnsToPending(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)

	_, err = svc.Request(ctx, 2, stl.ID, 20)
	require.NoError(t, err)

	got, err := svc.Reject(ctx, 1, stl.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	// the payer can request again after a rejection
	got, err = svc.Request(ctx, 2, stl.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingApproval, got.Status)
}

func TestService_Transition_MemberMismatch(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)

	// user 3 cannot act through member 20's record
	_, err = svc.Request(ctx, 3, stl.ID, 20)
	assert.ErrorIs(t, err, ErrNotCounterparty)
}

func TestService_Transition_ForeignAdminHasNoPower(t *testing.T) {
	svc, repo, _, members := newTestService(t)
	ctx := context.Background()

	// an admin of an unrelated household
	members.add(&household.Member{ID: 91, HouseholdID: 9, UserID: 5, FullName: "Eve Elsewhere", Role: household.RoleAdmin})

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)
	_, err = svc.Request(ctx, 2, stl.ID, 20)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 5, stl.ID, 91)
	assert.ErrorIs(t, err, household.ErrNotMember)
	_, err = svc.Reject(ctx, 5, stl.ID, 91)
	assert.ErrorIs(t, err, household.ErrNotMember)

	got, err := repo.GetByID(ctx, stl.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingApproval, got.Status)
}

func TestService_ListForMember_OwnershipCheck(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)

	got, err := svc.ListForMember(ctx, 2, 20, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// user 3 cannot read member 20's settlements
	_, err = svc.ListForMember(ctx, 3, 20, 5)
	assert.ErrorIs(t, err, ErrNotCounterparty)
}

func TestService_ListAwaiting_AdminOnly(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	stl, err := svc.Create(ctx, 2, CreateRequest{ExpenseID: 100, ExpenseSplitID: 101, FromMemberID: 20, ToMemberID: 10})
	require.NoError(t, err)
	repo.households[stl.ID] = 5

	_, err = svc.Request(ctx, 2, stl.ID, 20)
	require.NoError(t, err)

	got, err := svc.ListAwaiting(ctx, 1, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListAwaiting(ctx, 2, 5)
	assert.ErrorIs(t, err, household.ErrNotAdmin)
}

func TestService_CurrentMonthStats(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	// now is 2025-06-18, so May settlements fall outside the window
	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 101, Amount: money.FromFloat(20), Date: &june, Status: StatusPending}))
	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 102, Amount: money.FromFloat(15), Date: &june, Status: StatusAwaitingApproval}))
	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 103, Amount: money.FromFloat(40), Date: &june, Status: StatusCompleted}))
	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 104, Amount: money.FromFloat(99), Date: &may, Status: StatusPending}))

	stats, err := svc.CurrentMonthStats(ctx, 2, 20, 5)
	require.NoError(t, err)
	assert.Len(t, stats.PendingSettlements, 2)
	assert.InDelta(t, 35.0, stats.TotalPendingAmount, 1e-9)
}

func TestService_LastThreeMonthsStats(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	march := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 101, Amount: money.FromFloat(20), Date: &april, Status: StatusPending}))
	require.NoError(t, repo.Create(ctx, &Settlement{FromMemberID: 20, ToMemberID: 10, ExpenseSplitID: 102, Amount: money.FromFloat(10), Date: &march, Status: StatusPending}))

	stats, err := svc.LastThreeMonthsStats(ctx, 2, 20, 5)
	require.NoError(t, err)
	// window starts 2025-04-01, so only the April settlement is counted
	assert.Len(t, stats.PendingSettlements, 1)
	assert.InDelta(t, 20.0, stats.TotalPendingAmount, 1e-9)
}

func TestService_Stats_EmptyWindow(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	stats, err := svc.CurrentMonthStats(context.Background(), 2, 20, 5)
	require.NoError(t, err)
	assert.NotNil(t, stats.PendingSettlements)
	assert.Empty(t, stats.PendingSettlements)
	assert.Zero(t, stats.TotalPendingAmount)
}
