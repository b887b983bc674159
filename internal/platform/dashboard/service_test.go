package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/internal/platform/timeseries"
	"github.com/be9expensphie/expensphie/pkg/money"
)

type mockExpenseSource struct {
	expenses []*expense.Expense
	err      error
	gate     chan struct{} // when set, the first List call blocks until it closes
	calls    atomic.Int32
}

func (m *mockExpenseSource) List(_ context.Context, _, _ int64, _ expense.Filter) ([]*expense.Expense, error) {
	if m.gate != nil && m.calls.Add(1) == 1 {
		<-m.gate
	}
	return m.expenses, m.err
}

type mockMemberSource struct {
	members []*household.Member
	err     error
}

func (m *mockMemberSource) Members(_ context.Context, _, _ int64) ([]*household.Member, error) {
	return m.members, m.err
}

func ts(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func exp(category string, amount float64, date *time.Time, status expense.Status) *expense.Expense {
	return &expense.Expense{
		Category: category,
		Amount:   money.FromFloat(amount),
		Date:     date,
		Status:   status,
	}
}

func TestRefresh_MonthlySeries(t *testing.T) {
	expenses := &mockExpenseSource{expenses: []*expense.Expense{
		exp("Groceries", 30, ts(2025, time.June, 10), expense.StatusApproved),
		exp("Transport", 10, ts(2025, time.June, 2), expense.StatusPending),
		exp("Misc", 5, ts(2025, time.June, 20), expense.StatusRejected),
		exp("Rent", 900, ts(2025, time.January, 3), expense.StatusApproved),
		exp("Undated", 77, nil, expense.StatusApproved),
		exp("LastYear", 50, ts(2024, time.December, 30), expense.StatusApproved),
	}}
	members := &mockMemberSource{members: []*household.Member{{ID: 10}, {ID: 20}, {ID: 30}}}

	svc := NewService(expenses, members)
	svc.now = func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) }

	snap, err := svc.Refresh(context.Background(), 2, 5, timeseries.Monthly)
	require.NoError(t, err)

	require.Len(t, snap.Series.Total, 12)
	assert.InDelta(t, 900.0, snap.Series.Approved[0], 1e-9) // January
	assert.InDelta(t, 30.0, snap.Series.Approved[5], 1e-9)  // June
	assert.InDelta(t, 10.0, snap.Series.Pending[5], 1e-9)
	assert.InDelta(t, 5.0, snap.Series.Rejected[5], 1e-9)
	assert.InDelta(t, 45.0, snap.Series.Total[5], 1e-9)
	assert.Equal(t, 3, snap.MemberCount)

	// total is elementwise the sum of the three status series
	for i := range snap.Series.Total {
		want := snap.Series.Approved[i] + snap.Series.Pending[i] + snap.Series.Rejected[i]
		assert.InDelta(t, want, snap.Series.Total[i], 1e-9, "bucket %d", i)
	}
}

func TestRefresh_RecentExpenses(t *testing.T) {
	var list []*expense.Expense
	for day := 1; day <= 8; day++ {
		list = append(list, exp("Day", float64(day), ts(2025, time.June, day), expense.StatusApproved))
	}
	list = append(list, exp("Undated", 1, nil, expense.StatusApproved))

	svc := NewService(&mockExpenseSource{expenses: list}, &mockMemberSource{})
	svc.now = func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) }

	snap, err := svc.Refresh(context.Background(), 2, 5, timeseries.Daily)
	require.NoError(t, err)

	require.Len(t, snap.RecentExpenses, RecentLimit)
	// newest first, undated never ahead of dated
	assert.InDelta(t, 8.0, snap.RecentExpenses[0].Amount.Value(), 1e-9)
	assert.InDelta(t, 4.0, snap.RecentExpenses[4].Amount.Value(), 1e-9)
}

func TestRefresh_InvalidGranularity(t *testing.T) {
	svc := NewService(&mockExpenseSource{}, &mockMemberSource{})

	_, err := svc.Refresh(context.Background(), 2, 5, timeseries.Granularity("hourly"))
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestRefresh_SourceFailure(t *testing.T) {
	svc := NewService(&mockExpenseSource{}, &mockMemberSource{err: household.ErrNotMember})

	_, err := svc.Refresh(context.Background(), 2, 5, timeseries.Weekly)
	assert.ErrorIs(t, err, household.ErrNotMember)
}

func TestRefresh_StaleTokenDiscarded(t *testing.T) {
	gate := make(chan struct{})
	slow := &mockExpenseSource{gate: gate}
	svc := NewService(slow, &mockMemberSource{})
	svc.now = func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) }

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background(), 2, 5, timeseries.Monthly)
		done <- err
	}()

	// let the first refresh claim its token before starting the second
	for svc.token.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	snap, err := svc.Refresh(context.Background(), 2, 5, timeseries.Monthly)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Token)

	close(gate)
	assert.ErrorIs(t, <-done, ErrStaleSnapshot)
}
