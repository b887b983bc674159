package dashboard

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/household"
	"github.com/be9expensphie/expensphie/internal/platform/timeseries"
)

// Service assembles dashboard snapshots. Refreshes are tokenized: every
// call takes the next token, and a refresh that finishes after a newer
// one has started is reported stale instead of returned.
type Service struct {
	expenses ExpenseSource
	members  MemberSource
	token    atomic.Uint64
	now      func() time.Time
}

// NewService creates a new dashboard service.
func NewService(expenses ExpenseSource, members MemberSource) *Service {
	return &Service{
		expenses: expenses,
		members:  members,
		now:      time.Now,
	}
}

// Refresh builds a snapshot of the household for the given granularity.
// Expenses and members are fetched concurrently; either failure fails the
// whole refresh.
func (s *Service) Refresh(ctx context.Context, userID, householdID int64, g timeseries.Granularity) (*Snapshot, error) {
	if !g.IsValid() {
		return nil, ErrInvalidGranularity
	}

	token := s.token.Add(1)

	var (
		expenses []*expense.Expense
		members  []*household.Member
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		expenses, err = s.expenses.List(egCtx, userID, householdID, expense.Filter{})
		return err
	})
	eg.Go(func() error {
		var err error
		members, err = s.members.Members(egCtx, userID, householdID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if s.token.Load() != token {
		return nil, ErrStaleSnapshot
	}

	now := s.now()
	return &Snapshot{
		Token:          token,
		Granularity:    g,
		Series:         buildSeries(expenses, g, now),
		RecentExpenses: recent(expenses),
		MemberCount:    len(members),
		GeneratedAt:    now,
	}, nil
}

// buildSeries aggregates expenses into one series per status and a merged
// total.
func buildSeries(expenses []*expense.Expense, g timeseries.Granularity, now time.Time) SeriesSet {
	byStatus := map[expense.Status][]timeseries.Record{}
	for _, e := range expenses {
		byStatus[e.Status] = append(byStatus[e.Status], timeseries.Record{
			Date:   e.Date,
			Amount: e.Amount.Value(),
		})
	}

	approved := timeseries.Aggregate(byStatus[expense.StatusApproved], g, now)
	pending := timeseries.Aggregate(byStatus[expense.StatusPending], g, now)
	rejected := timeseries.Aggregate(byStatus[expense.StatusRejected], g, now)

	return SeriesSet{
		Total:    timeseries.Merge(approved, pending, rejected),
		Approved: approved,
		Pending:  pending,
		Rejected: rejected,
	}
}

// recent returns the newest expenses, at most RecentLimit of them.
// Undated expenses sort last; ties fall back to creation order.
func recent(expenses []*expense.Expense) []*expense.Expense {
	sorted := make([]*expense.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}
