package dashboard

import (
	"time"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/internal/platform/timeseries"
)

// RecentLimit is how many of the newest expenses a snapshot carries.
const RecentLimit = 5

// SeriesSet holds the bucketed sums for one granularity, split by expense
// status plus their combined total. total[i] always equals
// approved[i] + pending[i] + rejected[i].
type SeriesSet struct {
	Total    timeseries.Series `json:"total"`
	Approved timeseries.Series `json:"approved"`
	Pending  timeseries.Series `json:"pending"`
	Rejected timeseries.Series `json:"rejected"`
}

// Snapshot is one fully assembled dashboard view for a household.
type Snapshot struct {
	Token          uint64                 `json:"token"`
	Granularity    timeseries.Granularity `json:"granularity"`
	Series         SeriesSet              `json:"series"`
	RecentExpenses []*expense.Expense     `json:"recentExpenses"`
	MemberCount    int                    `json:"memberCount"`
	GeneratedAt    time.Time              `json:"generatedAt"`
}
