// Package timeseries turns dated records into fixed-length bucket series
// for the dashboard charts. All functions are pure: the reference time is
// always an explicit argument, never the wall clock.
package timeseries

import "time"

// Granularity selects the bucketing scheme for a series.
type Granularity string

const (
	// Daily buckets Monday through Sunday of the current week.
	Daily Granularity = "daily"
	// Weekly buckets the rolling 8-week window ending with the current week.
	Weekly Granularity = "weekly"
	// Monthly buckets January through December of the current calendar year.
	Monthly Granularity = "monthly"
)

// WeeklyWindow is the number of weeks covered by the Weekly granularity,
// including the current week.
const WeeklyWindow = 8

// IsValid reports whether g is a known granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Buckets returns the series length for the granularity.
func (g Granularity) Buckets() int {
	switch g {
	case Daily:
		return 7
	case Weekly:
		return WeeklyWindow
	case Monthly:
		return 12
	default:
		return 0
	}
}

// WeekStart returns midnight on the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. Counting dates rather
// than wall-clock duration keeps week spans whole across DST changes.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// BucketIndex maps a record timestamp to its bucket position relative to
// now. The boolean is false when the timestamp falls outside the window:
// daily excludes anything not in the current week, weekly anything outside
// the trailing 8 weeks, monthly anything outside the current year. A
// timestamp exactly on a period boundary belongs to the period it starts.
func BucketIndex(t time.Time, g Granularity, now time.Time) (int, bool) {
	switch g {
	case Daily:
		start := WeekStart(now)
		end := start.AddDate(0, 0, 7)
		if t.Before(start) || !t.Before(end) {
			return 0, false
		}
		return (int(t.Weekday()) + 6) % 7, true

	case Weekly:
		currentWeek := WeekStart(now)
		earliest := currentWeek.AddDate(0, 0, -7*(WeeklyWindow-1))
		end := currentWeek.AddDate(0, 0, 7)
		if t.Before(earliest) || !t.Before(end) {
			return 0, false
		}
		return daysBetween(earliest, WeekStart(t)) / 7, true

	case Monthly:
		if t.Year() != now.Year() {
			return 0, false
		}
		return int(t.Month()) - 1, true

	default:
		return 0, false
	}
}
