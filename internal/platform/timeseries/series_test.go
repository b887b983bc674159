package timeseries

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestAggregate_SeriesLengthMatchesGranularity(t *testing.T) {
	records := []Record{{Date: datePtr(wednesday), Amount: 1}}

	assert.Len(t, Aggregate(records, Daily, wednesday), 7)
	assert.Len(t, Aggregate(records, Weekly, wednesday), 8)
	assert.Len(t, Aggregate(records, Monthly, wednesday), 12)
	assert.Len(t, Aggregate(nil, Monthly, wednesday), 12)
}

func TestAggregate_SumsIntoBuckets(t *testing.T) {
	monday := WeekStart(wednesday)
	records := []Record{
		{Date: datePtr(monday), Amount: 10},
		{Date: datePtr(monday.Add(4 * time.Hour)), Amount: 5},
		{Date: datePtr(monday.AddDate(0, 0, 2)), Amount: 3},
		{Date: nil, Amount: 100},                             // no date: excluded
		{Date: datePtr(monday.AddDate(0, 0, -7)), Amount: 9}, // prior week: excluded
	}

	series := Aggregate(records, Daily, wednesday)

	require.Len(t, series, 7)
	assert.Equal(t, 15.0, series[0])
	assert.Equal(t, 3.0, series[2])
	assert.Equal(t, 0.0, series[1])
}

func TestAggregate_OrderIndependentAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records := make([]Record, 0, 50)
	for i := 0; i < 50; i++ {
		d := wednesday.AddDate(0, 0, -rng.Intn(70))
		records = append(records, Record{Date: datePtr(d), Amount: float64(rng.Intn(1000)) / 4})
	}

	first := Aggregate(records, Weekly, wednesday)
	second := Aggregate(records, Weekly, wednesday)
	assert.Equal(t, first, second, "aggregation must be a pure function")

	shuffled := make([]Record, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.Equal(t, first, Aggregate(shuffled, Weekly, wednesday), "input order must not matter")
}

func TestMerge_TotalEqualsSumOfPartitions(t *testing.T) {
	monday := WeekStart(wednesday)
	approved := []Record{
		{Date: datePtr(monday), Amount: 10},
		{Date: datePtr(monday.AddDate(0, 0, 3)), Amount: 2.5},
	}
	pending := []Record{{Date: datePtr(monday), Amount: 5}}
	rejected := []Record{{Date: datePtr(monday.AddDate(0, 0, 6)), Amount: 1}}

	approvedSeries := Aggregate(approved, Daily, wednesday)
	pendingSeries := Aggregate(pending, Daily, wednesday)
	rejectedSeries := Aggregate(rejected, Daily, wednesday)

	all := make([]Record, 0, 4)
	all = append(all, approved...)
	all = append(all, pending...)
	all = append(all, rejected...)
	totalSeries := Aggregate(all, Daily, wednesday)

	merged := Merge(approvedSeries, pendingSeries, rejectedSeries)
	require.Len(t, merged, 7)
	for i := range totalSeries {
		assert.Equal(t, totalSeries[i], merged[i], "total[%d] must equal approved+pending+rejected", i)
	}
	assert.Equal(t, 15.0, merged[0])
	assert.Equal(t, 10.0, approvedSeries[0])
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge())
	assert.Equal(t, Series{1, 2}, Merge(Series{1, 2}))
}
