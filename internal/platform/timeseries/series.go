package timeseries

import "time"

// Record is the minimal shape the aggregator needs: when it happened and
// how much it was worth. A nil Date excludes the record from every bucket,
// mirroring how a malformed upstream date is skipped rather than raised.
type Record struct {
	Date   *time.Time
	Amount float64
}

// Series holds one decimal sum per bucket.
type Series []float64

// NewSeries returns a zeroed series sized for the granularity.
func NewSeries(g Granularity) Series {
	return make(Series, g.Buckets())
}

// Aggregate folds records into a bucket series relative to now. Records
// with no date or a date outside the window contribute nothing. The result
// depends only on the input set, not its order.
func Aggregate(records []Record, g Granularity, now time.Time) Series {
	series := NewSeries(g)
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		idx, ok := BucketIndex(*r.Date, g, now)
		if !ok {
			continue
		}
		series[idx] += r.Amount
	}
	return series
}

// Merge sums series elementwise. All inputs must have the same length;
// shorter inputs are treated as zero-padded. Used to build a combined
// "total" view from independently aggregated per-status series.
func Merge(series ...Series) Series {
	var n int
	for _, s := range series {
		if len(s) > n {
			n = len(s)
		}
	}
	merged := make(Series, n)
	for _, s := range series {
		for i, v := range s {
			merged[i] += v
		}
	}
	return merged
}
