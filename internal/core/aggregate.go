package core

import "sort"

// Accessor extracts the grouping value of one line item.
type Accessor func(LineItem) string

// DimensionAccessor returns the accessor for a categorical dimension.
// Unknown dimensions group everything under the empty string, which callers
// filter out explicitly if unwanted.
func DimensionAccessor(d Dimension) Accessor {
	switch d {
	case DimCustomer:
		return func(li LineItem) string { return li.Customer }
	case DimItem:
		return func(li LineItem) string { return li.ItemName }
	case DimStockGroup:
		return func(li LineItem) string { return li.StockGroup }
	case DimPinCode:
		return func(li LineItem) string { return li.PinCode }
	default:
		return func(LineItem) string { return "" }
	}
}

// ConstantAccessor groups every record under one bucket; used for grand
// totals and the overall period trend.
func ConstantAccessor(value string) Accessor {
	return func(LineItem) string { return value }
}

type aggregateDraft struct {
	metric    float64
	secondary float64
	quantity  float64
	trend     map[string]float64
}

type weekExtent struct {
	first Date
	last  Date
}

// Aggregate groups records by dimension value and sums the chosen metric per
// group, plus a period-bucketed trend nested inside each group. Quantity is
// always summed from the record quantity regardless of metric. The result is
// a pure function of the inputs: empty input yields an empty map, and a
// record whose dimension value is the empty string is grouped under that
// literal empty string, not dropped. Top-N truncation is Rank's job, never
// baked in here.
//
// The pass runs in two named phases: an index build over mutable drafts,
// then a conversion to immutable rows with trends sorted ascending by period
// key. Weekly trend labels are assigned in the second phase from the first
// and last dates observed per bucket across the whole record set.
func Aggregate(records []LineItem, dimension Accessor, metric MetricType, p Periodicity) map[string]AggregateRow {
	drafts := buildAggregateIndex(records, dimension, metric, p)

	var weeks map[string]weekExtent
	if p == Weekly {
		weeks = weeklyExtents(records)
	}

	return finalizeAggregates(drafts, weeks, p)
}

// buildAggregateIndex is the single mutable pass over the records.
func buildAggregateIndex(records []LineItem, dimension Accessor, metric MetricType, p Periodicity) map[string]*aggregateDraft {
	drafts := make(map[string]*aggregateDraft)
	for _, rec := range records {
		key := dimension(rec)
		d := drafts[key]
		if d == nil {
			d = &aggregateDraft{trend: make(map[string]float64)}
			drafts[key] = d
		}

		value := rec.Amount
		other := rec.Profit
		if metric == MetricProfit {
			value, other = other, value
		}

		d.metric += value
		d.secondary += other
		d.quantity += rec.Quantity

		bucket := PeriodKeyOf(rec.Date, p)
		d.trend[bucket.Key] += value
	}
	return drafts
}

// finalizeAggregates converts the drafts into immutable rows.
func finalizeAggregates(drafts map[string]*aggregateDraft, weeks map[string]weekExtent, p Periodicity) map[string]AggregateRow {
	rows := make(map[string]AggregateRow, len(drafts))
	for key, d := range drafts {
		periods := make([]string, 0, len(d.trend))
		for period := range d.trend {
			periods = append(periods, period)
		}
		sort.Strings(periods)

		trend := make([]TrendPoint, 0, len(periods))
		for _, period := range periods {
			trend = append(trend, TrendPoint{
				Period: period,
				Label:  periodLabel(period, weeks, p),
				Value:  d.trend[period],
			})
		}

		rows[key] = AggregateRow{
			DimensionValue:       key,
			MetricValue:          d.metric,
			SecondaryMetricValue: d.secondary,
			Quantity:             d.quantity,
			Trend:                trend,
		}
	}
	return rows
}

func periodLabel(key string, weeks map[string]weekExtent, p Periodicity) string {
	if p == Weekly {
		if ext, ok := weeks[key]; ok {
			return WeekSpanLabel(ext.first, ext.last)
		}
		return key
	}
	// Non-weekly labels are date-derived and identical for every record in
	// the bucket, so any representative date reproduces them. The bucket key
	// itself round-trips for daily and yearly; monthly and quarterly labels
	// are rebuilt from the key.
	return labelFromKey(key, p)
}

func labelFromKey(key string, p Periodicity) string {
	d, ok := dateFromKey(key, p)
	if !ok {
		return key
	}
	return PeriodKeyOf(d, p).Label
}

// dateFromKey recovers a representative date from a period key.
func dateFromKey(key string, p Periodicity) (Date, bool) {
	switch p {
	case Daily:
		return ParseDate(key)
	case Monthly:
		return ParseDate(key + "-01")
	case Quarterly:
		if len(key) != 7 || key[4] != '-' || key[5] != 'Q' {
			return Date{}, false
		}
		q := int(key[6] - '0')
		if q < 1 || q > 4 {
			return Date{}, false
		}
		d, ok := ParseDate(key[:4] + "-01-01")
		if !ok {
			return Date{}, false
		}
		return Date{Time: d.AddDate(0, (q-1)*3, 0)}, true
	case Yearly:
		return ParseDate(key + "-01-01")
	default:
		return Date{}, false
	}
}

// weeklyExtents collects the first and last observed dates per weekly bucket
// over the full record set. This is deliberately global, not per dimension
// group: every group's trend shows the same label for the same week.
func weeklyExtents(records []LineItem) map[string]weekExtent {
	weeks := make(map[string]weekExtent)
	for _, rec := range records {
		key := PeriodKeyOf(rec.Date, Weekly).Key
		ext, ok := weeks[key]
		if !ok {
			weeks[key] = weekExtent{first: rec.Date, last: rec.Date}
			continue
		}
		if rec.Date.Before(ext.first.Time) {
			ext.first = rec.Date
		}
		if rec.Date.After(ext.last.Time) {
			ext.last = rec.Date
		}
		weeks[key] = ext
	}
	return weeks
}
