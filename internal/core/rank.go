package core

import "sort"

// Sort keys understood by Rank. The unsuffixed keys sort ascending and the
// "-desc" suffixed keys descending; the asymmetric vocabulary is part of the
// filter toggle contract and must not be normalized.
const (
	SortDefault           SortKey = ""
	SortSales             SortKey = "sales"
	SortSalesDesc         SortKey = "sales-desc"
	SortProfit            SortKey = "profit"
	SortProfitDesc        SortKey = "profit-desc"
	SortProfitPercent     SortKey = "profitPercent"
	SortProfitPercentDesc SortKey = "profitPercent-desc"
)

// SortKey selects the ordering Rank applies.
type SortKey string

func (k SortKey) IsValid() bool {
	switch k {
	case SortDefault, SortSales, SortSalesDesc, SortProfit, SortProfitDesc,
		SortProfitPercent, SortProfitPercentDesc:
		return true
	default:
		return false
	}
}

// Rank turns an aggregation result into an ordered, filtered, optionally
// truncated list. dim names the dimension the rows were grouped by, so the
// matching categorical selection from cfg can be applied: a non-"all"
// selection keeps only the matching bucket. Rows are sorted by cfg.SortBy
// (default: metric value descending). Ties break on dimension value, which
// also makes the ordering deterministic across runs on the same input.
// topN truncates after sorting, never before; topN <= 0 means no truncation.
func Rank(rows map[string]AggregateRow, cfg FilterConfig, dim Dimension, topN int) []AggregateRow {
	selection := cfg.Selection(dim)

	out := make([]AggregateRow, 0, len(rows))
	for value, row := range rows {
		if selection != FilterAll && value != selection {
			continue
		}
		out = append(out, row)
	}

	// Deterministic base order before the stable sort.
	sort.Slice(out, func(i, j int) bool {
		return out[i].DimensionValue < out[j].DimensionValue
	})

	less := lessFunc(cfg.SortBy, cfg.MetricType)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func lessFunc(key SortKey, metric MetricType) func(a, b AggregateRow) bool {
	switch key {
	case SortSales:
		return func(a, b AggregateRow) bool { return a.Sales(metric) < b.Sales(metric) }
	case SortSalesDesc:
		return func(a, b AggregateRow) bool { return a.Sales(metric) > b.Sales(metric) }
	case SortProfit:
		return func(a, b AggregateRow) bool { return a.Profit(metric) < b.Profit(metric) }
	case SortProfitDesc:
		return func(a, b AggregateRow) bool { return a.Profit(metric) > b.Profit(metric) }
	case SortProfitPercent:
		return func(a, b AggregateRow) bool { return rowPercent(a, metric) < rowPercent(b, metric) }
	case SortProfitPercentDesc:
		return func(a, b AggregateRow) bool { return rowPercent(a, metric) > rowPercent(b, metric) }
	default:
		return func(a, b AggregateRow) bool { return a.MetricValue > b.MetricValue }
	}
}

func rowPercent(r AggregateRow, metric MetricType) float64 {
	return ProfitPercent(r.Sales(metric), r.Profit(metric))
}

// Scale divides every monetary value in the rows by factor, returning fresh
// copies with copied trends. A factor of 1 or less than or equal to 0 leaves
// values unchanged. Quantity is a count, not money, and is never scaled.
func Scale(rows []AggregateRow, factor float64) []AggregateRow {
	out := make([]AggregateRow, len(rows))
	for i, row := range rows {
		scaled := row
		scaled.Trend = make([]TrendPoint, len(row.Trend))
		copy(scaled.Trend, row.Trend)
		if factor > 0 && factor != 1 {
			scaled.MetricValue /= factor
			scaled.SecondaryMetricValue /= factor
			for j := range scaled.Trend {
				scaled.Trend[j].Value /= factor
			}
		}
		out[i] = scaled
	}
	return out
}
