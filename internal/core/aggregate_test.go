package core

import (
	"math"
	"testing"
)

func li(date, customer, item string, amount, profit, qty float64) LineItem {
	d, _ := ParseDate(date)
	return LineItem{
		Date:     d,
		Customer: customer,
		ItemName: item,
		Amount:   amount,
		Profit:   profit,
		Quantity: qty,
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	rows := Aggregate(nil, DimensionAccessor(DimCustomer), MetricSales, Monthly)
	if len(rows) != 0 {
		t.Errorf("empty input should yield empty mapping, got %d rows", len(rows))
	}
}

func TestAggregateSumPreservation(t *testing.T) {
	records := []LineItem{
		li("2024-01-05", "Acme", "Bolts", 100, 20, 1),
		li("2024-02-10", "Acme", "Nuts", 250, 50, 2),
		li("2024-02-11", "Globex", "Bolts", 75, -5, 3),
		li("2024-03-01", "Initech", "Nuts", 125.5, 10.5, 4),
	}

	var want float64
	for _, r := range records {
		want += r.Amount
	}

	for _, dim := range Dimensions() {
		rows := Aggregate(records, DimensionAccessor(dim), MetricSales, Monthly)
		var got float64
		for _, row := range rows {
			got += row.MetricValue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: grand total %v, want %v", dim, got, want)
		}
	}
}

func TestAggregateQuarterlyBuckets(t *testing.T) {
	// Twelve monthly items of 100 across one year collapse into four
	// quarterly buckets of 300 each.
	var records []LineItem
	for m := 1; m <= 12; m++ {
		records = append(records, LineItem{
			Date:   NewDate(2024, m, 15),
			Amount: 100,
		})
	}

	rows := Aggregate(records, ConstantAccessor("total"), MetricSales, Quarterly)
	row, ok := rows["total"]
	if !ok {
		t.Fatal("missing total bucket")
	}
	if len(row.Trend) != 4 {
		t.Fatalf("expected 4 quarterly buckets, got %d", len(row.Trend))
	}
	wantKeys := []string{"2024-Q1", "2024-Q2", "2024-Q3", "2024-Q4"}
	for i, p := range row.Trend {
		if p.Period != wantKeys[i] {
			t.Errorf("bucket %d: expected key %s, got %s", i, wantKeys[i], p.Period)
		}
		if p.Value != 300 {
			t.Errorf("bucket %s: expected 300, got %v", p.Period, p.Value)
		}
	}
	if row.MetricValue != 1200 {
		t.Errorf("expected grand total 1200, got %v", row.MetricValue)
	}
}

func TestAggregateProfitMetric(t *testing.T) {
	records := []LineItem{
		li("2024-01-05", "Acme", "Bolts", 100, 20, 1),
		li("2024-01-06", "Acme", "Nuts", 200, 30, 2),
	}

	rows := Aggregate(records, DimensionAccessor(DimCustomer), MetricProfit, Monthly)
	row := rows["Acme"]
	if row.MetricValue != 50 {
		t.Errorf("profit metric: expected 50, got %v", row.MetricValue)
	}
	if row.SecondaryMetricValue != 300 {
		t.Errorf("secondary (sales): expected 300, got %v", row.SecondaryMetricValue)
	}
	// Quantity sums regardless of metric choice.
	if row.Quantity != 3 {
		t.Errorf("quantity: expected 3, got %v", row.Quantity)
	}
	if row.Sales(MetricProfit) != 300 || row.Profit(MetricProfit) != 50 {
		t.Error("Sales/Profit helpers disagree with metric orientation")
	}
}

func TestAggregateEmptyDimensionValueIsABucket(t *testing.T) {
	records := []LineItem{
		li("2024-01-05", "", "Bolts", 100, 20, 1),
		li("2024-01-06", "Acme", "Nuts", 200, 30, 2),
	}

	rows := Aggregate(records, DimensionAccessor(DimCustomer), MetricSales, Monthly)
	if len(rows) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(rows))
	}
	if _, ok := rows[""]; !ok {
		t.Error("empty-string dimension value must be grouped, not dropped")
	}
}

func TestAggregateTrendSortedAscending(t *testing.T) {
	records := []LineItem{
		li("2024-03-01", "Acme", "Bolts", 10, 0, 1),
		li("2024-01-01", "Acme", "Bolts", 20, 0, 1),
		li("2024-02-01", "Acme", "Bolts", 30, 0, 1),
	}

	rows := Aggregate(records, DimensionAccessor(DimCustomer), MetricSales, Monthly)
	trend := rows["Acme"].Trend
	want := []string{"2024-01", "2024-02", "2024-03"}
	if len(trend) != len(want) {
		t.Fatalf("expected %d trend points, got %d", len(want), len(trend))
	}
	for i, p := range trend {
		if p.Period != want[i] {
			t.Errorf("trend[%d]: expected %s, got %s", i, want[i], p.Period)
		}
	}
	if trend[0].Label != "Jan-24" {
		t.Errorf("monthly label: expected Jan-24, got %q", trend[0].Label)
	}
}

func TestAggregateWeeklyLabelsAreRangeDerived(t *testing.T) {
	// Same week, two customers: both trends must carry the same span label,
	// derived from the full record set, not per group.
	records := []LineItem{
		li("2024-01-03", "Acme", "Bolts", 10, 0, 1),
		li("2024-01-05", "Globex", "Nuts", 20, 0, 1),
	}

	rows := Aggregate(records, DimensionAccessor(DimCustomer), MetricSales, Weekly)
	want := "3-Jan-24 to 5-Jan-24"
	for _, name := range []string{"Acme", "Globex"} {
		trend := rows[name].Trend
		if len(trend) != 1 {
			t.Fatalf("%s: expected 1 weekly bucket, got %d", name, len(trend))
		}
		if trend[0].Label != want {
			t.Errorf("%s: expected label %q, got %q", name, want, trend[0].Label)
		}
	}
}
