package core

import (
	"errors"
	"time"
)

const (
	Daily     Periodicity = "daily"
	Weekly    Periodicity = "weekly"
	Monthly   Periodicity = "monthly"
	Quarterly Periodicity = "quarterly"
	Yearly    Periodicity = "yearly"
)

const (
	MetricSales  MetricType = "sales"
	MetricProfit MetricType = "profit"
)

const (
	DimCustomer   Dimension = "customer"
	DimItem       Dimension = "item"
	DimStockGroup Dimension = "stockGroup"
	DimPinCode    Dimension = "pinCode"
)

// FilterAll is the sentinel selection meaning "no categorical restriction".
const FilterAll = "all"

type (
	Periodicity string

	MetricType string

	// Dimension is a categorical grouping axis over line items.
	Dimension string

	// Date is a canonical calendar date, free of locale and format ambiguity.
	Date struct {
		time.Time
	}

	// LineItem is one flat sales record as fetched from the store or the
	// remote source. Immutable once fetched; owned by the caller for the
	// duration of one report view.
	LineItem struct {
		ID            string
		Date          Date
		InvoiceNumber string
		Customer      string
		ItemName      string
		StockGroup    string
		PinCode       string
		Quantity      float64
		Rate          float64
		Amount        float64
		Profit        float64
		MasterID      string
	}

	// PeriodBucket is a labeled, sortable time-grouping unit. Two line items
	// with the same calendar date and periodicity always produce identical
	// keys. Weekly buckets carry an empty label until the full record set is
	// known (see Aggregate).
	PeriodBucket struct {
		Key         string
		Label       string
		Periodicity Periodicity
	}

	// TrendPoint is one period of a bucket's time series.
	TrendPoint struct {
		Period string
		Label  string
		Value  float64
	}

	// AggregateRow is one dimension bucket produced by Aggregate. Rows are
	// created fresh on every aggregation pass and never mutated in place.
	AggregateRow struct {
		DimensionValue       string
		MetricValue          float64
		SecondaryMetricValue float64
		Quantity             float64
		Trend                []TrendPoint
	}
)

var (
	ErrInvalidPeriodicity = errors.New("invalid periodicity")
	ErrInvalidMetric      = errors.New("invalid metric type")
	ErrInvalidDimension   = errors.New("invalid dimension")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (p Periodicity) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

func (m MetricType) IsValid() bool {
	return m == MetricSales || m == MetricProfit
}

func (d Dimension) IsValid() bool {
	switch d {
	case DimCustomer, DimItem, DimStockGroup, DimPinCode:
		return true
	default:
		return false
	}
}

// Dimensions lists all grouping axes in their canonical order.
func Dimensions() []Dimension {
	return []Dimension{DimCustomer, DimItem, DimStockGroup, DimPinCode}
}

// Sales returns the sales total of a row given the metric the aggregation
// pass was run with.
func (r AggregateRow) Sales(metric MetricType) float64 {
	if metric == MetricSales {
		return r.MetricValue
	}
	return r.SecondaryMetricValue
}

// Profit returns the profit total of a row given the metric the aggregation
// pass was run with.
func (r AggregateRow) Profit(metric MetricType) float64 {
	if metric == MetricProfit {
		return r.MetricValue
	}
	return r.SecondaryMetricValue
}
