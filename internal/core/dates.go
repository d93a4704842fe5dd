// Package core implements the transaction aggregation and drilldown engine:
// date normalization, period bucketing, dimension grouping, voucher tree
// building, ranking, and the drilldown state machine. Every entry point is a
// pure function over in-memory values; the package does no I/O and holds no
// state between calls.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	isoDateLayout     = "2006-01-02"
	compactDateLayout = "2-Jan-06"
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate normalizes the two date shapes the accounting source emits:
// ISO "2024-01-31" and compact "31-Jan-24". The boolean is false for any
// other shape; a failed parse is a signal to exclude the record from
// date-filtered results, never to abort a batch. Two-digit years always
// resolve to 2000+YY, there is no 19xx window.
func ParseDate(raw string) (Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, false
	}

	if t, err := time.Parse(isoDateLayout, raw); err == nil {
		return Date{Time: t}, true
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return Date{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return Date{}, false
	}

	month, ok := monthAbbrevs[strings.ToLower(parts[1])]
	if !ok {
		return Date{}, false
	}

	if len(parts[2]) != 2 {
		return Date{}, false
	}
	yy, err := strconv.Atoi(parts[2])
	if err != nil || yy < 0 {
		return Date{}, false
	}

	t := time.Date(2000+yy, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-Feb becomes 2/3-Mar); reject it.
	if t.Day() != day || t.Month() != month {
		return Date{}, false
	}
	return Date{Time: t}, true
}

// ISO renders the date in the canonical "2006-01-02" form used for storage
// and range filtering.
func (d Date) ISO() string {
	return d.Format(isoDateLayout)
}

// PeriodKeyOf derives the sortable key and display label of the period bucket
// a date falls into. Keys sort lexicographically in chronological order for
// every periodicity. Weekly is the one periodicity whose label cannot be
// derived from a single date: it is the "first to last" span of the dates
// actually observed in the bucket, so PeriodKeyOf leaves it empty and
// Aggregate fills it in once the full record set is known.
func PeriodKeyOf(d Date, p Periodicity) PeriodBucket {
	b := PeriodBucket{Periodicity: p}
	switch p {
	case Daily:
		b.Key = d.Format(isoDateLayout)
		b.Label = d.Format(compactDateLayout)
	case Weekly:
		b.Key = fmt.Sprintf("%04d-W%02d", d.Year(), weekOfYear(d))
	case Monthly:
		b.Key = d.Format("2006-01")
		b.Label = d.Format("Jan-06")
	case Quarterly:
		q := (int(d.Month())-1)/3 + 1
		b.Key = fmt.Sprintf("%04d-Q%d", d.Year(), q)
		b.Label = fmt.Sprintf("Q%d-%s", q, d.Format("06"))
	case Yearly:
		b.Key = d.Format("2006")
		b.Label = b.Key
	}
	return b
}

// WeekSpanLabel formats the range-derived label of a weekly bucket from the
// first and last dates observed in it.
func WeekSpanLabel(first, last Date) string {
	return first.Format(compactDateLayout) + " to " + last.Format(compactDateLayout)
}

// weekOfYear numbers weeks from Jan 1, aligned to the weekday Jan 1 falls
// on: week = ceil((daysSinceJan1 + jan1Weekday + 1) / 7).
func weekOfYear(d Date) int {
	jan1 := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
	days := int(d.Sub(jan1).Hours() / 24)
	n := days + int(jan1.Weekday()) + 1
	week := n / 7
	if n%7 != 0 {
		week++
	}
	return week
}
