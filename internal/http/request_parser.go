// This file parses report queries from URL parameters. Every parameter is
// defaulted: an absent or malformed value falls back instead of failing the
// request, matching how the report views behave on first mount.
package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ledgerview/internal/core"
)

const defaultRangeDays = 30

// DateRange holds the inclusive ISO range of a report query.
type DateRange struct {
	From string
	To   string
}

// ParseDateRange extracts from/to, defaulting to the trailing thirty days.
// Values must parse as one of the two canonical date shapes; a reversed range
// is swapped rather than rejected.
func ParseDateRange(query url.Values) DateRange {
	now := time.Now().UTC()
	r := DateRange{
		From: now.AddDate(0, 0, -defaultRangeDays).Format("2006-01-02"),
		To:   now.Format("2006-01-02"),
	}

	if d, ok := core.ParseDate(query.Get("from")); ok {
		r.From = d.ISO()
	}
	if d, ok := core.ParseDate(query.Get("to")); ok {
		r.To = d.ISO()
	}
	if r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	return r
}

// ParseFilterConfig builds the filter config from query parameters on top of
// the view defaults. Invalid periodicity, metric, or sort values keep the
// default instead of erroring.
func ParseFilterConfig(query url.Values) core.FilterConfig {
	cfg := core.DefaultFilterConfig()

	if p := core.Periodicity(query.Get("periodicity")); p.IsValid() {
		cfg.Periodicity = p
	}
	if m := core.MetricType(query.Get("metric")); m.IsValid() {
		cfg.MetricType = m
	}
	if s := core.SortKey(query.Get("sort")); s != core.SortDefault && s.IsValid() {
		cfg.SortBy = s
	}

	if v := strings.TrimSpace(query.Get("scale")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.ScaleFactor = f
		}
	}
	if v := strings.TrimSpace(query.Get("avgWindow")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AvgWindowDays = n
		}
	}

	if v := strings.TrimSpace(query.Get("stockGroup")); v != "" {
		cfg = cfg.WithSelection(core.DimStockGroup, v)
	}
	if v := strings.TrimSpace(query.Get("pinCode")); v != "" {
		cfg = cfg.WithSelection(core.DimPinCode, v)
	}
	if v := strings.TrimSpace(query.Get("customer")); v != "" {
		cfg = cfg.WithSelection(core.DimCustomer, v)
	}
	if v := strings.TrimSpace(query.Get("item")); v != "" {
		cfg = cfg.WithSelection(core.DimItem, v)
	}

	// charts=customer,item narrows the dashboard to those dimensions; an
	// unknown name in the list is ignored, an empty list keeps them all.
	if v := strings.TrimSpace(query.Get("charts")); v != "" {
		wanted := make(map[core.Dimension]bool)
		for _, name := range strings.Split(v, ",") {
			d := core.Dimension(strings.TrimSpace(name))
			if d.IsValid() {
				wanted[d] = true
			}
		}
		if len(wanted) > 0 {
			for _, d := range core.Dimensions() {
				cfg.EnabledGroups[d] = wanted[d]
			}
		}
	}

	return cfg
}

// ParsePageIndex extracts the zero-based voucher page index.
func ParsePageIndex(query url.Values) int {
	v := strings.TrimSpace(query.Get("page"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseFilterKeys extracts the comma-separated voucher type filter.
func ParseFilterKeys(query url.Values) []string {
	v := strings.TrimSpace(query.Get("vchTypes"))
	if v == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// RequireMethod checks the request method, returning an error response when
// it does not match.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience guard for read-only handlers.
func RequireGET(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

// RequirePOST is a convenience guard for mutating handlers.
func RequirePOST(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}
