package core

// FilterConfig is the per-view report configuration. It is created with
// defaults on view mount, replaced wholesale through an explicit apply, and
// reset to defaults on an explicit reset. It is a plain value: transitions
// return new copies, there is no shared mutable instance.
type FilterConfig struct {
	SelectedStockGroup string
	SelectedPinCode    string
	SelectedCustomer   string
	SelectedItem       string
	Periodicity        Periodicity
	ScaleFactor        float64
	AvgWindowDays      int
	MetricType         MetricType
	SortBy             SortKey
	EnabledGroups      map[Dimension]bool
}

// DefaultFilterConfig returns the configuration a freshly mounted report view
// starts with: no categorical restrictions, monthly buckets, sales metric,
// unscaled values, all dimension charts enabled.
func DefaultFilterConfig() FilterConfig {
	enabled := make(map[Dimension]bool, len(Dimensions()))
	for _, d := range Dimensions() {
		enabled[d] = true
	}
	return FilterConfig{
		SelectedStockGroup: FilterAll,
		SelectedPinCode:    FilterAll,
		SelectedCustomer:   FilterAll,
		SelectedItem:       FilterAll,
		Periodicity:        Monthly,
		ScaleFactor:        1,
		AvgWindowDays:      30,
		MetricType:         MetricSales,
		SortBy:             SortDefault,
		EnabledGroups:      enabled,
	}
}

// Selection returns the active selection for a dimension, FilterAll when the
// dimension is unrestricted or unknown.
func (c FilterConfig) Selection(d Dimension) string {
	switch d {
	case DimCustomer:
		return c.SelectedCustomer
	case DimItem:
		return c.SelectedItem
	case DimStockGroup:
		return c.SelectedStockGroup
	case DimPinCode:
		return c.SelectedPinCode
	default:
		return FilterAll
	}
}

// WithSelection returns a copy with one dimension's selection replaced.
// Other selections are untouched: filters are independent, not a stack.
func (c FilterConfig) WithSelection(d Dimension, value string) FilterConfig {
	out := c.clone()
	switch d {
	case DimCustomer:
		out.SelectedCustomer = value
	case DimItem:
		out.SelectedItem = value
	case DimStockGroup:
		out.SelectedStockGroup = value
	case DimPinCode:
		out.SelectedPinCode = value
	}
	return out
}

// WithoutSelection returns a copy with one dimension's selection cleared.
func (c FilterConfig) WithoutSelection(d Dimension) FilterConfig {
	return c.WithSelection(d, FilterAll)
}

// HasSelection reports whether any dimension carries a non-"all" selection.
func (c FilterConfig) HasSelection() bool {
	for _, d := range Dimensions() {
		if c.Selection(d) != FilterAll {
			return true
		}
	}
	return false
}

func (c FilterConfig) clone() FilterConfig {
	out := c
	if c.EnabledGroups != nil {
		out.EnabledGroups = make(map[Dimension]bool, len(c.EnabledGroups))
		for k, v := range c.EnabledGroups {
			out.EnabledGroups[k] = v
		}
	}
	return out
}
