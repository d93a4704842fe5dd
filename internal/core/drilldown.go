package core

// Drilldown levels, from the dashboard down to individual source records.
const (
	LevelSummary DrillLevel = iota
	LevelDimensionFiltered
	LevelEntityDrilldown
	LevelInvoiceDetail
)

// Drilldown events. Transitions are plain data consumed by Next; there are
// no callbacks wired into the state.
const (
	EventChartBarClicked DrillEventType = "chart_bar_clicked"
	EventChartBack       DrillEventType = "chart_back"
	EventCardOpened      DrillEventType = "card_opened"
	EventEntitySelected  DrillEventType = "entity_selected"
	EventModalClosed     DrillEventType = "modal_closed"
	EventFiltersApplied  DrillEventType = "filters_applied"
	EventFiltersReset    DrillEventType = "filters_reset"
)

type (
	DrillLevel int

	DrillEventType string

	// DrillEvent is one user interaction. Dimension and Value are read only
	// by the event types that need them; Filters only by EventFiltersApplied.
	DrillEvent struct {
		Type      DrillEventType
		Dimension Dimension
		Value     string
		Filters   *FilterConfig
	}

	// DrillState is the navigator state: the current level, what is being
	// inspected at that level, and the filter context the level implies.
	// States are values; Next returns a new state, never mutates.
	DrillState struct {
		Level    DrillLevel
		ListKind Dimension // entity list kind at LevelEntityDrilldown and below
		Entity   string    // selected entity at LevelInvoiceDetail
		Filters  FilterConfig
	}
)

func (l DrillLevel) String() string {
	switch l {
	case LevelSummary:
		return "summary"
	case LevelDimensionFiltered:
		return "dimension_filtered"
	case LevelEntityDrilldown:
		return "entity_drilldown"
	case LevelInvoiceDetail:
		return "invoice_detail"
	default:
		return "unknown"
	}
}

// NewDrillState is the state of a freshly mounted report view.
func NewDrillState() DrillState {
	return DrillState{Level: LevelSummary, Filters: DefaultFilterConfig()}
}

// Next applies one event and returns the resulting state. Every transition
// is immediate and synchronous; any data refetch it implies is the caller's
// concern. Events that are meaningless at the current level leave the state
// unchanged rather than failing.
func Next(s DrillState, ev DrillEvent) DrillState {
	switch ev.Type {
	case EventChartBarClicked:
		// Valid only while the dimension charts are visible.
		if s.Level > LevelDimensionFiltered || !ev.Dimension.IsValid() {
			return s
		}
		s.Filters = s.Filters.WithSelection(ev.Dimension, ev.Value)
		s.Level = LevelDimensionFiltered
		return s

	case EventChartBack:
		if s.Level > LevelDimensionFiltered || !ev.Dimension.IsValid() {
			return s
		}
		// Clears exactly the one filter; other selections stay active.
		s.Filters = s.Filters.WithoutSelection(ev.Dimension)
		s.Level = baseLevel(s.Filters)
		return s

	case EventCardOpened:
		if s.Level > LevelDimensionFiltered || !ev.Dimension.IsValid() {
			return s
		}
		s.Level = LevelEntityDrilldown
		s.ListKind = ev.Dimension
		return s

	case EventEntitySelected:
		if s.Level != LevelEntityDrilldown {
			return s
		}
		s.Level = LevelInvoiceDetail
		s.Entity = ev.Value
		return s

	case EventModalClosed:
		// Pops exactly one level, never more.
		switch s.Level {
		case LevelInvoiceDetail:
			s.Level = LevelEntityDrilldown
			s.Entity = ""
		case LevelEntityDrilldown:
			s.Level = baseLevel(s.Filters)
			s.ListKind = ""
		}
		return s

	case EventFiltersApplied:
		if ev.Filters == nil {
			return s
		}
		s.Filters = ev.Filters.clone()
		if s.Level <= LevelDimensionFiltered {
			s.Level = baseLevel(s.Filters)
		}
		return s

	case EventFiltersReset:
		return NewDrillState()

	default:
		return s
	}
}

// baseLevel derives the chart-view level from the filter context: a single
// active dimension selection means the view is dimension-filtered.
func baseLevel(cfg FilterConfig) DrillLevel {
	if cfg.HasSelection() {
		return LevelDimensionFiltered
	}
	return LevelSummary
}
