package core

import "testing"

func TestDrilldownChartBarSetsFilter(t *testing.T) {
	s := NewDrillState()
	s = Next(s, DrillEvent{Type: EventChartBarClicked, Dimension: DimStockGroup, Value: "Hardware"})

	if s.Level != LevelDimensionFiltered {
		t.Errorf("expected dimension_filtered, got %s", s.Level)
	}
	if s.Filters.SelectedStockGroup != "Hardware" {
		t.Errorf("filter not recorded: %+v", s.Filters)
	}
}

func TestDrilldownChartBackClearsOnlyThatFilter(t *testing.T) {
	s := NewDrillState()
	s = Next(s, DrillEvent{Type: EventChartBarClicked, Dimension: DimStockGroup, Value: "Hardware"})
	s = Next(s, DrillEvent{Type: EventChartBarClicked, Dimension: DimPinCode, Value: "560001"})

	s = Next(s, DrillEvent{Type: EventChartBack, Dimension: DimStockGroup})
	if s.Filters.SelectedStockGroup != FilterAll {
		t.Error("stock group filter should be cleared")
	}
	if s.Filters.SelectedPinCode != "560001" {
		t.Error("pin code filter must stay active; filters are independent")
	}
	if s.Level != LevelDimensionFiltered {
		t.Errorf("still filtered by pin code, expected dimension_filtered, got %s", s.Level)
	}

	s = Next(s, DrillEvent{Type: EventChartBack, Dimension: DimPinCode})
	if s.Level != LevelSummary {
		t.Errorf("all filters cleared, expected summary, got %s", s.Level)
	}
}

func TestDrilldownDescendAndClose(t *testing.T) {
	s := NewDrillState()
	s = Next(s, DrillEvent{Type: EventCardOpened, Dimension: DimCustomer})
	if s.Level != LevelEntityDrilldown || s.ListKind != DimCustomer {
		t.Fatalf("expected customer drilldown, got %+v", s)
	}

	s = Next(s, DrillEvent{Type: EventEntitySelected, Value: "Acme"})
	if s.Level != LevelInvoiceDetail || s.Entity != "Acme" {
		t.Fatalf("expected invoice detail for Acme, got %+v", s)
	}

	// Close pops exactly one level each time, never more.
	s = Next(s, DrillEvent{Type: EventModalClosed})
	if s.Level != LevelEntityDrilldown || s.Entity != "" {
		t.Fatalf("expected back at entity drilldown, got %+v", s)
	}
	s = Next(s, DrillEvent{Type: EventModalClosed})
	if s.Level != LevelSummary {
		t.Fatalf("expected summary, got %+v", s)
	}
	// A further close is a no-op.
	s = Next(s, DrillEvent{Type: EventModalClosed})
	if s.Level != LevelSummary {
		t.Errorf("close at summary must be a no-op, got %s", s.Level)
	}
}

func TestDrilldownCloseReturnsToFilteredView(t *testing.T) {
	s := NewDrillState()
	s = Next(s, DrillEvent{Type: EventChartBarClicked, Dimension: DimItem, Value: "Bolts"})
	s = Next(s, DrillEvent{Type: EventCardOpened, Dimension: DimCustomer})
	s = Next(s, DrillEvent{Type: EventModalClosed})

	if s.Level != LevelDimensionFiltered {
		t.Errorf("closing the drilldown must land on the filtered view, got %s", s.Level)
	}
	if s.Filters.SelectedItem != "Bolts" {
		t.Error("item filter must survive the round trip")
	}
}

func TestDrilldownInvalidEventsAreNoOps(t *testing.T) {
	s := NewDrillState()
	s = Next(s, DrillEvent{Type: EventCardOpened, Dimension: DimCustomer})
	s = Next(s, DrillEvent{Type: EventEntitySelected, Value: "Acme"})

	// Chart interactions are meaningless below the chart view.
	s = Next(s, DrillEvent{Type: EventChartBarClicked, Dimension: DimItem, Value: "Bolts"})
	if s.Level != LevelInvoiceDetail || s.Filters.SelectedItem != FilterAll {
		t.Error("chart click at invoice detail must not change state")
	}
	s = Next(s, DrillEvent{Type: EventEntitySelected, Value: "Globex"})
	if s.Entity != "Acme" {
		t.Error("entity selection outside the drilldown list must be ignored")
	}
}

func TestDrilldownApplyAndReset(t *testing.T) {
	s := NewDrillState()

	cfg := DefaultFilterConfig()
	cfg.SelectedCustomer = "Acme"
	cfg.Periodicity = Weekly
	cfg.MetricType = MetricProfit
	s = Next(s, DrillEvent{Type: EventFiltersApplied, Filters: &cfg})

	if s.Level != LevelDimensionFiltered {
		t.Errorf("applying a selection implies the filtered view, got %s", s.Level)
	}
	if s.Filters.Periodicity != Weekly || s.Filters.MetricType != MetricProfit {
		t.Errorf("applied config not taken: %+v", s.Filters)
	}

	// The applied config is copied, not shared.
	cfg.SelectedCustomer = "Globex"
	if s.Filters.SelectedCustomer != "Acme" {
		t.Error("state must hold its own copy of the applied config")
	}

	s = Next(s, DrillEvent{Type: EventFiltersReset})
	if s.Level != LevelSummary || s.Filters.HasSelection() {
		t.Errorf("reset must restore defaults, got %+v", s)
	}
}
