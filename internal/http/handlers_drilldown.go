package http

import (
	"context"
	"net/http"
	"strings"

	"ledgerview/internal/core"
	"ledgerview/internal/reports"
)

func (s *Server) handleDrilldownCustomers(w http.ResponseWriter, r *http.Request) {
	s.handleDrilldown(w, r, core.DimCustomer)
}

func (s *Server) handleDrilldownItems(w http.ResponseWriter, r *http.Request) {
	s.handleDrilldown(w, r, core.DimItem)
}

func (s *Server) handleDrilldown(w http.ResponseWriter, r *http.Request, dim core.Dimension) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	query := r.URL.Query()
	rng := ParseDateRange(query)

	report, err := s.reports.Drilldown(ctx, reports.DrilldownRequest{
		Dimension: dim,
		From:      rng.From,
		To:        rng.To,
		Filters:   ParseFilterConfig(query),
	})
	if err != nil {
		writeReportError(ctx, w, err)
		return
	}

	NewJSONResponse().Payload(report).Write(w)
}

func (s *Server) handleEntityInvoices(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	query := r.URL.Query()
	entity := strings.TrimSpace(query.Get("entity"))
	if entity == "" {
		BadRequestError("entity parameter is required").Write(w)
		return
	}

	dim := core.Dimension(query.Get("dimension"))
	if dim == "" {
		dim = core.DimCustomer
	}
	if !dim.IsValid() {
		BadRequestError("unknown dimension").Write(w)
		return
	}

	rng := ParseDateRange(query)
	report, err := s.reports.EntityInvoices(ctx, reports.EntityInvoicesRequest{
		Dimension: dim,
		Entity:    entity,
		From:      rng.From,
		To:        rng.To,
		Filters:   ParseFilterConfig(query),
	})
	if err != nil {
		writeReportError(ctx, w, err)
		return
	}

	NewJSONResponse().Payload(report).Write(w)
}
