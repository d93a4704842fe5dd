package http

import (
	"context"
	"net/http"
	"strings"

	"ledgerview/internal/amqp"
	"ledgerview/internal/middleware/metrics"
	"ledgerview/internal/reports"
)

func (s *Server) handleVouchers(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	query := r.URL.Query()
	rng := ParseDateRange(query)

	report, err := s.reports.VoucherPage(ctx, reports.VoucherPageRequest{
		From:       rng.From,
		To:         rng.To,
		FilterKeys: ParseFilterKeys(query),
		GUID:       strings.TrimSpace(query.Get("guid")),
		LocationID: strings.TrimSpace(query.Get("locationId")),
		PageIndex:  ParsePageIndex(query),
	})
	if err != nil {
		writeReportError(ctx, w, err)
		return
	}

	NewJSONResponse().Payload(report).Write(w)
}

// handleRefresh publishes a refresh request for the sync worker and starts a
// new report generation, so stale in-flight results are discarded.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if s.publisher == nil {
		ServiceUnavailableError("refresh queue not configured").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	query := r.URL.Query()
	rng := ParseDateRange(query)
	msg := amqp.NewRefreshMessage(
		strings.TrimSpace(query.Get("guid")),
		strings.TrimSpace(query.Get("locationId")),
		rng.From,
		rng.To,
	)

	if err := s.publisher.PublishRefresh(ctx, msg); err != nil {
		writeReportError(ctx, w, err)
		return
	}
	metrics.CountRefreshRequest()

	generation := s.reports.BeginGeneration()
	NewJSONResponse().Status(http.StatusAccepted).Payload(map[string]string{
		"status":     "queued",
		"generation": generation,
		"from":       msg.From,
		"to":         msg.To,
	}).Write(w)
}
