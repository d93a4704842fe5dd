package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"ledgerview/internal/core"
	"ledgerview/internal/log"
	"ledgerview/internal/middleware/trace"
	"ledgerview/internal/reports"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	query := r.URL.Query()
	rng := ParseDateRange(query)

	report, err := s.reports.Dashboard(ctx, reports.DashboardRequest{
		From:    rng.From,
		To:      rng.To,
		Filters: ParseFilterConfig(query),
	})
	if err != nil {
		writeReportError(ctx, w, err)
		return
	}

	NewJSONResponse().Payload(report).Write(w)
}

// writeReportError maps service errors onto HTTP statuses. A stale generation
// is a conflict the client resolves by re-querying, not a server fault.
func writeReportError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reports.ErrStaleGeneration):
		ErrorResponse(http.StatusConflict, "filters changed, retry the query").Write(w)
	case errors.Is(err, core.ErrInvalidDimension),
		errors.Is(err, core.ErrInvalidPeriodicity),
		errors.Is(err, core.ErrInvalidMetric):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, context.DeadlineExceeded):
		ErrorResponse(http.StatusGatewayTimeout, "report timed out").Write(w)
	default:
		slog.ErrorContext(ctx, "Report computation failed",
			log.FieldError, err,
			log.FieldRequestID, trace.GetRequestID(ctx))
		InternalServerError("report computation failed").Write(w)
	}
}
