package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docduel/docduel/internal/api/response"
	"github.com/docduel/docduel/internal/models"
)

// StatisticsService defines the interface for the aggregated evaluation
// report and the raw data export.
type StatisticsService interface {
	GetStats(ctx context.Context, dateRange *models.DateRange) (*models.StatsReport, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// StatsHandler handles HTTP requests for the evaluation report.
type StatsHandler struct {
	service StatisticsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service StatisticsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get handles GET /v1/stats with optional start and end query parameters
// (RFC 3339 timestamps or YYYY-MM-DD dates, both bounds inclusive).
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		response.RespondBadRequest(w, "start and end must be RFC 3339 timestamps or YYYY-MM-DD dates")

		return
	}

	report, err := h.service.GetStats(r.Context(), dateRange)
	if err != nil {
		response.RespondInternalServerError(w, "failed to compute stats")

		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Export handles GET /v1/stats/export, returning the full evaluation data as
// a downloadable CSV. The export is buffered before any header is written so
// a failed read still produces a clean error response.
func (h *StatsHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf); err != nil {
		response.RespondInternalServerError(w, "failed to export eval data")

		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="eval-data-%s.csv"`, time.Now().UTC().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func parseDateRange(start, end string) (*models.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	var dr models.DateRange

	if start != "" {
		t, err := parseTimestamp(start, false)
		if err != nil {
			return nil, err
		}
		dr.Start = t
	}

	if end != "" {
		t, err := parseTimestamp(end, true)
		if err != nil {
			return nil, err
		}
		dr.End = t
	}

	return &dr, nil
}

// parseTimestamp accepts RFC 3339 or a bare date. A bare end date is
// widened to the last instant of that day so the bound stays inclusive.
func parseTimestamp(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return t, nil
}
