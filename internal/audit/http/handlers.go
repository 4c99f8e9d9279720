package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/helmsman-kit/helmsman/internal/audit"
	"github.com/helmsman-kit/helmsman/internal/platform/httpx"
)

const (
	defaultDateRange = 7 * 24 * time.Hour
	maxDateRange     = 90 * 24 * time.Hour
)

// TimelineService defines the business contract for timeline data.
type TimelineService interface {
	Timeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error)
	Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.Entry, error)
}

// Handler serves the audit timeline endpoints.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
	now     func() time.Time
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, now: time.Now}
}

type timelineEntry struct {
	ID       int64          `json:"id"`
	ActorID  int64          `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

type timelineResponse struct {
	Entries  []timelineEntry `json:"entries"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasNext  bool            `json:"has_next"`
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filters", err.Error())
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resp := timelineResponse{
		Entries:  make([]timelineEntry, 0, len(result.Rows)),
		Page:     result.Paging.Page,
		PageSize: result.Paging.PageSize,
		HasNext:  result.Paging.HasNext,
	}
	for _, row := range result.Rows {
		resp.Entries = append(resp.Entries, toTimelineEntry(row))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filters", err.Error())
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit export", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	data, err := WriteCSV(rows)
	if err != nil {
		h.logger.Error("audit export csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-timeline.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseFilters reads query parameters, clamping the date range so an
// export cannot sweep the whole table.
func (h *Handler) parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		Entity: strings.TrimSpace(q.Get("entity")),
		Action: strings.TrimSpace(q.Get("action")),
	}
	if raw := strings.TrimSpace(q.Get("actor_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.ActorID = id
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, err
		}
		filters.From = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, err
		}
		filters.To = to
	}
	now := h.now()
	if filters.To.IsZero() {
		filters.To = now
	}
	if filters.From.IsZero() {
		filters.From = filters.To.Add(-defaultDateRange)
	}
	if filters.To.Sub(filters.From) > maxDateRange {
		filters.From = filters.To.Add(-maxDateRange)
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = size
	}
	return filters, nil
}

func toTimelineEntry(e audit.Entry) timelineEntry {
	return timelineEntry{
		ID:       e.ID,
		ActorID:  e.ActorID,
		Action:   e.Action,
		Entity:   e.Entity,
		EntityID: e.EntityID,
		Meta:     e.Meta,
		At:       e.At,
	}
}
