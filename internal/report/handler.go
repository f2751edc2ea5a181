package report

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roomtrack/backend/internal/models"
	"github.com/roomtrack/backend/pkg/queue"
	"github.com/roomtrack/backend/pkg/response"
)

// Presigner issues download URLs for stored report artifacts.
type Presigner interface {
	PresignDownloadURL(ctx context.Context, key string) (string, error)
}

// EventCounter reports how many raw events were captured for a day.
type EventCounter interface {
	CountForDay(ctx context.Context, date string) (int, error)
}

// MonitorCounter reports connected live-feed clients.
type MonitorCounter interface {
	ClientCount() int
}

// Handler serves the operator-facing report endpoints.
type Handler struct {
	runs     *RunRepository
	jobs     *queue.Queue
	presign  Presigner // nil when no bucket is configured
	counter  EventCounter
	monitors MonitorCounter
	loc      *time.Location
	upload   bool
	logger   *zap.Logger
}

// NewHandler creates the report admin handler.
func NewHandler(runs *RunRepository, jobs *queue.Queue, presign Presigner, counter EventCounter, monitors MonitorCounter, loc *time.Location, upload bool, logger *zap.Logger) *Handler {
	return &Handler{
		runs:     runs,
		jobs:     jobs,
		presign:  presign,
		counter:  counter,
		monitors: monitors,
		loc:      loc,
		upload:   upload,
		logger:   logger,
	}
}

// List handles GET /reports: the most recent report runs.
func (h *Handler) List(c *gin.Context) {
	runs, err := h.runs.ListRecent(c.Request.Context(), 30)
	if err != nil {
		h.logger.Error("list runs failed", zap.Error(err))
		response.Internal(c, "could not list report runs")
		return
	}
	response.OK(c, gin.H{"runs": runs})
}

// GenerateRequest is the body for POST /reports/generate.
type GenerateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD; defaults to today
}

// Generate handles POST /reports/generate: enqueues a report job.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date := req.Date
	if date == "" {
		date = time.Now().In(h.loc).Format("2006-01-02")
	}
	if _, err := time.ParseInLocation("2006-01-02", date, h.loc); err != nil {
		response.BadRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}

	err := h.jobs.EnqueueReport(c.Request.Context(), queue.ReportPayload{
		Date:      date,
		Requested: "operator",
		Upload:    h.upload,
	})
	if err != nil {
		h.logger.Error("enqueue report failed", zap.Error(err), zap.String("date", date))
		response.Internal(c, "could not enqueue report job")
		return
	}
	response.Accepted(c, gin.H{"date": date, "status": "queued"})
}

// DownloadURL handles GET /reports/:date/download-url: presigned links for a
// completed run's artifacts.
func (h *Handler) DownloadURL(c *gin.Context) {
	date := c.Param("date")
	run, err := h.runs.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("get run failed", zap.Error(err), zap.String("date", date))
		response.Internal(c, "could not load report run")
		return
	}
	if run == nil || run.Status != models.RunStatusCompleted {
		response.NotFound(c, "no completed report for date")
		return
	}
	if h.presign == nil || run.DetailKey == "" {
		response.NotFound(c, "no stored artifacts for date")
		return
	}

	detailURL, err := h.presign.PresignDownloadURL(c.Request.Context(), run.DetailKey)
	if err != nil {
		h.logger.Error("presign failed", zap.Error(err), zap.String("key", run.DetailKey))
		response.Internal(c, "could not presign download")
		return
	}
	roomsURL := ""
	if run.RoomsKey != "" {
		roomsURL, err = h.presign.PresignDownloadURL(c.Request.Context(), run.RoomsKey)
		if err != nil {
			h.logger.Error("presign failed", zap.Error(err), zap.String("key", run.RoomsKey))
			response.Internal(c, "could not presign download")
			return
		}
	}
	response.OK(c, gin.H{"date": date, "detail_url": detailURL, "rooms_url": roomsURL})
}

// TodayStats handles GET /stats/today: captured event count and connected
// monitors for the current day.
func (h *Handler) TodayStats(c *gin.Context) {
	date := time.Now().In(h.loc).Format("2006-01-02")
	count, err := h.counter.CountForDay(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("count events failed", zap.Error(err), zap.String("date", date))
		response.Internal(c, "could not count events")
		return
	}
	monitors := 0
	if h.monitors != nil {
		monitors = h.monitors.ClientCount()
	}
	response.OK(c, gin.H{"date": date, "events": count, "monitors": monitors})
}
