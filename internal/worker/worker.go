// Package worker consumes report jobs from the Redis queue and runs the
// generation pipeline, recording outcomes in the report_runs ledger.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/roomtrack/backend/internal/report"
	"github.com/roomtrack/backend/pkg/queue"
	"github.com/roomtrack/backend/pkg/storage"
)

// ReportProcessor executes daily report jobs: generate artifacts, optionally
// upload them to S3, and record the run.
type ReportProcessor struct {
	engine *report.Engine
	runs   *report.RunRepository
	s3     *storage.S3 // nil disables uploads
	queue  *queue.Queue
	logger *zap.Logger
}

// NewReportProcessor creates a report job processor. s3 may be nil when no
// bucket is configured; artifacts then stay on local disk only.
func NewReportProcessor(engine *report.Engine, runs *report.RunRepository, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *ReportProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportProcessor{engine: engine, runs: runs, s3: s3, queue: q, logger: logger}
}

// Process executes one report job.
func (p *ReportProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeReport {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ReportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	result, err := p.engine.Generate(ctx, payload.Date)
	if err != nil {
		if report.NothingToReport(err) {
			// Not a failure: the day simply had no usable events. Record a
			// completed run so the scheduler stops retrying the date.
			p.logger.Info("nothing to report", zap.String("date", payload.Date), zap.Error(err))
			return p.runs.MarkCompleted(ctx, payload.Date, "", "", 0, 0)
		}
		if markErr := p.runs.MarkFailed(ctx, payload.Date, err.Error()); markErr != nil {
			p.logger.Error("mark failed run", zap.Error(markErr), zap.String("date", payload.Date))
		}
		return fmt.Errorf("generate report: %w", err)
	}

	detailKey, roomsKey := "", ""
	if payload.Upload && p.s3 != nil {
		detailKey, err = p.uploadArtifact(ctx, payload.Date, result.DetailPath)
		if err == nil {
			roomsKey, err = p.uploadArtifact(ctx, payload.Date, result.RoomsPath)
		}
		if err != nil {
			if markErr := p.runs.MarkFailed(ctx, payload.Date, err.Error()); markErr != nil {
				p.logger.Error("mark failed run", zap.Error(markErr), zap.String("date", payload.Date))
			}
			return err
		}
	}

	if err := p.runs.MarkCompleted(ctx, payload.Date, detailKey, roomsKey, len(result.DetailRows), len(result.RoomRows)); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	p.logger.Info("report job completed",
		zap.String("date", payload.Date),
		zap.String("requested_by", payload.Requested),
		zap.Int("participant_rows", len(result.DetailRows)),
		zap.Int("rooms", len(result.RoomRows)),
	)
	return nil
}

func (p *ReportProcessor) uploadArtifact(ctx context.Context, date, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return p.s3.UploadReport(ctx, date, filepath.Base(localPath), f)
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ReportProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("report worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
