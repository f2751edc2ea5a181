// Package scheduler decides when the daily report job should be enqueued.
//
// On meeting days the report is scheduled a configurable number of hours
// after the meeting end time, giving Zoom's QOS dashboard time to settle.
// The decision is driven by the report_runs ledger rather than in-process
// state, so a restarted worker never double-fires and never misses a day.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/pkg/queue"
)

const (
	// pollInterval is how often the schedule is evaluated.
	pollInterval = time.Minute
	// fireWindow bounds how long after the scheduled time a missed report
	// is still enqueued automatically. Older gaps are left to the operator.
	fireWindow = 30 * time.Minute
)

// PendingRuns is the ledger view the scheduler needs.
type PendingRuns interface {
	HasPendingRun(ctx context.Context, date string) (bool, error)
}

// Enqueuer submits report jobs.
type Enqueuer interface {
	EnqueueReport(ctx context.Context, payload queue.ReportPayload) error
}

// Scheduler fires the daily report job at the configured time.
type Scheduler struct {
	cfg    config.ScheduleConfig
	runs   PendingRuns
	jobs   Enqueuer
	loc    *time.Location
	upload bool
	logger *zap.Logger

	now func() time.Time
}

// New creates a scheduler. upload controls whether generated artifacts are
// pushed to S3 by the worker.
func New(cfg config.ScheduleConfig, runs PendingRuns, jobs Enqueuer, loc *time.Location, upload bool, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:    cfg,
		runs:   runs,
		jobs:   jobs,
		loc:    loc,
		upload: upload,
		logger: logger,
		now:    time.Now,
	}
}

// Run evaluates the schedule every minute until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	s.logger.Info("scheduler started",
		zap.Ints("meeting_days", s.cfg.MeetingDays),
		zap.Int("end_hour", s.cfg.EndHour),
		zap.Int("report_delay_hours", s.cfg.ReportDelayHours),
	)

	for {
		if err := s.Tick(ctx); err != nil {
			s.logger.Error("schedule tick failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick enqueues today's report job when the scheduled time has arrived and
// no completed run exists yet. Exported for tests.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now().In(s.loc)
	if !s.isMeetingDay(now) {
		return nil
	}

	fireAt := s.fireTime(now)
	if now.Before(fireAt) || now.After(fireAt.Add(fireWindow)) {
		return nil
	}

	date := now.Format("2006-01-02")
	pending, err := s.runs.HasPendingRun(ctx, date)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}

	s.logger.Info("enqueuing scheduled report", zap.String("date", date))
	return s.jobs.EnqueueReport(ctx, queue.ReportPayload{
		Date:      date,
		Requested: "schedule",
		Upload:    s.upload,
	})
}

func (s *Scheduler) isMeetingDay(now time.Time) bool {
	wd := int(now.Weekday())
	for _, d := range s.cfg.MeetingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// fireTime is the meeting end time plus the report delay, on now's date.
func (s *Scheduler) fireTime(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(),
		s.cfg.EndHour+s.cfg.ReportDelayHours, s.cfg.EndMinute, 0, 0, s.loc)
}
