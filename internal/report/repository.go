package report

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomtrack/backend/internal/models"
)

// RunRepository is the report_runs ledger: at most one row per report date.
// It replaces in-process "report already generated today" flags with state
// the scheduler can query across restarts.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a run ledger repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// HasPendingRun reports whether the date still needs a report: true when no
// completed run exists for it.
func (r *RunRepository) HasPendingRun(ctx context.Context, date string) (bool, error) {
	const q = `SELECT COUNT(*) FROM report_runs WHERE report_date = $1 AND status = 'completed'`
	var n int
	if err := r.pool.QueryRow(ctx, q, date).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// GetByDate returns the run for a date, or nil when none exists.
func (r *RunRepository) GetByDate(ctx context.Context, date string) (*models.ReportRun, error) {
	const q = `SELECT id, report_date::TEXT, status, detail_key, rooms_key, participants, rooms, detail, created_at, updated_at
		FROM report_runs WHERE report_date = $1`
	run, err := r.scanRun(r.pool.QueryRow(ctx, q, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// ListRecent returns the most recent runs, newest first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]models.ReportRun, error) {
	const q = `SELECT id, report_date::TEXT, status, detail_key, rooms_key, participants, rooms, detail, created_at, updated_at
		FROM report_runs ORDER BY report_date DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ReportRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *run)
	}
	return list, rows.Err()
}

// MarkCompleted upserts a completed run with its artifact keys and counts.
func (r *RunRepository) MarkCompleted(ctx context.Context, date, detailKey, roomsKey string, participants, roomCount int) error {
	const q = `INSERT INTO report_runs (report_date, status, detail_key, rooms_key, participants, rooms, detail)
		VALUES ($1, 'completed', $2, $3, $4, $5, '')
		ON CONFLICT (report_date) DO UPDATE
		SET status = 'completed', detail_key = $2, rooms_key = $3, participants = $4, rooms = $5, detail = '', updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, date, detailKey, roomsKey, participants, roomCount)
	return err
}

// MarkFailed upserts a failed run with its reason. A later successful run
// overwrites it.
func (r *RunRepository) MarkFailed(ctx context.Context, date, reason string) error {
	const q = `INSERT INTO report_runs (report_date, status, detail)
		VALUES ($1, 'failed', $2)
		ON CONFLICT (report_date) DO UPDATE
		SET status = 'failed', detail = $2, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, date, reason)
	return err
}

func (r *RunRepository) scanRun(row pgx.Row) (*models.ReportRun, error) {
	var run models.ReportRun
	err := row.Scan(&run.ID, &run.ReportDate, &run.Status, &run.DetailKey, &run.RoomsKey,
		&run.Participants, &run.Rooms, &run.Detail, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
