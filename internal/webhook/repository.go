package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomtrack/backend/internal/models"
)

// Repository persists raw webhook deliveries and serves them back per day.
type Repository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewRepository creates a webhook event repository. loc defines the day
// boundary for date-filtered reads.
func NewRepository(pool *pgxpool.Pool, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{pool: pool, loc: loc}
}

// Insert stores one delivery with its extracted index fields.
func (r *Repository) Insert(ctx context.Context, ev *models.WebhookEvent) error {
	const q = `INSERT INTO webhook_events (event, room_uuid, participant_name, participant_email, event_ts, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, received_at`
	return r.pool.QueryRow(ctx, q, ev.Event, ev.RoomUUID, ev.ParticipantName, ev.ParticipantEmail, ev.EventTs, ev.Payload).
		Scan(&ev.ID, &ev.ReceivedAt)
}

// EventsForDay returns the day's raw payload records in ingestion order. It
// is the engine's event source.
func (r *Repository) EventsForDay(ctx context.Context, date string) ([]map[string]any, error) {
	start, end, err := r.dayBounds(date)
	if err != nil {
		return nil, err
	}
	const q = `SELECT payload FROM webhook_events
		WHERE event_ts >= $1 AND event_ts < $2
		ORDER BY received_at, event_ts`
	rows, err := r.pool.Query(ctx, q, start, end)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec map[string]any
		if err := json.Unmarshal(payload, &rec); err != nil {
			continue // unreadable archive row; the normalizer counts the rest
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountForDay returns how many deliveries were captured for a date.
func (r *Repository) CountForDay(ctx context.Context, date string) (int, error) {
	start, end, err := r.dayBounds(date)
	if err != nil {
		return 0, err
	}
	const q = `SELECT COUNT(*) FROM webhook_events WHERE event_ts >= $1 AND event_ts < $2`
	var n int
	if err := r.pool.QueryRow(ctx, q, start, end).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// dayBounds converts a YYYY-MM-DD date to its epoch-millisecond half-open
// interval in the repository's timezone.
func (r *Repository) dayBounds(date string) (startMillis, endMillis int64, err error) {
	day, err := time.ParseInLocation("2006-01-02", date, r.loc)
	if err != nil {
		return 0, 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	start := day
	end := day.AddDate(0, 0, 1)
	return start.UnixMilli(), end.UnixMilli(), nil
}
