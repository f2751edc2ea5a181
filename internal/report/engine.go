package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roomtrack/backend/internal/ingest"
	"github.com/roomtrack/backend/internal/journey"
	"github.com/roomtrack/backend/internal/models"
	"github.com/roomtrack/backend/internal/qos"
	"github.com/roomtrack/backend/internal/rooms"
)

var (
	// ErrNoEvents means no captured events exist for the requested day.
	ErrNoEvents = errors.New("no event data for requested day")
	// ErrNoRooms means events existed but none referenced a breakout room.
	ErrNoRooms = errors.New("no breakout rooms reconstructed for requested day")
)

// NothingToReport reports whether err is the recoverable "nothing to report"
// outcome rather than a failure.
func NothingToReport(err error) bool {
	return errors.Is(err, ErrNoEvents) || errors.Is(err, ErrNoRooms)
}

// EventSource supplies one day's captured raw event records, in ingestion
// order, already filtered to the target date.
type EventSource interface {
	EventsForDay(ctx context.Context, date string) ([]map[string]any, error)
}

// SampleSource supplies per-participant aggregate camera samples for the
// target day's meeting instance.
type SampleSource interface {
	CameraSamples(ctx context.Context, date string) (map[string]models.CameraSample, error)
}

// Engine runs the full reconstruction pipeline for one day: normalize,
// aggregate, reconstruct journeys, allocate camera time, synthesize and write
// the artifacts. It is a synchronous batch transform; all inputs are
// materialized before processing starts.
type Engine struct {
	events  EventSource
	samples SampleSource
	names   NameResolver
	writer  *Writer
	loc     *time.Location
	logger  *zap.Logger
}

// Result describes a completed generation run.
type Result struct {
	Date       string
	DetailPath string
	RoomsPath  string
	Stats      ingest.Stats
	DetailRows []models.ParticipantRow
	RoomRows   []models.RoomSummaryRow
}

// NewEngine wires the engine's collaborators. samples may be nil when no
// camera source is configured; allocation then stays zero.
func NewEngine(events EventSource, samples SampleSource, names NameResolver, writer *Writer, loc *time.Location, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{events: events, samples: samples, names: names, writer: writer, loc: loc, logger: logger}
}

// Generate produces the report artifacts for one date (YYYY-MM-DD).
// ErrNoEvents / ErrNoRooms are the recoverable "nothing to report" outcomes;
// any other error (including a failed artifact write) is a failed run.
func (e *Engine) Generate(ctx context.Context, date string) (*Result, error) {
	records, err := e.events.EventsForDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoEvents
	}

	events, stats := ingest.Normalize(records)
	e.logger.Info("normalized events",
		zap.String("date", date),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.Rejected),
	)

	roomMap := rooms.Aggregate(events)
	if len(roomMap) == 0 {
		return nil, ErrNoRooms
	}
	journeys := journey.Reconstruct(events)

	samples := map[string]models.CameraSample{}
	if e.samples != nil {
		samples, err = e.samples.CameraSamples(ctx, date)
		if err != nil {
			// Camera data is an approximation layer; a failed fetch degrades
			// to zero allocation instead of failing the run.
			e.logger.Warn("camera sample fetch failed", zap.String("date", date), zap.Error(err))
			samples = map[string]models.CameraSample{}
		}
	}
	qos.Allocate(journeys, samples)

	detailRows := BuildParticipantRows(journeys, e.names, e.loc)
	roomRows := BuildRoomSummary(roomMap, e.names)

	detailPath, roomsPath, err := e.writer.Write(date, detailRows, roomRows)
	if err != nil {
		return nil, fmt.Errorf("write report artifacts: %w", err)
	}

	e.logger.Info("report generated",
		zap.String("date", date),
		zap.Int("rooms", len(roomRows)),
		zap.Int("participants", len(journeys)),
		zap.String("detail", detailPath),
		zap.String("rooms_file", roomsPath),
	)
	return &Result{
		Date:       date,
		DetailPath: detailPath,
		RoomsPath:  roomsPath,
		Stats:      stats,
		DetailRows: detailRows,
		RoomRows:   roomRows,
	}, nil
}
