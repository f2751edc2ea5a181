package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomtrack/backend/internal/models"
)

type fakeEvents struct {
	records []map[string]any
	err     error
}

func (f *fakeEvents) EventsForDay(_ context.Context, _ string) ([]map[string]any, error) {
	return f.records, f.err
}

type fakeSamples struct {
	samples map[string]models.CameraSample
	err     error
}

func (f *fakeSamples) CameraSamples(_ context.Context, _ string) (map[string]models.CameraSample, error) {
	return f.samples, f.err
}

func webhookRecord(event, room, name string, ts int64) map[string]any {
	return map[string]any{
		"event":    event,
		"event_ts": ts,
		"payload": map[string]any{
			"object": map[string]any{
				"breakout_room_uuid": room,
				"participant":        map[string]any{"user_name": name},
			},
		},
	}
}

func TestEngineGenerateEndToEnd(t *testing.T) {
	events := &fakeEvents{records: []map[string]any{
		webhookRecord("meeting.participant_joined_breakout_room", "uuid-a", "Alice", 0),
		webhookRecord("meeting.participant_left_breakout_room", "uuid-a", "Alice", 600000),
	}}
	samples := &fakeSamples{samples: map[string]models.CameraSample{
		"Alice": {OnUnits: 5, OffUnits: 5},
	}}
	writer := NewWriter(t.TempDir())
	engine := NewEngine(events, samples, mapResolver{"uuid-a": "Physics"}, writer, time.UTC, nil)

	result, err := engine.Generate(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Stats.Accepted != 2 {
		t.Errorf("accepted = %d, want 2", result.Stats.Accepted)
	}
	if len(result.DetailRows) != 1 {
		t.Fatalf("detail rows = %d, want 1", len(result.DetailRows))
	}
	row := result.DetailRows[0]
	if row.RoomName != "Physics" || row.RoomDurationMins != 10.0 {
		t.Errorf("row = %+v", row)
	}
	if row.CameraOnMins != 5.0 || row.CameraOnPercent != 50.0 {
		t.Errorf("camera allocation = %v on, %v%%", row.CameraOnMins, row.CameraOnPercent)
	}
	if len(result.RoomRows) != 1 || result.RoomRows[0].TotalJoins != 1 {
		t.Errorf("room rows = %+v", result.RoomRows)
	}
}

func TestEngineGenerateNoEvents(t *testing.T) {
	engine := NewEngine(&fakeEvents{}, nil, mapResolver{}, NewWriter(t.TempDir()), time.UTC, nil)

	_, err := engine.Generate(context.Background(), "2026-03-02")
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("err = %v, want ErrNoEvents", err)
	}
	if !NothingToReport(err) {
		t.Error("ErrNoEvents should be a nothing-to-report outcome")
	}
}

func TestEngineGenerateNoRooms(t *testing.T) {
	// Events exist but all are rejected (no room attribution).
	events := &fakeEvents{records: []map[string]any{
		webhookRecord("meeting.participant_joined_breakout_room", "", "Alice", 0),
	}}
	engine := NewEngine(events, nil, mapResolver{}, NewWriter(t.TempDir()), time.UTC, nil)

	_, err := engine.Generate(context.Background(), "2026-03-02")
	if !errors.Is(err, ErrNoRooms) {
		t.Fatalf("err = %v, want ErrNoRooms", err)
	}
}

func TestEngineGenerateSampleFetchFailureDegradesToZero(t *testing.T) {
	events := &fakeEvents{records: []map[string]any{
		webhookRecord("meeting.participant_joined_breakout_room", "uuid-a", "Alice", 0),
		webhookRecord("meeting.participant_left_breakout_room", "uuid-a", "Alice", 600000),
	}}
	samples := &fakeSamples{err: errors.New("zoom api down")}
	engine := NewEngine(events, samples, mapResolver{}, NewWriter(t.TempDir()), time.UTC, nil)

	result, err := engine.Generate(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.DetailRows[0].CameraOnMins != 0 {
		t.Errorf("camera on = %v, want 0 after sample failure", result.DetailRows[0].CameraOnMins)
	}
}

func TestEngineGenerateEventSourceFailure(t *testing.T) {
	events := &fakeEvents{err: errors.New("db down")}
	engine := NewEngine(events, nil, mapResolver{}, NewWriter(t.TempDir()), time.UTC, nil)

	_, err := engine.Generate(context.Background(), "2026-03-02")
	if err == nil || NothingToReport(err) {
		t.Fatalf("err = %v, want hard failure", err)
	}
}
