package ingest

import (
	"testing"

	"github.com/roomtrack/backend/internal/models"
)

func record(event, room, name, email string, ts int64) map[string]any {
	return map[string]any{
		"event":    event,
		"event_ts": ts,
		"payload": map[string]any{
			"object": map[string]any{
				"breakout_room_uuid": room,
				"participant": map[string]any{
					"user_name": name,
					"email":     email,
				},
			},
		},
	}
}

func TestNormalizeAcceptsWellFormedRecords(t *testing.T) {
	records := []map[string]any{
		record("meeting.participant_joined_breakout_room", "room-a", "Alice", "alice@example.com", 1000),
		record("meeting.participant_left_breakout_room", "room-a", "Alice", "", 2000),
	}

	events, stats := Normalize(records)
	if stats.Accepted != 2 || stats.Rejected != 0 {
		t.Fatalf("stats = %+v, want 2 accepted 0 rejected", stats)
	}
	if events[0].Kind != models.KindEnter {
		t.Errorf("first event kind = %q, want ENTER", events[0].Kind)
	}
	if events[1].Kind != models.KindExit {
		t.Errorf("second event kind = %q, want EXIT", events[1].Kind)
	}
	if events[0].RoomID != "room-a" || events[0].ParticipantName != "Alice" {
		t.Errorf("attribution = %q/%q, want room-a/Alice", events[0].RoomID, events[0].ParticipantName)
	}
	if events[0].ParticipantEmail != "alice@example.com" {
		t.Errorf("email = %q", events[0].ParticipantEmail)
	}
}

func TestNormalizeRejectsMissingAttribution(t *testing.T) {
	records := []map[string]any{
		record("meeting.participant_joined_breakout_room", "", "Alice", "", 1000),
		record("meeting.participant_joined_breakout_room", "room-a", "", "", 2000),
		record("meeting.participant_joined_breakout_room", "room-a", "Bob", "", 3000),
	}

	events, stats := Normalize(records)
	if stats.Accepted != 1 || stats.Rejected != 2 {
		t.Fatalf("stats = %+v, want 1 accepted 2 rejected", stats)
	}
	if len(events) != 1 || events[0].ParticipantName != "Bob" {
		t.Fatalf("events = %+v, want only Bob's", events)
	}
}

func TestNormalizePreservesIngestionOrder(t *testing.T) {
	records := []map[string]any{
		record("meeting.participant_joined_breakout_room", "room-a", "Alice", "", 3000),
		record("meeting.participant_joined_breakout_room", "room-a", "Bob", "", 1000),
		record("meeting.participant_joined_breakout_room", "room-a", "Cara", "", 2000),
	}

	events, _ := Normalize(records)
	want := []string{"Alice", "Bob", "Cara"}
	for i, name := range want {
		if events[i].ParticipantName != name {
			t.Errorf("events[%d] = %q, want %q", i, events[i].ParticipantName, name)
		}
	}
}

func TestNormalizeHandlesFloatTimestamps(t *testing.T) {
	rec := record("meeting.participant_joined_breakout_room", "room-a", "Alice", "", 0)
	rec["event_ts"] = float64(1712345678901)

	events, stats := Normalize([]map[string]any{rec})
	if stats.Accepted != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if events[0].TimestampMillis != 1712345678901 {
		t.Errorf("timestamp = %d, want 1712345678901", events[0].TimestampMillis)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		event string
		want  models.EventKind
	}{
		{"meeting.participant_joined_breakout_room", models.KindEnter},
		{"meeting.participant_left_breakout_room", models.KindExit},
		{"meeting.participant_left_meeting", models.KindExit},
		{"", models.KindExit},
	}
	for _, tc := range cases {
		if got := Classify(tc.event); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.event, got, tc.want)
		}
	}
}
