package report

import (
	"testing"
	"time"

	"github.com/roomtrack/backend/internal/models"
)

const minute = int64(60000)

// mapResolver is a NameResolver over a plain map.
type mapResolver map[string]string

func (m mapResolver) DisplayName(roomID string) (string, bool) {
	name, ok := m[roomID]
	return name, ok
}

func closedVisit(room string, enterTs, exitTs int64) *models.Visit {
	return &models.Visit{
		RoomID:          room,
		EnterTs:         enterTs,
		ExitTs:          &exitTs,
		DurationMinutes: models.MinutesBetween(enterTs, exitTs),
	}
}

func TestBuildParticipantRowsOrderingAndNextRoom(t *testing.T) {
	journeys := map[string]*models.Journey{
		"Bob": {
			ParticipantName: "Bob",
			MeetingEnterTs:  0,
			MeetingExitTs:   10 * minute,
			Visits:          []*models.Visit{closedVisit("uuid-a", 0, 10*minute)},
		},
		"Alice": {
			ParticipantName: "Alice",
			MeetingEnterTs:  0,
			MeetingExitTs:   20 * minute,
			Visits: []*models.Visit{
				closedVisit("uuid-a", 0, 5*minute),
				closedVisit("uuid-b", 10*minute, 20*minute),
			},
		},
	}
	names := mapResolver{"uuid-a": "Physics", "uuid-b": "Chemistry"}

	rows := BuildParticipantRows(journeys, names, time.UTC)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	// Alice's visits come first (name ascending), in visit order.
	if rows[0].ParticipantName != "Alice" || rows[2].ParticipantName != "Bob" {
		t.Errorf("row order: %q, %q, %q", rows[0].ParticipantName, rows[1].ParticipantName, rows[2].ParticipantName)
	}
	if rows[0].RoomName != "Physics" || rows[1].RoomName != "Chemistry" {
		t.Errorf("room names: %q, %q", rows[0].RoomName, rows[1].RoomName)
	}
	if rows[0].NextRoom != "Chemistry" {
		t.Errorf("NextRoom of first visit = %q, want Chemistry", rows[0].NextRoom)
	}
	if rows[1].NextRoom != models.NextRoomSentinel {
		t.Errorf("NextRoom of final visit = %q, want sentinel", rows[1].NextRoom)
	}
	if rows[2].NextRoom != models.NextRoomSentinel {
		t.Errorf("NextRoom of Bob's only visit = %q, want sentinel", rows[2].NextRoom)
	}
}

func TestBuildParticipantRowsPositionalFallback(t *testing.T) {
	journeys := map[string]*models.Journey{
		"Alice": {
			ParticipantName: "Alice",
			Visits: []*models.Visit{
				closedVisit("uuid-x", 0, 5*minute),
				closedVisit("uuid-y", 5*minute, 10*minute),
			},
		},
	}

	rows := BuildParticipantRows(journeys, mapResolver{}, time.UTC)
	if rows[0].RoomName != "Room-1" {
		t.Errorf("first fallback = %q, want Room-1", rows[0].RoomName)
	}
	if rows[1].RoomName != "Room-2" {
		t.Errorf("second fallback = %q, want Room-2", rows[1].RoomName)
	}
	if rows[0].NextRoom != "Room-2" {
		t.Errorf("NextRoom fallback = %q, want Room-2", rows[0].NextRoom)
	}
}

func TestBuildParticipantRowsOpenVisitHasNoLeftTime(t *testing.T) {
	journeys := map[string]*models.Journey{
		"Alice": {
			ParticipantName: "Alice",
			Visits:          []*models.Visit{{RoomID: "uuid-x", EnterTs: 0}},
		},
	}

	rows := BuildParticipantRows(journeys, mapResolver{}, time.UTC)
	if rows[0].RoomLeftTime != "" {
		t.Errorf("RoomLeftTime = %q, want empty for open visit", rows[0].RoomLeftTime)
	}
	if rows[0].RoomDurationMins != 0 {
		t.Errorf("RoomDurationMins = %v, want 0", rows[0].RoomDurationMins)
	}
}

func TestBuildParticipantRowsClockFormat(t *testing.T) {
	// 1970-01-01 01:02:03 UTC
	ts := int64((1*3600 + 2*60 + 3) * 1000)
	journeys := map[string]*models.Journey{
		"Alice": {
			ParticipantName: "Alice",
			MeetingEnterTs:  ts,
			MeetingExitTs:   ts,
			Visits:          []*models.Visit{closedVisit("uuid-x", ts, ts+minute)},
		},
	}

	rows := BuildParticipantRows(journeys, mapResolver{}, time.UTC)
	if rows[0].RoomJoinTime != "01:02:03" {
		t.Errorf("RoomJoinTime = %q, want 01:02:03", rows[0].RoomJoinTime)
	}
	if rows[0].MeetingJoinTime != "01:02:03" {
		t.Errorf("MeetingJoinTime = %q", rows[0].MeetingJoinTime)
	}
}

func TestBuildRoomSummaryOrderingAndFallback(t *testing.T) {
	roomA := models.NewRoom("aaaa-uuid-1234")
	roomA.Observe("Alice", models.KindEnter)
	roomA.Observe("Bob", models.KindEnter)

	roomB := models.NewRoom("bbbb-uuid-5678")
	roomB.Observe("Cara", models.KindEnter)

	roomC := models.NewRoom("cccc-uuid-9999")
	roomC.Observe("Dan", models.KindEnter)

	roomMap := map[string]*models.Room{
		roomA.ID: roomA,
		roomB.ID: roomB,
		roomC.ID: roomC,
	}
	rows := BuildRoomSummary(roomMap, mapResolver{roomA.ID: "Physics"})

	if rows[0].RoomName != "Physics" || rows[0].TotalParticipants != 2 {
		t.Errorf("rows[0] = %+v, want Physics with 2 participants", rows[0])
	}
	// Tie between roomB and roomC resolves by UUID ascending.
	if rows[1].RoomUUID != roomB.ID || rows[2].RoomUUID != roomC.ID {
		t.Errorf("tie-break order: %q then %q", rows[1].RoomUUID, rows[2].RoomUUID)
	}
	// Unnamed rooms use the short-UUID placeholder.
	if rows[1].RoomName != "Room-bbbb-uui" {
		t.Errorf("fallback name = %q", rows[1].RoomName)
	}
}

func TestParticipantRowRecordFormatting(t *testing.T) {
	row := models.ParticipantRow{
		ParticipantName:     "Alice",
		Email:               "alice@example.com",
		MeetingDurationMins: 12.5,
		RoomDurationMins:    5,
		CameraOnMins:        2.5,
		CameraOffMins:       2.5,
		CameraOnPercent:     50,
		NextRoom:            models.NextRoomSentinel,
	}
	rec := row.Record()
	if len(rec) != len(models.DetailColumns) {
		t.Fatalf("record has %d fields, header has %d", len(rec), len(models.DetailColumns))
	}
	if rec[4] != "12.5" {
		t.Errorf("meeting duration field = %q, want 12.5", rec[4])
	}
	if rec[8] != "5.0" {
		t.Errorf("room duration field = %q, want 5.0", rec[8])
	}
	if rec[11] != "50.0%" {
		t.Errorf("camera percent field = %q, want 50.0%%", rec[11])
	}
}
