// Package ingest turns opaque webhook payload records into normalized
// membership events.
package ingest

import (
	"encoding/json"
	"strings"

	"github.com/roomtrack/backend/internal/models"
)

// Stats counts the outcome of one normalization pass. Malformed records are
// dropped silently, never reported individually; the counts are kept for
// diagnostics.
type Stats struct {
	Accepted int
	Rejected int
}

// Normalize parses raw event records into RawEvents, preserving ingestion
// order. A record is rejected when it has no room UUID or no participant
// name - both are required for any downstream attribution.
func Normalize(records []map[string]any) ([]models.RawEvent, Stats) {
	var stats Stats
	events := make([]models.RawEvent, 0, len(records))
	for _, rec := range records {
		ev, ok := normalizeOne(rec)
		if !ok {
			stats.Rejected++
			continue
		}
		stats.Accepted++
		events = append(events, ev)
	}
	return events, stats
}

func normalizeOne(rec map[string]any) (models.RawEvent, bool) {
	f := Fields(rec)
	ev, err := models.NewRawEvent(Classify(f.Event), f.EventTs, f.RoomUUID, f.Name, f.Email)
	if err != nil {
		return models.RawEvent{}, false
	}
	return ev, true
}

// RecordFields are the raw values extracted from one payload record, before
// validation.
type RecordFields struct {
	Event    string
	RoomUUID string
	Name     string
	Email    string
	EventTs  int64
}

// Fields extracts the membership fields from a webhook payload record:
// event kind at the top level, room and participant under payload.object.
func Fields(rec map[string]any) RecordFields {
	var f RecordFields
	f.Event, _ = rec["event"].(string)

	object := childMap(childMap(rec, "payload"), "object")
	participant := childMap(object, "participant")

	f.RoomUUID, _ = object["breakout_room_uuid"].(string)
	f.Name, _ = participant["user_name"].(string)
	f.Email, _ = participant["email"].(string)
	f.EventTs = asInt64(rec["event_ts"])
	return f
}

// Classify maps an event-kind string to ENTER or EXIT: anything carrying a
// "joined" marker is an entry, everything else an exit.
func Classify(event string) models.EventKind {
	if strings.Contains(event, "joined") {
		return models.KindEnter
	}
	return models.KindExit
}

func childMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	child, _ := m[key].(map[string]any)
	return child
}

// asInt64 handles the numeric shapes a decoded JSON timestamp can take.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
