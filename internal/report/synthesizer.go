// Package report joins rooms, journeys and allocated camera time into the
// daily tabular artifacts.
package report

import (
	"sort"
	"time"

	"github.com/roomtrack/backend/internal/models"
	"github.com/roomtrack/backend/internal/rooms"
)

const clockLayout = "15:04:05"

// NameResolver looks up the configured display name for a room.
type NameResolver interface {
	DisplayName(roomID string) (string, bool)
}

// BuildParticipantRows produces one row per (participant, visit), ordered by
// participant name ascending then visit order. Unnamed rooms fall back to a
// positional placeholder; the final visit's next room is the sentinel.
func BuildParticipantRows(journeys map[string]*models.Journey, names NameResolver, loc *time.Location) []models.ParticipantRow {
	participants := make([]string, 0, len(journeys))
	for name := range journeys {
		participants = append(participants, name)
	}
	sort.Strings(participants)

	var out []models.ParticipantRow
	for _, name := range participants {
		j := journeys[name]
		meetingJoin := formatMillis(j.MeetingEnterTs, loc)
		meetingLeft := formatMillis(j.MeetingExitTs, loc)

		for idx, v := range j.Visits {
			row := models.ParticipantRow{
				ParticipantName:     name,
				Email:               j.Email,
				MeetingJoinTime:     meetingJoin,
				MeetingLeftTime:     meetingLeft,
				MeetingDurationMins: j.MeetingDurationMinutes,
				RoomName:            visitRoomName(names, v.RoomID, idx+1),
				RoomJoinTime:        formatMillis(v.EnterTs, loc),
				RoomDurationMins:    v.DurationMinutes,
				CameraOnMins:        v.CameraOnMinutes,
				CameraOffMins:       v.CameraOffMinutes,
				CameraOnPercent:     v.CameraOnPercent,
				NextRoom:            models.NextRoomSentinel,
			}
			if v.ExitTs != nil {
				row.RoomLeftTime = formatMillis(*v.ExitTs, loc)
			}
			if idx+1 < len(j.Visits) {
				row.NextRoom = visitRoomName(names, j.Visits[idx+1].RoomID, idx+2)
			}
			out = append(out, row)
		}
	}
	return out
}

// BuildRoomSummary produces one row per room, ordered by participant count
// descending with room UUID ascending as tie-break so output is byte-stable.
func BuildRoomSummary(roomMap map[string]*models.Room, names NameResolver) []models.RoomSummaryRow {
	out := make([]models.RoomSummaryRow, 0, len(roomMap))
	for id, room := range roomMap {
		name, ok := names.DisplayName(id)
		if !ok {
			name = rooms.ShortUUIDName(id)
		}
		out = append(out, models.RoomSummaryRow{
			RoomName:          name,
			RoomUUID:          id,
			TotalParticipants: len(room.Participants),
			TotalJoins:        room.EntryCount,
			Participants:      room.SortedParticipants(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalParticipants != out[j].TotalParticipants {
			return out[i].TotalParticipants > out[j].TotalParticipants
		}
		return out[i].RoomUUID < out[j].RoomUUID
	})
	return out
}

func visitRoomName(names NameResolver, roomID string, position int) string {
	if name, ok := names.DisplayName(roomID); ok {
		return name
	}
	return rooms.PositionalName(position)
}

func formatMillis(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format(clockLayout)
}
