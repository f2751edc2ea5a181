// Package rooms groups membership events by breakout room and manages the
// persisted room display-name mapping.
package rooms

import "github.com/roomtrack/backend/internal/models"

// Aggregate builds the room map from normalized events. Participant sets and
// entry counts are order-independent: the set ignores repeats, the count sums
// ENTER events per room.
func Aggregate(events []models.RawEvent) map[string]*models.Room {
	out := make(map[string]*models.Room)
	for _, ev := range events {
		room, ok := out[ev.RoomID]
		if !ok {
			room = models.NewRoom(ev.RoomID)
			out[ev.RoomID] = room
		}
		room.Observe(ev.ParticipantName, ev.Kind)
	}
	return out
}
