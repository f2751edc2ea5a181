// Package journey reconstructs per-participant room movement from an
// unordered stream of membership events.
package journey

import (
	"sort"

	"github.com/roomtrack/backend/internal/models"
)

// Reconstruct builds one Journey per participant. Within a journey, each
// ENTER is paired with the earliest unconsumed EXIT for the same room strictly
// after it, so a re-entry can never steal an earlier visit's exit. An ENTER
// with no matching EXIT becomes an open visit with zero duration.
func Reconstruct(events []models.RawEvent) map[string]*models.Journey {
	byParticipant := make(map[string][]models.RawEvent)
	for _, ev := range events {
		byParticipant[ev.ParticipantName] = append(byParticipant[ev.ParticipantName], ev)
	}

	journeys := make(map[string]*models.Journey, len(byParticipant))
	for name, evs := range byParticipant {
		journeys[name] = reconstructOne(name, evs)
	}
	return journeys
}

func reconstructOne(name string, evs []models.RawEvent) *models.Journey {
	// Stable: ties keep their ingestion order.
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].TimestampMillis < evs[j].TimestampMillis
	})

	j := &models.Journey{
		ParticipantName: name,
		MeetingEnterTs:  evs[0].TimestampMillis,
		MeetingExitTs:   evs[len(evs)-1].TimestampMillis,
	}
	j.MeetingDurationMinutes = models.MinutesBetween(j.MeetingEnterTs, j.MeetingExitTs)

	// Pending ENTERs per room, in enter order. Pairing an EXIT against the
	// queue front gives the same result as scanning forward from each ENTER,
	// in O(n) instead of O(n^2).
	pending := make(map[string][]*models.Visit)

	for _, ev := range evs {
		if ev.ParticipantEmail != "" {
			j.Email = ev.ParticipantEmail
		}
		switch ev.Kind {
		case models.KindEnter:
			v := &models.Visit{RoomID: ev.RoomID, EnterTs: ev.TimestampMillis}
			j.Visits = append(j.Visits, v)
			pending[ev.RoomID] = append(pending[ev.RoomID], v)
		case models.KindExit:
			q := pending[ev.RoomID]
			if len(q) == 0 {
				continue // exit with no open visit in this room
			}
			// Exits must fall strictly after the entry they close. Later
			// pending entries are even newer, so one check suffices.
			if q[0].EnterTs >= ev.TimestampMillis {
				continue
			}
			v := q[0]
			pending[ev.RoomID] = q[1:]
			exitTs := ev.TimestampMillis
			v.ExitTs = &exitTs
			v.DurationMinutes = models.MinutesBetween(v.EnterTs, exitTs)
		}
	}
	return j
}
