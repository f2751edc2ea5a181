// Package qos distributes aggregate camera-usage samples across reconstructed
// room visits.
package qos

import "github.com/roomtrack/backend/internal/models"

// Allocate splits each participant's meeting-level camera on/off units across
// their closed visits in proportion to visit duration. The external sample is
// aggregate-per-meeting, not per-room, so exact per-room attribution is not
// recoverable; proportional-by-duration is the documented policy.
//
// A participant absent from samples gets zero allocation. Open visits have
// zero duration and therefore receive nothing.
func Allocate(journeys map[string]*models.Journey, samples map[string]models.CameraSample) {
	for name, j := range journeys {
		sample, ok := samples[name]
		if !ok {
			continue
		}
		allocateJourney(j, sample)
	}
}

func allocateJourney(j *models.Journey, sample models.CameraSample) {
	var totalRoomMinutes float64
	for _, v := range j.Visits {
		if v.Closed() {
			totalRoomMinutes += v.DurationMinutes
		}
	}
	if totalRoomMinutes == 0 {
		totalRoomMinutes = 1 // all visits degenerate; keep the division defined
	}

	for _, v := range j.Visits {
		if v.DurationMinutes <= 0 {
			continue
		}
		share := v.DurationMinutes / totalRoomMinutes
		v.CameraOnMinutes = models.Round1(float64(sample.OnUnits) * share)
		v.CameraOffMinutes = models.Round1(float64(sample.OffUnits) * share)
		v.CameraOnPercent = models.Round1(v.CameraOnMinutes / v.DurationMinutes * 100)
	}
}
