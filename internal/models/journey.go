package models

import "math"

// Visit is one contiguous stay of a participant in a room. ExitTs is nil when
// no matching exit was captured (open visit); duration stays 0 rather than
// being estimated from the capture end.
type Visit struct {
	RoomID          string  `json:"room_id"`
	EnterTs         int64   `json:"enter_ts"`
	ExitTs          *int64  `json:"exit_ts,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`

	// Allocated camera time, filled by the allocator.
	CameraOnMinutes  float64 `json:"camera_on_minutes"`
	CameraOffMinutes float64 `json:"camera_off_minutes"`
	CameraOnPercent  float64 `json:"camera_on_percent"`
}

// Closed reports whether the visit has a matched exit.
func (v *Visit) Closed() bool { return v.ExitTs != nil }

// Journey is the full ordered sequence of one participant's visits. Visits
// are appended in ENTER order; the meeting window is defined by event extent,
// not by room semantics.
type Journey struct {
	ParticipantName        string   `json:"participant_name"`
	Email                  string   `json:"email,omitempty"`
	Visits                 []*Visit `json:"visits"`
	MeetingEnterTs         int64    `json:"meeting_enter_ts"`
	MeetingExitTs          int64    `json:"meeting_exit_ts"`
	MeetingDurationMinutes float64  `json:"meeting_duration_minutes"`
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// MinutesBetween converts an epoch-millisecond span to minutes rounded to one
// decimal.
func MinutesBetween(fromMillis, toMillis int64) float64 {
	return Round1(float64(toMillis-fromMillis) / 60000)
}
