package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NextRoomSentinel is reported as the next room of a participant's final visit.
const NextRoomSentinel = "Left Meeting"

// DetailColumns is the participant-visit report header. Column order and
// literal text are a compatibility contract with existing consumers.
var DetailColumns = []string{
	"Participant Name",
	"Email ID",
	"Meeting Join Time",
	"Meeting Left Time",
	"Meeting Total Duration (mins)",
	"Room Number/Name",
	"Room Join Time",
	"Room Left Time",
	"Room Duration (mins)",
	"Camera ON Time (mins)",
	"Camera OFF Time (mins)",
	"Camera ON %",
	"Next Room",
}

// RoomColumns is the room summary header.
var RoomColumns = []string{
	"Room Name",
	"Room UUID",
	"Total Participants",
	"Total Joins",
	"Participant List",
}

// ParticipantRow is one row of the participant-visit report: one (participant,
// visit) pair with meeting-level and visit-level fields.
type ParticipantRow struct {
	ParticipantName     string
	Email               string
	MeetingJoinTime     string
	MeetingLeftTime     string
	MeetingDurationMins float64
	RoomName            string
	RoomJoinTime        string
	RoomLeftTime        string
	RoomDurationMins    float64
	CameraOnMins        float64
	CameraOffMins       float64
	CameraOnPercent     float64
	NextRoom            string
}

// Record returns the row as CSV fields in DetailColumns order.
// Camera ON % carries a trailing % literal.
func (r ParticipantRow) Record() []string {
	return []string{
		r.ParticipantName,
		r.Email,
		r.MeetingJoinTime,
		r.MeetingLeftTime,
		formatMinutes(r.MeetingDurationMins),
		r.RoomName,
		r.RoomJoinTime,
		r.RoomLeftTime,
		formatMinutes(r.RoomDurationMins),
		formatMinutes(r.CameraOnMins),
		formatMinutes(r.CameraOffMins),
		fmt.Sprintf("%s%%", formatMinutes(r.CameraOnPercent)),
		r.NextRoom,
	}
}

// RoomSummaryRow is one row of the room summary report.
type RoomSummaryRow struct {
	RoomName          string
	RoomUUID          string
	TotalParticipants int
	TotalJoins        int
	Participants      []string // sorted ascending
}

// Record returns the row as CSV fields in RoomColumns order.
func (r RoomSummaryRow) Record() []string {
	return []string{
		r.RoomName,
		r.RoomUUID,
		fmt.Sprintf("%d", r.TotalParticipants),
		fmt.Sprintf("%d", r.TotalJoins),
		strings.Join(r.Participants, ", "),
	}
}

func formatMinutes(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// RunStatus is the lifecycle state of a report run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ReportRun is one row of the report_runs ledger: at most one per report date.
type ReportRun struct {
	ID           uuid.UUID `json:"id"`
	ReportDate   string    `json:"report_date"` // YYYY-MM-DD
	Status       RunStatus `json:"status"`
	DetailKey    string    `json:"detail_key,omitempty"` // S3 key or local path
	RoomsKey     string    `json:"rooms_key,omitempty"`
	Participants int       `json:"participants"`
	Rooms        int       `json:"rooms"`
	Detail       string    `json:"detail,omitempty"` // failure reason
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
