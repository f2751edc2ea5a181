package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a membership event.
type EventKind string

const (
	// KindEnter is a participant joining a breakout room.
	KindEnter EventKind = "ENTER"
	// KindExit is a participant leaving a breakout room.
	KindExit EventKind = "EXIT"
)

var (
	// ErrMissingRoom is returned when an event has no room identifier.
	ErrMissingRoom = errors.New("event missing room id")
	// ErrMissingParticipant is returned when an event has no participant name.
	ErrMissingParticipant = errors.New("event missing participant name")
)

// RawEvent is one normalized membership event. Immutable once created.
type RawEvent struct {
	Kind             EventKind `json:"kind"`
	TimestampMillis  int64     `json:"timestamp_millis"`
	RoomID           string    `json:"room_id"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantEmail string    `json:"participant_email,omitempty"`
}

// NewRawEvent validates the required fields and builds an event.
// Room and participant are mandatory for any downstream attribution.
func NewRawEvent(kind EventKind, tsMillis int64, roomID, name, email string) (RawEvent, error) {
	if roomID == "" {
		return RawEvent{}, ErrMissingRoom
	}
	if name == "" {
		return RawEvent{}, ErrMissingParticipant
	}
	return RawEvent{
		Kind:             kind,
		TimestampMillis:  tsMillis,
		RoomID:           roomID,
		ParticipantName:  name,
		ParticipantEmail: email,
	}, nil
}

// Time returns the event time in the given location.
func (e RawEvent) Time(loc *time.Location) time.Time {
	return time.UnixMilli(e.TimestampMillis).In(loc)
}

// WebhookEvent is a persisted webhook delivery with its extracted index fields.
type WebhookEvent struct {
	ID               uuid.UUID       `json:"id"`
	Event            string          `json:"event"`
	RoomUUID         string          `json:"room_uuid"`
	ParticipantName  string          `json:"participant_name"`
	ParticipantEmail string          `json:"participant_email"`
	EventTs          int64           `json:"event_ts"`
	Payload          json.RawMessage `json:"payload"`
	ReceivedAt       time.Time       `json:"received_at"`
}
