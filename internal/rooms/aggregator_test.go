package rooms

import (
	"reflect"
	"testing"

	"github.com/roomtrack/backend/internal/models"
)

func enter(room, name string, ts int64) models.RawEvent {
	return models.RawEvent{Kind: models.KindEnter, TimestampMillis: ts, RoomID: room, ParticipantName: name}
}

func exit(room, name string, ts int64) models.RawEvent {
	return models.RawEvent{Kind: models.KindExit, TimestampMillis: ts, RoomID: room, ParticipantName: name}
}

func TestAggregateCountsJoinsAndDeduplicatesParticipants(t *testing.T) {
	events := []models.RawEvent{
		enter("room-a", "Alice", 1000),
		exit("room-a", "Alice", 2000),
		enter("room-a", "Alice", 3000), // re-entry: second join, same participant
		enter("room-a", "Bob", 4000),
		enter("room-b", "Alice", 5000),
	}

	rooms := Aggregate(events)
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}

	a := rooms["room-a"]
	if a.EntryCount != 3 {
		t.Errorf("room-a joins = %d, want 3", a.EntryCount)
	}
	if got := a.SortedParticipants(); !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Errorf("room-a participants = %v", got)
	}

	b := rooms["room-b"]
	if b.EntryCount != 1 || len(b.Participants) != 1 {
		t.Errorf("room-b = %+v", b)
	}
}

func TestAggregateExitOnlyParticipantStillCounted(t *testing.T) {
	// An EXIT with no prior ENTER still proves the participant was in the
	// room; membership comes from any event, joins only from ENTERs.
	events := []models.RawEvent{
		exit("room-a", "Alice", 1000),
	}

	rooms := Aggregate(events)
	a := rooms["room-a"]
	if a == nil {
		t.Fatal("room-a missing")
	}
	if a.EntryCount != 0 {
		t.Errorf("joins = %d, want 0", a.EntryCount)
	}
	if _, ok := a.Participants["Alice"]; !ok {
		t.Error("Alice missing from participant set")
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	events := []models.RawEvent{
		enter("room-a", "Alice", 1000),
		enter("room-a", "Bob", 2000),
		exit("room-a", "Alice", 3000),
	}
	reversed := []models.RawEvent{events[2], events[1], events[0]}

	got := Aggregate(events)
	gotRev := Aggregate(reversed)
	if got["room-a"].EntryCount != gotRev["room-a"].EntryCount {
		t.Errorf("entry counts differ: %d vs %d", got["room-a"].EntryCount, gotRev["room-a"].EntryCount)
	}
	if !reflect.DeepEqual(got["room-a"].SortedParticipants(), gotRev["room-a"].SortedParticipants()) {
		t.Error("participant sets differ under reordering")
	}
}
