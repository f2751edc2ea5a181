package qos

import (
	"testing"

	"github.com/roomtrack/backend/internal/models"
)

func closedVisit(room string, durationMins float64) *models.Visit {
	exitTs := int64(durationMins * 60000)
	return &models.Visit{
		RoomID:          room,
		EnterTs:         0,
		ExitTs:          &exitTs,
		DurationMinutes: durationMins,
	}
}

func TestAllocateProportionalToDuration(t *testing.T) {
	j := &models.Journey{
		ParticipantName: "Alice",
		Visits: []*models.Visit{
			closedVisit("room-a", 10),
			closedVisit("room-b", 30),
		},
	}
	journeys := map[string]*models.Journey{"Alice": j}
	samples := map[string]models.CameraSample{
		"Alice": {OnUnits: 20, OffUnits: 20},
	}

	Allocate(journeys, samples)

	// 10/40 of 20 on-units = 5.0, 30/40 = 15.0; same split for off.
	if j.Visits[0].CameraOnMinutes != 5.0 || j.Visits[0].CameraOffMinutes != 5.0 {
		t.Errorf("visit 0 camera = %v/%v, want 5.0/5.0",
			j.Visits[0].CameraOnMinutes, j.Visits[0].CameraOffMinutes)
	}
	if j.Visits[1].CameraOnMinutes != 15.0 || j.Visits[1].CameraOffMinutes != 15.0 {
		t.Errorf("visit 1 camera = %v/%v, want 15.0/15.0",
			j.Visits[1].CameraOnMinutes, j.Visits[1].CameraOffMinutes)
	}
	if j.Visits[0].CameraOnPercent != 50.0 {
		t.Errorf("visit 0 on%% = %v, want 50.0", j.Visits[0].CameraOnPercent)
	}
}

func TestAllocateNoSampleLeavesZero(t *testing.T) {
	j := &models.Journey{
		ParticipantName: "Alice",
		Visits:          []*models.Visit{closedVisit("room-a", 10)},
	}
	Allocate(map[string]*models.Journey{"Alice": j}, map[string]models.CameraSample{})

	v := j.Visits[0]
	if v.CameraOnMinutes != 0 || v.CameraOffMinutes != 0 || v.CameraOnPercent != 0 {
		t.Errorf("allocation without sample = %+v, want zeros", v)
	}
}

func TestAllocateOpenVisitsReceiveNothing(t *testing.T) {
	open := &models.Visit{RoomID: "room-a", EnterTs: 0}
	j := &models.Journey{
		ParticipantName: "Alice",
		Visits:          []*models.Visit{open, closedVisit("room-b", 10)},
	}
	Allocate(map[string]*models.Journey{"Alice": j},
		map[string]models.CameraSample{"Alice": {OnUnits: 8, OffUnits: 2}})

	if open.CameraOnMinutes != 0 || open.CameraOffMinutes != 0 {
		t.Errorf("open visit got camera time: %+v", open)
	}
	// The closed visit takes the full sample.
	if j.Visits[1].CameraOnMinutes != 8.0 || j.Visits[1].CameraOffMinutes != 2.0 {
		t.Errorf("closed visit camera = %v/%v, want 8.0/2.0",
			j.Visits[1].CameraOnMinutes, j.Visits[1].CameraOffMinutes)
	}
}

func TestAllocateAllVisitsOpen(t *testing.T) {
	j := &models.Journey{
		ParticipantName: "Alice",
		Visits: []*models.Visit{
			{RoomID: "room-a", EnterTs: 0},
		},
	}
	// Must not panic or produce NaN even though total closed duration is 0.
	Allocate(map[string]*models.Journey{"Alice": j},
		map[string]models.CameraSample{"Alice": {OnUnits: 5, OffUnits: 5}})

	if j.Visits[0].CameraOnMinutes != 0 {
		t.Errorf("open visit camera = %v, want 0", j.Visits[0].CameraOnMinutes)
	}
}

func TestAllocateRoundsToOneDecimal(t *testing.T) {
	j := &models.Journey{
		ParticipantName: "Alice",
		Visits: []*models.Visit{
			closedVisit("room-a", 1),
			closedVisit("room-b", 2),
		},
	}
	Allocate(map[string]*models.Journey{"Alice": j},
		map[string]models.CameraSample{"Alice": {OnUnits: 10, OffUnits: 0}})

	// 1/3 of 10 = 3.333... -> 3.3; 2/3 of 10 = 6.666... -> 6.7.
	if j.Visits[0].CameraOnMinutes != 3.3 {
		t.Errorf("visit 0 on = %v, want 3.3", j.Visits[0].CameraOnMinutes)
	}
	if j.Visits[1].CameraOnMinutes != 6.7 {
		t.Errorf("visit 1 on = %v, want 6.7", j.Visits[1].CameraOnMinutes)
	}
}

func TestCameraSampleOnPercent(t *testing.T) {
	cases := []struct {
		s    models.CameraSample
		want float64
	}{
		{models.CameraSample{OnUnits: 0, OffUnits: 0}, 0},
		{models.CameraSample{OnUnits: 1, OffUnits: 2}, 33.3},
		{models.CameraSample{OnUnits: 3, OffUnits: 0}, 100},
	}
	for _, tc := range cases {
		if got := tc.s.OnPercent(); got != tc.want {
			t.Errorf("OnPercent(%+v) = %v, want %v", tc.s, got, tc.want)
		}
	}
}
