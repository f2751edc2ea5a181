package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/roomtrack/backend/internal/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestWriterProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	detail := []models.ParticipantRow{
		{
			ParticipantName:  "Alice",
			Email:            "alice@example.com",
			RoomName:         "Physics",
			RoomDurationMins: 5,
			NextRoom:         models.NextRoomSentinel,
		},
	}
	summary := []models.RoomSummaryRow{
		{
			RoomName:          "Physics",
			RoomUUID:          "uuid-a",
			TotalParticipants: 2,
			TotalJoins:        3,
			Participants:      []string{"Alice", "Bob"},
		},
	}

	detailPath, roomsPath, err := w.Write("2026-03-02", detail, summary)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if filepath.Base(detailPath) != "DAILY_REPORT_2026-03-02.csv" {
		t.Errorf("detail filename = %s", filepath.Base(detailPath))
	}
	if filepath.Base(roomsPath) != "ROOMS_2026-03-02.csv" {
		t.Errorf("rooms filename = %s", filepath.Base(roomsPath))
	}

	detailRecords := readCSV(t, detailPath)
	if !reflect.DeepEqual(detailRecords[0], models.DetailColumns) {
		t.Errorf("detail header = %v", detailRecords[0])
	}
	if len(detailRecords) != 2 {
		t.Fatalf("detail rows = %d, want 2", len(detailRecords))
	}
	if detailRecords[1][0] != "Alice" || detailRecords[1][12] != models.NextRoomSentinel {
		t.Errorf("detail row = %v", detailRecords[1])
	}

	roomRecords := readCSV(t, roomsPath)
	if !reflect.DeepEqual(roomRecords[0], models.RoomColumns) {
		t.Errorf("rooms header = %v", roomRecords[0])
	}
	if roomRecords[1][4] != "Alice, Bob" {
		t.Errorf("participant list = %q, want comma-joined", roomRecords[1][4])
	}
}

func TestWriterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir)

	_, _, err := w.Write("2026-03-02", nil, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "DAILY_REPORT_2026-03-02.csv")); err != nil {
		t.Errorf("detail artifact missing: %v", err)
	}
}

func TestWriterEmptyReportStillHasHeaders(t *testing.T) {
	w := NewWriter(t.TempDir())
	detailPath, roomsPath, err := w.Write("2026-03-02", nil, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := readCSV(t, detailPath); len(got) != 1 {
		t.Errorf("detail records = %d, want header only", len(got))
	}
	if got := readCSV(t, roomsPath); len(got) != 1 {
		t.Errorf("rooms records = %d, want header only", len(got))
	}
}
