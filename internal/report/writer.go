package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roomtrack/backend/internal/models"
)

// Writer emits the day's CSV artifacts into the output directory.
// A failed write means "report not produced"; there is no partial-write
// guarantee beyond what the filesystem provides.
type Writer struct {
	dir string
}

// NewWriter creates a CSV writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// DetailFilename returns the participant-visit artifact name for a date.
func DetailFilename(date string) string {
	return fmt.Sprintf("DAILY_REPORT_%s.csv", date)
}

// RoomsFilename returns the room summary artifact name for a date.
func RoomsFilename(date string) string {
	return fmt.Sprintf("ROOMS_%s.csv", date)
}

// Write creates or overwrites both artifacts and returns their paths.
func (w *Writer) Write(date string, detail []models.ParticipantRow, summary []models.RoomSummaryRow) (detailPath, roomsPath string, err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	detailPath = filepath.Join(w.dir, DetailFilename(date))
	records := make([][]string, 0, len(detail)+1)
	records = append(records, models.DetailColumns)
	for _, row := range detail {
		records = append(records, row.Record())
	}
	if err := writeCSV(detailPath, records); err != nil {
		return "", "", err
	}

	roomsPath = filepath.Join(w.dir, RoomsFilename(date))
	records = records[:0]
	records = append(records, models.RoomColumns)
	for _, row := range summary {
		records = append(records, row.Record())
	}
	if err := writeCSV(roomsPath, records); err != nil {
		return "", "", err
	}
	return detailPath, roomsPath, nil
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
