package ingest

import (
	"strings"
	"testing"
)

func TestReadLegacyLogArray(t *testing.T) {
	in := `[{"event":"a"},{"event":"b"}]`
	records, err := ReadLegacyLog(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadLegacyLog: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[1]["event"] != "b" {
		t.Errorf("records[1] = %v", records[1])
	}
}

func TestReadLegacyLogConcatenatedObjects(t *testing.T) {
	in := "{\"event\":\"a\"},\n{\"event\":\"b\"},\n"
	records, err := ReadLegacyLog(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadLegacyLog: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
}

func TestReadLegacyLogEmpty(t *testing.T) {
	records, err := ReadLegacyLog(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("ReadLegacyLog: %v", err)
	}
	if records != nil {
		t.Errorf("records = %v, want nil", records)
	}
}

func TestReadLegacyLogMalformed(t *testing.T) {
	if _, err := ReadLegacyLog(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
