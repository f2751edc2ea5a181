package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ReadLegacyLog parses a raw-payload dump as written by the old capture
// listener: either a proper JSON array, or concatenated objects separated by
// ",\n" with a trailing comma.
func ReadLegacyLog(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload dump: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	if !strings.HasPrefix(content, "[") {
		content = "[" + strings.TrimRight(content, ",\n") + "]"
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(content), &records); err != nil {
		return nil, fmt.Errorf("parse payload dump: %w", err)
	}
	return records, nil
}
