package rooms

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mapping is the on-disk room UUID -> display name mapping. A missing file is
// not an error; lookups on absent entries report !ok so callers can fall back
// to a placeholder name.
type Mapping struct {
	path  string
	names map[string]string
}

// LoadMapping reads the mapping file. A missing or unreadable file yields an
// empty mapping.
func LoadMapping(path string) *Mapping {
	m := &Mapping{path: path, names: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	var names map[string]string
	if err := json.Unmarshal(data, &names); err == nil && names != nil {
		m.names = names
	}
	return m
}

// DisplayName looks up the configured name for a room.
func (m *Mapping) DisplayName(roomID string) (string, bool) {
	name, ok := m.names[roomID]
	return name, ok
}

// Set assigns a display name for a room.
func (m *Mapping) Set(roomID, name string) {
	m.names[roomID] = name
}

// Len returns the number of named rooms.
func (m *Mapping) Len() int { return len(m.names) }

// Save writes the mapping back to its file.
func (m *Mapping) Save() error {
	data, err := json.MarshalIndent(m.names, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal room mapping: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write room mapping: %w", err)
	}
	return nil
}

// PositionalName is the placeholder for an unnamed room in participant rows:
// numbered by the visit's position in the journey.
func PositionalName(n int) string {
	return fmt.Sprintf("Room-%d", n)
}

// ShortUUIDName is the placeholder for an unnamed room in the room summary.
func ShortUUIDName(roomID string) string {
	if len(roomID) > 8 {
		roomID = roomID[:8]
	}
	return fmt.Sprintf("Room-%s", roomID)
}
