package models

import "sort"

// Room accumulates membership for one breakout room across a reconstruction
// run. Created lazily on first event referencing it; never deleted.
type Room struct {
	ID           string
	Participants map[string]struct{}
	EntryCount   int
}

// NewRoom creates an empty room.
func NewRoom(id string) *Room {
	return &Room{ID: id, Participants: make(map[string]struct{})}
}

// Observe records a participant seen in this room. Set semantics: a name
// contributes once regardless of repeat entries. EntryCount increments on
// ENTER events only.
func (r *Room) Observe(name string, kind EventKind) {
	r.Participants[name] = struct{}{}
	if kind == KindEnter {
		r.EntryCount++
	}
}

// SortedParticipants returns the participant names in ascending order.
func (r *Room) SortedParticipants() []string {
	names := make([]string, 0, len(r.Participants))
	for n := range r.Participants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
