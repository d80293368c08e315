// Package core holds the notekeep domain: tags, notes, the storage port and
// the pure views derived from them.
package core

import "fmt"

// Tag labels notes. Identity is the ID; labels need not be unique.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RawNote is the persisted shape of a note. Tags are referenced by ID.
type RawNote struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	TagIDs   []string `json:"tagIds"`
}

// Note is a RawNote with its tag references resolved against the tag table.
// It is derived on read and never persisted.
type Note struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Tags     []Tag  `json:"tags"`
}

// NoteData is the input of note creation and update.
type NoteData struct {
	Title    string
	Markdown string
	Tags     []Tag
}

// TagIDs returns the ids of d.Tags in order.
func (d NoteData) TagIDs() []string {
	ids := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// EventType represents the type of change observed in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change to a store key made outside the current process.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
