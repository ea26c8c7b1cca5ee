// Package eventstream defines transport-neutral events emitted by the memory
// pipeline and the Publisher contract backends implement.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeMemoryPersisted is emitted after a story memory is persisted.
	EventTypeMemoryPersisted = "inkloom.memory.persisted"
)

// MemoryPersistedEvent is a transport-neutral event payload for a persisted
// story memory. Fields are plain types so downstream consumers don't need
// this module's domain packages to decode them.
type MemoryPersistedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`

	// MemoryID is the persisted record's ID.
	MemoryID uint64 `json:"memory_id"`

	// CreatedAt is the record's creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Summary is the record's short digest.
	Summary string `json:"summary"`

	// Importance is the record's salience score in [0,1].
	Importance float64 `json:"importance"`

	// Characters and Locations mirror the record's filter sets.
	Characters []string `json:"characters,omitempty"`
	Locations  []string `json:"locations,omitempty"`
}

// EventSource identifies the story that produced the memory.
type EventSource struct {
	Story    string `json:"story,omitempty"`
	Provider string `json:"provider,omitempty"`
}
