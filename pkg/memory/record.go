// Package memory owns the persistent, vector-searchable collection of story
// memories and the retrieval/persistence pipeline around it.
//
// A MemoryRecord is one embedded snapshot of a single story turn. Records are
// created exactly once per turn, are immutable thereafter, and are never
// evicted — retention for long-running stories is a deployment-time sizing
// concern, not a policy this package invents.
package memory

import (
	"sync"
	"time"

	"github.com/inkloomco/inkloom/pkg/interaction"
)

// MemoryRecord is one persisted, embedded snapshot of a story turn.
type MemoryRecord struct {
	// ID is unique and monotonically increasing, derived from creation
	// time in milliseconds.
	ID uint64 `json:"id"`

	// Content is the raw AI response text that produced this memory.
	Content string `json:"content"`

	// CreatedAt is a seconds-resolution timestamp used for chronological
	// ordering.
	CreatedAt time.Time `json:"created_at"`

	// Interaction is the structured payload extracted from Content.
	Interaction interaction.Record `json:"interaction"`

	// Derived filter sets. These mirror Interaction and are not
	// independently authoritative.
	CharactersInvolved []string `json:"characters_involved"`
	LocationsInvolved  []string `json:"locations_involved"`
	PlotElements       []string `json:"plot_elements"`

	// Embedding is the fixed-length vector representation of Content. Its
	// dimensionality must match the embedding provider's output and the
	// store schema.
	Embedding []float32 `json:"embedding,omitempty"`

	// Importance is the salience score in [0,1], computed once at
	// creation.
	Importance float64 `json:"importance"`

	// Summary is a short digest of the interaction, computed once at
	// creation.
	Summary string `json:"summary"`
}

// NewRecord builds a MemoryRecord from an extracted interaction, deriving
// the filter sets from the structured payload.
func NewRecord(id uint64, content string, createdAt time.Time, rec interaction.Record) *MemoryRecord {
	return &MemoryRecord{
		ID:                 id,
		Content:            content,
		CreatedAt:          createdAt.Truncate(time.Second),
		Interaction:        rec,
		CharactersInvolved: rec.Characters(),
		LocationsInvolved:  rec.Locations(),
		PlotElements:       rec.PlotElements(),
	}
}

// IDGenerator produces strictly increasing record IDs derived from the
// current time in milliseconds. Construct one per process and pass it by
// handle; there is no package-global generator.
type IDGenerator struct {
	mu   sync.Mutex
	last uint64
}

// NewIDGenerator creates an ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next ID. Two calls within the same millisecond bump the
// second by one so IDs stay strictly increasing within the process.
func (g *IDGenerator) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uint64(time.Now().UnixMilli())
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id

	return id
}
