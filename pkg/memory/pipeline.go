package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/embeddings"
	"github.com/inkloomco/inkloom/pkg/eventstream"
	"github.com/inkloomco/inkloom/pkg/interaction"
)

// Pipeline turns an extracted interaction into a persisted MemoryRecord:
// score, summarize, embed, upsert, then emit a persisted event. Scoring and
// summarization always succeed (both are total); embedding and upsert
// failures abort the persist. Event publishing is best-effort.
type Pipeline struct {
	store      Store
	embedder   embeddings.Embedder
	summarizer *Summarizer
	publisher  eventstream.Publisher
	ids        *IDGenerator
	source     eventstream.EventSource
	logger     *zap.Logger
}

// NewPipeline creates a persistence pipeline. A nil publisher disables event
// emission.
func NewPipeline(
	store Store,
	embedder embeddings.Embedder,
	summarizer *Summarizer,
	publisher eventstream.Publisher,
	source eventstream.EventSource,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		store:      store,
		embedder:   embedder,
		summarizer: summarizer,
		publisher:  publisher,
		ids:        NewIDGenerator(),
		source:     source,
		logger:     logger,
	}
}

// Persist creates and stores one memory record from a raw AI response and its
// extracted interaction. Returns the persisted record.
func (p *Pipeline) Persist(ctx context.Context, rawText string, rec interaction.Record) (*MemoryRecord, error) {
	record := NewRecord(p.ids.Next(), rawText, time.Now(), rec)
	record.Importance = interaction.ScoreRecord(&rec)
	record.Summary = p.summarizer.Summarize(ctx, &rec)

	vector, err := p.embedder.Embed(ctx, rawText)
	if err != nil {
		return nil, fmt.Errorf("embedding memory content: %w", err)
	}
	record.Embedding = vector

	if err := p.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("persisting memory record: %w", err)
	}

	p.logger.Debug("memory persisted",
		zap.Uint64("id", record.ID),
		zap.Float64("importance", record.Importance),
		zap.Int("characters", len(record.CharactersInvolved)),
	)

	p.publish(ctx, record)

	return record, nil
}

// publish emits a persisted event. Failures are logged, never returned: the
// record is already durable and the stream is an auxiliary surface.
func (p *Pipeline) publish(ctx context.Context, record *MemoryRecord) {
	if p.publisher == nil {
		return
	}

	event := &eventstream.MemoryPersistedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeMemoryPersisted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        p.source,
		MemoryID:      record.ID,
		CreatedAt:     record.CreatedAt,
		Summary:       record.Summary,
		Importance:    record.Importance,
		Characters:    record.CharactersInvolved,
		Locations:     record.LocationsInvolved,
	}

	if err := p.publisher.PublishMemory(ctx, event); err != nil {
		p.logger.Warn("memory event publish failed",
			zap.Uint64("memory_id", record.ID),
			zap.Error(err),
		)
	}
}
