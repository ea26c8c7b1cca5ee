// Package qdrant provides a Qdrant-backed memory.Store over the gRPC client.
package qdrant

import (
	"context"
	"encoding/json"
	"fmt"

	qdrantgo "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/memory"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "inkloom_memories"

// Payload field names declared on the collection.
const (
	fieldRecord     = "record"
	fieldCharacters = "characters"
	fieldLocations  = "locations"
	fieldPlot       = "plot_elements"
	fieldCreatedAt  = "created_at"
)

// Store implements memory.Store against a Qdrant collection. The full record
// is stored as a JSON payload field; the filter sets are mirrored as keyword
// arrays so Qdrant can filter server-side.
type Store struct {
	client     *qdrantgo.Client
	collection string
	dimensions uint
	logger     *zap.Logger
}

// Config holds configuration for the Qdrant store.
type Config struct {
	// Host and Port locate the Qdrant gRPC endpoint.
	Host string
	Port int

	// Collection is the collection holding memory records.
	Collection string

	// Dimensions is the embedding dimensionality declared on the
	// collection schema.
	Dimensions uint
}

// NewStore connects to Qdrant and ensures the collection exists.
func NewStore(ctx context.Context, c Config, logger *zap.Logger) (*Store, error) {
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}

	client, err := qdrantgo.NewClient(&qdrantgo.Config{
		Host: c.Host,
		Port: c.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant: %v", memory.ErrConnection, err)
	}

	s := &Store{
		client:     client,
		collection: c.Collection,
		dimensions: c.Dimensions,
		logger:     logger,
	}

	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("qdrant memory store initialized",
		zap.String("host", c.Host),
		zap.Int("port", c.Port),
		zap.String("collection", c.Collection),
		zap.Uint("dimensions", c.Dimensions),
	)

	return s, nil
}

// ensureCollection creates the collection with a cosine vector schema if it
// doesn't exist yet.
func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: checking collection: %v", memory.ErrConnection, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrantgo.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrantgo.NewVectorsConfig(&qdrantgo.VectorParams{
			Size:     uint64(s.dimensions),
			Distance: qdrantgo.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.collection, err)
	}

	return nil
}

// Upsert writes a record as a single point keyed by the record ID.
func (s *Store) Upsert(ctx context.Context, record *memory.MemoryRecord) error {
	if uint(len(record.Embedding)) != s.dimensions {
		return fmt.Errorf("%w: got %d, want %d",
			memory.ErrDimensionMismatch, len(record.Embedding), s.dimensions)
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serializing record %d: %w", record.ID, err)
	}

	payload := qdrantgo.NewValueMap(map[string]any{
		fieldRecord:     string(recordJSON),
		fieldCharacters: toAnySlice(record.CharactersInvolved),
		fieldLocations:  toAnySlice(record.LocationsInvolved),
		fieldPlot:       toAnySlice(record.PlotElements),
		fieldCreatedAt:  record.CreatedAt.Unix(),
	})

	_, err = s.client.Upsert(ctx, &qdrantgo.UpsertPoints{
		CollectionName: s.collection,
		Points: []*qdrantgo.PointStruct{
			{
				Id:      qdrantgo.NewIDNum(record.ID),
				Vectors: qdrantgo.NewVectors(record.Embedding...),
				Payload: payload,
			},
		},
		Wait: qdrantgo.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting record %d: %w", record.ID, err)
	}

	s.logger.Debug("record upserted",
		zap.Uint64("id", record.ID),
		zap.String("collection", s.collection),
	)

	return nil
}

// Search runs a vector query with server-side keyword filtering.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int, filter *memory.Filter) ([]memory.SearchResult, error) {
	if topK <= 0 {
		topK = memory.DefaultRetrieveLimit
	}

	points, err := s.client.Query(ctx, &qdrantgo.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrantgo.NewQuery(queryVector...),
		Limit:          qdrantgo.PtrOf(uint64(topK)),
		Filter:         buildFilter(filter),
		WithPayload:    qdrantgo.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.collection, err)
	}

	results := make([]memory.SearchResult, 0, len(points))
	for _, point := range points {
		record, err := recordFromPayload(point.Payload)
		if err != nil {
			return nil, err
		}
		results = append(results, memory.SearchResult{
			Record: record,
			Score:  point.Score,
		})
	}

	s.logger.Debug("searched memories",
		zap.Int("results", len(results)),
		zap.String("collection", s.collection),
	)

	return results, nil
}

// Recent fetches a bounded candidate set with a zero query vector and picks
// the newest n. Beyond RecentCandidateCap total records the window draws from
// a subset; see the store contract.
func (s *Store) Recent(ctx context.Context, n int) ([]*memory.MemoryRecord, error) {
	if n <= 0 {
		return nil, nil
	}

	zero := make([]float32, s.dimensions)
	points, err := s.client.Query(ctx, &qdrantgo.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrantgo.NewQuery(zero...),
		Limit:          qdrantgo.PtrOf(uint64(memory.RecentCandidateCap)),
		WithPayload:    qdrantgo.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying recent candidates: %w", err)
	}

	candidates := make([]*memory.MemoryRecord, 0, len(points))
	for _, point := range points {
		record, err := recordFromPayload(point.Payload)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, record)
	}

	return memory.SelectRecent(candidates, n), nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// buildFilter translates a memory.Filter into Qdrant match conditions. Each
// entry becomes a Must condition, preserving conjunction semantics.
func buildFilter(filter *memory.Filter) *qdrantgo.Filter {
	if filter.Empty() {
		return nil
	}

	var must []*qdrantgo.Condition
	for _, character := range filter.Characters {
		must = append(must, qdrantgo.NewMatchKeyword(fieldCharacters, character))
	}
	for _, location := range filter.Locations {
		must = append(must, qdrantgo.NewMatchKeyword(fieldLocations, location))
	}

	return &qdrantgo.Filter{Must: must}
}

// recordFromPayload decodes the JSON record field of a point payload.
func recordFromPayload(payload map[string]*qdrantgo.Value) (*memory.MemoryRecord, error) {
	value, ok := payload[fieldRecord]
	if !ok {
		return nil, fmt.Errorf("point payload missing %s field", fieldRecord)
	}

	var record memory.MemoryRecord
	if err := json.Unmarshal([]byte(value.GetStringValue()), &record); err != nil {
		return nil, fmt.Errorf("parsing record payload: %w", err)
	}

	return &record, nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
