// Package inmemory provides a process-local memory.Store used for tests and
// ephemeral play sessions. Nothing survives a restart.
package inmemory

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/memory"
)

// Store keeps records in a map and answers searches by brute-force cosine
// similarity.
type Store struct {
	mu      sync.RWMutex
	records map[uint64]*memory.MemoryRecord
	logger  *zap.Logger
}

// NewStore creates an empty in-memory store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		records: make(map[uint64]*memory.MemoryRecord),
		logger:  logger,
	}
}

// Upsert inserts or replaces a record by ID.
func (s *Store) Upsert(_ context.Context, record *memory.MemoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record

	s.logger.Debug("record upserted",
		zap.Uint64("id", record.ID),
		zap.Int("total", len(s.records)),
	)

	return nil
}

// Search scores every stored record against the query vector and returns the
// topK matches, best first, after filter application.
func (s *Store) Search(_ context.Context, queryVector []float32, topK int, filter *memory.Filter) ([]memory.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []memory.SearchResult
	for _, record := range s.records {
		if !memory.MatchesFilter(record, filter) {
			continue
		}
		results = append(results, memory.SearchResult{
			Record: record,
			Score:  cosineSimilarity(queryVector, record.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Recent returns the n newest records in chronological order.
func (s *Store) Recent(_ context.Context, n int) ([]*memory.MemoryRecord, error) {
	s.mu.RLock()
	candidates := make([]*memory.MemoryRecord, 0, len(s.records))
	for _, record := range s.records {
		candidates = append(candidates, record)
	}
	s.mu.RUnlock()

	return memory.SelectRecent(candidates, n), nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 for
// mismatched or zero-magnitude vectors. A zero query vector therefore ranks
// all records equally, which Recent exploits.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
