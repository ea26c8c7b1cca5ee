package testutils

import (
	"context"
	"errors"

	"github.com/inkloomco/inkloom/pkg/memory"
)

// MockStore is an in-process memory.Store that records calls and returns
// configurable results.
type MockStore struct {
	// Upserted accumulates every record passed to Upsert.
	Upserted []*memory.MemoryRecord

	// SearchResults is returned by Search after filter application.
	SearchResults []memory.SearchResult

	// SearchVectors accumulates the query vectors passed to Search.
	SearchVectors [][]float32

	// FailUpsert causes Upsert to return an error.
	FailUpsert bool

	// FailSearch causes Search to return an error.
	FailSearch bool
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Upsert(_ context.Context, record *memory.MemoryRecord) error {
	if m.FailUpsert {
		return errors.New("mock upsert failure")
	}
	m.Upserted = append(m.Upserted, record)
	return nil
}

func (m *MockStore) Search(_ context.Context, queryVector []float32, topK int, filter *memory.Filter) ([]memory.SearchResult, error) {
	if m.FailSearch {
		return nil, errors.New("mock search failure")
	}

	m.SearchVectors = append(m.SearchVectors, queryVector)

	var results []memory.SearchResult
	for _, res := range m.SearchResults {
		if memory.MatchesFilter(res.Record, filter) {
			results = append(results, res)
		}
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *MockStore) Recent(_ context.Context, n int) ([]*memory.MemoryRecord, error) {
	if m.FailSearch {
		return nil, errors.New("mock recent failure")
	}
	return memory.SelectRecent(m.Upserted, n), nil
}

func (m *MockStore) Close() error {
	return nil
}
