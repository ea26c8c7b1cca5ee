package memory

import (
	"context"
	"sort"
)

// RecentCandidateCap bounds how many candidates a store considers when
// answering Recent via similarity search. Stores larger than the cap degrade
// gracefully: the window is still well-ordered, just drawn from a bounded
// candidate set.
const RecentCandidateCap = 256

// Filter restricts a search to records involving specific characters or
// locations. All listed entries must match (conjunction); empty slices match
// everything.
type Filter struct {
	Characters []string
	Locations  []string
}

// Empty reports whether the filter imposes no restriction.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.Characters) == 0 && len(f.Locations) == 0)
}

// SearchResult pairs a record with its similarity score for the query.
type SearchResult struct {
	Record *MemoryRecord
	Score  float32
}

// Store is the persistence contract for story memories. Implementations live
// in the backend subpackages; callers hold the interface.
type Store interface {
	// Upsert writes a record, replacing any existing record with the same
	// ID.
	Upsert(ctx context.Context, record *MemoryRecord) error

	// Search returns up to topK records most similar to queryVector,
	// best match first, restricted by filter when non-empty.
	Search(ctx context.Context, queryVector []float32, topK int, filter *Filter) ([]SearchResult, error)

	// Recent returns the n most recent records in chronological order,
	// oldest first.
	Recent(ctx context.Context, n int) ([]*MemoryRecord, error)

	// Close releases the store's resources.
	Close() error
}

// MatchesFilter reports whether a record satisfies every entry of the filter.
func MatchesFilter(record *MemoryRecord, filter *Filter) bool {
	if filter.Empty() {
		return true
	}

	for _, want := range filter.Characters {
		if !containsString(record.CharactersInvolved, want) {
			return false
		}
	}
	for _, want := range filter.Locations {
		if !containsString(record.LocationsInvolved, want) {
			return false
		}
	}

	return true
}

// SelectRecent picks the n newest records from candidates and returns them
// oldest first. Backends share this so Recent behaves identically regardless
// of how the candidate set was fetched.
func SelectRecent(candidates []*MemoryRecord, n int) []*MemoryRecord {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	sorted := make([]*MemoryRecord, len(candidates))
	copy(sorted, candidates)

	// Newest first; IDs break ties within the same second.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}

	// Reverse into chronological order.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	return sorted
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
