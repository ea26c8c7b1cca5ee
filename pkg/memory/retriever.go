package memory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/embeddings"
)

// DefaultRetrieveLimit is the number of relevant memories fetched when the
// caller doesn't ask for a specific count.
const DefaultRetrieveLimit = 5

// RetrieveOptions narrows a relevance query. The zero value retrieves the
// default number of memories with no filtering.
type RetrieveOptions struct {
	// Character restricts results to memories involving this character.
	Character string

	// Location restricts results to memories at this location.
	Location string

	// Limit caps the result count; zero means DefaultRetrieveLimit.
	Limit int
}

// Retriever answers relevance queries against the store by embedding the
// query text and searching. Failures propagate to the caller — assembling a
// prompt from silently incomplete memories would be worse than failing the
// turn.
type Retriever struct {
	store    Store
	embedder embeddings.Embedder
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given store and embedder.
func NewRetriever(store Store, embedder embeddings.Embedder, logger *zap.Logger) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// RetrieveRelevant returns the memories most similar to queryText, best match
// first, subject to opts.
func (r *Retriever) RetrieveRelevant(ctx context.Context, queryText string, opts RetrieveOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}

	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding retrieval query: %w", err)
	}

	var filter *Filter
	if opts.Character != "" || opts.Location != "" {
		filter = &Filter{}
		if opts.Character != "" {
			filter.Characters = []string{opts.Character}
		}
		if opts.Location != "" {
			filter.Locations = []string{opts.Location}
		}
	}

	results, err := r.store.Search(ctx, vector, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}

	r.logger.Debug("retrieved relevant memories",
		zap.Int("count", len(results)),
		zap.Int("limit", limit),
	)

	return results, nil
}

// RetrieveRecent returns the n most recent memories, oldest first.
func (r *Retriever) RetrieveRecent(ctx context.Context, n int) ([]*MemoryRecord, error) {
	records, err := r.store.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("fetching recent memories: %w", err)
	}
	return records, nil
}
