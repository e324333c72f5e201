// Package search implements tenant-scoped semantic, lexical, and
// fused hybrid retrieval over the chunk store.
package search

import (
	"context"
	"fmt"

	"github.com/vockit/lattice/pkg/embedder"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// Searcher executes retrieval queries against the store gateway. It
// is stateless per call and safe for concurrent use across tenants.
type Searcher struct {
	store     store.Store
	embedder  embedder.Client
	dimension int
}

// NewSearcher creates a searcher. The dimension is the collection-wide
// embedding dimension; query vectors of any other length are rejected
// before reaching the store.
func NewSearcher(s store.Store, e embedder.Client, dimension int) *Searcher {
	return &Searcher{store: s, embedder: e, dimension: dimension}
}

// VectorSearch embeds the query text in a single provider round trip
// and runs a nearest-neighbor scan over the tenant partition, nearest
// first. An empty result list is a valid outcome, not an error.
func (s *Searcher) VectorSearch(ctx context.Context, tenantID, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if tenantID == "" {
		return nil, types.ErrMissingTenant
	}

	vector, err := s.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("provider returned dimension %d, collection configured for %d: %w",
			len(vector), s.dimension, types.ErrDimensionMismatch)
	}

	return s.store.SimilarChunks(ctx, tenantID, vector, limit, filter)
}

// KeywordSearch normalizes the query and runs a substring-containment
// scan over chunk text within the tenant partition. Ordering is store
// order; this is a recall-oriented scan, not a scored search.
func (s *Searcher) KeywordSearch(ctx context.Context, tenantID, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if tenantID == "" {
		return nil, types.ErrMissingTenant
	}
	return s.store.MatchingChunks(ctx, tenantID, NormalizeQuery(query), limit, filter)
}
