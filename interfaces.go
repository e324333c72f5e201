package lattice

import (
	"context"

	"github.com/vockit/lattice/pkg/types"
)

// This file defines focused interfaces composed into the full Engine.
// Consumers should depend on the smallest interface that meets their
// needs.

// RetrievalQuerier provides the three retrieval operations over a
// tenant's chunk collection.
type RetrievalQuerier interface {
	// VectorSearch returns chunks nearest to the query's embedding,
	// nearest first, truncated to limit.
	VectorSearch(ctx context.Context, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error)

	// KeywordSearch returns chunks whose text contains the normalized
	// query, in store order, capped at limit.
	KeywordSearch(ctx context.Context, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error)

	// HybridSearch fuses both signals by rank position under the given
	// vector weight. A negative weight selects the configured default.
	HybridSearch(ctx context.Context, query string, limit int, vectorWeight float64, filter types.SearchFilter) ([]types.SearchResult, error)
}

// RelationshipQuerier provides graph lookups and traversal.
type RelationshipQuerier interface {
	// GraphQuery runs a single-hop edge query; the shape is derived
	// from which of fromID/toID are supplied.
	GraphQuery(ctx context.Context, relation, fromID, toID string, limit int) ([]types.Edge, error)

	// FindPaths runs a bounded breadth-first search from startID to
	// endID, returning the shortest path found within maxDepth hops.
	FindPaths(ctx context.Context, startID, endID string, maxDepth int) ([]types.Path, error)
}

// EdgeWriter provides idempotent edge mutation. Edges are the one
// entity external agents may write through the engine.
type EdgeWriter interface {
	CreateEdge(ctx context.Context, edge types.Edge) error
	DeleteEdge(ctx context.Context, fromID, relation, toID string) error
}

// RecordReader provides point lookups and paginated listings over
// documents and insights.
type RecordReader interface {
	GetDocument(ctx context.Context, docID string) (*types.Document, error)
	ListDocuments(ctx context.Context, limit int, pageToken string) (*types.DocumentPage, error)
	GetInsight(ctx context.Context, insightID string) (*types.Insight, error)
	ListInsights(ctx context.Context, limit int, pageToken string) (*types.InsightPage, error)
}

// Engine is the full contract the engine exposes to the API layer.
type Engine interface {
	RetrievalQuerier
	RelationshipQuerier
	EdgeWriter
	RecordReader

	// TenantID returns the tenant every operation is scoped to.
	TenantID() string

	Close() error
}

// Compile-time conformance check.
var _ Engine = (*Client)(nil)
