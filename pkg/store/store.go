// Package store is the gateway to the tenant-partitioned document,
// chunk, edge, and insight tables. Every operation takes the tenant
// identifier first and every underlying query's leading predicate is
// the tenant; an empty tenant is rejected before any I/O happens.
//
// Queries are identified by pre-validated template names. Failures
// surface as *types.StoreError carrying the failing template; the
// gateway never swallows errors and never retries.
package store

import (
	"context"

	"github.com/vockit/lattice/pkg/types"
)

// Template names identify the pre-validated query shapes the gateway
// executes. They are attached to StoreError on failure.
const (
	TemplateDocumentGet    = "document_get"
	TemplateDocumentScan   = "document_scan"
	TemplateDocumentUpsert = "document_upsert"
	TemplateInsightGet     = "insight_get"
	TemplateInsightScan    = "insight_scan"
	TemplateInsightUpsert  = "insight_upsert"
	TemplateChunkUpsert    = "chunk_upsert"
	TemplateChunkANN       = "chunk_ann"
	TemplateChunkContains  = "chunk_contains"
	TemplateEdgeExact      = "edge_exact"
	TemplateEdgeOutgoing   = "edge_outgoing"
	TemplateEdgeIncoming   = "edge_incoming"
	TemplateEdgeByType     = "edge_by_type"
	TemplateEdgeUpsert     = "edge_upsert"
	TemplateEdgeDelete     = "edge_delete"
)

// Store is the engine's sole path to persistent state. Reads are
// idempotent; writes are fire-and-surface-error, with retries left to
// the caller. Implementations are safe for concurrent use across
// tenants because every query is tenant-scoped by predicate.
type Store interface {
	// GetDocument returns a document by id, or types.ErrNotFound.
	GetDocument(ctx context.Context, tenantID, docID string) (*types.Document, error)

	// ListDocuments scans the tenant's document partition. The page
	// token is the opaque cursor from a previous page; pass "" for the
	// first page. NextPageToken is empty when no rows remain.
	ListDocuments(ctx context.Context, tenantID string, limit int, pageToken string) (*types.DocumentPage, error)

	// UpsertDocument creates or replaces a document row. Consumed by
	// the ingestion pipeline, not by the query engine itself.
	UpsertDocument(ctx context.Context, tenantID string, doc types.Document) error

	// GetInsight returns an insight by id, or types.ErrNotFound.
	GetInsight(ctx context.Context, tenantID, insightID string) (*types.Insight, error)

	// ListInsights scans the tenant's insight partition.
	ListInsights(ctx context.Context, tenantID string, limit int, pageToken string) (*types.InsightPage, error)

	// UpsertInsight creates or replaces an insight row.
	UpsertInsight(ctx context.Context, tenantID string, insight types.Insight) error

	// UpsertChunk writes an immutable chunk-with-vector row. The
	// embedding dimension must match the store's configured dimension.
	UpsertChunk(ctx context.Context, tenantID string, chunk types.Chunk) error

	// SimilarChunks runs a nearest-neighbor scan over the tenant's
	// chunk partition, nearest first, truncated to limit.
	SimilarChunks(ctx context.Context, tenantID string, vector []float32, limit int, filter types.SearchFilter) ([]types.SearchResult, error)

	// MatchingChunks runs a substring-containment scan over chunk text
	// within the tenant partition, in store order, capped at limit.
	MatchingChunks(ctx context.Context, tenantID string, needle string, limit int, filter types.SearchFilter) ([]types.SearchResult, error)

	// Edges executes one of the four edge query shapes.
	Edges(ctx context.Context, tenantID string, q EdgeQuery) ([]types.Edge, error)

	// UpsertEdge creates or overwrites the (from, relation, to) triple.
	// Repeating the call has no additional effect.
	UpsertEdge(ctx context.Context, tenantID string, edge types.Edge) error

	// DeleteEdge removes the triple. Deleting a missing edge is a
	// no-op, not an error.
	DeleteEdge(ctx context.Context, tenantID, fromID, relation, toID string) error

	Close() error
}

// Both backends satisfy the gateway contract.
var (
	_ Store = (*BadgerStore)(nil)
	_ Store = (*Neo4jStore)(nil)
)

// requireTenant rejects operations that arrive without a tenant.
// Cross-tenant leakage is a correctness violation, so this is checked
// at the gateway, not just at the API boundary.
func requireTenant(tenantID string) error {
	if tenantID == "" {
		return types.ErrMissingTenant
	}
	return nil
}
