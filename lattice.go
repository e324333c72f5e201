package lattice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vockit/lattice/pkg/embedder"
	"github.com/vockit/lattice/pkg/graph"
	"github.com/vockit/lattice/pkg/search"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// DefaultVectorWeight balances the two retrieval signals when the
// caller does not specify a weight.
const DefaultVectorWeight = 0.7

// Config holds configuration for an engine client. TenantID scopes
// every operation the client performs; VectorDimension is the
// collection-wide embedding dimension.
type Config struct {
	TenantID        string
	VectorDimension int

	// VectorWeight is the default hybrid fusion weight for the
	// semantic signal, in [0,1]. Zero means DefaultVectorWeight.
	VectorWeight float64
}

// Client implements Engine for a single tenant. It holds no mutable
// state beyond what the store gateway caches at startup, so one
// client may serve many concurrent requests.
type Client struct {
	store    store.Store
	embedder embedder.Client
	searcher *search.Searcher
	grapher  *graph.Grapher
	config   *Config
	logger   *slog.Logger
}

// NewClient creates an engine client bound to the configured tenant.
// The tenant is mandatory; there is no default tenant.
func NewClient(s store.Store, e embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil || config.TenantID == "" {
		return nil, types.ErrMissingTenant
	}
	if config.VectorDimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", config.VectorDimension)
	}
	if config.VectorWeight == 0 {
		config.VectorWeight = DefaultVectorWeight
	}
	if config.VectorWeight < 0 || config.VectorWeight > 1 {
		return nil, fmt.Errorf("vector weight must be in [0,1], got %v", config.VectorWeight)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		store:    s,
		embedder: e,
		searcher: search.NewSearcher(s, e, config.VectorDimension),
		grapher:  graph.NewGrapher(s),
		config:   config,
		logger:   logger,
	}, nil
}

// TenantID returns the tenant this client is bound to.
func (c *Client) TenantID() string { return c.config.TenantID }

// Store returns the underlying store gateway.
func (c *Client) Store() store.Store { return c.store }

// VectorSearch implements Engine.
func (c *Client) VectorSearch(ctx context.Context, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	results, err := c.searcher.VectorSearch(ctx, c.config.TenantID, query, limit, filter)
	if err != nil {
		c.logger.ErrorContext(ctx, "vector search failed", "tenant", c.config.TenantID, "error", err)
		return nil, err
	}
	return results, nil
}

// KeywordSearch implements Engine.
func (c *Client) KeywordSearch(ctx context.Context, query string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	results, err := c.searcher.KeywordSearch(ctx, c.config.TenantID, query, limit, filter)
	if err != nil {
		c.logger.ErrorContext(ctx, "keyword search failed", "tenant", c.config.TenantID, "error", err)
		return nil, err
	}
	return results, nil
}

// HybridSearch implements Engine. A negative vectorWeight selects the
// configured default; anything outside [0,1] otherwise is rejected.
func (c *Client) HybridSearch(ctx context.Context, query string, limit int, vectorWeight float64, filter types.SearchFilter) ([]types.SearchResult, error) {
	if vectorWeight < 0 {
		vectorWeight = c.config.VectorWeight
	}
	results, err := c.searcher.HybridSearch(ctx, c.config.TenantID, query, limit, vectorWeight, filter)
	if err != nil {
		c.logger.ErrorContext(ctx, "hybrid search failed", "tenant", c.config.TenantID, "error", err)
		return nil, err
	}
	return results, nil
}

// GraphQuery implements Engine. The query shape is derived once here
// at the boundary from which endpoint ids are present.
func (c *Client) GraphQuery(ctx context.Context, relation, fromID, toID string, limit int) ([]types.Edge, error) {
	q := store.NewEdgeQuery(relation, fromID, toID, limit)
	return c.grapher.Query(ctx, c.config.TenantID, q)
}

// FindPaths implements Engine.
func (c *Client) FindPaths(ctx context.Context, startID, endID string, maxDepth int) ([]types.Path, error) {
	return c.grapher.FindPaths(ctx, c.config.TenantID, startID, endID, maxDepth)
}

// CreateEdge implements Engine.
func (c *Client) CreateEdge(ctx context.Context, edge types.Edge) error {
	return c.grapher.CreateEdge(ctx, c.config.TenantID, edge)
}

// DeleteEdge implements Engine.
func (c *Client) DeleteEdge(ctx context.Context, fromID, relation, toID string) error {
	return c.grapher.DeleteEdge(ctx, c.config.TenantID, fromID, relation, toID)
}

// GetDocument implements Engine.
func (c *Client) GetDocument(ctx context.Context, docID string) (*types.Document, error) {
	return c.store.GetDocument(ctx, c.config.TenantID, docID)
}

// ListDocuments implements Engine.
func (c *Client) ListDocuments(ctx context.Context, limit int, pageToken string) (*types.DocumentPage, error) {
	return c.store.ListDocuments(ctx, c.config.TenantID, limit, pageToken)
}

// GetInsight implements Engine.
func (c *Client) GetInsight(ctx context.Context, insightID string) (*types.Insight, error) {
	return c.store.GetInsight(ctx, c.config.TenantID, insightID)
}

// ListInsights implements Engine.
func (c *Client) ListInsights(ctx context.Context, limit int, pageToken string) (*types.InsightPage, error) {
	return c.store.ListInsights(ctx, c.config.TenantID, limit, pageToken)
}

// Close releases the store and embedder.
func (c *Client) Close() error {
	if err := c.embedder.Close(); err != nil {
		c.logger.Warn("failed to close embedder", "error", err)
	}
	return c.store.Close()
}
