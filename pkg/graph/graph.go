// Package graph answers relationship queries over the tenant's edge
// table: single-hop lookups in four directional shapes, bounded-depth
// path discovery, and idempotent edge mutation.
package graph

import (
	"context"
	"fmt"

	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// Grapher executes relationship queries against the store gateway.
type Grapher struct {
	store store.Store

	// maxConcurrency bounds parallel adjacency queries within one BFS
	// depth level.
	maxConcurrency int
}

// NewGrapher creates a grapher over the given store.
func NewGrapher(s store.Store) *Grapher {
	return &Grapher{store: s, maxConcurrency: 8}
}

// Query executes a single-hop edge query. The shape is the tagged
// variant derived at the boundary; zero matching edges is an empty
// list, not an error.
func (g *Grapher) Query(ctx context.Context, tenantID string, q store.EdgeQuery) ([]types.Edge, error) {
	if tenantID == "" {
		return nil, types.ErrMissingTenant
	}
	return g.store.Edges(ctx, tenantID, q)
}

// CreateEdge upserts the (from, relation, to) triple. Weight bounds
// are enforced here at the boundary; the store trusts its callers.
// Repeating the call overwrites weight and properties with the same
// values and has no additional effect.
func (g *Grapher) CreateEdge(ctx context.Context, tenantID string, edge types.Edge) error {
	if tenantID == "" {
		return types.ErrMissingTenant
	}
	if edge.FromID == "" || edge.ToID == "" || edge.Relation == "" {
		return fmt.Errorf("edge requires from, to, and relation type")
	}
	if edge.Weight < 0 || edge.Weight > 1 {
		return fmt.Errorf("edge weight must be in [0,1], got %v", edge.Weight)
	}
	edge.Properties = types.EnsureMetadata(edge.Properties)
	return g.store.UpsertEdge(ctx, tenantID, edge)
}

// DeleteEdge removes the triple. Deleting a missing edge is a no-op.
func (g *Grapher) DeleteEdge(ctx context.Context, tenantID, fromID, relation, toID string) error {
	if tenantID == "" {
		return types.ErrMissingTenant
	}
	return g.store.DeleteEdge(ctx, tenantID, fromID, relation, toID)
}
