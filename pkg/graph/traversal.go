package graph

import (
	"context"

	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
	"github.com/vockit/lattice/pkg/utils"
)

// FindPaths discovers a path from startID to endID over the edge
// relation, at most maxDepth hops long. Traversal is relation
// agnostic and follows edge direction.
//
// Depth 1 is answered with the exact-edge query and short-circuits
// before any expansion. Deeper searches expand the frontier one full
// level at a time; adjacency queries within a level run concurrently,
// but a level always completes before the next begins, so the first
// hit is a shortest path. An exhausted frontier or depth bound yields
// an empty list, not an error.
func (g *Grapher) FindPaths(ctx context.Context, tenantID, startID, endID string, maxDepth int) ([]types.Path, error) {
	if tenantID == "" {
		return nil, types.ErrMissingTenant
	}
	if maxDepth < 1 || startID == "" || endID == "" {
		return []types.Path{}, nil
	}

	direct, err := g.store.Edges(ctx, tenantID, store.EdgeQuery{
		Kind:   store.ExactEdge,
		FromID: startID,
		ToID:   endID,
	})
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		return []types.Path{{Edges: []types.Edge{direct[0]}, Length: 1}}, nil
	}
	if maxDepth == 1 {
		return []types.Path{}, nil
	}

	// The edge relation may contain cycles; visited tracking keeps the
	// search bounded.
	visited := map[string]bool{startID: true}
	parent := map[string]types.Edge{}
	frontier := []string{startID}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		adjacency, err := g.expandFrontier(ctx, tenantID, frontier)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, edges := range adjacency {
			for _, edge := range edges {
				if visited[edge.ToID] {
					continue
				}
				visited[edge.ToID] = true
				parent[edge.ToID] = edge
				if edge.ToID == endID {
					return []types.Path{reconstructPath(parent, startID, endID)}, nil
				}
				next = append(next, edge.ToID)
			}
		}
		frontier = next
	}

	return []types.Path{}, nil
}

// expandFrontier fetches outgoing edges for every frontier node. The
// queries run concurrently but the function returns only once the
// whole level is complete, preserving the shortest-path-first
// guarantee.
func (g *Grapher) expandFrontier(ctx context.Context, tenantID string, frontier []string) ([][]types.Edge, error) {
	queries := make([]func() ([]types.Edge, error), len(frontier))
	for i, nodeID := range frontier {
		q := store.EdgeQuery{Kind: store.OutgoingEdges, FromID: nodeID}
		queries[i] = func() ([]types.Edge, error) {
			return g.store.Edges(ctx, tenantID, q)
		}
	}
	results, errs := utils.ExecuteWithResults(ctx, g.maxConcurrency, queries...)
	if err := utils.FirstError(errs); err != nil {
		return nil, err
	}
	return results, nil
}

func reconstructPath(parent map[string]types.Edge, startID, endID string) types.Path {
	var reversed []types.Edge
	for node := endID; node != startID; {
		edge := parent[node]
		reversed = append(reversed, edge)
		node = edge.FromID
	}

	edges := make([]types.Edge, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		edges = append(edges, reversed[i])
	}
	return types.Path{Edges: edges, Length: len(edges)}
}
