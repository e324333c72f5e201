package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPathsDirectEdge(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	mustEdge(t, g, "acme", "a", "R", "b")

	// The direct edge is found regardless of how deep the search is
	// allowed to go.
	for _, maxDepth := range []int{1, 2, 5} {
		paths, err := g.FindPaths(ctx, "acme", "a", "b", maxDepth)
		require.NoError(t, err)
		require.Len(t, paths, 1, "maxDepth %d", maxDepth)
		assert.Equal(t, 1, paths[0].Length)
		assert.Equal(t, "a", paths[0].Edges[0].FromID)
		assert.Equal(t, "b", paths[0].Edges[0].ToID)
	}
}

func TestFindPathsTwoHops(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	mustEdge(t, g, "acme", "a", "R", "b")
	mustEdge(t, g, "acme", "b", "R", "c")

	// Depth 1 cannot reach a two-hop target.
	paths, err := g.FindPaths(ctx, "acme", "a", "c", 1)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = g.FindPaths(ctx, "acme", "a", "c", 2)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, 2, paths[0].Length)
	assert.Equal(t, "a", paths[0].Edges[0].FromID)
	assert.Equal(t, "b", paths[0].Edges[0].ToID)
	assert.Equal(t, "b", paths[0].Edges[1].FromID)
	assert.Equal(t, "c", paths[0].Edges[1].ToID)
}

func TestFindPathsShortestWins(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	// Both a one-hop and a two-hop route exist.
	mustEdge(t, g, "acme", "a", "R", "c")
	mustEdge(t, g, "acme", "a", "R", "b")
	mustEdge(t, g, "acme", "b", "R", "c")

	paths, err := g.FindPaths(ctx, "acme", "a", "c", 3)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 1, paths[0].Length)
}

func TestFindPathsCrossesRelationTypes(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	// Traversal is relation agnostic; hops may mix relation types.
	mustEdge(t, g, "acme", "a", "MENTIONED_WITH", "b")
	mustEdge(t, g, "acme", "b", "CAUSES", "c")

	paths, err := g.FindPaths(ctx, "acme", "a", "c", 2)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "MENTIONED_WITH", paths[0].Edges[0].Relation)
	assert.Equal(t, "CAUSES", paths[0].Edges[1].Relation)
}

func TestFindPathsFollowsDirection(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	mustEdge(t, g, "acme", "b", "R", "a")

	// The edge points the wrong way; there is no path a to b.
	paths, err := g.FindPaths(ctx, "acme", "a", "b", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPathsCycleTerminates(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	mustEdge(t, g, "acme", "a", "R", "b")
	mustEdge(t, g, "acme", "b", "R", "a")
	mustEdge(t, g, "acme", "b", "R", "c")

	paths, err := g.FindPaths(ctx, "acme", "a", "c", 5)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 2, paths[0].Length)

	// A cycle with no route to the target exhausts the frontier.
	paths, err = g.FindPaths(ctx, "acme", "a", "nowhere", 5)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPathsDegenerateArguments(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	mustEdge(t, g, "acme", "a", "R", "b")

	paths, err := g.FindPaths(ctx, "acme", "a", "b", 0)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = g.FindPaths(ctx, "acme", "", "b", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = g.FindPaths(ctx, "acme", "a", "", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = g.FindPaths(ctx, "", "a", "b", 3)
	assert.Error(t, err)
}

func TestFindPathsDeepChain(t *testing.T) {
	g, _ := newTestGrapher(t)
	ctx := context.Background()

	nodes := []string{"n1", "n2", "n3", "n4", "n5"}
	for i := 0; i < len(nodes)-1; i++ {
		mustEdge(t, g, "acme", nodes[i], "R", nodes[i+1])
	}

	paths, err := g.FindPaths(ctx, "acme", "n1", "n5", 4)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 4, paths[0].Length)

	paths, err = g.FindPaths(ctx, "acme", "n1", "n5", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
