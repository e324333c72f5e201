package lattice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vockit/lattice"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// axisEmbedder embeds a handful of known terms onto fixed axes so
// similarity is predictable without a provider.
type axisEmbedder struct{}

var axes = map[string][]float32{
	"battery":  {1, 0, 0},
	"screen":   {0, 1, 0},
	"shipping": {0, 0, 1},
}

func embedText(text string) []float32 {
	if v, ok := axes[text]; ok {
		return v
	}
	return []float32{1, 1, 1}
}

func (axisEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t)
	}
	return out, nil
}

func (axisEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedText(text), nil
}

func (axisEmbedder) Dimensions() int { return 3 }
func (axisEmbedder) Close() error    { return nil }

func newTestClient(t *testing.T, tenantID string) (*lattice.Client, *store.BadgerStore) {
	t.Helper()
	s, err := store.NewBadgerStore(store.BadgerOptions{InMemory: true, Dimension: 3})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	client, err := lattice.NewClient(s, axisEmbedder{}, &lattice.Config{
		TenantID:        tenantID,
		VectorDimension: 3,
	}, nil)
	require.NoError(t, err)
	return client, s
}

func TestNewClientValidation(t *testing.T) {
	s, err := store.NewBadgerStore(store.BadgerOptions{InMemory: true, Dimension: 3})
	require.NoError(t, err)
	defer s.Close()

	_, err = lattice.NewClient(s, axisEmbedder{}, nil, nil)
	assert.ErrorIs(t, err, types.ErrMissingTenant)

	_, err = lattice.NewClient(s, axisEmbedder{}, &lattice.Config{VectorDimension: 3}, nil)
	assert.ErrorIs(t, err, types.ErrMissingTenant)

	_, err = lattice.NewClient(s, axisEmbedder{}, &lattice.Config{TenantID: "acme"}, nil)
	assert.Error(t, err)

	_, err = lattice.NewClient(s, axisEmbedder{}, &lattice.Config{
		TenantID: "acme", VectorDimension: 3, VectorWeight: 1.5,
	}, nil)
	assert.Error(t, err)

	client, err := lattice.NewClient(s, axisEmbedder{}, &lattice.Config{
		TenantID: "acme", VectorDimension: 3,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "acme", client.TenantID())
}

func TestClientSearchFlows(t *testing.T) {
	client, s := newTestClient(t, "acme")
	ctx := context.Background()

	chunks := []types.Chunk{
		{DocumentID: "doc-1", ChunkID: "0", Text: "the battery drains overnight", Embedding: []float32{1, 0, 0}},
		{DocumentID: "doc-2", ChunkID: "0", Text: "screen flickers in sunlight", Embedding: []float32{0, 1, 0}},
		{DocumentID: "doc-3", ChunkID: "0", Text: "battery replacement was easy", Embedding: []float32{0.9, 0.1, 0}},
	}
	for _, c := range chunks {
		require.NoError(t, s.UpsertChunk(ctx, "acme", c))
	}

	t.Run("vector search ranks by similarity", func(t *testing.T) {
		results, err := client.VectorSearch(ctx, "battery", 2, types.SearchFilter{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "doc-1", results[0].DocumentID)
		assert.Equal(t, "doc-3", results[1].DocumentID)
	})

	t.Run("keyword search filters by containment", func(t *testing.T) {
		results, err := client.KeywordSearch(ctx, "Battery!", 10, types.SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("hybrid boosts double hits", func(t *testing.T) {
		results, err := client.HybridSearch(ctx, "battery", 3, -1, types.SearchFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		// doc-1 scores in both signals.
		assert.Equal(t, "doc-1", results[0].DocumentID)
		assert.Positive(t, results[0].Score)
	})

	t.Run("empty results are not an error", func(t *testing.T) {
		results, err := client.KeywordSearch(ctx, "keyboard", 10, types.SearchFilter{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestClientGraphFlows(t *testing.T) {
	client, _ := newTestClient(t, "acme")
	ctx := context.Background()

	require.NoError(t, client.CreateEdge(ctx, types.Edge{
		FromID: "battery", ToID: "overheating", Relation: "MENTIONED_WITH", Weight: 0.6,
	}))
	require.NoError(t, client.CreateEdge(ctx, types.Edge{
		FromID: "overheating", ToID: "returns", Relation: "CAUSES", Weight: 0.9,
	}))

	edges, err := client.GraphQuery(ctx, "", "battery", "", 0)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "overheating", edges[0].ToID)

	edges, err = client.GraphQuery(ctx, "CAUSES", "", "returns", 0)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	paths, err := client.FindPaths(ctx, "battery", "returns", 3)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 2, paths[0].Length)

	require.NoError(t, client.DeleteEdge(ctx, "battery", "MENTIONED_WITH", "overheating"))
	paths, err = client.FindPaths(ctx, "battery", "returns", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestClientRecordReads(t *testing.T) {
	client, s := newTestClient(t, "acme")
	ctx := context.Background()

	require.NoError(t, s.UpsertDocument(ctx, "acme", types.Document{ID: "doc-1", Content: "hello"}))
	require.NoError(t, s.UpsertInsight(ctx, "acme", types.Insight{ID: "ins-1", Title: "trend"}))

	doc, err := client.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Content)

	_, err = client.GetDocument(ctx, "doc-404")
	assert.ErrorIs(t, err, types.ErrNotFound)

	docs, err := client.ListDocuments(ctx, 10, "")
	require.NoError(t, err)
	assert.Len(t, docs.Items, 1)

	insight, err := client.GetInsight(ctx, "ins-1")
	require.NoError(t, err)
	assert.Equal(t, "trend", insight.Title)

	insights, err := client.ListInsights(ctx, 10, "")
	require.NoError(t, err)
	assert.Len(t, insights.Items, 1)
}

func TestClientsAreTenantIsolated(t *testing.T) {
	s, err := store.NewBadgerStore(store.BadgerOptions{InMemory: true, Dimension: 3})
	require.NoError(t, err)
	defer s.Close()

	newFor := func(tenant string) *lattice.Client {
		c, err := lattice.NewClient(s, axisEmbedder{}, &lattice.Config{
			TenantID: tenant, VectorDimension: 3,
		}, nil)
		require.NoError(t, err)
		return c
	}
	acme, globex := newFor("acme"), newFor("globex")
	ctx := context.Background()

	require.NoError(t, acme.CreateEdge(ctx, types.Edge{FromID: "a", ToID: "b", Relation: "R", Weight: 0.5}))

	edges, err := acme.GraphQuery(ctx, "", "a", "", 0)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	edges, err = globex.GraphQuery(ctx, "", "a", "", 0)
	require.NoError(t, err)
	assert.Empty(t, edges)
}
