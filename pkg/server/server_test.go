package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vockit/lattice/pkg/config"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// unitEmbedder maps any text to a fixed unit vector so vector and
// hybrid flows run without a provider.
type unitEmbedder struct{}

func (unitEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (unitEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (unitEmbedder) Dimensions() int { return 3 }
func (unitEmbedder) Close() error    { return nil }

func newTestServer(t *testing.T) (*Server, *store.BadgerStore) {
	t.Helper()

	s, err := store.NewBadgerStore(store.BadgerOptions{InMemory: true, Dimension: 3})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 0, Mode: "test"},
	}
	resolver := NewClientResolver(s, unitEmbedder{}, 3, 0.7, nil)

	srv := New(cfg, resolver, s, nil)
	srv.Setup()
	return srv, s
}

func request(t *testing.T, srv *Server, method, path, tenant string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestServerHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/live", "/ready"} {
		w := request(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestServerEchoesRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServerSearchFlow(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertChunk(ctx, "acme", types.Chunk{
		DocumentID: "doc-1", ChunkID: "0",
		Text:      "battery drains overnight",
		Embedding: []float32{1, 0, 0},
	}))
	require.NoError(t, s.UpsertChunk(ctx, "acme", types.Chunk{
		DocumentID: "doc-2", ChunkID: "0",
		Text:      "screen flickers",
		Embedding: []float32{0, 1, 0},
	}))

	w := request(t, srv, http.MethodPost, "/api/v1/search/keyword", "acme", map[string]any{"query": "battery"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Results []struct {
			DocumentID string `json:"document_id"`
		} `json:"results"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "doc-1", resp.Results[0].DocumentID)

	// Another tenant sees nothing.
	w = request(t, srv, http.MethodPost, "/api/v1/search/keyword", "globex", map[string]any{"query": "battery"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)

	// Hybrid over the same collection.
	w = request(t, srv, http.MethodPost, "/api/v1/search/hybrid", "acme", map[string]any{"query": "battery"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Total)
	assert.Equal(t, "doc-1", resp.Results[0].DocumentID)
}

func TestServerGraphFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv, http.MethodPut, "/api/v1/graph/edge", "acme", map[string]any{
		"from_id": "battery", "to_id": "overheating", "relation": "MENTIONED_WITH", "weight": 0.8,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, srv, http.MethodPost, "/api/v1/graph/query", "acme", map[string]any{"from_id": "battery"})
	require.Equal(t, http.StatusOK, w.Code)

	var queryResp struct {
		Edges []struct {
			ToID   string  `json:"to_id"`
			Weight float64 `json:"weight"`
		} `json:"edges"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queryResp))
	require.Equal(t, 1, queryResp.Total)
	assert.Equal(t, "overheating", queryResp.Edges[0].ToID)
	assert.Equal(t, 0.8, queryResp.Edges[0].Weight)

	w = request(t, srv, http.MethodPost, "/api/v1/graph/paths", "acme", map[string]any{
		"start_id": "battery", "end_id": "overheating", "max_depth": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pathsResp struct {
		Paths []struct {
			Length int `json:"length"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pathsResp))
	require.Len(t, pathsResp.Paths, 1)
	assert.Equal(t, 1, pathsResp.Paths[0].Length)

	w = request(t, srv, http.MethodDelete, "/api/v1/graph/edge", "acme", map[string]any{
		"from_id": "battery", "to_id": "overheating", "relation": "MENTIONED_WITH",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, srv, http.MethodPost, "/api/v1/graph/query", "acme", map[string]any{"from_id": "battery"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queryResp))
	assert.Zero(t, queryResp.Total)
}

func TestServerDocumentListing(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDocument(ctx, "acme", types.Document{ID: "doc-1", Content: "hello"}))
	require.NoError(t, s.UpsertDocument(ctx, "acme", types.Document{ID: "doc-2", Content: "world"}))

	w := request(t, srv, http.MethodGet, "/api/v1/documents?limit=1", "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		NextPageToken string `json:"next_page_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	require.NotEmpty(t, page.NextPageToken)

	w = request(t, srv, http.MethodGet, "/api/v1/documents?limit=1&page_token="+page.NextPageToken, "acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// The field is omitempty on the wire; clear the previous page's
	// token so the unmarshal reflects this response alone.
	page.NextPageToken = ""
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "doc-2", page.Items[0].ID)
	assert.Empty(t, page.NextPageToken)

	w = request(t, srv, http.MethodGet, "/api/v1/documents/doc-404", "acme", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
