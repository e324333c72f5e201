package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/vockit/lattice/pkg/types"
)

// Key layout, tenant always leading:
//
//	d <tenant> <doc_id>                 document row
//	i <tenant> <insight_id>             insight row
//	c <tenant> <doc_id> <chunk_id>      chunk-with-vector row
//	e <tenant> <from> <relation> <to>   edge row
//	r <tenant> <to> <relation> <from>   reverse edge index
//
// Parts are joined with a NUL separator, so prefix scans over a
// tenant's table never cross into another tenant. The reverse index
// is maintained on every edge upsert and delete; it exists solely to
// serve the incoming-edge query shape, which the edge table's natural
// clustering cannot answer.
const keySep = "\x00"

const (
	tableDocuments = "d"
	tableInsights  = "i"
	tableChunks    = "c"
	tableEdges     = "e"
	tableRevEdges  = "r"
)

// BadgerStore is an embedded implementation of Store over a local
// badger keyspace. It is the development and test backend; the badger
// DB may be on disk or fully in memory.
type BadgerStore struct {
	db        *badger.DB
	dimension int
}

// BadgerOptions configures an embedded store. Dimension is the
// collection-wide embedding dimension; chunk writes and similarity
// queries with any other dimension are rejected.
type BadgerOptions struct {
	Path      string
	InMemory  bool
	Dimension int
}

// NewBadgerStore opens (or creates) an embedded store.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("store dimension must be positive, got %d", opts.Dimension)
	}
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db, dimension: opts.Dimension}, nil
}

// Dimension returns the configured embedding dimension.
func (s *BadgerStore) Dimension() int { return s.dimension }

func (s *BadgerStore) Close() error { return s.db.Close() }

func storeKey(parts ...string) []byte {
	return []byte(strings.Join(parts, keySep))
}

func keyTail(key, prefix []byte) string {
	return string(bytes.TrimPrefix(key, prefix))
}

// GetDocument implements Store.
func (s *BadgerStore) GetDocument(ctx context.Context, tenantID, docID string) (*types.Document, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var doc types.Document
	if err := s.getJSON(storeKey(tableDocuments, tenantID, docID), &doc); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("document %s: %w", docID, types.ErrNotFound)
		}
		return nil, types.NewStoreError(TemplateDocumentGet, err)
	}
	doc.Metadata = types.EnsureMetadata(doc.Metadata)
	return &doc, nil
}

// UpsertDocument implements Store.
func (s *BadgerStore) UpsertDocument(ctx context.Context, tenantID string, doc types.Document) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	doc.TenantID = tenantID
	if err := s.putJSON(storeKey(tableDocuments, tenantID, doc.ID), doc); err != nil {
		return types.NewStoreError(TemplateDocumentUpsert, err)
	}
	return nil
}

// ListDocuments implements Store.
func (s *BadgerStore) ListDocuments(ctx context.Context, tenantID string, limit int, pageToken string) (*types.DocumentPage, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	after, err := DecodeCursor(pageToken)
	if err != nil {
		return nil, types.NewStoreError(TemplateDocumentScan, err)
	}
	prefix := storeKey(tableDocuments, tenantID, "")

	page := &types.DocumentPage{Items: []types.Document{}}
	var lastTail string
	more := false
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(append(append([]byte{}, prefix...), after...)); it.ValidForPrefix(prefix); it.Next() {
			tail := keyTail(it.Item().KeyCopy(nil), prefix)
			if tail <= after {
				continue
			}
			if limit > 0 && len(page.Items) >= limit {
				more = true
				return nil
			}
			var doc types.Document
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &doc) }); err != nil {
				return err
			}
			doc.Metadata = types.EnsureMetadata(doc.Metadata)
			page.Items = append(page.Items, doc)
			lastTail = tail
		}
		return nil
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateDocumentScan, err)
	}
	if more {
		page.NextPageToken = EncodeCursor(lastTail)
	}
	return page, nil
}

// GetInsight implements Store.
func (s *BadgerStore) GetInsight(ctx context.Context, tenantID, insightID string) (*types.Insight, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var insight types.Insight
	if err := s.getJSON(storeKey(tableInsights, tenantID, insightID), &insight); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("insight %s: %w", insightID, types.ErrNotFound)
		}
		return nil, types.NewStoreError(TemplateInsightGet, err)
	}
	insight.Metadata = types.EnsureMetadata(insight.Metadata)
	return &insight, nil
}

// UpsertInsight implements Store.
func (s *BadgerStore) UpsertInsight(ctx context.Context, tenantID string, insight types.Insight) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	insight.TenantID = tenantID
	if err := s.putJSON(storeKey(tableInsights, tenantID, insight.ID), insight); err != nil {
		return types.NewStoreError(TemplateInsightUpsert, err)
	}
	return nil
}

// ListInsights implements Store.
func (s *BadgerStore) ListInsights(ctx context.Context, tenantID string, limit int, pageToken string) (*types.InsightPage, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	after, err := DecodeCursor(pageToken)
	if err != nil {
		return nil, types.NewStoreError(TemplateInsightScan, err)
	}
	prefix := storeKey(tableInsights, tenantID, "")

	page := &types.InsightPage{Items: []types.Insight{}}
	var lastTail string
	more := false
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(append(append([]byte{}, prefix...), after...)); it.ValidForPrefix(prefix); it.Next() {
			tail := keyTail(it.Item().KeyCopy(nil), prefix)
			if tail <= after {
				continue
			}
			if limit > 0 && len(page.Items) >= limit {
				more = true
				return nil
			}
			var insight types.Insight
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &insight) }); err != nil {
				return err
			}
			insight.Metadata = types.EnsureMetadata(insight.Metadata)
			page.Items = append(page.Items, insight)
			lastTail = tail
		}
		return nil
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateInsightScan, err)
	}
	if more {
		page.NextPageToken = EncodeCursor(lastTail)
	}
	return page, nil
}

// UpsertChunk implements Store. The chunk's embedding must match the
// configured dimension; a mismatch is a fatal input error, never a
// silent truncation.
func (s *BadgerStore) UpsertChunk(ctx context.Context, tenantID string, chunk types.Chunk) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	if len(chunk.Embedding) != s.dimension {
		return fmt.Errorf("chunk %s/%s has dimension %d, store configured for %d: %w",
			chunk.DocumentID, chunk.ChunkID, len(chunk.Embedding), s.dimension, types.ErrDimensionMismatch)
	}
	if err := s.putJSON(storeKey(tableChunks, tenantID, chunk.DocumentID, chunk.ChunkID), chunk); err != nil {
		return types.NewStoreError(TemplateChunkUpsert, err)
	}
	return nil
}

// SimilarChunks implements Store. The embedded backend answers the
// nearest-neighbor scan with an exact pass over the tenant's chunk
// partition, ordered by cosine distance ascending with a stable key
// tie-break.
func (s *BadgerStore) SimilarChunks(ctx context.Context, tenantID string, vector []float32, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, store configured for %d: %w",
			len(vector), s.dimension, types.ErrDimensionMismatch)
	}

	type scored struct {
		result     types.SearchResult
		similarity float64
		key        string
	}
	var candidates []scored

	prefix := storeKey(tableChunks, tenantID, "")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var chunk types.Chunk
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &chunk) }); err != nil {
				return err
			}
			if !matchesFilter(chunk, filter) {
				continue
			}
			candidates = append(candidates, scored{
				result:     chunkResult(chunk),
				similarity: cosineSimilarity(vector, chunk.Embedding),
				key:        string(it.Item().KeyCopy(nil)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateChunkANN, err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].key < candidates[j].key
	})
	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]types.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.result)
	}
	return results, nil
}

// MatchingChunks implements Store. Containment is case-insensitive;
// ordering is key order, not relevance.
func (s *BadgerStore) MatchingChunks(ctx context.Context, tenantID string, needle string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	needle = strings.ToLower(needle)

	var results []types.SearchResult
	prefix := storeKey(tableChunks, tenantID, "")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit >= 0 && len(results) >= limit {
				return nil
			}
			var chunk types.Chunk
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &chunk) }); err != nil {
				return err
			}
			if !matchesFilter(chunk, filter) {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(chunk.Text), needle) {
				continue
			}
			results = append(results, chunkResult(chunk))
		}
		return nil
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateChunkContains, err)
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	return results, nil
}

// Edges implements Store.
func (s *BadgerStore) Edges(ctx context.Context, tenantID string, q EdgeQuery) ([]types.Edge, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	// Exact lookups with a named relation are a point get.
	if q.Kind == ExactEdge && q.Relation != "" {
		var edge types.Edge
		err := s.getJSON(storeKey(tableEdges, tenantID, q.FromID, q.Relation, q.ToID), &edge)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []types.Edge{}, nil
		}
		if err != nil {
			return nil, types.NewStoreError(TemplateEdgeExact, err)
		}
		edge.Properties = types.EnsureMetadata(edge.Properties)
		return []types.Edge{edge}, nil
	}

	prefix, match := s.edgeScan(tenantID, q)
	edges := []types.Edge{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if q.Limit > 0 && len(edges) >= q.Limit {
				return nil
			}
			var edge types.Edge
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &edge) }); err != nil {
				return err
			}
			if !match(edge) {
				continue
			}
			edge.Properties = types.EnsureMetadata(edge.Properties)
			edges = append(edges, edge)
		}
		return nil
	})
	if err != nil {
		return nil, types.NewStoreError(q.Template(), err)
	}
	return edges, nil
}

// edgeScan picks the narrowest key prefix serving the query shape and
// a residual per-edge predicate for what the prefix cannot express.
func (s *BadgerStore) edgeScan(tenantID string, q EdgeQuery) ([]byte, func(types.Edge) bool) {
	all := func(types.Edge) bool { return true }
	switch q.Kind {
	case ExactEdge:
		// Any-relation existence check: scan the from-node's outgoing
		// edges and keep those landing on the target.
		return storeKey(tableEdges, tenantID, q.FromID, ""), func(e types.Edge) bool {
			return e.ToID == q.ToID
		}
	case OutgoingEdges:
		if q.Relation != "" {
			return storeKey(tableEdges, tenantID, q.FromID, q.Relation, ""), all
		}
		return storeKey(tableEdges, tenantID, q.FromID, ""), all
	case IncomingEdges:
		if q.Relation != "" {
			return storeKey(tableRevEdges, tenantID, q.ToID, q.Relation, ""), all
		}
		return storeKey(tableRevEdges, tenantID, q.ToID, ""), all
	default: // EdgesOfType
		return storeKey(tableEdges, tenantID, ""), func(e types.Edge) bool {
			return e.Relation == q.Relation
		}
	}
}

// UpsertEdge implements Store. The forward row and the reverse index
// row are written in one transaction so the incoming-edge shape never
// observes a half-written edge.
func (s *BadgerStore) UpsertEdge(ctx context.Context, tenantID string, edge types.Edge) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	raw, err := json.Marshal(edge)
	if err != nil {
		return types.NewStoreError(TemplateEdgeUpsert, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(storeKey(tableEdges, tenantID, edge.FromID, edge.Relation, edge.ToID), raw); err != nil {
			return err
		}
		return txn.Set(storeKey(tableRevEdges, tenantID, edge.ToID, edge.Relation, edge.FromID), raw)
	})
	if err != nil {
		return types.NewStoreError(TemplateEdgeUpsert, err)
	}
	return nil
}

// DeleteEdge implements Store.
func (s *BadgerStore) DeleteEdge(ctx context.Context, tenantID, fromID, relation, toID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(storeKey(tableEdges, tenantID, fromID, relation, toID)); err != nil {
			return err
		}
		return txn.Delete(storeKey(tableRevEdges, tenantID, toID, relation, fromID))
	})
	if err != nil {
		return types.NewStoreError(TemplateEdgeDelete, err)
	}
	return nil
}

func (s *BadgerStore) getJSON(key []byte, dst any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error { return json.Unmarshal(v, dst) })
	})
}

func (s *BadgerStore) putJSON(key []byte, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error { return txn.Set(key, raw) })
}

func matchesFilter(chunk types.Chunk, filter types.SearchFilter) bool {
	if filter.SourceType == "" {
		return true
	}
	return chunk.Metadata["source_type"] == filter.SourceType
}

func chunkResult(chunk types.Chunk) types.SearchResult {
	return types.SearchResult{
		DocumentID: chunk.DocumentID,
		ChunkID:    chunk.ChunkID,
		Text:       chunk.Text,
		Metadata:   types.EnsureMetadata(chunk.Metadata),
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
