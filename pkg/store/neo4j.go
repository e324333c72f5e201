package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/vockit/lattice/pkg/types"
)

// Neo4jStore is the production gateway over a Neo4j (or compatible)
// deployment. Nearest-neighbor search is delegated to the server's
// vector index; incoming-edge lookups are served by the server's own
// relationship indexing, so no reverse table is needed here.
type Neo4jStore struct {
	client    neo4j.DriverWithContext
	database  string
	dimension int
}

// NewNeo4jStore connects to a Neo4j deployment. The dimension is the
// collection-wide embedding dimension enforced on chunk writes and
// similarity queries.
func NewNeo4jStore(uri, username, password, database string, dimension int) (*Neo4jStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("store dimension must be positive, got %d", dimension)
	}
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database, dimension: dimension}, nil
}

// Dimension returns the configured embedding dimension.
func (s *Neo4jStore) Dimension() int { return s.dimension }

func (s *Neo4jStore) Close() error {
	return s.client.Close(context.Background())
}

// CreateIndices creates the uniqueness and vector indexes the
// templates rely on. Safe to call repeatedly.
func (s *Neo4jStore) CreateIndices(ctx context.Context) error {
	statements := []string{
		`CREATE INDEX document_tenant_id IF NOT EXISTS FOR (d:Document) ON (d.tenant_id, d.id)`,
		`CREATE INDEX insight_tenant_id IF NOT EXISTS FOR (i:Insight) ON (i.tenant_id, i.id)`,
		`CREATE INDEX chunk_tenant IF NOT EXISTS FOR (c:Chunk) ON (c.tenant_id)`,
		`CREATE INDEX entity_tenant_id IF NOT EXISTS FOR (e:Entity) ON (e.tenant_id, e.id)`,
		// The dimension is operator configuration, not request input.
		fmt.Sprintf(`CREATE VECTOR INDEX chunk_embeddings IF NOT EXISTS
			FOR (c:Chunk) ON (c.embedding)
			OPTIONS {indexConfig: {`+"`vector.dimensions`"+`: %d, `+"`vector.similarity_function`"+`: 'cosine'}}`, s.dimension),
	}
	for _, stmt := range statements {
		if _, err := s.write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func (s *Neo4jStore) read(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*db.Record), nil
}

func (s *Neo4jStore) write(ctx context.Context, query string, params map[string]any) (any, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
}

// GetDocument implements Store.
func (s *Neo4jStore) GetDocument(ctx context.Context, tenantID, docID string) (*types.Document, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	records, err := s.read(ctx, cypherDocumentGet, map[string]any{
		"tenant_id": tenantID,
		"id":        docID,
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateDocumentGet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("document %s: %w", docID, types.ErrNotFound)
	}
	doc := documentFromRecord(records[0], tenantID)
	return &doc, nil
}

// UpsertDocument implements Store.
func (s *Neo4jStore) UpsertDocument(ctx context.Context, tenantID string, doc types.Document) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	_, err := s.write(ctx, cypherDocumentUpsert, map[string]any{
		"tenant_id":   tenantID,
		"id":          doc.ID,
		"source_type": doc.SourceType,
		"content":     doc.Content,
		"metadata":    marshalMetadata(doc.Metadata),
		"created_at":  doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":  doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return types.NewStoreError(TemplateDocumentUpsert, err)
	}
	return nil
}

// ListDocuments implements Store. Pages are ordered by document id,
// which is the partition's key tail; the cursor constrains the scan
// to rows strictly after the last-seen id.
func (s *Neo4jStore) ListDocuments(ctx context.Context, tenantID string, limit int, pageToken string) (*types.DocumentPage, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	after, err := DecodeCursor(pageToken)
	if err != nil {
		return nil, types.NewStoreError(TemplateDocumentScan, err)
	}
	records, err := s.read(ctx, cypherDocumentScan, map[string]any{
		"tenant_id": tenantID,
		"after":     after,
		"limit":     int64(limit + 1),
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateDocumentScan, err)
	}

	page := &types.DocumentPage{Items: []types.Document{}}
	for i, record := range records {
		if limit > 0 && i >= limit {
			page.NextPageToken = EncodeCursor(page.Items[len(page.Items)-1].ID)
			break
		}
		page.Items = append(page.Items, documentFromRecord(record, tenantID))
	}
	return page, nil
}

// GetInsight implements Store.
func (s *Neo4jStore) GetInsight(ctx context.Context, tenantID, insightID string) (*types.Insight, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	records, err := s.read(ctx, cypherInsightGet, map[string]any{
		"tenant_id": tenantID,
		"id":        insightID,
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateInsightGet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insight %s: %w", insightID, types.ErrNotFound)
	}
	insight := insightFromRecord(records[0], tenantID)
	return &insight, nil
}

// UpsertInsight implements Store.
func (s *Neo4jStore) UpsertInsight(ctx context.Context, tenantID string, insight types.Insight) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	_, err := s.write(ctx, cypherInsightUpsert, map[string]any{
		"tenant_id":   tenantID,
		"id":          insight.ID,
		"title":       insight.Title,
		"body":        insight.Body,
		"source_docs": insight.SourceDocs,
		"metadata":    marshalMetadata(insight.Metadata),
		"created_at":  insight.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return types.NewStoreError(TemplateInsightUpsert, err)
	}
	return nil
}

// ListInsights implements Store.
func (s *Neo4jStore) ListInsights(ctx context.Context, tenantID string, limit int, pageToken string) (*types.InsightPage, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	after, err := DecodeCursor(pageToken)
	if err != nil {
		return nil, types.NewStoreError(TemplateInsightScan, err)
	}
	records, err := s.read(ctx, cypherInsightScan, map[string]any{
		"tenant_id": tenantID,
		"after":     after,
		"limit":     int64(limit + 1),
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateInsightScan, err)
	}

	page := &types.InsightPage{Items: []types.Insight{}}
	for i, record := range records {
		if limit > 0 && i >= limit {
			page.NextPageToken = EncodeCursor(page.Items[len(page.Items)-1].ID)
			break
		}
		page.Items = append(page.Items, insightFromRecord(record, tenantID))
	}
	return page, nil
}

// UpsertChunk implements Store.
func (s *Neo4jStore) UpsertChunk(ctx context.Context, tenantID string, chunk types.Chunk) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	if len(chunk.Embedding) != s.dimension {
		return fmt.Errorf("chunk %s/%s has dimension %d, store configured for %d: %w",
			chunk.DocumentID, chunk.ChunkID, len(chunk.Embedding), s.dimension, types.ErrDimensionMismatch)
	}
	_, err := s.write(ctx, cypherChunkUpsert, map[string]any{
		"tenant_id":   tenantID,
		"document_id": chunk.DocumentID,
		"chunk_id":    chunk.ChunkID,
		"text":        chunk.Text,
		"embedding":   float64Slice(chunk.Embedding),
		"source_type": chunk.Metadata["source_type"],
		"metadata":    marshalMetadata(chunk.Metadata),
	})
	if err != nil {
		return types.NewStoreError(TemplateChunkUpsert, err)
	}
	return nil
}

// SimilarChunks implements Store. The vector index candidate set is
// over-fetched before the tenant predicate is applied, because the
// index itself is collection-wide.
func (s *Neo4jStore) SimilarChunks(ctx context.Context, tenantID string, vector []float32, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, store configured for %d: %w",
			len(vector), s.dimension, types.ErrDimensionMismatch)
	}
	if limit <= 0 {
		return []types.SearchResult{}, nil
	}
	records, err := s.read(ctx, cypherChunkANN, map[string]any{
		"tenant_id":   tenantID,
		"vector":      float64Slice(vector),
		"fetch":       int64(limit * 4),
		"limit":       int64(limit),
		"source_type": filter.SourceType,
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateChunkANN, err)
	}
	return resultsFromRecords(records), nil
}

// MatchingChunks implements Store.
func (s *Neo4jStore) MatchingChunks(ctx context.Context, tenantID string, needle string, limit int, filter types.SearchFilter) ([]types.SearchResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []types.SearchResult{}, nil
	}
	records, err := s.read(ctx, cypherChunkContains, map[string]any{
		"tenant_id":   tenantID,
		"needle":      needle,
		"limit":       int64(limit),
		"source_type": filter.SourceType,
	})
	if err != nil {
		return nil, types.NewStoreError(TemplateChunkContains, err)
	}
	return resultsFromRecords(records), nil
}

// Edges implements Store.
func (s *Neo4jStore) Edges(ctx context.Context, tenantID string, q EdgeQuery) ([]types.Edge, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	if q.Kind == ExactEdge {
		limit = 1
	}
	records, err := s.read(ctx, edgeTemplates[q.Kind], map[string]any{
		"tenant_id": tenantID,
		"relation":  q.Relation,
		"from":      q.FromID,
		"to":        q.ToID,
		"limit":     int64(limit),
	})
	if err != nil {
		return nil, types.NewStoreError(q.Template(), err)
	}

	edges := make([]types.Edge, 0, len(records))
	for _, record := range records {
		edges = append(edges, edgeFromRecord(record))
	}
	return edges, nil
}

// UpsertEdge implements Store.
func (s *Neo4jStore) UpsertEdge(ctx context.Context, tenantID string, edge types.Edge) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	_, err := s.write(ctx, cypherEdgeUpsert, map[string]any{
		"tenant_id":  tenantID,
		"from":       edge.FromID,
		"to":         edge.ToID,
		"relation":   edge.Relation,
		"weight":     edge.Weight,
		"properties": marshalMetadata(edge.Properties),
	})
	if err != nil {
		return types.NewStoreError(TemplateEdgeUpsert, err)
	}
	return nil
}

// DeleteEdge implements Store.
func (s *Neo4jStore) DeleteEdge(ctx context.Context, tenantID, fromID, relation, toID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	_, err := s.write(ctx, cypherEdgeDelete, map[string]any{
		"tenant_id": tenantID,
		"from":      fromID,
		"to":        toID,
		"relation":  relation,
	})
	if err != nil {
		return types.NewStoreError(TemplateEdgeDelete, err)
	}
	return nil
}

func documentFromRecord(record *db.Record, tenantID string) types.Document {
	return types.Document{
		ID:         stringValue(record, "id"),
		TenantID:   tenantID,
		SourceType: stringValue(record, "source_type"),
		Content:    stringValue(record, "content"),
		Metadata:   unmarshalMetadata(stringValue(record, "metadata")),
		CreatedAt:  timeValue(record, "created_at"),
		UpdatedAt:  timeValue(record, "updated_at"),
	}
}

func insightFromRecord(record *db.Record, tenantID string) types.Insight {
	return types.Insight{
		ID:         stringValue(record, "id"),
		TenantID:   tenantID,
		Title:      stringValue(record, "title"),
		Body:       stringValue(record, "body"),
		SourceDocs: stringSliceValue(record, "source_docs"),
		Metadata:   unmarshalMetadata(stringValue(record, "metadata")),
		CreatedAt:  timeValue(record, "created_at"),
	}
}

func edgeFromRecord(record *db.Record) types.Edge {
	var weight float64
	if v, ok := record.Get("weight"); ok {
		if f, ok := v.(float64); ok {
			weight = f
		}
	}
	return types.Edge{
		FromID:     stringValue(record, "from"),
		ToID:       stringValue(record, "to"),
		Relation:   stringValue(record, "relation"),
		Weight:     weight,
		Properties: unmarshalMetadata(stringValue(record, "properties")),
	}
}

func resultsFromRecords(records []*db.Record) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(records))
	for _, record := range records {
		results = append(results, types.SearchResult{
			DocumentID: stringValue(record, "document_id"),
			ChunkID:    stringValue(record, "chunk_id"),
			Text:       stringValue(record, "text"),
			Metadata:   unmarshalMetadata(stringValue(record, "metadata")),
		})
	}
	return results
}

func stringValue(record *db.Record, key string) string {
	if v, ok := record.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func stringSliceValue(record *db.Record, key string) []string {
	v, ok := record.Get(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timeValue(record *db.Record, key string) time.Time {
	if v, ok := record.Get(key); ok {
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t
			}
		}
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// Metadata maps travel as JSON strings; neo4j properties cannot hold
// nested maps.
func marshalMetadata(m map[string]string) string {
	raw, err := json.Marshal(types.EnsureMetadata(m))
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func unmarshalMetadata(raw string) map[string]string {
	m := map[string]string{}
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return map[string]string{}
	}
	return m
}

func float64Slice(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
