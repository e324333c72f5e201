package types

import (
	"time"
)

// Document is a raw source document owned by the ingestion pipeline.
// The engine only reads documents; it never mutates them.
type Document struct {
	ID         string            `json:"id"`
	TenantID   string            `json:"tenant_id"`
	SourceType string            `json:"source_type"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Chunk is a bounded slice of a document's text together with its
// embedding. Chunks are written once by the enrichment pipeline and
// are immutable afterwards.
type Chunk struct {
	DocumentID string            `json:"document_id"`
	ChunkID    string            `json:"chunk_id"`
	Text       string            `json:"text"`
	Embedding  []float32         `json:"embedding"`
	Metadata   map[string]string `json:"metadata"`
}

// Edge is a directed, typed relationship between two entity
// identifiers. Identity within a tenant is the
// (FromID, Relation, ToID) triple; re-inserting the same triple
// overwrites weight and properties.
type Edge struct {
	FromID     string            `json:"from"`
	ToID       string            `json:"to"`
	Relation   string            `json:"type"`
	Weight     float64           `json:"weight"`
	Properties map[string]string `json:"properties"`
}

// Insight is a derived artifact referencing zero or more source
// documents. The engine reads and lists insights; it does not create
// them.
type Insight struct {
	ID         string            `json:"id"`
	TenantID   string            `json:"tenant_id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	SourceDocs []string          `json:"source_docs"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SearchResult is one ranked chunk returned by vector, keyword, or
// hybrid search. Score is only populated by hybrid search; the single
// signals are position-ranked.
type SearchResult struct {
	DocumentID string            `json:"document_id"`
	ChunkID    string            `json:"chunk_id"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata"`
	Score      float64           `json:"score,omitempty"`
}

// Key identifies a result across independently ranked lists.
func (r SearchResult) Key() string {
	return r.DocumentID + "\x00" + r.ChunkID
}

// Path is an ordered walk over the edge relation from a start node to
// an end node. Length is the hop count, always len(Edges).
type Path struct {
	Edges  []Edge `json:"path"`
	Length int    `json:"length"`
}

// DocumentPage is one page of a paginated document listing.
// NextPageToken is empty when no rows remain.
type DocumentPage struct {
	Items         []Document `json:"items"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// InsightPage is one page of a paginated insight listing.
type InsightPage struct {
	Items         []Insight `json:"items"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// SearchFilter narrows a search to chunks whose document carries the
// given source type. The zero value matches everything.
type SearchFilter struct {
	SourceType string `json:"source_type,omitempty"`
}

// EnsureMetadata returns m, or an empty map when m is nil. Response
// shapes always carry a map, never null.
func EnsureMetadata(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
