// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// Validation errors
var (
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrQueryTooLong   = errors.New("query exceeds maximum length (8192)")
	ErrInvalidWeight  = errors.New("vector_weight must be in [0,1]")
	ErrMissingShape   = errors.New("at least one of from_id, to_id is required")
	ErrEmptyEndpoint  = errors.New("from_id and to_id cannot be empty")
	ErrEmptyRelation  = errors.New("relation cannot be empty")
	ErrInvalidWeightE = errors.New("weight must be in [0,1]")
)

// Field limits to keep requests bounded
const (
	MaxQueryLength    = 8192
	MaxIDLength       = 512
	MaxRelationLength = 256
	MaxLimit          = 1000
	MaxDepth          = 10
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SearchRequest represents a retrieval request. VectorWeight is only
// honored on the hybrid endpoint; a nil weight uses the server default.
type SearchRequest struct {
	Query        string   `json:"query" binding:"required"`
	Limit        int      `json:"limit,omitempty"`
	VectorWeight *float64 `json:"vector_weight,omitempty"`
	SourceType   string   `json:"source_type,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if r.VectorWeight != nil && (*r.VectorWeight < 0 || *r.VectorWeight > 1) {
		return ErrInvalidWeight
	}
	return nil
}

// SearchResult is one fused retrieval hit.
type SearchResult struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// SearchResponse wraps retrieval hits with their count.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}
