package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vockit/lattice"
	"github.com/vockit/lattice/pkg/server/dto"
	"github.com/vockit/lattice/pkg/types"
)

// DefaultSearchLimit bounds results when a request omits its limit.
const DefaultSearchLimit = 10

// SearchHandler handles retrieval requests
type SearchHandler struct {
	engines Resolver
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engines Resolver) *SearchHandler {
	return &SearchHandler{engines: engines}
}

// VectorSearch handles POST /search/vector
func (h *SearchHandler) VectorSearch(c *gin.Context) {
	req, engine, ok := h.bind(c)
	if !ok {
		return
	}

	results, err := engine.VectorSearch(c.Request.Context(), req.Query, req.Limit, types.SearchFilter{SourceType: req.SourceType})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResponse(results))
}

// KeywordSearch handles POST /search/keyword
func (h *SearchHandler) KeywordSearch(c *gin.Context) {
	req, engine, ok := h.bind(c)
	if !ok {
		return
	}

	results, err := engine.KeywordSearch(c.Request.Context(), req.Query, req.Limit, types.SearchFilter{SourceType: req.SourceType})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResponse(results))
}

// HybridSearch handles POST /search/hybrid
func (h *SearchHandler) HybridSearch(c *gin.Context) {
	req, engine, ok := h.bind(c)
	if !ok {
		return
	}

	// Negative weight tells the engine to use its configured default.
	weight := -1.0
	if req.VectorWeight != nil {
		weight = *req.VectorWeight
	}

	results, err := engine.HybridSearch(c.Request.Context(), req.Query, req.Limit, weight, types.SearchFilter{SourceType: req.SourceType})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResponse(results))
}

// bind parses and validates the shared search request shape and
// resolves the tenant's engine.
func (h *SearchHandler) bind(c *gin.Context) (*dto.SearchRequest, lattice.Engine, bool) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, nil, false
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return nil, nil, false
	}
	if req.Limit <= 0 {
		req.Limit = DefaultSearchLimit
	}
	if req.Limit > dto.MaxLimit {
		req.Limit = dto.MaxLimit
	}

	engine, ok := engineFor(c, h.engines)
	if !ok {
		return nil, nil, false
	}
	return &req, engine, true
}

func searchResponse(results []types.SearchResult) dto.SearchResponse {
	out := make([]dto.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, dto.SearchResult{
			DocumentID: r.DocumentID,
			ChunkID:    r.ChunkID,
			Text:       r.Text,
			Score:      r.Score,
		})
	}
	return dto.SearchResponse{Results: out, Total: len(out)}
}
