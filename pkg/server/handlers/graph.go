package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vockit/lattice/pkg/server/dto"
	"github.com/vockit/lattice/pkg/types"
)

// Default bounds for relationship queries.
const (
	DefaultEdgeLimit = 100
	DefaultMaxDepth  = 3
)

// GraphHandler handles relationship query and mutation requests
type GraphHandler struct {
	engines Resolver
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(engines Resolver) *GraphHandler {
	return &GraphHandler{engines: engines}
}

// Query handles POST /graph/query
func (h *GraphHandler) Query(c *gin.Context) {
	var req dto.EdgeQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = DefaultEdgeLimit
	}
	if req.Limit > dto.MaxLimit {
		req.Limit = dto.MaxLimit
	}

	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	edges, err := engine.GraphQuery(c.Request.Context(), req.Relation, req.FromID, req.ToID, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeQueryResponse{
		Edges: edgesToDTO(edges),
		Total: len(edges),
	})
}

// Paths handles POST /graph/paths
func (h *GraphHandler) Paths(c *gin.Context) {
	var req dto.PathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	if req.MaxDepth <= 0 {
		req.MaxDepth = DefaultMaxDepth
	}

	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	paths, err := engine.FindPaths(c.Request.Context(), req.StartID, req.EndID, req.MaxDepth)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.Path, 0, len(paths))
	for _, p := range paths {
		out = append(out, dto.Path{Edges: edgesToDTO(p.Edges), Length: p.Length})
	}
	c.JSON(http.StatusOK, dto.PathsResponse{Paths: out, Total: len(out)})
}

// CreateEdge handles PUT /graph/edge
func (h *GraphHandler) CreateEdge(c *gin.Context) {
	var req dto.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	edge := types.Edge{
		FromID:     req.FromID,
		ToID:       req.ToID,
		Relation:   req.Relation,
		Weight:     req.Weight,
		Properties: req.Properties,
	}
	if err := engine.CreateEdge(c.Request.Context(), edge); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteEdge handles DELETE /graph/edge
func (h *GraphHandler) DeleteEdge(c *gin.Context) {
	var req dto.DeleteEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	if err := engine.DeleteEdge(c.Request.Context(), req.FromID, req.Relation, req.ToID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
