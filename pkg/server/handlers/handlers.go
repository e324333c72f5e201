// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vockit/lattice"
	"github.com/vockit/lattice/pkg/server/dto"
	"github.com/vockit/lattice/pkg/types"
)

// TenantHeader carries the tenant for every API call. There is no
// default tenant; requests without it are rejected.
const TenantHeader = "X-Tenant-ID"

// Resolver yields a tenant-bound engine for a request. Implementations
// typically share one store gateway across all tenants.
type Resolver interface {
	Engine(tenantID string) (lattice.Engine, error)
}

// engineFor resolves the request's tenant to an engine. It writes the
// error response and returns false when the tenant is missing or the
// resolver fails.
func engineFor(c *gin.Context, r Resolver) (lattice.Engine, bool) {
	tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "missing_tenant",
			Message: "the " + TenantHeader + " header is required",
		})
		return nil, false
	}

	engine, err := r.Engine(tenantID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return engine, true
}

// respondError maps engine errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var storeErr *types.StoreError
	var embedErr *types.EmbeddingError

	switch {
	case errors.Is(err, types.ErrMissingTenant):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "missing_tenant", Message: err.Error(),
		})
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "not_found", Message: err.Error(),
		})
	case errors.Is(err, types.ErrDimensionMismatch):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "dimension_mismatch", Message: err.Error(),
		})
	case errors.As(err, &embedErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "embedding_failed", Message: err.Error(),
		})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "store_failed", Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal", Message: err.Error(),
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "invalid_request", Message: err.Error(),
	})
}

func edgesToDTO(edges []types.Edge) []dto.Edge {
	out := make([]dto.Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, dto.Edge{
			FromID:     e.FromID,
			ToID:       e.ToID,
			Relation:   e.Relation,
			Weight:     e.Weight,
			Properties: types.EnsureMetadata(e.Properties),
		})
	}
	return out
}
