package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vockit/lattice/pkg/server/dto"
	"github.com/vockit/lattice/pkg/types"
)

// DefaultPageSize bounds listing pages when limit is omitted.
const DefaultPageSize = 50

// RecordsHandler handles document and insight reads
type RecordsHandler struct {
	engines Resolver
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(engines Resolver) *RecordsHandler {
	return &RecordsHandler{engines: engines}
}

// GetDocument handles GET /documents/:id
func (h *RecordsHandler) GetDocument(c *gin.Context) {
	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	doc, err := engine.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentToDTO(doc))
}

// ListDocuments handles GET /documents
func (h *RecordsHandler) ListDocuments(c *gin.Context) {
	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	limit := pageLimit(c)
	page, err := engine.ListDocuments(c.Request.Context(), limit, c.Query("page_token"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := dto.DocumentPage{
		Items:         make([]dto.Document, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for i := range page.Items {
		out.Items = append(out.Items, documentToDTO(&page.Items[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetInsight handles GET /insights/:id
func (h *RecordsHandler) GetInsight(c *gin.Context) {
	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	insight, err := engine.GetInsight(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insightToDTO(insight))
}

// ListInsights handles GET /insights
func (h *RecordsHandler) ListInsights(c *gin.Context) {
	engine, ok := engineFor(c, h.engines)
	if !ok {
		return
	}

	limit := pageLimit(c)
	page, err := engine.ListInsights(c.Request.Context(), limit, c.Query("page_token"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := dto.InsightPage{
		Items:         make([]dto.Insight, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for i := range page.Items {
		out.Items = append(out.Items, insightToDTO(&page.Items[i]))
	}
	c.JSON(http.StatusOK, out)
}

func pageLimit(c *gin.Context) int {
	limit := DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > dto.MaxLimit {
		limit = dto.MaxLimit
	}
	return limit
}

func documentToDTO(d *types.Document) dto.Document {
	return dto.Document{
		ID:         d.ID,
		SourceType: d.SourceType,
		Content:    d.Content,
		Metadata:   types.EnsureMetadata(d.Metadata),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func insightToDTO(i *types.Insight) dto.Insight {
	sourceDocs := i.SourceDocs
	if sourceDocs == nil {
		sourceDocs = []string{}
	}
	return dto.Insight{
		ID:         i.ID,
		Title:      i.Title,
		Body:       i.Body,
		SourceDocs: sourceDocs,
		Metadata:   types.EnsureMetadata(i.Metadata),
		CreatedAt:  i.CreatedAt,
	}
}
