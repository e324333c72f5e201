package dto

import (
	"errors"
	"strings"
)

// EdgeQueryRequest represents a single-hop relationship query. Which
// of from_id and to_id are present decides the query shape.
type EdgeQueryRequest struct {
	Relation string `json:"relation,omitempty"`
	FromID   string `json:"from_id,omitempty"`
	ToID     string `json:"to_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Validate performs validation on EdgeQueryRequest
func (r *EdgeQueryRequest) Validate() error {
	if strings.TrimSpace(r.FromID) == "" && strings.TrimSpace(r.ToID) == "" &&
		strings.TrimSpace(r.Relation) == "" {
		return ErrMissingShape
	}
	if len(r.FromID) > MaxIDLength || len(r.ToID) > MaxIDLength {
		return errors.New("endpoint id exceeds maximum length (512)")
	}
	if len(r.Relation) > MaxRelationLength {
		return errors.New("relation exceeds maximum length (256)")
	}
	return nil
}

// Edge is the wire form of a relationship.
type Edge struct {
	FromID     string            `json:"from_id"`
	ToID       string            `json:"to_id"`
	Relation   string            `json:"relation"`
	Weight     float64           `json:"weight"`
	Properties map[string]string `json:"properties"`
}

// EdgeQueryResponse wraps matched edges with their count.
type EdgeQueryResponse struct {
	Edges []Edge `json:"edges"`
	Total int    `json:"total"`
}

// CreateEdgeRequest represents an idempotent edge upsert.
type CreateEdgeRequest struct {
	FromID     string            `json:"from_id" binding:"required"`
	ToID       string            `json:"to_id" binding:"required"`
	Relation   string            `json:"relation" binding:"required"`
	Weight     float64           `json:"weight,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Validate performs validation on CreateEdgeRequest
func (r *CreateEdgeRequest) Validate() error {
	if strings.TrimSpace(r.FromID) == "" || strings.TrimSpace(r.ToID) == "" {
		return ErrEmptyEndpoint
	}
	if strings.TrimSpace(r.Relation) == "" {
		return ErrEmptyRelation
	}
	if r.Weight < 0 || r.Weight > 1 {
		return ErrInvalidWeightE
	}
	return nil
}

// DeleteEdgeRequest identifies one edge to remove.
type DeleteEdgeRequest struct {
	FromID   string `json:"from_id" binding:"required"`
	ToID     string `json:"to_id" binding:"required"`
	Relation string `json:"relation" binding:"required"`
}

// PathsRequest represents a bounded path discovery request.
type PathsRequest struct {
	StartID  string `json:"start_id" binding:"required"`
	EndID    string `json:"end_id" binding:"required"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// Validate performs validation on PathsRequest
func (r *PathsRequest) Validate() error {
	if strings.TrimSpace(r.StartID) == "" || strings.TrimSpace(r.EndID) == "" {
		return errors.New("start_id and end_id cannot be empty")
	}
	if r.MaxDepth > MaxDepth {
		return errors.New("max_depth exceeds maximum (10)")
	}
	return nil
}

// Path is an ordered chain of edges from start to end.
type Path struct {
	Edges  []Edge `json:"edges"`
	Length int    `json:"length"`
}

// PathsResponse wraps discovered paths with their count.
type PathsResponse struct {
	Paths []Path `json:"paths"`
	Total int    `json:"total"`
}
