package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTenant is returned when an operation is attempted
	// without a tenant identifier. Never defaulted, always fatal to
	// the call.
	ErrMissingTenant = errors.New("tenant identifier is required")

	// ErrNotFound is returned when a point lookup misses. Callers can
	// distinguish "not found" from "present but empty".
	ErrNotFound = errors.New("not found")

	// ErrDimensionMismatch is returned when an embedding's dimension
	// does not match the collection-wide configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// StoreError wraps a query execution failure with the name of the
// failing template. The gateway never swallows store errors.
type StoreError struct {
	Template string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store query %s failed: %v", e.Template, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err with the failing template name.
func NewStoreError(template string, err error) *StoreError {
	return &StoreError{Template: template, Err: err}
}

// EmbeddingError wraps an embedding provider failure. The engine
// propagates these without retrying.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider %s failed: %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// NewEmbeddingError wraps err with the provider name.
func NewEmbeddingError(provider string, err error) *EmbeddingError {
	return &EmbeddingError{Provider: provider, Err: err}
}
