// Package embedder turns free text into fixed-dimension vectors.
// The search layer issues exactly one synchronous embedding call per
// query; provider failures propagate to the caller without retries.
package embedder

import (
	"context"
)

// Client is the embedding provider adapter.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of the vectors this client emits.
	Dimensions() int

	Close() error
}

// Config holds provider-independent embedding settings.
type Config struct {
	Model      string
	BaseURL    string
	Dimensions int
}
