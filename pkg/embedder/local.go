package embedder

import (
	"context"
	"errors"
	"fmt"

	embedeverything "github.com/soundprediction/go-embedeverything/pkg/embedder"

	"github.com/vockit/lattice/pkg/types"
)

var errNoEmbeddings = errors.New("no embeddings returned")

// LocalEmbedder implements Client over an in-process embedding model,
// for deployments that cannot ship query text to an external provider.
type LocalEmbedder struct {
	client *embedeverything.Embedder
	config Config
}

// NewLocalEmbedder loads a local embedding model by name.
func NewLocalEmbedder(config Config) (*LocalEmbedder, error) {
	if config.Model == "" {
		config.Model = "all-MiniLM-L6-v2"
	}
	if config.Dimensions <= 0 {
		config.Dimensions = 384
	}
	client, err := embedeverything.NewEmbedder(config.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to load local embedding model: %w", err)
	}
	return &LocalEmbedder{client: client, config: config}, nil
}

// Embed implements Client.
func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	// The local backend does not take a context.
	embeddings, err := e.client.Embed(texts)
	if err != nil {
		return nil, types.NewEmbeddingError("local", err)
	}
	return embeddings, nil
}

// EmbedSingle implements Client.
func (e *LocalEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, types.NewEmbeddingError("local", errNoEmbeddings)
	}
	return embeddings[0], nil
}

// Dimensions implements Client.
func (e *LocalEmbedder) Dimensions() int { return e.config.Dimensions }

// Close implements Client.
func (e *LocalEmbedder) Close() error {
	e.client.Close()
	return nil
}
