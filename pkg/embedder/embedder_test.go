package embedder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vockit/lattice/pkg/embedder"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	tests := []struct {
		name          string
		apiKey        string
		config        embedder.Config
		wantDimension int
	}{
		{
			name:          "empty config uses defaults",
			apiKey:        "test-api-key",
			config:        embedder.Config{},
			wantDimension: 1536,
		},
		{
			name:          "custom model",
			apiKey:        "test-api-key",
			config:        embedder.Config{Model: "text-embedding-3-large", Dimensions: 3072},
			wantDimension: 3072,
		},
		{
			name:          "custom base URL",
			apiKey:        "test-api-key",
			config:        embedder.Config{BaseURL: "https://api.example.com/v1"},
			wantDimension: 1536,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := embedder.NewOpenAIEmbedder(tt.apiKey, tt.config)
			assert.NotNil(t, client)
			assert.Equal(t, tt.wantDimension, client.Dimensions())
		})
	}
}

func TestEmbedderInterfaceConformance(t *testing.T) {
	var _ embedder.Client = (*embedder.OpenAIEmbedder)(nil)
	var _ embedder.Client = (*embedder.LocalEmbedder)(nil)
	var _ embedder.Client = (*embedder.BreakerClient)(nil)
}
