package provider

import (
	"fmt"

	"github.com/ragstack/ragserve/internal/vector"
)

// NewEmbedder returns an initialized embedder for the given provider kind.
func NewEmbedder(kind string, config Config) (vector.Embedder, error) {
	switch kind {
	case ProviderOllama:
		client := NewOllamaClient(config)
		if err := client.Initialize(); err != nil {
			return nil, err
		}
		return client, nil
	case ProviderMock:
		return vector.NewMockEmbedder(vector.DefaultEmbeddingDimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", kind)
	}
}

// NewGenerator returns a generator for the given provider kind.
func NewGenerator(kind string, config Config) (Generator, error) {
	switch kind {
	case ProviderOllama:
		client := NewOllamaClient(config)
		if err := client.Initialize(); err != nil {
			return nil, err
		}
		return client, nil
	case ProviderMock:
		return NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", kind)
	}
}
