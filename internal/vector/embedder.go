// Package vector provides interfaces and utilities for vector operations
// and text embedding within the ragserve service.
package vector

import "context"

const (
	// DefaultEmbeddingDimensions defines the standard size of embedding vectors.
	// 768 matches the output of common local embedding models.
	DefaultEmbeddingDimensions = 768

	// SimilarityEpsilon is added to the denominator of the cosine similarity
	// so a zero vector never causes a division by zero.
	SimilarityEpsilon = 1e-9
)

// Embedder defines the interface for creating vector embeddings from text.
type Embedder interface {
	// CreateEmbedding converts text into a vector representation.
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Initialize sets up the embedder with any required configuration.
	Initialize() error
}
