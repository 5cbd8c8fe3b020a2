package vector

import (
	"fmt"
	"math"
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// The result is a value between -1 and 1, where 1 means the vectors point in
// the same direction, 0 means they are orthogonal, and -1 means they are
// opposite. A small epsilon is added to the denominator, so a zero vector
// yields a finite score of 0 rather than an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same dimension: %d != %d", len(a), len(b))
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dotProduct / (math.Sqrt(normA)*math.Sqrt(normB) + SimilarityEpsilon), nil
}
