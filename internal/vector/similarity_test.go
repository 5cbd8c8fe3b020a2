package vector

import (
	"context"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0},
			b:        []float32{0.0, 1.0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 2.0},
			b:        []float32{-1.0, -2.0},
			expected: -1.0,
		},
		{
			name:     "scaled vectors keep direction",
			a:        []float32{1.0, 1.0},
			b:        []float32{5.0, 5.0},
			expected: 1.0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := CosineSimilarity(test.a, test.b)
			if err != nil {
				t.Fatalf("CosineSimilarity(%v, %v) error: %v", test.a, test.b, err)
			}
			if math.Abs(got-test.expected) > 1e-6 {
				t.Errorf("Expected similarity %v, got %v", test.expected, got)
			}
		})
	}
}

func TestCosineSimilarityCommutative(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.0}
	b := []float32{2.1, 0.7, -0.4, 1.9}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("CosineSimilarity(a, b) error: %v", err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatalf("CosineSimilarity(b, a) error: %v", err)
	}

	if ab != ba {
		t.Errorf("Expected similarity to be commutative, got %v and %v", ab, ba)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	zero := []float32{0.0, 0.0, 0.0}
	b := []float32{1.0, 2.0, 3.0}

	got, err := CosineSimilarity(zero, b)
	if err != nil {
		t.Fatalf("CosineSimilarity with zero vector error: %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Expected finite similarity for zero vector, got %v", got)
	}
	if got != 0 {
		t.Errorf("Expected similarity 0 for zero vector, got %v", got)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1.0, 2.0}, []float32{1.0, 2.0, 3.0})
	if err == nil {
		t.Error("Expected error for mismatched dimensions, got nil")
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	embedder := NewMockEmbedder(64)
	ctx := context.Background()

	first, err := embedder.CreateEmbedding(ctx, "hello world")
	if err != nil {
		t.Fatalf("CreateEmbedding error: %v", err)
	}
	second, err := embedder.CreateEmbedding(ctx, "hello world")
	if err != nil {
		t.Fatalf("CreateEmbedding error: %v", err)
	}

	if len(first) != 64 {
		t.Errorf("Expected embedding of dimension 64, got %d", len(first))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical embeddings for identical text, differ at %d", i)
		}
	}

	// The mock embedder normalizes its output
	sim, err := CosineSimilarity(first, second)
	if err != nil {
		t.Fatalf("CosineSimilarity error: %v", err)
	}
	if math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("Expected self-similarity close to 1.0, got %v", sim)
	}
}
