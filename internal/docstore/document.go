// Package docstore owns the in-memory document corpus of the ragserve
// knowledge base, its similarity ranking, and its snapshot persistence.
package docstore

import "time"

// Document is a single entry in the knowledge base. Text and Timestamp are
// immutable once set; Embedding starts absent and is filled in exactly once,
// either at ingestion or by a backfill pass.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IngestItem is one document submitted for ingestion.
type IngestItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DocumentInfo is the outward-facing view of a document. Embeddings are
// never exposed directly, only indirectly through similarity scores.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ScoredDocument pairs a document with its similarity score against one
// query vector. Scores are ephemeral and recomputed per query.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// seedDocuments is the corpus used when no snapshot exists yet. The texts
// are part of the external interface and must not change.
var seedDocuments = []Document{
	{ID: "d1", Text: "TinyLlama is a small language model optimized for fast inference on modest hardware."},
	{ID: "d2", Text: "React Native builds mobile apps using JavaScript and native widgets for iOS and Android."},
}
