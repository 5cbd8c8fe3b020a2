package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/ragstack/ragserve/internal/errortypes"
	"github.com/ragstack/ragserve/internal/vector"
)

// Store owns the ordered document corpus. All mutation happens under a
// single write lock, including the persist that follows it, so concurrent
// requests never interleave a read-modify-persist sequence.
//
// The corpus is append-only: duplicate IDs are accepted and appended as new
// entries rather than rejected or deduplicated.
type Store struct {
	mu       sync.RWMutex
	docs     []Document
	snapshot Snapshot
	embedder vector.Embedder
}

// NewStore creates a store over the given snapshot backend and embedder.
func NewStore(snapshot Snapshot, embedder vector.Embedder) *Store {
	return &Store{
		snapshot: snapshot,
		embedder: embedder,
	}
}

// Load populates the corpus from the snapshot, or seeds it with the built-in
// example documents when no snapshot exists. Load is a startup-only
// operation: calling it mid-lifetime replaces the corpus wholesale.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists, err := s.snapshot.Load()
	if err != nil {
		return errortypes.StoreError(err, "failed to load snapshot")
	}

	if !exists {
		now := time.Now()
		docs = make([]Document, len(seedDocuments))
		for i, seed := range seedDocuments {
			seed.Timestamp = now
			docs[i] = seed
		}
	}

	s.docs = docs
	return nil
}

// Backfill computes embeddings for every document that lacks one, one
// provider call at a time, then persists the full corpus. On a provider
// failure the documents embedded so far keep their embeddings in memory, but
// nothing is persisted, since persistence happens only after the full pass.
func (s *Store) Backfill(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].Embedding != nil {
			continue
		}

		embedding, err := s.embedder.CreateEmbedding(ctx, s.docs[i].Text)
		if err != nil {
			return err
		}
		s.docs[i].Embedding = embedding
	}

	return s.persistLocked()
}

// Ingest embeds and appends each item in order. Items missing an id or text
// are skipped. A provider failure aborts the remaining items; documents
// appended before the failure stay in memory but are not persisted, because
// the snapshot is written once after the whole batch. The returned count is
// the number of items in the input batch, matching what callers submitted
// rather than what survived skipping.
func (s *Store) Ingest(ctx context.Context, items []IngestItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if item.ID == "" || item.Text == "" {
			continue
		}

		embedding, err := s.embedder.CreateEmbedding(ctx, item.Text)
		if err != nil {
			return 0, err
		}

		s.docs = append(s.docs, Document{
			ID:        item.ID,
			Text:      item.Text,
			Embedding: embedding,
			Timestamp: time.Now(),
		})
	}

	if err := s.persistLocked(); err != nil {
		return 0, err
	}

	return len(items), nil
}

// Persist overwrites the snapshot with the current corpus.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// persistLocked writes the snapshot. The caller must hold the write lock.
func (s *Store) persistLocked() error {
	if err := s.snapshot.Save(s.docs); err != nil {
		return errortypes.StoreError(err, "failed to persist snapshot")
	}
	return nil
}

// List returns the corpus in insertion order without embeddings.
func (s *Store) List() []DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]DocumentInfo, len(s.docs))
	for i, doc := range s.docs {
		infos[i] = DocumentInfo{
			ID:        doc.ID,
			Text:      doc.Text,
			Timestamp: doc.Timestamp,
		}
	}
	return infos
}

// Documents returns a copy of the full corpus, embeddings included.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}

// Len returns the number of documents in the corpus.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close releases the snapshot backend.
func (s *Store) Close() error {
	return s.snapshot.Close()
}
