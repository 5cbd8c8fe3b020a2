package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var testError = errors.New("test error")

// stubEmbedder implements vector.Embedder for testing. It returns canned
// vectors per text and can be told to fail on a specific input.
type stubEmbedder struct {
	vectors map[string][]float32
	failOn  string
	calls   []string
}

func (e *stubEmbedder) Initialize() error { return nil }

func (e *stubEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	e.calls = append(e.calls, text)
	if e.failOn != "" && text == e.failOn {
		return nil, testError
	}
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

// memorySnapshot implements Snapshot for testing.
type memorySnapshot struct {
	docs     []Document
	exists   bool
	saves    int
	failLoad bool
	failSave bool
}

func (m *memorySnapshot) Load() ([]Document, bool, error) {
	if m.failLoad {
		return nil, false, testError
	}
	return m.docs, m.exists, nil
}

func (m *memorySnapshot) Save(docs []Document) error {
	if m.failSave {
		return testError
	}
	m.docs = append([]Document{}, docs...)
	m.exists = true
	m.saves++
	return nil
}

func (m *memorySnapshot) Close() error { return nil }

func TestLoadSeedsWhenNoSnapshot(t *testing.T) {
	store := NewStore(&memorySnapshot{}, &stubEmbedder{})

	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	docs := store.Documents()
	if len(docs) != 2 {
		t.Fatalf("Expected 2 seed documents, got %d", len(docs))
	}
	if docs[0].ID != "d1" || docs[0].Text != "TinyLlama is a small language model optimized for fast inference on modest hardware." {
		t.Errorf("Unexpected first seed document: %+v", docs[0])
	}
	if docs[1].ID != "d2" || docs[1].Text != "React Native builds mobile apps using JavaScript and native widgets for iOS and Android." {
		t.Errorf("Unexpected second seed document: %+v", docs[1])
	}
	for _, doc := range docs {
		if doc.Embedding != nil {
			t.Errorf("Expected seed document %s to have no embedding yet", doc.ID)
		}
		if doc.Timestamp.IsZero() {
			t.Errorf("Expected seed document %s to have a timestamp", doc.ID)
		}
	}
}

func TestLoadFromSnapshot(t *testing.T) {
	existing := []Document{
		{ID: "a", Text: "first", Embedding: []float32{1, 0}, Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Text: "second", Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	store := NewStore(&memorySnapshot{docs: existing, exists: true}, &stubEmbedder{})

	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !reflect.DeepEqual(store.Documents(), existing) {
		t.Errorf("Expected corpus %+v, got %+v", existing, store.Documents())
	}
}

func TestLoadFailure(t *testing.T) {
	store := NewStore(&memorySnapshot{failLoad: true}, &stubEmbedder{})

	if err := store.Load(); err == nil {
		t.Error("Expected error when snapshot read fails, got nil")
	}
}

func TestIngest(t *testing.T) {
	snap := &memorySnapshot{exists: true}
	embedder := &stubEmbedder{vectors: map[string][]float32{"hello": {1, 0, 0}}}
	store := NewStore(snap, embedder)
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	added, err := store.Ingest(context.Background(), []IngestItem{{ID: "x", Text: "hello"}})
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if added != 1 {
		t.Errorf("Expected added count 1, got %d", added)
	}

	docs := store.Documents()
	if len(docs) != 1 || docs[0].ID != "x" {
		t.Fatalf("Expected one document x, got %+v", docs)
	}
	if !reflect.DeepEqual(docs[0].Embedding, []float32{1, 0, 0}) {
		t.Errorf("Expected embedding [1 0 0], got %v", docs[0].Embedding)
	}

	// The listing view never carries embeddings
	list := store.List()
	if len(list) != 1 || list[0].ID != "x" || list[0].Text != "hello" {
		t.Errorf("Unexpected listing: %+v", list)
	}

	if snap.saves != 1 {
		t.Errorf("Expected one persist after ingest, got %d", snap.saves)
	}
}

func TestIngestSkipsItemsMissingFields(t *testing.T) {
	snap := &memorySnapshot{exists: true}
	embedder := &stubEmbedder{}
	store := NewStore(snap, embedder)
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	items := []IngestItem{
		{ID: "", Text: "no id"},
		{ID: "ok", Text: "kept"},
		{ID: "no-text", Text: ""},
	}
	added, err := store.Ingest(context.Background(), items)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	// The count reflects the submitted batch, not the surviving items
	if added != 3 {
		t.Errorf("Expected added count 3, got %d", added)
	}
	if got := store.Len(); got != 1 {
		t.Errorf("Expected 1 appended document, got %d", got)
	}
	if len(embedder.calls) != 1 || embedder.calls[0] != "kept" {
		t.Errorf("Expected a single embedding call for the valid item, got %v", embedder.calls)
	}
}

func TestIngestMidBatchFailure(t *testing.T) {
	snap := &memorySnapshot{exists: true}
	embedder := &stubEmbedder{failOn: "second"}
	store := NewStore(snap, embedder)
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	items := []IngestItem{
		{ID: "1", Text: "first"},
		{ID: "2", Text: "second"},
		{ID: "3", Text: "third"},
	}
	_, err := store.Ingest(context.Background(), items)
	if err == nil {
		t.Fatal("Expected error for mid-batch embedding failure, got nil")
	}

	// The first item was appended in memory, the third never attempted,
	// and nothing reached the snapshot.
	if got := store.Len(); got != 1 {
		t.Errorf("Expected 1 document in memory after failure, got %d", got)
	}
	if len(embedder.calls) != 2 {
		t.Errorf("Expected embedding calls to stop at the failure, got %v", embedder.calls)
	}
	if snap.saves != 0 {
		t.Errorf("Expected no persist after failed batch, got %d", snap.saves)
	}
}

func TestIngestDuplicateIDsAppend(t *testing.T) {
	snap := &memorySnapshot{exists: true}
	store := NewStore(snap, &stubEmbedder{})
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	items := []IngestItem{
		{ID: "dup", Text: "one"},
		{ID: "dup", Text: "two"},
	}
	if _, err := store.Ingest(context.Background(), items); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	if got := store.Len(); got != 2 {
		t.Errorf("Expected duplicate IDs to append, got %d documents", got)
	}
}

func TestBackfill(t *testing.T) {
	snap := &memorySnapshot{
		docs: []Document{
			{ID: "a", Text: "already embedded", Embedding: []float32{0, 1}},
			{ID: "b", Text: "needs embedding"},
		},
		exists: true,
	}
	embedder := &stubEmbedder{vectors: map[string][]float32{"needs embedding": {1, 0}}}
	store := NewStore(snap, embedder)
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := store.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	docs := store.Documents()
	if !reflect.DeepEqual(docs[1].Embedding, []float32{1, 0}) {
		t.Errorf("Expected backfilled embedding [1 0], got %v", docs[1].Embedding)
	}
	if len(embedder.calls) != 1 {
		t.Errorf("Expected one embedding call for the missing document, got %v", embedder.calls)
	}
	if snap.saves != 1 {
		t.Errorf("Expected one persist after backfill, got %d", snap.saves)
	}
}

func TestBackfillFailureKeepsProgressUnpersisted(t *testing.T) {
	snap := &memorySnapshot{
		docs: []Document{
			{ID: "a", Text: "first missing"},
			{ID: "b", Text: "second missing"},
		},
		exists: true,
	}
	embedder := &stubEmbedder{failOn: "second missing"}
	store := NewStore(snap, embedder)
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := store.Backfill(context.Background()); err == nil {
		t.Fatal("Expected error for mid-backfill failure, got nil")
	}

	docs := store.Documents()
	if docs[0].Embedding == nil {
		t.Error("Expected first document to keep its embedding in memory")
	}
	if snap.saves != 0 {
		t.Errorf("Expected no persist after failed backfill, got %d", snap.saves)
	}
}

func TestJSONSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	snap := NewJSONSnapshot(path)

	docs := []Document{
		{ID: "a", Text: "alpha", Embedding: []float32{0.1, -0.2, 0.3}, Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "b", Text: "beta", Timestamp: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)},
	}
	if err := snap.Save(docs); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, exists, err := snap.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !exists {
		t.Fatal("Expected snapshot to exist after save")
	}
	if !reflect.DeepEqual(docs, loaded) {
		t.Errorf("Round trip mismatch:\nsaved:  %+v\nloaded: %+v", docs, loaded)
	}
}

func TestJSONSnapshotMissingFile(t *testing.T) {
	snap := NewJSONSnapshot(filepath.Join(t.TempDir(), "absent.json"))

	docs, exists, err := snap.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if exists || docs != nil {
		t.Errorf("Expected no snapshot, got exists=%v docs=%v", exists, docs)
	}
}
