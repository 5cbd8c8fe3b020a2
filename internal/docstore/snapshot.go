package docstore

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot persists the full document sequence wholesale. Every Save
// replaces the previous snapshot completely; there is no incremental write.
type Snapshot interface {
	// Load reads the persisted document sequence. The second return value
	// reports whether a snapshot existed.
	Load() ([]Document, bool, error)

	// Save overwrites the snapshot with the given document sequence.
	Save(docs []Document) error

	// Close releases any resources held by the snapshot backend.
	Close() error
}

// JSONSnapshot stores the document sequence as a pretty-printed JSON file.
// This is the default backend.
type JSONSnapshot struct {
	path string
}

// NewJSONSnapshot creates a snapshot backend writing to the given path.
func NewJSONSnapshot(path string) *JSONSnapshot {
	return &JSONSnapshot{path: path}
}

// Load reads the snapshot file if it exists.
func (s *JSONSnapshot) Load() ([]Document, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, false, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}

	return docs, true, nil
}

// Save overwrites the snapshot file with the given documents.
func (s *JSONSnapshot) Save(docs []Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.path, err)
	}

	return nil
}

// Close is a no-op for the JSON file backend.
func (s *JSONSnapshot) Close() error {
	return nil
}
