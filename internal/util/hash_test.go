package util

import "testing"

func TestGenerateHash(t *testing.T) {
	first := GenerateHash("some document text", 1700000000)
	second := GenerateHash("some document text", 1700000000)

	if first != second {
		t.Errorf("Expected stable hash for identical input, got %s and %s", first, second)
	}
	if len(first) != 16 {
		t.Errorf("Expected 16-character hash, got %d", len(first))
	}

	different := GenerateHash("some document text", 1700000001)
	if first == different {
		t.Error("Expected different hash for different timestamp")
	}
}
