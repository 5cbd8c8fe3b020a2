package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	config := &Config{
		Level:       DEBUG,
		Format:      TEXT,
		Output:      &buf,
		DefaultTags: map[string]interface{}{"test": true},
	}
	logger := New(config)

	logger.Debug("This is a debug message")
	if !strings.Contains(buf.String(), "DEBUG") || !strings.Contains(buf.String(), "This is a debug message") {
		t.Errorf("Expected debug message in log output, got: %s", buf.String())
	}

	buf.Reset()
	logger.Info("This is an info message")
	if !strings.Contains(buf.String(), "INFO") || !strings.Contains(buf.String(), "This is an info message") {
		t.Errorf("Expected info message in log output, got: %s", buf.String())
	}

	// With context
	buf.Reset()
	logger.WithContext("store").Warn("This is a warning")
	if !strings.Contains(buf.String(), "WARN") ||
		!strings.Contains(buf.String(), "This is a warning") ||
		!strings.Contains(buf.String(), "[store]") {
		t.Errorf("Expected contextual warning in log output, got: %s", buf.String())
	}

	// With field
	buf.Reset()
	logger.WithField("count", 3).Error("Persist failed")
	if !strings.Contains(buf.String(), "count=3") {
		t.Errorf("Expected field in log output, got: %s", buf.String())
	}

	// Below-threshold messages are dropped
	buf.Reset()
	logger.SetLevel(ERROR)
	logger.Info("Should not appear")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below level threshold, got: %s", buf.String())
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{
		Level:  INFO,
		Format: JSON,
		Output: &buf,
	})

	logger.WithContext("embedder").Info("Embedding created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON log entry, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "INFO" {
		t.Errorf("Expected level INFO, got %v", entry["level"])
	}
	if entry["message"] != "Embedding created" {
		t.Errorf("Expected message in JSON output, got %v", entry["message"])
	}
	if entry["context"] != "embedder" {
		t.Errorf("Expected context in JSON output, got %v", entry["context"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"disabled", DISABLED},
		{"bogus", INFO},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}
