package provider

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator is a Generator that composes its answer from the prompt
// without calling any backend. It lets the service run end to end when no
// model server is available.
type MockGenerator struct{}

// NewMockGenerator creates a new MockGenerator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Name returns the provider name
func (g *MockGenerator) Name() string {
	return ProviderMock
}

// Generate echoes the last line of the prompt back as a canned answer.
func (g *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := lines[len(lines)-1]
	return fmt.Sprintf("[mock] no model backend configured; prompt ended with: %s", last), nil
}
