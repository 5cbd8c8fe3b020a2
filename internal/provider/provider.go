// Package provider contains clients for the external model backends that
// ragserve uses for text embedding and answer generation.
package provider

import (
	"context"
	"time"
)

const (
	// Provider constants
	ProviderOllama = "ollama"
	ProviderMock   = "mock"

	// DefaultTimeout bounds every outbound call when no timeout is configured.
	DefaultTimeout = 30 * time.Second
)

// Generator defines the interface for producing text from a prompt.
type Generator interface {
	// Generate sends the assembled prompt to the backend and returns the
	// generated text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for model providers
type Config struct {
	BaseURL    string
	EmbedModel string
	ChatModel  string
	Timeout    time.Duration
}
