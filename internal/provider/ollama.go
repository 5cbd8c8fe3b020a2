package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ragstack/ragserve/internal/errortypes"
)

const (
	embeddingsPath = "/api/embeddings"
	generatePath   = "/api/generate"
)

// OllamaClient talks to an Ollama-compatible model server. It implements
// both vector.Embedder and Generator; the two operations share one HTTP
// client and base URL. Calls are never retried, every failure propagates to
// the caller.
type OllamaClient struct {
	Config
	httpClient *http.Client
}

// ollamaEmbedRequest is the request body for the embeddings endpoint
type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ollamaEmbedResponse is the response body from the embeddings endpoint
type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// ollamaGenerateRequest is the request body for the generate endpoint
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse is the response body from the generate endpoint
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// NewOllamaClient creates a new client for an Ollama-compatible server.
func NewOllamaClient(config Config) *OllamaClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OllamaClient{
		Config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (c *OllamaClient) Name() string {
	return ProviderOllama
}

// Initialize validates the client configuration.
func (c *OllamaClient) Initialize() error {
	if c.BaseURL == "" {
		return errortypes.ConfigError(errors.New("base URL not provided"), "ollama client initialization failed")
	}
	return nil
}

// CreateEmbedding requests an embedding vector for the given text.
func (c *OllamaClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	model := c.EmbedModel
	reqBody := ollamaEmbedRequest{
		Model: model,
		Input: text,
	}

	var respBody ollamaEmbedResponse
	if err := c.post(ctx, embeddingsPath, reqBody, &respBody); err != nil {
		return nil, errortypes.ProviderError(err, "embedding request failed").
			WithField("model", model)
	}

	if respBody.Error != "" {
		return nil, errortypes.ProviderError(errors.New(respBody.Error), "embedding backend returned an error").
			WithField("model", model)
	}

	if len(respBody.Embedding) == 0 {
		return nil, errortypes.ProviderError(errors.New("empty embedding"), "embedding backend returned no vector").
			WithField("model", model)
	}

	return respBody.Embedding, nil
}

// Generate sends the prompt to the generation endpoint and returns the
// generated text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.ChatModel
	reqBody := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}

	var respBody ollamaGenerateResponse
	if err := c.post(ctx, generatePath, reqBody, &respBody); err != nil {
		return "", errortypes.ProviderError(err, "generation request failed").
			WithField("model", model)
	}

	if respBody.Error != "" {
		return "", errortypes.ProviderError(errors.New(respBody.Error), "generation backend returned an error").
			WithField("model", model)
	}

	return respBody.Response, nil
}

// post sends a JSON request to the given path and decodes the JSON response.
func (c *OllamaClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, string(data))
	}

	if err := json.Unmarshal(data, respBody); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	return nil
}
