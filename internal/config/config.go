// Package config handles loading and validating ragserve configuration.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Global configuration instance
var (
	// Global is the global configuration instance
	Global *Config
	// initOnce ensures initialization happens only once
	initOnce sync.Once
)

// InitGlobal initializes the global configuration
func InitGlobal(configPath string) (*Config, error) {
	var err error
	initOnce.Do(func() {
		Global, err = LoadConfigWithPath(configPath)
	})
	return Global, err
}

// Config represents the ragserve configuration
type Config struct {
	// Server contains HTTP server configuration.
	Server struct {
		// Port is the TCP port the HTTP server listens on.
		Port int `json:"port" env:"PORT" validate:"min:1"`
	} `json:"server"`

	// Provider contains configuration for the embedding and generation backend.
	Provider struct {
		// Kind selects the provider implementation ("ollama" or "mock").
		Kind string `json:"kind" env:"PROVIDER_KIND"`

		// BaseURL is the base URL of the model server.
		BaseURL string `json:"base_url" env:"PROVIDER_BASE_URL"`

		// EmbedModel is the embedding model name.
		EmbedModel string `json:"embed_model" env:"EMBED_MODEL"`

		// ChatModel is the text generation model name.
		ChatModel string `json:"chat_model" env:"CHAT_MODEL"`

		// TimeoutSeconds bounds every outbound call to the provider.
		TimeoutSeconds int `json:"timeout_seconds" env:"PROVIDER_TIMEOUT_SECONDS" validate:"min:1"`
	} `json:"provider"`

	// Store contains knowledge-base persistence configuration.
	Store struct {
		// Backend selects the snapshot backend ("json" or "sqlite").
		Backend string `json:"backend" env:"STORE_BACKEND"`

		// Path is the snapshot file path.
		Path string `json:"path" env:"STORE_PATH" validate:"required"`
	} `json:"store"`

	// Retrieval contains query-time retrieval configuration.
	Retrieval struct {
		// TopK is the number of documents returned when a query does not specify one.
		TopK int `json:"top_k" env:"RETRIEVAL_TOP_K" validate:"min:1"`
	} `json:"retrieval"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".ragserveconfig"
	DefaultPort           = 8080
	DefaultProviderKind   = "ollama"
	DefaultBaseURL        = "http://localhost:11434"
	DefaultEmbedModel     = "nomic-embed-text"
	DefaultChatModel      = "tinyllama"
	DefaultTimeoutSeconds = 30
	DefaultStoreBackend   = "json"
	DefaultStorePath      = "kb.json"
	DefaultTopK           = 3
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Server.Port = DefaultPort
	config.Provider.Kind = DefaultProviderKind
	config.Provider.BaseURL = DefaultBaseURL
	config.Provider.EmbedModel = DefaultEmbedModel
	config.Provider.ChatModel = DefaultChatModel
	config.Provider.TimeoutSeconds = DefaultTimeoutSeconds
	config.Store.Backend = DefaultStoreBackend
	config.Store.Path = DefaultStorePath
	config.Retrieval.TopK = DefaultTopK
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// ProviderTimeout returns the provider timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	if c.Provider.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path
func LoadConfigWithPath(configPath string) (*Config, error) {
	// Create a default logger for configuration loading
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create default configuration
	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// File doesn't exist, return default config
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	// Create configurator instance
	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("RAGSERVE")).
		WithValidator(configurator.NewDefaultValidator())

	// Load configuration
	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Store the config path for future operations
	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
