package ragserve

import (
	"context"
	"log/slog"

	"github.com/ragstack/ragserve/internal/config"
	"github.com/ragstack/ragserve/internal/docstore"
	"github.com/ragstack/ragserve/internal/errortypes"
	"github.com/ragstack/ragserve/internal/provider"
	"github.com/ragstack/ragserve/internal/server"
	"github.com/ragstack/ragserve/internal/telemetry"
	"github.com/ragstack/ragserve/internal/vector"
)

// Config represents the configuration for the ragserve service.
type Config = config.Config

// Service wires together the knowledge base, the model providers and the
// serving surfaces.
type Service struct {
	config     *config.Config
	store      *docstore.Store
	embedder   vector.Embedder
	generator  provider.Generator
	metrics    *telemetry.MetricsCollector
	httpServer *server.HTTPServer
	toolServer server.KnowledgeToolServer
	logger     *slog.Logger
}

// ServiceOptions defines the options for creating a new Service.
type ServiceOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewService creates a new ragserve Service with the given options.
// If opts.Config is provided, it will be used directly.
// Otherwise, if opts.ConfigPath is provided, configuration will be loaded from that path.
// If neither is provided, DefaultConfig() will be used.
// If opts.Logger is nil, slog.Default() will be used.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for service initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for service initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Warn("No Config object or ConfigPath provided, using default configuration")
		cfg = DefaultConfig()
	}

	store, embedder, generator, err := CreateComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to create components during service initialization", "error", err)
		return nil, err
	}

	metrics := telemetry.NewMetricsCollector()

	logger.Info("Initializing HTTP server component", "port", cfg.Server.Port)
	httpServer, err := server.NewHTTPServer(store, embedder, generator, metrics, cfg.Retrieval.TopK, logger)
	if err != nil {
		logger.Error("Failed to initialize HTTP server component", "error", err)
		return nil, err
	}

	logger.Info("Initializing knowledge tool server component")
	toolServer := server.NewKnowledgeToolServer(store, embedder, generator)
	if err := toolServer.Initialize(); err != nil {
		logger.Error("Failed to initialize MCP knowledge tool server component", "error", err)
		return nil, errortypes.ConfigError(err, "Failed to initialize MCP knowledge tool server component")
	}

	logger.Info("ragserve service successfully initialized")
	return &Service{
		config:     cfg,
		store:      store,
		embedder:   embedder,
		generator:  generator,
		metrics:    metrics,
		httpServer: httpServer,
		toolServer: toolServer,
		logger:     logger,
	}, nil
}

// DefaultConfig returns the default configuration for the ragserve service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// Start loads the knowledge base and starts the HTTP server. It blocks until
// the server stops.
func (s *Service) Start() error {
	if err := s.loadKnowledgeBase(); err != nil {
		return err
	}

	s.logger.Info("Starting ragserve HTTP server", "port", s.config.Server.Port)
	return s.httpServer.Start(s.config.Server.Port)
}

// StartMCP loads the knowledge base and serves the MCP tools over stdio. It
// blocks until stdin is closed.
func (s *Service) StartMCP() error {
	if err := s.loadKnowledgeBase(); err != nil {
		return err
	}

	s.logger.Info("Starting ragserve MCP server")
	return s.toolServer.Start()
}

// loadKnowledgeBase populates the store from its snapshot, seeding it on
// first run, and embeds any documents that are still missing vectors. A
// backfill failure is logged and the affected documents stay excluded from
// retrieval until the provider recovers.
func (s *Service) loadKnowledgeBase() error {
	s.logger.Info("Loading knowledge base", "backend", s.config.Store.Backend, "path", s.config.Store.Path)
	if err := s.store.Load(); err != nil {
		s.logger.Error("Failed to load knowledge base", "error", err)
		return err
	}

	if err := s.store.Backfill(context.Background()); err != nil {
		s.logger.Warn("Failed to embed some knowledge base documents", "error", err)
	}

	s.logger.Info("Knowledge base ready", "documents", s.store.Len())
	return nil
}

// Shutdown gracefully stops the serving surfaces and closes the store.
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping ragserve service")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Error shutting down HTTP server", "error", err)
		return err
	}

	if err := s.toolServer.Stop(); err != nil {
		s.logger.Error("Error stopping tool server", "error", err)
		return err
	}

	s.logger.Info("Closing store")
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", "error", err)
		return err
	}

	s.logger.Info("ragserve service stopped")
	return nil
}

// GetStore returns the document store instance used by the service.
func (s *Service) GetStore() *docstore.Store {
	return s.store
}

// GetEmbedder returns the embedder instance used by the service.
func (s *Service) GetEmbedder() vector.Embedder {
	return s.embedder
}

// GetGenerator returns the generator instance used by the service.
func (s *Service) GetGenerator() provider.Generator {
	return s.generator
}

// CreateComponents creates and initializes the components of the ragserve
// service without creating a Service instance. This is useful for embedders
// that need direct access to the store and the model providers.
func CreateComponents(cfg *Config, logger *slog.Logger) (*docstore.Store, vector.Embedder, provider.Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providerCfg := provider.Config{
		BaseURL:    cfg.Provider.BaseURL,
		EmbedModel: cfg.Provider.EmbedModel,
		ChatModel:  cfg.Provider.ChatModel,
		Timeout:    cfg.ProviderTimeout(),
	}

	logger.Info("Initializing embedder", "provider", cfg.Provider.Kind, "model", cfg.Provider.EmbedModel)
	embedder, err := provider.NewEmbedder(cfg.Provider.Kind, providerCfg)
	if err != nil {
		logger.Error("Failed to initialize embedder", "provider", cfg.Provider.Kind, "error", err)
		return nil, nil, nil, errortypes.ConfigError(err, "Failed to initialize embedder")
	}

	logger.Info("Initializing generator", "provider", cfg.Provider.Kind, "model", cfg.Provider.ChatModel)
	generator, err := provider.NewGenerator(cfg.Provider.Kind, providerCfg)
	if err != nil {
		logger.Error("Failed to initialize generator", "provider", cfg.Provider.Kind, "error", err)
		return nil, nil, nil, errortypes.ConfigError(err, "Failed to initialize generator")
	}

	logger.Info("Initializing snapshot backend", "backend", cfg.Store.Backend, "path", cfg.Store.Path)
	snapshot, err := newSnapshot(cfg)
	if err != nil {
		logger.Error("Failed to initialize snapshot backend", "backend", cfg.Store.Backend, "error", err)
		return nil, nil, nil, errortypes.StoreError(err, "Failed to initialize snapshot backend")
	}

	store := docstore.NewStore(snapshot, embedder)

	logger.Info("Components successfully initialized")
	return store, embedder, generator, nil
}

func newSnapshot(cfg *Config) (docstore.Snapshot, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return docstore.NewSQLiteSnapshot(cfg.Store.Path)
	default:
		return docstore.NewJSONSnapshot(cfg.Store.Path), nil
	}
}
