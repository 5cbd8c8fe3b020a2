package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ragstack/ragserve"
	"github.com/ragstack/ragserve/internal/config"
	"github.com/ragstack/ragserve/internal/logger"
)

func main() {
	// Environment overrides can live in a local .env file
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to the config file (defaults to "+config.DefaultConfigFilename+")")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
	flag.Parse()

	appLogger := setupLogging()
	appLogger.Info("ragserve - Starting...")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		appLogger.Error("Failed to load configuration: %v", err)
		appLogger.Fatal("Failed to load configuration")
	}

	// Configure logging based on config
	if cfg.Logging.Level != "" {
		appLogger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
		appLogger.Info("Log level set to %s", cfg.Logging.Level)
	}

	if cfg.Logging.Format == "json" {
		appLogger.SetFormat(logger.JSON)
		appLogger.Info("Log format set to JSON")
	}

	svc, err := ragserve.NewService(ragserve.ServiceOptions{Config: cfg})
	if err != nil {
		appLogger.Error("Failed to initialize service: %v", err)
		appLogger.Fatal("Failed to initialize service")
	}

	setupSignalHandler(svc, appLogger)

	if *mcpMode {
		appLogger.Info("Starting MCP server...")
		if err := svc.StartMCP(); err != nil {
			appLogger.Error("MCP server failed: %v", err)
			appLogger.Fatal("Failed to start MCP server")
		}
		return
	}

	appLogger.Info("Starting HTTP server on port %d...", cfg.Server.Port)
	if err := svc.Start(); err != nil {
		appLogger.Error("HTTP server failed: %v", err)
		appLogger.Fatal("Failed to start HTTP server")
	}
}

// setupLogging configures and returns the application logger
func setupLogging() *logger.Logger {
	loggerConfig := logger.DefaultConfig()

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		loggerConfig.Level = logger.ParseLevel(levelStr)
	}

	appLogger := logger.New(loggerConfig)
	logger.SetDefaultLogger(appLogger)

	return appLogger
}

// loadConfig loads the configuration. A missing config file falls back to
// the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigFilename
	}
	return config.LoadConfigWithPath(path)
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(svc *ragserve.Service, log *logger.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Shutdown(ctx); err != nil {
			log.Error("Error during shutdown: %v", err)
			os.Exit(1)
		}

		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
