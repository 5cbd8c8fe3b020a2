// Package server exposes the ragserve knowledge base over HTTP and MCP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ragstack/ragserve/internal/docstore"
	"github.com/ragstack/ragserve/internal/errortypes"
	"github.com/ragstack/ragserve/internal/provider"
	"github.com/ragstack/ragserve/internal/telemetry"
	"github.com/ragstack/ragserve/internal/tools"
	"github.com/ragstack/ragserve/internal/vector"
)

// HTTPServer serves the knowledge-base API.
type HTTPServer struct {
	store       *docstore.Store
	embedder    vector.Embedder
	generator   provider.Generator
	metrics     *telemetry.MetricsCollector
	defaultTopK int
	logger      *slog.Logger

	router     *gin.Engine
	httpServer *http.Server
}

// NewHTTPServer wires the store, providers and metrics behind the HTTP routes.
func NewHTTPServer(store *docstore.Store, embedder vector.Embedder, generator provider.Generator, metrics *telemetry.MetricsCollector, defaultTopK int, logger *slog.Logger) (*HTTPServer, error) {
	if store == nil || embedder == nil || generator == nil {
		return nil, errortypes.ConfigError(errors.New("missing dependencies"), "HTTP server initialization failed")
	}
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	if defaultTopK <= 0 {
		defaultTopK = tools.DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &HTTPServer{
		store:       store,
		embedder:    embedder,
		generator:   generator,
		metrics:     metrics,
		defaultTopK: defaultTopK,
		logger:      logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/kb", s.handleKB)
	router.POST("/ingest", s.handleIngest)
	router.POST("/chat", s.handleChat)
	router.GET("/stats", s.handleStats)

	s.router = router
	return s, nil
}

// Router returns the underlying gin engine.
func (s *HTTPServer) Router() *gin.Engine {
	return s.router
}

// Start blocks serving HTTP on the given port until Shutdown is called.
func (s *HTTPServer) Start(port int) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}

	s.logger.Info("HTTP server listening", "port", port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errortypes.NetworkError(err, "HTTP server failed")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// requestLogger tags every request with an id and logs its outcome.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"kbSize":    s.store.Len(),
	})
}

func (s *HTTPServer) handleKB(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List())
}

func (s *HTTPServer) handleIngest(c *gin.Context) {
	started := time.Now()
	s.metrics.IncrementCounter(telemetry.MetricIngestRequests, 1)

	var req struct {
		Documents []docstore.IngestItem `json:"documents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.metrics.IncrementCounter(telemetry.MetricEmbeddingCalls, int64(len(req.Documents)))
	added, err := s.store.Ingest(c.Request.Context(), req.Documents)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricEmbeddingFailures, 1)
		errortypes.LogError(s.logger, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.IncrementCounter(telemetry.MetricDocumentsIngested, int64(added))
	s.metrics.RecordTimer(telemetry.MetricIngestDuration, time.Since(started))
	s.metrics.RecordTimestamp(telemetry.MetricLastIngest)

	c.JSON(http.StatusOK, gin.H{"added": added})
}

// chatSource is one retrieved document reference in a chat response.
type chatSource struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *HTTPServer) handleChat(c *gin.Context) {
	started := time.Now()
	s.metrics.IncrementCounter(telemetry.MetricChatRequests, 1)

	var req struct {
		Query string `json:"query"`
		TopK  *int   `json:"topK"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	ctx := c.Request.Context()

	s.metrics.IncrementCounter(telemetry.MetricEmbeddingCalls, 1)
	queryVector, err := s.embedder.CreateEmbedding(ctx, req.Query)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricEmbeddingFailures, 1)
		errortypes.LogError(s.logger, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results, err := s.store.Rank(queryVector, topK)
	if err != nil {
		errortypes.LogError(s.logger, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.IncrementCounter(telemetry.MetricGenerationCalls, 1)
	answer, err := s.generator.Generate(ctx, BuildPrompt(req.Query, results))
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricGenerationFailures, 1)
		errortypes.LogError(s.logger, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sources := make([]chatSource, len(results))
	for i, r := range results {
		sources[i] = chatSource{
			ID:        r.Document.ID,
			Score:     roundScore(r.Score),
			Timestamp: r.Document.Timestamp,
		}
	}

	elapsed := time.Since(started)
	s.metrics.RecordTimer(telemetry.MetricChatDuration, elapsed)
	s.metrics.RecordTimestamp(telemetry.MetricLastChat)

	c.JSON(http.StatusOK, gin.H{
		"response": answer,
		"elapsed":  elapsed.Seconds(),
		"sources":  sources,
	})
}

func (s *HTTPServer) handleStats(c *gin.Context) {
	snapshot := s.metrics.Snapshot()
	snapshot["kbSize"] = s.store.Len()
	c.JSON(http.StatusOK, snapshot)
}

// BuildPrompt assembles the generation prompt from the query and the
// retrieved context documents.
func BuildPrompt(query string, results []docstore.ScoredDocument) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context provided below.\n\nContext:\n")
	for _, r := range results {
		b.WriteString("- ")
		b.WriteString(r.Document.Text)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:")
	return b.String()
}

// roundScore rounds a similarity score to 4 decimal places for responses.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
