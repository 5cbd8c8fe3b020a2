package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/localrivet/gomcp/server"

	"github.com/ragstack/ragserve/internal/docstore"
	"github.com/ragstack/ragserve/internal/errortypes"
	"github.com/ragstack/ragserve/internal/provider"
	"github.com/ragstack/ragserve/internal/tools"
	"github.com/ragstack/ragserve/internal/util"
	"github.com/ragstack/ragserve/internal/vector"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// KnowledgeToolServer defines the interface for the MCP server that exposes
// the knowledge base to MCP clients.
type KnowledgeToolServer interface {
	// Initialize initializes the server with dependencies and configurations.
	Initialize() error

	// Start starts the MCP server on the stdio transport.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}

// MCPKnowledgeToolServer implements the KnowledgeToolServer interface
// for handling MCP tool calls against the knowledge base.
type MCPKnowledgeToolServer struct {
	store       *docstore.Store
	embedder    vector.Embedder
	generator   provider.Generator
	defaultTopK int
	mcpServer   server.Server
}

// NewKnowledgeToolServer creates a new MCPKnowledgeToolServer instance.
func NewKnowledgeToolServer(store *docstore.Store, embedder vector.Embedder, generator provider.Generator) *MCPKnowledgeToolServer {
	return &MCPKnowledgeToolServer{
		store:       store,
		embedder:    embedder,
		generator:   generator,
		defaultTopK: tools.DefaultTopK,
	}
}

// Initialize initializes the server with dependencies and configurations.
func (s *MCPKnowledgeToolServer) Initialize() error {
	slog.Info("Initializing MCP Knowledge Tool Server")

	if s.store == nil || s.embedder == nil || s.generator == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	srv := server.NewServer("ragserve")

	srv = srv.Tool(tools.ToolIngestDocuments, "Add documents to the knowledge base",
		s.handleIngestDocuments)

	srv = srv.Tool(tools.ToolQueryKnowledge, "Answer a question from the knowledge base",
		s.handleQueryKnowledge)

	srv = srv.Tool(tools.ToolListDocuments, "List all knowledge base documents",
		s.handleListDocuments)

	s.mcpServer = srv
	slog.Info("MCP Knowledge Tool Server initialized successfully", "tool_count", 3)
	return nil
}

// Start starts the MCP server on the stdio transport.
func (s *MCPKnowledgeToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	slog.Info("Starting MCP Knowledge Tool Server")

	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPKnowledgeToolServer) Stop() error {
	slog.Info("Stopping MCP Knowledge Tool Server")
	// The server will exit when stdin is closed
	return nil
}

// handleIngestDocuments handles the kb_ingest MCP tool call.
func (s *MCPKnowledgeToolServer) handleIngestDocuments(ctx *server.Context, req tools.IngestRequest) (tools.IngestResponse, error) {
	slog.Info("Processing kb_ingest request", "document_count", len(req.Documents))

	response := tools.IngestResponse{
		Status: "success",
	}

	items := make([]docstore.IngestItem, len(req.Documents))
	for i, doc := range req.Documents {
		id := doc.ID
		if id == "" && doc.Text != "" {
			id = util.GenerateHash(doc.Text, time.Now().UnixNano())
		}
		items[i] = docstore.IngestItem{ID: id, Text: doc.Text}
	}

	added, err := s.store.Ingest(context.Background(), items)
	if err != nil {
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	response.Added = added
	return response, nil
}

// handleQueryKnowledge handles the kb_query MCP tool call.
func (s *MCPKnowledgeToolServer) handleQueryKnowledge(ctx *server.Context, req tools.QueryRequest) (tools.QueryResponse, error) {
	slog.Info("Processing kb_query request", "query_length", len(req.Query))

	response := tools.QueryResponse{
		Status: "success",
	}

	if strings.TrimSpace(req.Query) == "" {
		err := errortypes.ValidationError(errors.New("blank query"), "query is required")
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = "query is required"
		return response, nil
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.defaultTopK
	}

	slog.Debug("Creating query embedding for kb_query")
	queryVector, err := s.embedder.CreateEmbedding(context.Background(), req.Query)
	if err != nil {
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	results, err := s.store.Rank(queryVector, topK)
	if err != nil {
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	slog.Debug("Generating answer for kb_query", "source_count", len(results))
	answer, err := s.generator.Generate(context.Background(), BuildPrompt(req.Query, results))
	if err != nil {
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	response.Response = answer
	response.Sources = make([]tools.Source, len(results))
	for i, r := range results {
		response.Sources[i] = tools.Source{
			ID:        r.Document.ID,
			Score:     roundScore(r.Score),
			Timestamp: r.Document.Timestamp,
		}
	}

	return response, nil
}

// handleListDocuments handles the kb_list MCP tool call.
func (s *MCPKnowledgeToolServer) handleListDocuments(ctx *server.Context, req tools.ListRequest) (tools.ListResponse, error) {
	slog.Info("Processing kb_list request")

	infos := s.store.List()
	documents := make([]tools.DocumentInfo, len(infos))
	for i, info := range infos {
		documents[i] = tools.DocumentInfo{
			ID:        info.ID,
			Text:      info.Text,
			Timestamp: info.Timestamp,
		}
	}

	return tools.ListResponse{
		Status:    "success",
		Documents: documents,
	}, nil
}
