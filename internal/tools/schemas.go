// Package tools defines the MCP tool names and request/response schemas
// for the ragserve service.
package tools

import "time"

const (
	// ToolIngestDocuments is the name of the kb_ingest MCP tool
	ToolIngestDocuments = "kb_ingest"

	// ToolQueryKnowledge is the name of the kb_query MCP tool
	ToolQueryKnowledge = "kb_query"

	// ToolListDocuments is the name of the kb_list MCP tool
	ToolListDocuments = "kb_list"

	// DefaultTopK is the default number of sources returned
	// when no topK is specified in a kb_query request
	DefaultTopK = 3
)

// IngestDocument is one document submitted through the kb_ingest tool.
// Documents without an id get one derived from their content.
type IngestDocument struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// IngestRequest defines the input schema for the kb_ingest tool
type IngestRequest struct {
	Documents []IngestDocument `json:"documents"`
}

// IngestResponse defines the output schema for the kb_ingest tool
type IngestResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Added is the number of documents in the submitted batch
	Added int `json:"added"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// QueryRequest defines the input schema for the kb_query tool
type QueryRequest struct {
	// Query is the question to answer from the knowledge base
	Query string `json:"query"`

	// TopK is the number of sources to retrieve
	// If not specified, DefaultTopK will be used
	TopK int `json:"top_k,omitempty"`
}

// Source describes one retrieved document backing an answer
type Source struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryResponse defines the output schema for the kb_query tool
type QueryResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Response is the generated answer
	Response string `json:"response"`

	// Sources lists the documents the answer was grounded on
	Sources []Source `json:"sources,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// ListRequest defines the input schema for the kb_list tool
type ListRequest struct{}

// DocumentInfo is one knowledge-base entry as returned by kb_list
type DocumentInfo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ListResponse defines the output schema for the kb_list tool
type ListResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Documents contains the knowledge-base entries, embeddings omitted
	Documents []DocumentInfo `json:"documents"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
