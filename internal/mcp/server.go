package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/invoice-rag/internal/chat"
	"github.com/bull/invoice-rag/internal/ingest"
	"github.com/bull/invoice-rag/internal/storage"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Storage      *storage.QdrantStorage
	Pipeline     *ingest.Pipeline
	Orchestrator *chat.Orchestrator
	Collection   string
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "invoice-rag-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_invoices",
		Description: "Answer a natural-language question about the uploaded invoices using retrieval-augmented generation. Returns the full answer text.",
	}, makeAskHandler(cfg.Orchestrator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Ingest a server-local invoice file (PDF, DOCX, PNG, JPG) into the vector index. Byte-identical re-uploads are skipped.",
	}, makeIngestHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Get the current size and configuration of the invoice vector index.",
	}, makeStatusHandler(cfg.Storage, cfg.Collection))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
