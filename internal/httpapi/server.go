// Package httpapi exposes the ingestion and query pipelines over HTTP:
// multipart upload, server-sent-event chat streaming, and health checks.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/bull/invoice-rag/internal/chat"
	"github.com/bull/invoice-rag/internal/ingest"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	pipeline     *ingest.Pipeline
	orchestrator *chat.Orchestrator
	dataDir      string
	logger       *slog.Logger
}

// NewServer creates the HTTP API over the given pipelines. Uploaded files
// are spooled into dataDir before ingestion removes them again.
func NewServer(pipeline *ingest.Pipeline, orchestrator *chat.Orchestrator, dataDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline:     pipeline,
		orchestrator: orchestrator,
		dataDir:      dataDir,
		logger:       logger,
	}
}

// Register mounts all API routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload/", s.handleUpload)
	mux.HandleFunc("POST /chat", s.handleChat)
}
