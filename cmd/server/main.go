// Package main provides the invoice RAG server entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bull/invoice-rag/internal/cache"
	"github.com/bull/invoice-rag/internal/chat"
	"github.com/bull/invoice-rag/internal/config"
	"github.com/bull/invoice-rag/internal/embedding"
	"github.com/bull/invoice-rag/internal/extract"
	"github.com/bull/invoice-rag/internal/generation"
	"github.com/bull/invoice-rag/internal/httpapi"
	"github.com/bull/invoice-rag/internal/ingest"
	mcpserver "github.com/bull/invoice-rag/internal/mcp"
	"github.com/bull/invoice-rag/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.Load()
	logger := slog.Default()

	// Initialize storage
	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName, cfg.Dimension)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	// Initialize query cache
	queryCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer queryCache.Close()

	// Initialize embedding and generation providers
	embedder, openaiClient, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}
	generator := generation.NewOpenAIGenerator(openaiClient.Client(), cfg.GenerationModel)

	// Build the two pipelines
	extractor := extract.NewExtractor(extract.NewOCR(), logger)
	pipeline := ingest.NewPipeline(extractor, embedder, store, logger)
	orchestrator := chat.NewOrchestrator(embedder, store, generator, queryCache, cfg.TopK, logger)

	// Create MCP server
	server := mcpserver.NewServer(&mcpserver.Config{
		Storage:      store,
		Pipeline:     pipeline,
		Orchestrator: orchestrator,
		Collection:   cfg.CollectionName,
	})

	// Create HTTP server with all endpoints
	mux := http.NewServeMux()
	mux.HandleFunc("/", httpapi.NewLandingHandler())
	mux.HandleFunc("/health", httpapi.NewHealthHandler(store, queryCache))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	api := httpapi.NewServer(pipeline, orchestrator, cfg.DataDir, logger)
	api.Register(mux)

	// Check if running in server mode (HTTP) or stdio mode (local MCP clients)
	serverMode := os.Getenv("SERVER_MODE") != "false"

	if serverMode {
		addr := "0.0.0.0:" + cfg.Port
		log.Printf("Starting HTTP server on %s (upload at /upload/, chat at /chat, MCP at /mcp)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP server over stdin/stdout for local clients,
		// with the HTTP endpoints in the background for testing
		go func() {
			addr := "0.0.0.0:" + cfg.Port
			log.Printf("Starting HTTP server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("HTTP server error: %v", err)
			}
		}()

		log.Println("Starting Invoice RAG MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

// buildEmbedder selects the embedding provider from configuration. The
// OpenAI client is created in both cases: generation always needs it.
func buildEmbedder(cfg *config.Config) (embedding.Embedder, *embedding.Client, error) {
	client, err := embedding.NewClient()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.EmbeddingProvider {
	case config.ProviderLocal:
		return embedding.NewLocalEmbedder(cfg.Dimension), client, nil
	default:
		return embedding.NewOpenAIEmbedder(client, cfg.Dimension), client, nil
	}
}
