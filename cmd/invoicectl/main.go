// Package main provides the operator CLI for the invoice RAG index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/invoice-rag/internal/cache"
	"github.com/bull/invoice-rag/internal/chat"
	"github.com/bull/invoice-rag/internal/config"
	"github.com/bull/invoice-rag/internal/embedding"
	"github.com/bull/invoice-rag/internal/extract"
	"github.com/bull/invoice-rag/internal/generation"
	"github.com/bull/invoice-rag/internal/ingest"
	"github.com/bull/invoice-rag/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Invoice RAG index management tool",
	Long:  "CLI tool for ingesting invoices into Qdrant and querying them",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Ingest invoice files into the vector index",
	Long: `Hashes, extracts, chunks, embeds and indexes the given files.

Files are treated as scratch input and removed after processing.
Byte-identical re-uploads are skipped.

Environment variables:
  QDRANT_HOST         Qdrant hostname (default: localhost)
  QDRANT_PORT         Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY      OpenAI API key (required)
  EMBEDDING_PROVIDER  "openai" or "local" (default: openai)
  EMBEDDING_DIMENSION Vector dimension (default: 768)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the ingested invoices",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index size and configuration",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()
	start := time.Now()

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName, cfg.Dimension)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	extractor := extract.NewExtractor(extract.NewOCR(), slog.Default())
	pipeline := ingest.NewPipeline(extractor, embedder, store, slog.Default())

	fmt.Printf("Ingesting %d file(s)...\n\n", len(args))
	batch := pipeline.IngestAll(ctx, args)

	for _, result := range batch.Results {
		fmt.Printf("  %s: %s (%d points)\n", result.Filename, result.Message, len(result.Points))
	}
	if len(batch.FailedFiles) > 0 {
		fmt.Println()
		fmt.Println("Failed files:")
		for _, failed := range batch.FailedFiles {
			fmt.Printf("  - %s: %s\n", failed.Filename, failed.Reason)
		}
	}

	fmt.Printf("\nTotal time: %s\n", time.Since(start).Round(time.Second))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName, cfg.Dimension)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	queryCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer queryCache.Close()

	// Generation always needs the OpenAI client, so create it once and
	// share it with the embedder when the provider is OpenAI too.
	client, err := embedding.NewClient()
	if err != nil {
		return err
	}
	var embedder embedding.Embedder
	if cfg.EmbeddingProvider == config.ProviderLocal {
		embedder = embedding.NewLocalEmbedder(cfg.Dimension)
	} else {
		embedder = embedding.NewOpenAIEmbedder(client, cfg.Dimension)
	}
	generator := generation.NewOpenAIGenerator(client.Client(), cfg.GenerationModel)

	orchestrator := chat.NewOrchestrator(embedder, store, generator, queryCache, cfg.TopK, slog.Default())

	// Print fragments as they stream in
	err = orchestrator.Answer(ctx, args[0], func(fragment string) error {
		fmt.Print(fragment)
		return nil
	})
	fmt.Println()
	return err
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName, cfg.Dimension)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	info, err := store.GetCollectionInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	fmt.Printf("Collection: %s\n", cfg.CollectionName)
	fmt.Printf("Points:     %d\n", info.PointsCount)
	fmt.Printf("Dimension:  %d\n", cfg.Dimension)
	fmt.Printf("Top-K:      %d\n", cfg.TopK)
	return nil
}

func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	if cfg.EmbeddingProvider == config.ProviderLocal {
		return embedding.NewLocalEmbedder(cfg.Dimension), nil
	}
	client, err := embedding.NewClient()
	if err != nil {
		return nil, err
	}
	return embedding.NewOpenAIEmbedder(client, cfg.Dimension), nil
}
