// Package chat implements the retrieval-augmented query pipeline:
// cache lookup -> query embedding -> similarity search -> prompt build ->
// streaming generation -> cache write-back.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/invoice-rag/internal/cache"
	"github.com/bull/invoice-rag/internal/embedding"
	"github.com/bull/invoice-rag/internal/generation"
	"github.com/bull/invoice-rag/internal/storage"
)

// DefaultTopK is the default similarity search result count.
const DefaultTopK = 3

// Retriever is the slice of the vector store the orchestrator needs.
// *storage.QdrantStorage satisfies it; tests substitute fakes.
type Retriever interface {
	Search(ctx context.Context, vector []float32, limit int) ([]*storage.ScoredPoint, error)
}

// Orchestrator answers questions about ingested invoices as a stream of
// text fragments.
type Orchestrator struct {
	embedder  embedding.Embedder
	retriever Retriever
	generator generation.Generator
	cache     cache.Cache
	topK      int
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given components.
// A non-positive topK falls back to DefaultTopK.
func NewOrchestrator(
	embedder embedding.Embedder,
	retriever Retriever,
	generator generation.Generator,
	queryCache cache.Cache,
	topK int,
	logger *slog.Logger,
) *Orchestrator {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		cache:     queryCache,
		topK:      topK,
		logger:    logger,
	}
}

// Answer streams the response to query through emit. Fragments are relayed
// as produced, never buffered whole, while the full text accumulates for
// the cache write-back.
//
// By the time generation begins the response channel is already open in
// streaming mode, so failures in the retrieval or generation steps are
// communicated in-band as an error-text fragment rather than returned.
// The returned error is non-nil only when emit itself fails (the client
// is gone), in which case nothing further is consumed or cached.
func (o *Orchestrator) Answer(ctx context.Context, query string, emit func(fragment string) error) error {
	// Fast path: a cache hit bypasses retrieval and generation entirely.
	if cached, ok, err := o.cache.Get(ctx, query); err != nil {
		o.logger.Warn("Cache lookup failed", "error", err)
	} else if ok {
		o.logger.Info("Cache hit")
		return emit(cached)
	}

	retrieval, err := o.retrieve(ctx, query)
	if err != nil {
		o.logger.Error("Retrieval failed", "error", err)
		return emit(fmt.Sprintf("Error: %v", err))
	}

	// No hits: fixed fallback, no generation call, never cached.
	if len(retrieval.Hits) == 0 {
		o.logger.Info("No matching chunks, escalating")
		return emit(FallbackAnswer)
	}

	prompt := buildPrompt(query, retrieval)
	o.logger.Info("Generating answer", "hits", len(retrieval.Hits), "confidence", retrieval.Confidence)

	var full strings.Builder
	var emitErr error
	streamErr := o.generator.Stream(ctx, prompt, func(fragment string) error {
		full.WriteString(fragment)
		if err := emit(fragment); err != nil {
			emitErr = err
			return err
		}
		return nil
	})

	if emitErr != nil {
		// Client disconnected mid-stream: stop, and do not cache the
		// partial answer.
		return emitErr
	}
	if streamErr != nil {
		o.logger.Error("Generation stream failed", "error", streamErr)
		return emit(fmt.Sprintf("Error: %v", streamErr))
	}

	// Only full, successful, non-blank completions are cached.
	answer := full.String()
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	if err := o.cache.Set(ctx, query, answer); err != nil {
		o.logger.Warn("Cache write-back failed", "error", err)
	}
	return nil
}

// AnswerText collects the full streamed answer into one string. Used by
// callers without a streaming response channel (CLI, MCP tools).
func (o *Orchestrator) AnswerText(ctx context.Context, query string) (string, error) {
	var full strings.Builder
	err := o.Answer(ctx, query, func(fragment string) error {
		full.WriteString(fragment)
		return nil
	})
	return full.String(), err
}

func (o *Orchestrator) retrieve(ctx context.Context, query string) (*RetrievalResult, error) {
	vector, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := o.retriever.Search(ctx, vector, o.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return newRetrievalResult(hits), nil
}
