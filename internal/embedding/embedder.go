// Package embedding turns text into fixed-dimension vectors.
//
// Two interchangeable providers implement Embedder: a remote OpenAI call and
// a deterministic local model. Ingestion and query embedding share one
// provider instance so both sides stay dimension-consistent with the
// collection.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

// EmbeddingModel is the OpenAI model used for generating embeddings.
const EmbeddingModel = "text-embedding-3-small"

// Embedder generates a vector for one non-empty text. Implementations
// return an error on failure; callers drop the affected chunk (ingestion)
// or abort the query path, never upserting a short or empty vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// OpenAIEmbedder generates embeddings via the OpenAI API with the
// configured output dimension. Retries with exponential backoff on rate
// limit errors; other errors surface immediately.
type OpenAIEmbedder struct {
	client    *Client
	dimension int
}

// NewOpenAIEmbedder creates an Embedder backed by the OpenAI API.
func NewOpenAIEmbedder(client *Client, dimension int) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:    client,
		dimension: dimension,
	}
}

// Dimension returns the configured output dimension.
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

// Embed generates an embedding for a single text.
// Retries with exponential backoff on rate limit errors (HTTP 429).
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	operation := func() error {
		resp, err := e.client.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: []string{text},
			},
			Model:      EmbeddingModel,
			Dimensions: openai.Int(int64(e.dimension)),
		})
		if err != nil {
			if isRateLimitError(err) {
				return err // Will retry with backoff
			}
			return backoff.Permanent(err)
		}

		if len(resp.Data) == 0 {
			return backoff.Permanent(fmt.Errorf("embedding response contained no data"))
		}
		embedding = toFloat32(resp.Data[0].Embedding)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	return embedding, nil
}

// isRateLimitError checks if the error is a rate limit error (HTTP 429).
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 converts []float64 to []float32.
// OpenAI API returns float64, but storage uses float32 for memory efficiency.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
