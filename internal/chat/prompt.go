package chat

import (
	"fmt"
	"strings"

	"github.com/bull/invoice-rag/internal/storage"
)

// FallbackAnswer is emitted when retrieval finds no matching chunks.
// It is never cached, so a later ingest can produce a real answer.
const FallbackAnswer = "I don't know; escalating"

// RetrievalResult is the transient outcome of one similarity search:
// the ordered hits plus the mean of their similarity scores.
type RetrievalResult struct {
	Hits       []*storage.ScoredPoint
	Confidence float64
}

// newRetrievalResult computes the aggregate confidence as the arithmetic
// mean of hit scores. Zero hits yield zero confidence, never a division.
func newRetrievalResult(hits []*storage.ScoredPoint) *RetrievalResult {
	result := &RetrievalResult{Hits: hits}
	if len(hits) == 0 {
		return result
	}

	var total float64
	for _, hit := range hits {
		total += float64(hit.Score)
	}
	result.Confidence = total / float64(len(hits))
	return result
}

// contextBlock formats the retrieved hits for the generation prompt:
// source filename, similarity score and retrieved text per hit.
func (r *RetrievalResult) contextBlock() string {
	blocks := make([]string, len(r.Hits))
	for i, hit := range r.Hits {
		blocks[i] = fmt.Sprintf("**Source File:** %s (Relevance: %.2f)\n**Text:** %s",
			hit.Payload.SourceFile, hit.Score, hit.Payload.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// buildPrompt combines the confidence score, the context block and the raw
// user query into the generation prompt.
func buildPrompt(query string, retrieval *RetrievalResult) string {
	return fmt.Sprintf(`You are an expert AI invoice assistant.

Confidence Score: %.2f

Context:
%s

User Query:
%s
`, retrieval.Confidence, retrieval.contextBlock(), query)
}
