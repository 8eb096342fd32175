// Package ingest implements the document ingestion pipeline:
// dedup gate -> text extraction -> chunking -> per-chunk embedding ->
// batched upsert into the vector store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bull/invoice-rag/internal/embedding"
	"github.com/bull/invoice-rag/internal/extract"
	"github.com/bull/invoice-rag/internal/storage"
)

// MessageIngested and friends are the human-readable per-file statuses
// returned to callers.
const (
	MessageIngested  = "File uploaded and ingested successfully."
	MessageDuplicate = "Duplicate content, already ingested. Skipped."
	MessageNoText    = "No text could be extracted from the file."
)

// VectorIndex is the slice of the vector store the pipeline needs.
// *storage.QdrantStorage satisfies it; tests substitute fakes.
type VectorIndex interface {
	EnsureCollection(ctx context.Context) error
	UpsertPoints(ctx context.Context, points []*storage.Point) error
	HasPayloadValue(ctx context.Context, field, value string) (bool, error)
	Dimension() int
}

// TextExtractor produces best-effort plain text for a file.
type TextExtractor interface {
	Extract(path string) string
}

// FileResult is the structured outcome of ingesting one file.
type FileResult struct {
	Filename string
	Message  string
	Points   []*storage.Point
}

// BatchResult aggregates a multi-file ingestion run.
type BatchResult struct {
	Results     []*FileResult
	FailedFiles []FailedFile
	Duration    time.Duration
}

// FailedFile records a file whose ingestion failed at the batch level.
type FailedFile struct {
	Filename string
	Reason   string
}

// Pipeline orchestrates ingestion for uploaded invoice files.
type Pipeline struct {
	extractor TextExtractor
	embedder  embedding.Embedder
	index     VectorIndex
	logger    *slog.Logger
}

// NewPipeline creates an ingestion pipeline with the given components.
func NewPipeline(extractor TextExtractor, embedder embedding.Embedder, index VectorIndex, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		logger:    logger,
	}
}

// IngestAll ingests each file independently so one failing file cannot
// abort the rest of the batch.
func (p *Pipeline) IngestAll(ctx context.Context, paths []string) *BatchResult {
	start := time.Now()
	batch := &BatchResult{}

	for _, path := range paths {
		result, err := p.IngestFile(ctx, path)
		if err != nil {
			p.logger.Warn("Failed to ingest file", "path", path, "error", err)
			batch.FailedFiles = append(batch.FailedFiles, FailedFile{
				Filename: filepath.Base(path),
				Reason:   err.Error(),
			})
			continue
		}
		batch.Results = append(batch.Results, result)
	}

	batch.Duration = time.Since(start)
	p.logger.Info("Ingestion batch complete",
		"successful", len(batch.Results),
		"failed", len(batch.FailedFiles),
		"duration", batch.Duration,
	)
	return batch
}

// IngestFile runs the full pipeline for one file. The file is scratch
// state, not the system of record: it is removed unconditionally after
// processing, on success and on every failure path alike.
//
// Uploading byte-identical content twice is a no-op for the index: the
// second ingestion returns an empty point list with a duplicate message.
// The check-then-upsert sequence is not atomic; concurrent first-time
// uploads of the same new file may both pass the check and index twice.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*FileResult, error) {
	defer p.cleanup(path)

	filename := filepath.Base(path)
	p.logger.Info("Starting ingestion", "file", filename)

	// Hash before any expensive extraction or embedding work.
	fileHash, err := HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash: %w", err)
	}

	if err := p.index.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	exists, err := p.index.HasPayloadValue(ctx, storage.FieldFileHash, fileHash)
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if exists {
		p.logger.Info("Duplicate content, skipping", "file", filename, "hash", fileHash)
		return &FileResult{
			Filename: filename,
			Message:  MessageDuplicate,
			Points:   []*storage.Point{},
		}, nil
	}

	text := p.extractor.Extract(path)
	chunks := extract.SplitChunks(text)
	if len(chunks) == 0 {
		p.logger.Warn("No text extracted", "file", filename)
		return &FileResult{
			Filename: filename,
			Message:  MessageNoText,
			Points:   []*storage.Point{},
		}, nil
	}

	// Embed each chunk independently; a single failed or mis-sized
	// embedding drops only that chunk, not the whole document.
	dimension := p.index.Dimension()
	points := make([]*storage.Point, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			p.logger.Warn("Chunk embedding failed, dropping chunk", "file", filename, "chunk", i, "error", err)
			continue
		}
		if len(vector) != dimension {
			p.logger.Warn("Embedding dimension mismatch, dropping chunk",
				"file", filename, "chunk", i, "got", len(vector), "want", dimension)
			continue
		}
		points = append(points, &storage.Point{
			ID:     uuid.New().String(),
			Vector: vector,
			Payload: storage.Payload{
				Text:       chunk,
				SourceFile: filename,
				FileHash:   fileHash,
			},
		})
	}

	if err := p.index.UpsertPoints(ctx, points); err != nil {
		return nil, fmt.Errorf("upsert points: %w", err)
	}

	p.logger.Info("Ingested file", "file", filename, "chunks", len(chunks), "points", len(points))
	return &FileResult{
		Filename: filename,
		Message:  MessageIngested,
		Points:   points,
	}, nil
}

func (p *Pipeline) cleanup(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("Failed to remove scratch file", "path", path, "error", err)
	}
}
