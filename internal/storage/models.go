package storage

// Point represents a single indexed chunk in Qdrant.
// Points are created at ingestion time and never updated in place;
// duplicate uploads are filtered upstream by content hash.
type Point struct {
	ID      string // UUID
	Vector  []float32
	Payload Payload
}

// Payload is the metadata stored alongside each vector.
type Payload struct {
	Text       string // Chunk text content
	SourceFile string // Original filename (base name, no directory)
	FileHash   string // Hex SHA-256 of the source file bytes
}

// ScoredPoint is a search hit with its cosine similarity score.
type ScoredPoint struct {
	ID      string
	Score   float32
	Payload Payload
}

// Payload field names as stored in Qdrant.
const (
	FieldText       = "text"
	FieldSourceFile = "source_file"
	FieldFileHash   = "file_hash"
)

// DefaultCollectionName is the single Qdrant collection for invoice chunks.
const DefaultCollectionName = "invoice_rag"

// DefaultVectorDimension is the embedding size used unless overridden.
const DefaultVectorDimension = 768
