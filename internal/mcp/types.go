// Package mcp exposes the invoice pipelines as Model Context Protocol tools.
package mcp

// AskInvoicesInput defines the input parameters for the ask_invoices tool.
type AskInvoicesInput struct {
	// Question is the natural-language question about ingested invoices.
	Question string `json:"question" jsonschema:"required,description=Natural-language question about the uploaded invoices"`
}

// AskInvoicesOutput contains the generated answer.
type AskInvoicesOutput struct {
	// Answer is the full generated (or cached/fallback) answer text.
	Answer string `json:"answer"`
}

// IngestFileInput defines the input parameters for the ingest_file tool.
type IngestFileInput struct {
	// Path is a server-local file path to ingest (PDF, DOCX, PNG or JPG).
	Path string `json:"path" jsonschema:"required,description=Server-local path of the invoice file to ingest"`
}

// IngestFileOutput summarizes one file ingestion.
type IngestFileOutput struct {
	// Filename is the base name of the ingested file.
	Filename string `json:"filename"`
	// Message is the human-readable ingestion status.
	Message string `json:"message"`
	// PointCount is the number of points written to the index.
	PointCount int `json:"point_count"`
}

// IndexStatusInput defines the input for the index_status tool.
// The tool takes no parameters.
type IndexStatusInput struct{}

// IndexStatusOutput reports index statistics.
type IndexStatusOutput struct {
	// Collection is the vector collection name.
	Collection string `json:"collection"`
	// TotalPoints is the number of indexed chunk points.
	TotalPoints uint64 `json:"total_points"`
	// Dimension is the collection's configured vector dimension.
	Dimension int `json:"dimension"`
}
