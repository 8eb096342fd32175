package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bull/invoice-rag/internal/ingest"
	"github.com/bull/invoice-rag/internal/storage"
)

// maxUploadBytes caps one multipart upload request (64 MiB).
const maxUploadBytes = 64 << 20

// UploadResponse is the JSON body returned for a multi-file upload.
type UploadResponse struct {
	Results []FileResult `json:"results"`
}

// FileResult mirrors ingest.FileResult for JSON transport.
type FileResult struct {
	Filename string          `json:"filename"`
	Message  string          `json:"message"`
	Data     []IngestedPoint `json:"data"`
}

// IngestedPoint is one indexed point in the upload response. The vector is
// omitted; clients only need identity and payload.
type IngestedPoint struct {
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

// handleUpload accepts one or more files, spools each into the data
// directory and runs the ingestion pipeline on it. Each file gets its own
// structured result; a duplicate file yields an empty point list with no
// separate error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart request: %v", err), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no files provided", http.StatusBadRequest)
		return
	}

	response := UploadResponse{Results: make([]FileResult, 0, len(files))}
	for _, header := range files {
		path, err := s.spoolFile(header)
		if err != nil {
			s.logger.Warn("Failed to save upload", "file", header.Filename, "error", err)
			http.Error(w, fmt.Sprintf("an error occurred during file ingestion: %v", err), http.StatusInternalServerError)
			return
		}

		result, err := s.pipeline.IngestFile(r.Context(), path)
		if err != nil {
			s.logger.Warn("Ingestion failed", "file", header.Filename, "error", err)
			http.Error(w, fmt.Sprintf("an error occurred during file ingestion: %v", err), http.StatusInternalServerError)
			return
		}
		response.Results = append(response.Results, toFileResult(result))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// spoolFile writes one uploaded file into the data directory. The pipeline
// treats it as scratch state and removes it after processing.
func (s *Server) spoolFile(header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dataDir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}

func toFileResult(result *ingest.FileResult) FileResult {
	points := make([]IngestedPoint, len(result.Points))
	for i, p := range result.Points {
		points[i] = IngestedPoint{
			ID: p.ID,
			Payload: map[string]any{
				storage.FieldText:       p.Payload.Text,
				storage.FieldSourceFile: p.Payload.SourceFile,
				storage.FieldFileHash:   p.Payload.FileHash,
			},
		}
	}
	return FileResult{
		Filename: result.Filename,
		Message:  result.Message,
		Data:     points,
	}
}
