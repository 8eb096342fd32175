package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/invoice-rag/internal/ingest"
	"github.com/bull/invoice-rag/internal/storage"
)

type stubExtractor struct{ text string }

func (s *stubExtractor) Extract(path string) string { return s.text }

type stubIndex struct {
	known    map[string]bool
	upserted []*storage.Point
}

func (s *stubIndex) EnsureCollection(ctx context.Context) error { return nil }

func (s *stubIndex) UpsertPoints(ctx context.Context, points []*storage.Point) error {
	s.upserted = append(s.upserted, points...)
	return nil
}

func (s *stubIndex) HasPayloadValue(ctx context.Context, field, value string) (bool, error) {
	return s.known[value], nil
}

func (s *stubIndex) Dimension() int { return 8 }

func newUploadServer(t *testing.T, extractedText string) (*Server, *stubIndex) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	index := &stubIndex{known: map[string]bool{}}
	pipeline := ingest.NewPipeline(&stubExtractor{text: extractedText}, &stubEmbedder{dimension: 8}, index, logger)
	return NewServer(pipeline, nil, t.TempDir(), logger), index
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestHandleUpload_IngestsFile(t *testing.T) {
	server, index := newUploadServer(t, "Invoice #9\n\nTotal: $15")

	body, contentType := multipartBody(t, "invoice.pdf", []byte("pdf bytes"))
	request := httptest.NewRequest(http.MethodPost, "/upload/", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	server.handleUpload(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response UploadResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Results, 1)

	result := response.Results[0]
	assert.Equal(t, "invoice.pdf", result.Filename)
	assert.Equal(t, ingest.MessageIngested, result.Message)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "Invoice #9", result.Data[0].Payload[storage.FieldText])
	assert.Equal(t, "invoice.pdf", result.Data[0].Payload[storage.FieldSourceFile])

	assert.Len(t, index.upserted, 2)
}

func TestHandleUpload_DuplicateYieldsEmptyData(t *testing.T) {
	server, index := newUploadServer(t, "chunk")

	content := []byte("identical bytes")

	// First upload indexes the content.
	body, contentType := multipartBody(t, "first.pdf", content)
	request := httptest.NewRequest(http.MethodPost, "/upload/", body)
	request.Header.Set("Content-Type", contentType)
	server.handleUpload(httptest.NewRecorder(), request)
	require.Len(t, index.upserted, 1)

	// Mark the hash as present, as the real store would report it.
	index.known[index.upserted[0].Payload.FileHash] = true

	body, contentType = multipartBody(t, "second.pdf", content)
	request = httptest.NewRequest(http.MethodPost, "/upload/", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	server.handleUpload(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var response UploadResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, ingest.MessageDuplicate, response.Results[0].Message)
	assert.Empty(t, response.Results[0].Data)
	assert.Len(t, index.upserted, 1, "no new points for duplicate bytes")
}

func TestHandleUpload_NoFiles(t *testing.T) {
	server, _ := newUploadServer(t, "chunk")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	server.handleUpload(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
