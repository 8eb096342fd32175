// Package extract produces plain text from uploaded invoice files.
//
// Extraction is best-effort by contract: any per-file failure yields an
// empty string rather than an error, so one malformed file can never abort
// a multi-file batch.
package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extractor extracts text from PDF, DOCX and raster image files,
// falling back to OCR for scanned PDFs and images.
type Extractor struct {
	ocr    *OCR
	logger *slog.Logger
}

// NewExtractor creates an Extractor with the given OCR engine.
func NewExtractor(ocr *OCR, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: ocr, logger: logger}
}

// Extract returns the best-effort plain text for the file at path. The
// format is chosen by extension. Unsupported formats and all extraction
// failures produce an empty string.
func (e *Extractor) Extract(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.extractPDF(path)
	case ".docx":
		return e.extractDOCX(path)
	case ".png", ".jpg", ".jpeg":
		return e.extractImage(path)
	default:
		e.logger.Warn("Unsupported file format", "path", path)
		return ""
	}
}

// extractPDF extracts the embedded text layer page by page. Scanned
// invoices have no text layer, so a blank result falls back to
// rasterizing every page and running OCR on each.
func (e *Extractor) extractPDF(path string) string {
	text := e.pdfTextLayer(path)
	if strings.TrimSpace(text) != "" {
		return text
	}

	e.logger.Info("No embedded text in PDF, falling back to OCR", "path", path)
	ocrText, err := e.ocr.PDFPages(path)
	if err != nil {
		e.logger.Warn("PDF OCR failed", "path", path, "error", err)
		return ""
	}
	return ocrText
}

func (e *Extractor) pdfTextLayer(path string) string {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("Failed to open PDF", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		e.logger.Warn("Failed to stat PDF", "path", path, "error", err)
		return ""
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		e.logger.Warn("Failed to parse PDF", "path", path, "error", err)
		return ""
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("Failed to extract PDF page", "path", path, "page", i, "error", err)
			continue
		}
		if pageText != "" {
			text.WriteString(pageText)
			text.WriteString("\n")
		}
	}
	return text.String()
}

// extractDOCX concatenates paragraph text in document order.
func (e *Extractor) extractDOCX(path string) string {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		e.logger.Warn("Failed to open DOCX", "path", path, "error", err)
		return ""
	}
	defer r.Close()

	content := r.Editable().GetContent()

	var text strings.Builder
	for _, paragraph := range strings.Split(content, "\n") {
		if paragraph == "" {
			continue
		}
		text.WriteString(paragraph)
		text.WriteString("\n")
	}
	return text.String()
}

// extractImage runs OCR on the whole image.
func (e *Extractor) extractImage(path string) string {
	text, err := e.ocr.ImageFile(path)
	if err != nil {
		e.logger.Warn("Image OCR failed", "path", path, "error", err)
		return ""
	}
	return text
}
