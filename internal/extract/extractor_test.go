package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestExtractor() *Extractor {
	return NewExtractor(NewOCR(), slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

// TestExtract_UnsupportedFormat tests that an unknown extension yields
// empty text, not an error.
func TestExtract_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xyz")
	if err := os.WriteFile(path, []byte("some bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if text := newTestExtractor().Extract(path); text != "" {
		t.Errorf("Expected empty text for unsupported format, got %q", text)
	}
}

// TestExtract_MissingFile tests that a nonexistent file yields empty text.
func TestExtract_MissingFile(t *testing.T) {
	if text := newTestExtractor().Extract("/nonexistent/invoice.pdf"); text != "" {
		t.Errorf("Expected empty text for missing file, got %q", text)
	}
}

// TestExtract_MalformedPDF tests that garbage bytes with a .pdf extension
// are swallowed into empty text.
func TestExtract_MalformedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if text := newTestExtractor().Extract(path); text != "" {
		t.Errorf("Expected empty text for malformed PDF, got %q", text)
	}
}

// TestExtract_MalformedDOCX tests that a corrupt DOCX yields empty text.
func TestExtract_MalformedDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	if text := newTestExtractor().Extract(path); text != "" {
		t.Errorf("Expected empty text for malformed DOCX, got %q", text)
	}
}
