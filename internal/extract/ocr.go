package extract

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// OCR runs Tesseract over images and rasterized PDF pages. A fresh
// gosseract client is created per call; the underlying Tesseract handle is
// not safe for concurrent use.
type OCR struct {
	languages []string
}

// NewOCR creates an OCR engine for the given Tesseract languages.
// Defaults to English when none are given.
func NewOCR(languages ...string) *OCR {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &OCR{languages: languages}
}

// ImageFile recognizes text in a single raster image file.
func (o *OCR) ImageFile(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.languages...); err != nil {
		return "", fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}
	return text, nil
}

// PDFPages rasterizes every page of a PDF and recognizes each one,
// concatenating results with newline separators.
func (o *OCR) PDFPages(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open PDF for rasterization: %w", err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.languages...); err != nil {
		return "", fmt.Errorf("set OCR language: %w", err)
	}

	var text bytes.Buffer
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			return "", fmt.Errorf("rasterize page %d: %w", i, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("encode page %d: %w", i, err)
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return "", fmt.Errorf("set page %d image: %w", i, err)
		}

		pageText, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("recognize page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return text.String(), nil
}
