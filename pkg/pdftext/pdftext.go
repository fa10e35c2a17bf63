// Package pdftext extracts per-page text from PDF documents. Backends are
// interchangeable: a local text-layer parser and Azure AI Document
// Intelligence OCR both satisfy Extractor with identical output guarantees.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrExtraction indicates the PDF could not be read. It is not retryable.
var ErrExtraction = errors.New("pdf text extraction failed")

// Page is the text of one page, numbered from 1.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// Result holds the ordered pages of a document and their concatenation.
type Result struct {
	FullText  string `json:"fullText"`
	Pages     []Page `json:"pages"`
	PageCount int    `json:"pageCount"`
}

// Extractor turns PDF bytes into page text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Result, error)
}

// New returns the Extractor selected by cfg.Backend.
func New(cfg *Config) (Extractor, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocal(), nil
	case BackendAzure:
		return NewAzure(&cfg.Azure)
	default:
		return nil, fmt.Errorf("unsupported pdf backend %q", cfg.Backend)
	}
}

func newResult(pages []Page) *Result {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return &Result{
		FullText:  strings.Join(texts, "\n\n"),
		Pages:     pages,
		PageCount: len(pages),
	}
}

func extractionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExtraction, fmt.Sprintf(format, args...))
}
