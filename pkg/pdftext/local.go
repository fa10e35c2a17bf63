package pdftext

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type local struct{}

// NewLocal returns an Extractor that reads the embedded text layer.
// Scanned documents without a text layer yield empty pages.
func NewLocal() Extractor {
	return &local{}
}

func (l *local) Extract(ctx context.Context, data []byte) (res *Result, err error) {
	if len(data) == 0 {
		return nil, extractionError("empty document")
	}

	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return nil, extractionError("invalid pdf: %v", err)
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, extractionError("page count: %v", err)
	}

	// The text-layer parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = extractionError("read text layer: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, extractionError("open text layer: %v", err)
	}

	if n := reader.NumPage(); n > 0 {
		count = n
	}

	pages := make([]Page, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := Page{PageNumber: i}
		p := reader.Page(i)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				return nil, extractionError("page %d: %v", i, err)
			}
			page.Text = strings.TrimSpace(text)
		}
		pages = append(pages, page)
	}

	return newResult(pages), nil
}
