// Package pipeline runs a PDF through text extraction, page grouping,
// classification, and LLM extraction. Stages run strictly in sequence; a
// failed group is recorded on its outcome and does not abort the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/classifier"
	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/grouper"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/pkg/pdftext"
)

// Status is the outcome of one page group.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Extractor performs a retried extraction. *extraction.Service satisfies it.
type Extractor interface {
	ExtractWithRetry(ctx context.Context, req extraction.Request) (*extraction.Result, error)
}

// Examples supplies few-shot examples and records their use.
// knowledge.System satisfies it.
type Examples interface {
	FewShotExamples(ctx context.Context, docType dcsa.DocumentType, carrier string, limit int) []knowledge.Example
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// Runtime bundles the dependencies a Pipeline requires.
type Runtime struct {
	PDF          pdftext.Extractor
	Extraction   Extractor
	Examples     Examples
	FewShotLimit int
	Logger       *slog.Logger
}

// Outcome is the result of processing one page group.
type Outcome struct {
	Index          int                `json:"index"`
	StartPage      int                `json:"startPage"`
	EndPage        int                `json:"endPage"`
	Header         string             `json:"header,omitempty"`
	Text           string             `json:"-"`
	Classification classifier.Result  `json:"classification"`
	LowConfidence  bool               `json:"lowConfidence"`
	Status         Status             `json:"status"`
	Extraction     *extraction.Result `json:"extraction,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// Run is the result of processing one PDF.
type Run struct {
	PageCount   int       `json:"pageCount"`
	Groups      []Outcome `json:"groups"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Extracted returns the outcomes that produced an extraction.
func (r *Run) Extracted() []Outcome {
	var out []Outcome
	for _, g := range r.Groups {
		if g.Status == StatusExtracted {
			out = append(out, g)
		}
	}
	return out
}

// Pipeline processes PDFs end to end.
type Pipeline struct {
	rt     Runtime
	logger *slog.Logger
}

// New creates a Pipeline. rt.Examples may be nil, in which case extraction
// runs zero-shot.
func New(rt Runtime) *Pipeline {
	return &Pipeline{
		rt:     rt,
		logger: rt.Logger.With("system", "pipeline"),
	}
}

// Process extracts text from pdf and processes every page group. Text
// extraction failures and cancellation abort the run.
func (p *Pipeline) Process(ctx context.Context, pdf []byte) (*Run, error) {
	started := time.Now().UTC()

	text, err := p.rt.PDF.Extract(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	run, err := p.ProcessPages(ctx, text.Pages)
	if err != nil {
		return nil, err
	}
	run.StartedAt = started
	return run, nil
}

// ProcessPages groups already extracted pages and processes each group.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []pdftext.Page) (*Run, error) {
	run := &Run{
		PageCount: len(pages),
		Groups:    []Outcome{},
		StartedAt: time.Now().UTC(),
	}

	groups := grouper.GroupPages(pages)
	p.logger.Info("document grouped", "pages", len(pages), "groups", len(groups))

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := p.processGroup(ctx, i+1, g)
		if err != nil {
			return nil, err
		}
		run.Groups = append(run.Groups, outcome)
	}

	run.CompletedAt = time.Now().UTC()
	return run, nil
}

func (p *Pipeline) processGroup(ctx context.Context, index int, g grouper.Group) (Outcome, error) {
	class := classifier.Classify(g.CombinedText)

	outcome := Outcome{
		Index:          index,
		StartPage:      g.StartPage,
		EndPage:        g.EndPage,
		Header:         g.Header,
		Text:           g.CombinedText,
		Classification: class,
		LowConfidence:  class.LowConfidence(),
	}

	logger := p.logger.With(
		"group", index,
		"document_type", class.DocumentType,
		"carrier", class.Carrier,
	)

	if class.DocumentType == dcsa.TypeUnknown {
		outcome.Status = StatusSkipped
		logger.Info("group not classified, skipping extraction", "confidence", class.Confidence)
		return outcome, nil
	}

	if outcome.LowConfidence {
		logger.Warn("low classification confidence", "confidence", class.Confidence)
	}

	var examples []knowledge.Example
	if p.rt.Examples != nil {
		examples = p.rt.Examples.FewShotExamples(ctx, class.DocumentType, class.Carrier, p.rt.FewShotLimit)
	}

	start := time.Now()
	result, err := p.rt.Extraction.ExtractWithRetry(ctx, extraction.Request{
		Text:         g.CombinedText,
		DocumentType: class.DocumentType,
		Carrier:      class.Carrier,
		Examples:     examples,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, ctxErr
		}
		outcome.Status = StatusFailed
		outcome.Error = err.Error()
		logger.Error("group extraction failed", "error", err)
		return outcome, nil
	}

	outcome.Status = StatusExtracted
	outcome.Extraction = result
	p.recordUsage(ctx, result.Metadata.ExampleIDs)

	logger.Info(
		"group extracted",
		"confidence", result.ConfidenceScore,
		"valid", result.Validation.Valid,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return outcome, nil
}

func (p *Pipeline) recordUsage(ctx context.Context, ids []uuid.UUID) {
	if p.rt.Examples == nil {
		return
	}
	for _, id := range ids {
		if err := p.rt.Examples.IncrementUsage(ctx, id); err != nil {
			p.logger.Warn("increment example usage failed", "id", id, "error", err)
		}
	}
}
