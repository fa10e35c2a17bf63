// Package extraction turns classified document text into validated,
// scored DCSA data with an LLM. A single attempt builds a few-shot prompt,
// calls the provider at temperature 0, recovers JSON from the response, and
// validates it; ExtractWithRetry and Batch layer retry and bounded batching
// over that attempt.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/prompts"
	"github.com/JaimeStill/lading/pkg/formatting"
	"github.com/JaimeStill/lading/pkg/llm"
)

// Request is the input to one extraction.
type Request struct {
	Text         string              `json:"text"`
	DocumentType dcsa.DocumentType   `json:"documentType"`
	Carrier      string              `json:"carrier"`
	Examples     []knowledge.Example `json:"examples,omitempty"`
}

// Metadata describes how a Result was produced.
type Metadata struct {
	Model           string      `json:"model"`
	InputTokens     int         `json:"inputTokens"`
	OutputTokens    int         `json:"outputTokens"`
	TotalTokens     int         `json:"totalTokens"`
	ProcessingMS    int64       `json:"processingMs"`
	ExampleCount    int         `json:"exampleCount"`
	ExampleIDs      []uuid.UUID `json:"exampleIds"`
	UncertainFields []string    `json:"uncertainFields"`
	Attempts        int         `json:"attempts"`
	Timestamp       time.Time   `json:"timestamp"`
}

// Result is a validated, scored extraction. Data is the parsed object with
// documentType forced to the requested type; Document is its typed form.
type Result struct {
	DocumentType    dcsa.DocumentType     `json:"documentType"`
	Data            map[string]any        `json:"data"`
	Document        dcsa.DocumentData     `json:"-"`
	Validation      dcsa.ValidationResult `json:"validation"`
	ConfidenceScore float64               `json:"confidenceScore"`
	Metadata        Metadata              `json:"metadata"`
}

// ExampleSource supplies additional few-shot examples when a retry widens
// the prompt. knowledge.System satisfies it.
type ExampleSource interface {
	FewShotExamples(ctx context.Context, docType dcsa.DocumentType, carrier string, limit int) []knowledge.Example
}

// Runtime bundles the dependencies an extraction Service requires.
type Runtime struct {
	Provider  llm.Provider
	Prompts   prompts.Source
	Examples  ExampleSource
	Model     string
	MaxTokens int
	Logger    *slog.Logger
}

// Service runs extractions against an LLM provider.
type Service struct {
	rt     Runtime
	cfg    Config
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

// New creates a Service. rt.Examples may be nil, in which case retries reuse
// the original examples.
func New(rt Runtime, cfg Config) *Service {
	if rt.Prompts == nil {
		rt.Prompts = prompts.Defaults()
	}
	return &Service{
		rt:     rt,
		cfg:    cfg,
		logger: rt.Logger.With("system", "extraction"),
		sleep:  sleep,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Extract performs a single extraction attempt. Provider failures wrap
// ErrProvider and unrecoverable responses wrap ErrParse. Validation
// findings are reported on the Result, never as errors.
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	if !req.DocumentType.Valid() {
		return nil, fmt.Errorf("%w: document type %q", ErrInvalidRequest, req.DocumentType)
	}

	examples := req.Examples
	if len(examples) > s.cfg.MaxExamples {
		examples = examples[:s.cfg.MaxExamples]
	}

	system, prompt, err := s.buildPrompt(ctx, req.DocumentType, req.Text, examples)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.TimeoutDuration())
	defer cancel()

	llmReq := llm.UserPrompt(s.rt.Model, system, prompt, s.rt.MaxTokens)
	llmReq.Temperature = 0

	start := time.Now()
	resp, err := s.rt.Provider.Complete(callCtx, llmReq)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	raw, err := formatting.ParseObject(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	raw["documentType"] = string(req.DocumentType)

	doc, validation := dcsa.ValidateRaw(req.DocumentType, raw)
	uncertain := UncertainFields(raw)
	score := Score(validation, len(uncertain))

	model := resp.Model
	if model == "" {
		model = s.rt.Model
	}

	ids := make([]uuid.UUID, len(examples))
	for i, e := range examples {
		ids[i] = e.ID
	}

	result := &Result{
		DocumentType:    req.DocumentType,
		Data:            raw,
		Document:        doc,
		Validation:      validation,
		ConfidenceScore: score,
		Metadata: Metadata{
			Model:           model,
			InputTokens:     resp.Usage.InputTokens,
			OutputTokens:    resp.Usage.OutputTokens,
			TotalTokens:     resp.Usage.Total(),
			ProcessingMS:    elapsed.Milliseconds(),
			ExampleCount:    len(examples),
			ExampleIDs:      ids,
			UncertainFields: uncertain,
			Attempts:        1,
			Timestamp:       s.now(),
		},
	}

	s.logger.Info(
		"extraction complete",
		"document_type", req.DocumentType,
		"carrier", req.Carrier,
		"confidence", score,
		"valid", validation.Valid,
		"errors", len(validation.Errors),
		"warnings", len(validation.Warnings),
		"uncertain", len(uncertain),
		"examples", len(examples),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return result, nil
}
