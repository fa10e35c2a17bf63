package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/prompts"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/llm/llmtest"
)

const documentText = `MAERSK LINE
BOOKING CONFIRMATION
Booking Number: 883301
Booking Date: 2024-10-21
Container MAEU1234565 40HC`

// Fenced, self-reporting the wrong type, fully populated.
const completeReply = "Here is the extraction:\n```json\n" + `{
  "documentType": "bill_of_lading",
  "bookingReference": "883301",
  "bookingDate": "2024-10-21",
  "carrier": {"name": "Maersk", "scac": "MAEU"},
  "containers": [{"containerNumber": "MAEU1234565", "containerType": "40HC"}]
}` + "\n```"

// Valid with six uncertain fields: 1 - 6 x 0.03.
const sparseReply = `{
  "bookingReference": "883301",
  "bookingDate": "2024-10-21",
  "carrier": {"name": "Maersk"},
  "vessel": null,
  "shipper": null,
  "consignee": null,
  "placeOfReceipt": null,
  "estimatedDepartureDate": "",
  "cargo": []
}`

// Missing the primary number.
const invalidReply = `{"bookingDate": "2024-10-21", "carrier": {"name": "Maersk"}}`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func config(t *testing.T, mutate ...func(*extraction.Config)) extraction.Config {
	t.Helper()
	cfg := extraction.Config{RetryDelay: "0s"}
	for _, m := range mutate {
		m(&cfg)
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize error = %v", err)
	}
	return cfg
}

func newService(t *testing.T, provider llm.Provider, examples extraction.ExampleSource, mutate ...func(*extraction.Config)) *extraction.Service {
	t.Helper()
	return extraction.New(extraction.Runtime{
		Provider:  provider,
		Prompts:   prompts.Defaults(),
		Examples:  examples,
		Model:     "test-model",
		MaxTokens: 2048,
		Logger:    discard(),
	}, config(t, mutate...))
}

func bookingRequest() extraction.Request {
	return extraction.Request{
		Text:         documentText,
		DocumentType: dcsa.TypeBookingConfirmation,
		Carrier:      "maersk",
	}
}

func example(snippet string) knowledge.Example {
	return knowledge.Example{
		ID:              uuid.New(),
		DocumentType:    dcsa.TypeBookingConfirmation,
		Carrier:         "maersk",
		DocumentSnippet: snippet,
		ExtractedData:   json.RawMessage(`{ "bookingReference": "` + snippet + `" }`),
		Validated:       true,
		ConfidenceScore: 0.95,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore(t *testing.T) {
	valid := dcsa.ValidationResult{Valid: true}

	tests := []struct {
		name      string
		v         dcsa.ValidationResult
		uncertain int
		want      float64
	}{
		{"invalid is flat", dcsa.ValidationResult{Valid: false, Errors: []string{"a", "b", "c"}}, 9, 0.5},
		{"clean", valid, 0, 1},
		{"warnings and uncertain", dcsa.ValidationResult{Valid: true, Warnings: []string{"w"}}, 2, 0.89},
		{"error deducts 0.2", dcsa.ValidationResult{Valid: true, Errors: []string{"e"}}, 0, 0.8},
		{"clamped at zero", valid, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extraction.Score(tt.v, tt.uncertain); !approx(got, tt.want) {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	v := dcsa.ValidationResult{Valid: true, Warnings: []string{"w"}}
	prev := extraction.Score(v, 0)
	for n := 1; n <= 40; n++ {
		got := extraction.Score(v, n)
		if got > prev || (got == prev && got != 0) {
			t.Fatalf("Score(%d) = %v, not below Score(%d) = %v", n, got, n-1, prev)
		}
		prev = got
	}
}

func TestUncertainFields(t *testing.T) {
	obj := map[string]any{
		"a": nil,
		"b": "",
		"c": []any{},
		"d": []any{nil, ""},
		"e": map[string]any{
			"f": nil,
			"g": "x",
			"h": map[string]any{"i": ""},
		},
		"j": 0.0,
		"k": false,
	}

	want := []string{"a", "b", "c", "e.f", "e.h.i"}
	if got := extraction.UncertainFields(obj); !slices.Equal(got, want) {
		t.Errorf("UncertainFields = %v, want %v", got, want)
	}

	if got := extraction.UncertainFields(map[string]any{}); got == nil || len(got) != 0 {
		t.Errorf("UncertainFields(empty) = %#v, want empty slice", got)
	}
}

func TestExtract(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{
		Text:  completeReply,
		Usage: llm.Usage{InputTokens: 900, OutputTokens: 120},
	})
	svc := newService(t, provider, nil)

	req := bookingRequest()
	req.Examples = []knowledge.Example{example("BK-1"), example("BK-2")}

	result, err := svc.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}

	t.Run("forces requested type", func(t *testing.T) {
		if result.Data["documentType"] != "booking_confirmation" {
			t.Errorf("documentType = %v, want booking_confirmation", result.Data["documentType"])
		}
		if result.Document.Type() != dcsa.TypeBookingConfirmation {
			t.Errorf("Document.Type() = %q", result.Document.Type())
		}
		bc, ok := result.Document.(*dcsa.BookingConfirmation)
		if !ok || bc.BookingReference != "883301" {
			t.Errorf("Document = %#v", result.Document)
		}
	})

	t.Run("validates and scores", func(t *testing.T) {
		if !result.Validation.Valid {
			t.Errorf("Validation = %+v, want valid", result.Validation)
		}
		if result.ConfidenceScore != 1 {
			t.Errorf("ConfidenceScore = %v, want 1", result.ConfidenceScore)
		}
	})

	t.Run("records metadata", func(t *testing.T) {
		md := result.Metadata
		if md.Model != "scripted" {
			t.Errorf("Model = %q, want scripted", md.Model)
		}
		if md.InputTokens != 900 || md.OutputTokens != 120 || md.TotalTokens != 1020 {
			t.Errorf("tokens = %d/%d/%d, want 900/120/1020", md.InputTokens, md.OutputTokens, md.TotalTokens)
		}
		if md.ExampleCount != 2 || len(md.ExampleIDs) != 2 || md.ExampleIDs[0] != req.Examples[0].ID {
			t.Errorf("examples = %d %v", md.ExampleCount, md.ExampleIDs)
		}
		if md.Timestamp.IsZero() {
			t.Error("Timestamp is zero")
		}
	})

	t.Run("sends deterministic request", func(t *testing.T) {
		reqs := provider.Requests()
		if len(reqs) != 1 {
			t.Fatalf("requests = %d, want 1", len(reqs))
		}
		got := reqs[0]

		if got.Temperature != 0 || got.MaxTokens != 2048 || got.Model != "test-model" {
			t.Errorf("request = %+v", got)
		}

		instructions, _ := prompts.Instructions(dcsa.TypeBookingConfirmation)
		if got.System != instructions {
			t.Error("system prompt is not the booking confirmation instructions")
		}

		if len(got.Messages) != 1 || got.Messages[0].Role != llm.RoleUser {
			t.Fatalf("messages = %+v", got.Messages)
		}
		prompt := got.Messages[0].Content
		for _, want := range []string{
			`"bookingReference": "string (required)"`,
			"Example 1",
			"Example 2",
			`{"bookingReference":"BK-2"}`,
			documentText,
			"ISO-8601",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})
}

func TestExtractCapsExamples(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Text: completeReply})
	svc := newService(t, provider, nil, func(c *extraction.Config) { c.MaxExamples = 1 })

	req := bookingRequest()
	req.Examples = []knowledge.Example{example("BK-1"), example("BK-2")}

	result, err := svc.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}
	if result.Metadata.ExampleCount != 1 {
		t.Errorf("ExampleCount = %d, want 1", result.Metadata.ExampleCount)
	}
	if strings.Contains(provider.Requests()[0].Messages[0].Content, "Example 2") {
		t.Error("prompt includes more examples than allowed")
	}
}

func TestExtractValidationIsData(t *testing.T) {
	svc := newService(t, llmtest.New(llmtest.Reply{Text: invalidReply}), nil)

	result, err := svc.Extract(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}
	if result.Validation.Valid {
		t.Error("Validation.Valid = true, want false")
	}
	if !slices.Contains(result.Validation.Errors, "bookingReference is required") {
		t.Errorf("Errors = %v", result.Validation.Errors)
	}
	if result.ConfidenceScore != 0.5 {
		t.Errorf("ConfidenceScore = %v, want 0.5", result.ConfidenceScore)
	}
}

type blockingProvider struct{}

func (blockingProvider) Complete(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type failingSource struct{ prompts.Source }

func (failingSource) Instructions(context.Context, dcsa.DocumentType) (string, error) {
	return "", errors.New("database unavailable")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		req      extraction.Request
		timeout  string
		want     error
	}{
		{
			name:     "unparseable response",
			provider: llmtest.New(llmtest.Reply{Text: "I could not read this document."}),
			req:      bookingRequest(),
			want:     extraction.ErrParse,
		},
		{
			name:     "provider failure",
			provider: llmtest.New(llmtest.Reply{Err: errors.New("503 overloaded")}),
			req:      bookingRequest(),
			want:     extraction.ErrProvider,
		},
		{
			name:     "timeout",
			provider: blockingProvider{},
			req:      bookingRequest(),
			timeout:  "20ms",
			want:     context.DeadlineExceeded,
		},
		{
			name:     "unknown document type",
			provider: llmtest.New(),
			req:      extraction.Request{Text: "x", DocumentType: dcsa.TypeUnknown},
			want:     extraction.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.provider, nil, func(c *extraction.Config) { c.Timeout = tt.timeout })

			_, err := svc.Extract(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractInstructionFallback(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Text: completeReply})
	svc := extraction.New(extraction.Runtime{
		Provider:  provider,
		Prompts:   failingSource{prompts.Defaults()},
		Model:     "test-model",
		MaxTokens: 1024,
		Logger:    discard(),
	}, config(t))

	if _, err := svc.Extract(context.Background(), bookingRequest()); err != nil {
		t.Fatalf("Extract error = %v", err)
	}

	want, _ := prompts.Instructions(dcsa.TypeBookingConfirmation)
	if got := provider.Requests()[0].System; got != want {
		t.Error("system prompt did not fall back to default instructions")
	}
}

type exampleSource struct {
	examples []knowledge.Example
	limits   []int
}

func (s *exampleSource) FewShotExamples(_ context.Context, _ dcsa.DocumentType, _ string, limit int) []knowledge.Example {
	s.limits = append(s.limits, limit)
	return s.examples[:min(limit, len(s.examples))]
}

func TestExtractWithRetry(t *testing.T) {
	providerErr := llmtest.Reply{Err: errors.New("connection reset")}

	tests := []struct {
		name         string
		replies      []llmtest.Reply
		wantErr      bool
		wantCalls    int
		wantScore    float64
		wantAttempts int
	}{
		{
			name:         "early return at high confidence",
			replies:      []llmtest.Reply{{Text: completeReply}, {Text: completeReply}},
			wantCalls:    1,
			wantScore:    1,
			wantAttempts: 1,
		},
		{
			name:         "low then high",
			replies:      []llmtest.Reply{{Text: sparseReply}, {Text: completeReply}},
			wantCalls:    2,
			wantScore:    1,
			wantAttempts: 2,
		},
		{
			name:         "keeps last low confidence result",
			replies:      []llmtest.Reply{{Text: invalidReply}, {Text: sparseReply}},
			wantCalls:    2,
			wantScore:    0.82,
			wantAttempts: 2,
		},
		{
			name:         "error then low confidence",
			replies:      []llmtest.Reply{providerErr, {Text: invalidReply}},
			wantCalls:    2,
			wantScore:    0.5,
			wantAttempts: 2,
		},
		{
			name:         "low confidence then error",
			replies:      []llmtest.Reply{{Text: invalidReply}, providerErr},
			wantCalls:    2,
			wantScore:    0.5,
			wantAttempts: 1,
		},
		{
			name:      "every attempt fails",
			replies:   []llmtest.Reply{providerErr, {Text: "not json"}},
			wantErr:   true,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := llmtest.New(tt.replies...)
			svc := newService(t, provider, nil)

			result, err := svc.ExtractWithRetry(context.Background(), bookingRequest())

			if calls := len(provider.Requests()); calls != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", calls, tt.wantCalls)
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, extraction.ErrParse) {
					t.Errorf("error = %v, want last attempt's ErrParse", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ExtractWithRetry error = %v", err)
			}
			if !approx(result.ConfidenceScore, tt.wantScore) {
				t.Errorf("ConfidenceScore = %v, want %v", result.ConfidenceScore, tt.wantScore)
			}
			if result.Metadata.Attempts != tt.wantAttempts {
				t.Errorf("Attempts = %d, want %d", result.Metadata.Attempts, tt.wantAttempts)
			}
		})
	}
}

func TestExtractWithRetryWidensExamples(t *testing.T) {
	source := &exampleSource{examples: []knowledge.Example{
		example("BK-1"), example("BK-2"), example("BK-3"), example("BK-4"),
	}}
	provider := llmtest.New(llmtest.Reply{Text: sparseReply}, llmtest.Reply{Text: sparseReply})
	svc := newService(t, provider, source)

	req := bookingRequest()
	req.Examples = source.examples[:1]

	result, err := svc.ExtractWithRetry(context.Background(), req)
	if err != nil {
		t.Fatalf("ExtractWithRetry error = %v", err)
	}

	if !slices.Equal(source.limits, []int{3}) {
		t.Errorf("example limits = %v, want [3]", source.limits)
	}
	if result.Metadata.ExampleCount != 3 {
		t.Errorf("ExampleCount = %d, want 3", result.Metadata.ExampleCount)
	}

	reqs := provider.Requests()
	if strings.Contains(reqs[0].Messages[0].Content, "Example 2") {
		t.Error("first attempt already widened")
	}
	if !strings.Contains(reqs[1].Messages[0].Content, "Example 3") {
		t.Error("second attempt was not widened")
	}
}

func TestExtractWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := llmtest.New(llmtest.Reply{Text: completeReply})
	svc := newService(t, provider, nil, func(c *extraction.Config) { c.RetryDelay = "1h" })

	_, err := svc.ExtractWithRetry(ctx, bookingRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBatch(t *testing.T) {
	provider := llmtest.New(
		llmtest.Reply{Text: completeReply},
		llmtest.Reply{Err: errors.New("rate limited")},
		llmtest.Reply{Text: invalidReply},
	)
	svc := newService(t, provider, nil)

	reqs := []extraction.Request{bookingRequest(), bookingRequest(), bookingRequest()}
	results := svc.Batch(context.Background(), reqs)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].ConfidenceScore != 1 || results[1].ConfidenceScore != 0.5 {
		t.Errorf("scores = %v, %v, want 1, 0.5", results[0].ConfidenceScore, results[1].ConfidenceScore)
	}
	if len(provider.Requests()) != 3 {
		t.Errorf("provider calls = %d, want 3", len(provider.Requests()))
	}
}

func TestBatchEmpty(t *testing.T) {
	svc := newService(t, llmtest.New(), nil)
	if got := svc.Batch(context.Background(), nil); got == nil || len(got) != 0 {
		t.Errorf("Batch(nil) = %#v, want empty slice", got)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_EXTRACTION_WORKERS", "3")
	t.Setenv("TEST_EXTRACTION_MAX_EXAMPLES", "8")
	t.Setenv("TEST_EXTRACTION_RETRY_EXAMPLES", "4")

	cfg := extraction.Config{}
	env := &extraction.Env{
		MaxExamples:   "TEST_EXTRACTION_MAX_EXAMPLES",
		RetryExamples: "TEST_EXTRACTION_RETRY_EXAMPLES",
		Workers:       "TEST_EXTRACTION_WORKERS",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize error = %v", err)
	}

	if cfg.MaxRetries != 2 || cfg.RetryDelay != "1s" || cfg.Timeout != "30s" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.MaxExamples != 8 || cfg.RetryExamples != 4 {
		t.Errorf("MaxExamples, RetryExamples = %d, %d, want 8, 4", cfg.MaxExamples, cfg.RetryExamples)
	}

	overlay := extraction.Config{MaxRetries: 4}
	cfg.Merge(&overlay)
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}

	bad := extraction.Config{Timeout: "soon"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize accepted invalid timeout")
	}
}

func TestExtractWithRetryInvalidRequest(t *testing.T) {
	provider := llmtest.New()
	svc := newService(t, provider, nil)

	_, err := svc.ExtractWithRetry(context.Background(), extraction.Request{Text: "x"})
	if !errors.Is(err, extraction.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if len(provider.Requests()) != 0 {
		t.Error("provider called for an invalid request")
	}
}
