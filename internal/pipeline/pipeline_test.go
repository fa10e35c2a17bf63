package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/pipeline"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/llm/llmtest"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/pdftext"
	"github.com/JaimeStill/lading/pkg/validation"
)

var pages = []pdftext.Page{
	{PageNumber: 1, Text: "MAERSK LINE\nBOOKING CONFIRMATION\nBooking Number: 883301\nBooking Date: 2024-10-21"},
	{PageNumber: 2, Text: "Container MSKU1000090\nContainer MAEU1234565"},
	{PageNumber: 3, Text: "BILL OF LADING\nB/L Number: MAEU240198765\nShipped on Board 2024-04-02\nNotify Party: ACME\nMAERSK MSKU1000090"},
	{PageNumber: 4, Text: "CARGO MANIFEST\nline items follow"},
}

const bookingReply = `{
  "bookingReference": "883301",
  "bookingDate": "2024-10-21",
  "carrier": {"name": "Maersk", "scac": "MAEU"},
  "containers": [{"containerNumber": "MSKU1000090", "containerType": "40HC"}]
}`

type fakePDF struct {
	pages []pdftext.Page
	err   error
}

func (f fakePDF) Extract(ctx context.Context, _ []byte) (*pdftext.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &pdftext.Result{Pages: f.pages, PageCount: len(f.pages)}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newKnowledge(t *testing.T) knowledge.System {
	t.Helper()
	cfg := knowledge.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("knowledge Finalize error = %v", err)
	}
	return knowledge.New(
		knowledge.NewMemoryStore(),
		discard(),
		cfg,
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func newPipeline(t *testing.T, pdf pdftext.Extractor, provider llm.Provider, kb knowledge.System) *pipeline.Pipeline {
	t.Helper()

	cfg := extraction.Config{RetryDelay: "0s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("extraction Finalize error = %v", err)
	}

	svc := extraction.New(extraction.Runtime{
		Provider:  provider,
		Examples:  kb,
		Model:     "test-model",
		MaxTokens: 2048,
		Logger:    discard(),
	}, cfg)

	return pipeline.New(pipeline.Runtime{
		PDF:          pdf,
		Extraction:   svc,
		Examples:     kb,
		FewShotLimit: 3,
		Logger:       discard(),
	})
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	kb := newKnowledge(t)

	seed, err := kb.AddExample(ctx, knowledge.AddCommand{
		DocumentType:    dcsa.TypeBookingConfirmation,
		Carrier:         "maersk",
		DocumentText:    "BOOKING CONFIRMATION\nBooking Number: 100200",
		ExtractedData:   json.RawMessage(`{"bookingReference":"100200","bookingDate":"2024-01-02"}`),
		ConfidenceScore: 0.95,
	})
	if err != nil {
		t.Fatalf("AddExample error = %v", err)
	}

	provider := llmtest.New(
		llmtest.Reply{Text: bookingReply},
		llmtest.Reply{Err: errors.New("overloaded")},
		llmtest.Reply{Err: errors.New("overloaded")},
	)

	p := newPipeline(t, fakePDF{pages: pages}, provider, kb)

	run, err := p.Process(ctx, []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}

	if run.PageCount != 4 {
		t.Errorf("PageCount = %d, want 4", run.PageCount)
	}
	if len(run.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(run.Groups))
	}

	t.Run("booking confirmation extracted", func(t *testing.T) {
		g := run.Groups[0]
		if g.StartPage != 1 || g.EndPage != 2 {
			t.Errorf("pages = %d-%d, want 1-2", g.StartPage, g.EndPage)
		}
		if g.Status != pipeline.StatusExtracted {
			t.Fatalf("Status = %q, error %q", g.Status, g.Error)
		}
		if g.Classification.DocumentType != dcsa.TypeBookingConfirmation || g.Classification.Carrier != "maersk" {
			t.Errorf("Classification = %+v", g.Classification)
		}
		if g.Extraction.ConfidenceScore != 1 {
			t.Errorf("ConfidenceScore = %v, want 1", g.Extraction.ConfidenceScore)
		}
		if g.Extraction.Metadata.ExampleCount != 1 {
			t.Errorf("ExampleCount = %d, want 1", g.Extraction.Metadata.ExampleCount)
		}
		if !strings.Contains(g.Text, "MAEU1234565") {
			t.Error("group text missing continuation page")
		}
	})

	t.Run("bill of lading failure recorded", func(t *testing.T) {
		g := run.Groups[1]
		if g.Status != pipeline.StatusFailed {
			t.Errorf("Status = %q, want failed", g.Status)
		}
		if g.Classification.DocumentType != dcsa.TypeBillOfLading {
			t.Errorf("DocumentType = %q", g.Classification.DocumentType)
		}
		if g.Error == "" || g.Extraction != nil {
			t.Errorf("outcome = %+v", g)
		}
	})

	t.Run("unknown group skipped", func(t *testing.T) {
		g := run.Groups[2]
		if g.Status != pipeline.StatusSkipped {
			t.Errorf("Status = %q, want skipped", g.Status)
		}
		if g.Header != "CARGO MANIFEST" {
			t.Errorf("Header = %q", g.Header)
		}
	})

	t.Run("no llm call for skipped group", func(t *testing.T) {
		if n := len(provider.Requests()); n != 3 {
			t.Errorf("provider calls = %d, want 3", n)
		}
	})

	t.Run("usage recorded for successful extraction", func(t *testing.T) {
		got, err := kb.Find(ctx, seed.ID)
		if err != nil {
			t.Fatalf("Find error = %v", err)
		}
		if got.UsageCount != 1 {
			t.Errorf("UsageCount = %d, want 1", got.UsageCount)
		}
	})

	if extracted := run.Extracted(); len(extracted) != 1 || extracted[0].Index != 1 {
		t.Errorf("Extracted() = %+v", extracted)
	}
}

func TestBookingScenario(t *testing.T) {
	const text = `BOOKING CONFIRMATION
Carrier: Maersk Line
Booking Number: 240198765
Booking Date: 2024-10-21
Estimated Departure: 2024-10-28
VGM Cut-off: 2024-10-25
Cargo Cut-off: 2024-10-26
Container: MAEU1234568 40HC`

	const reply = `{
  "bookingReference": "240198765",
  "bookingDate": "2024-10-21",
  "carrier": {"name": "Maersk", "scac": "MAEU"},
  "containers": [{"containerNumber": "MAEU123456", "containerType": "40HC"}]
}`

	t.Run("container utility flags the checksum", func(t *testing.T) {
		if !validation.ContainerFormat("MAEU1234568") {
			t.Error("MAEU1234568 should be format-valid")
		}
		if validation.ContainerChecksum("MAEU1234568") {
			t.Error("MAEU1234568 should fail checksum")
		}
		if got := validation.ExtractContainerNumbers(text); len(got) != 0 {
			t.Errorf("ExtractContainerNumbers = %v, want none", got)
		}
	})

	provider := llmtest.New(llmtest.Reply{Text: reply})
	p := newPipeline(t, fakePDF{pages: []pdftext.Page{{PageNumber: 1, Text: text}}}, provider, nil)

	run, err := p.Process(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if len(run.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(run.Groups))
	}
	g := run.Groups[0]

	t.Run("classified as maersk booking", func(t *testing.T) {
		c := g.Classification
		if c.DocumentType != dcsa.TypeBookingConfirmation || c.Carrier != "maersk" {
			t.Errorf("Classification = %s/%s", c.DocumentType, c.Carrier)
		}
		if c.Confidence <= 0.5 {
			t.Errorf("Confidence = %v, want > 0.5", c.Confidence)
		}
	})

	t.Run("malformed container only warns", func(t *testing.T) {
		if g.Status != pipeline.StatusExtracted {
			t.Fatalf("Status = %q, error %q", g.Status, g.Error)
		}
		v := g.Extraction.Validation
		if !v.Valid || len(v.Errors) != 0 {
			t.Errorf("Valid = %v, Errors = %v", v.Valid, v.Errors)
		}
		warned := false
		for _, w := range v.Warnings {
			if strings.HasPrefix(w, "containers[0].containerNumber") {
				warned = true
			}
		}
		if !warned {
			t.Errorf("Warnings = %v, want a containers[0].containerNumber entry", v.Warnings)
		}
	})
}

func TestProcessExtractionFailure(t *testing.T) {
	p := newPipeline(t, fakePDF{err: pdftext.ErrExtraction}, llmtest.New(), newKnowledge(t))

	_, err := p.Process(context.Background(), []byte("not a pdf"))
	if !errors.Is(err, pdftext.ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
}

func TestProcessNoPages(t *testing.T) {
	p := newPipeline(t, fakePDF{}, llmtest.New(), newKnowledge(t))

	run, err := p.Process(context.Background(), nil)
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if run.Groups == nil || len(run.Groups) != 0 {
		t.Errorf("Groups = %#v, want empty", run.Groups)
	}
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := llmtest.New(llmtest.Reply{Text: bookingReply})
	p := newPipeline(t, fakePDF{pages: pages}, provider, newKnowledge(t))

	if _, err := p.ProcessPages(ctx, pages); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(provider.Requests()) != 0 {
		t.Error("provider called after cancellation")
	}
}

func TestProcessWithoutKnowledge(t *testing.T) {
	cfg := extraction.Config{RetryDelay: "0s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	provider := llmtest.New(llmtest.Reply{Text: bookingReply})
	svc := extraction.New(extraction.Runtime{
		Provider:  provider,
		Model:     "test-model",
		MaxTokens: 1024,
		Logger:    discard(),
	}, cfg)

	p := pipeline.New(pipeline.Runtime{
		PDF:        fakePDF{},
		Extraction: svc,
		Logger:     discard(),
	})

	run, err := p.ProcessPages(context.Background(), pages[:2])
	if err != nil {
		t.Fatalf("ProcessPages error = %v", err)
	}
	if len(run.Groups) != 1 || run.Groups[0].Status != pipeline.StatusExtracted {
		t.Fatalf("Groups = %+v", run.Groups)
	}
	if run.Groups[0].Extraction.Metadata.ExampleCount != 0 {
		t.Errorf("ExampleCount = %d, want 0", run.Groups[0].Extraction.Metadata.ExampleCount)
	}
}
