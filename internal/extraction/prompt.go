package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/prompts"
)

// buildPrompt returns the system instructions and the user prompt for one
// attempt. An instruction lookup failure falls back to the built-in default.
func (s *Service) buildPrompt(
	ctx context.Context,
	t dcsa.DocumentType,
	text string,
	examples []knowledge.Example,
) (string, string, error) {
	instructions, err := s.rt.Prompts.Instructions(ctx, t)
	if err != nil {
		s.logger.Warn("instruction lookup failed, using default", "document_type", t, "error", err)
		if instructions, err = prompts.Instructions(t); err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	spec, err := s.rt.Prompts.Spec(ctx, t)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var b strings.Builder
	b.WriteString(spec)

	if len(examples) > 0 {
		b.WriteString("\n\nExamples of correct extractions from similar documents:")
		for i, e := range examples {
			fmt.Fprintf(&b, "\n\nExample %d\nDocument:\n\"\"\"\n%s\n\"\"\"\nExtraction:\n%s",
				i+1, e.DocumentSnippet, compactJSON(e.ExtractedData))
		}
	}

	fmt.Fprintf(&b, "\n\nDocument to extract:\n\"\"\"\n%s\n\"\"\"\n\nRespond with the JSON object only.", text)

	return instructions, b.String(), nil
}

func compactJSON(raw json.RawMessage) string {
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return string(raw)
	}
	return out.String()
}
