package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
)

type geminiProvider struct {
	client gollem.LLMClient
	model  string
}

// NewGemini wraps a gollem client. Each call opens a fresh JSON-mode session
// so no history leaks between documents. model is reported on responses and
// must match the model the client was built for.
func NewGemini(client gollem.LLMClient, model string) Provider {
	return &geminiProvider{client: client, model: model}
}

// NewGeminiFromConfig creates a Vertex AI Gemini client for cfg.Gemini.
func NewGeminiFromConfig(ctx context.Context, cfg *Config) (Provider, error) {
	client, err := gemini.New(ctx, cfg.Gemini.Project, cfg.Gemini.Location, gemini.WithModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewGemini(client, cfg.Model), nil
}

func (g *geminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	opts := []gollem.SessionOption{
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	}
	if req.System != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(req.System))
	}

	session, err := g.client.NewSession(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	inputs := make([]gollem.Input, 0, len(req.Messages))
	for _, m := range req.Messages {
		inputs = append(inputs, gollem.Text(m.Content))
	}

	gen := []gollem.GenerateOption{gollem.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		gen = append(gen, gollem.WithMaxTokens(req.MaxTokens))
	}

	out, err := session.Generate(ctx, inputs, gen...)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Model: g.model,
		Usage: Usage{InputTokens: out.InputToken, OutputTokens: out.OutputToken},
	}
	text := strings.Join(out.Texts, "")
	if text == "" {
		return resp, ErrEmptyResponse
	}
	resp.Content = []Block{{Type: BlockText, Text: text}}
	return resp, nil
}
