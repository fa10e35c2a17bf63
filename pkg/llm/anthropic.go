package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type claude struct {
	client anthropic.Client
}

// NewAnthropic returns a Provider for the Anthropic Messages API.
// SDK retries are disabled.
func NewAnthropic(cfg *Config) Provider {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.Anthropic.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.Anthropic.APIKey))
	}
	if cfg.Anthropic.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	return &claude{client: anthropic.NewClient(opts...)}
}

func (c *claude) Complete(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages:    make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Model: string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		resp.Content = append(resp.Content, Block{Type: block.Type, Text: block.Text})
	}

	if resp.Text() == "" {
		return resp, ErrEmptyResponse
	}
	return resp, nil
}
