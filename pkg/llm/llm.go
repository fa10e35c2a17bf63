// Package llm is a narrow interface over hosted foundation models. Providers
// receive a single-turn request and return text blocks with token usage.
// No retry happens inside a provider call; callers own retry policy.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse indicates the provider returned no text content.
var ErrEmptyResponse = errors.New("provider returned no text")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	BlockText = "text"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call.
type Request struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens"`
	Temperature float64   `json:"temperature"`
}

// Block is one content block of a response. Only text blocks are consumed.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Response is the provider's answer to a Request.
type Response struct {
	Model   string  `json:"model"`
	Content []Block `json:"content"`
	Usage   Usage   `json:"usage"`
}

// Text concatenates the text blocks of the response.
func (r *Response) Text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == BlockText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// Provider completes prompts against a hosted model.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// UserPrompt builds a deterministic single-turn request.
func UserPrompt(model, system, prompt string, maxTokens int) Request {
	return Request{
		Model:     model,
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	}
}

// New returns the Provider selected by cfg.Provider.
func New(ctx context.Context, cfg *Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case ProviderGemini:
		return NewGeminiFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
