// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/JaimeStill/lading/pkg/llm"
)

// ErrExhausted is returned once every scripted reply has been consumed.
var ErrExhausted = errors.New("llmtest: no scripted replies left")

// Reply is one scripted provider outcome.
type Reply struct {
	Text  string
	Usage llm.Usage
	Err   error
}

// Provider replays Replies in order and records every request.
type Provider struct {
	Model string

	mu       sync.Mutex
	replies  []Reply
	requests []llm.Request
}

// New returns a Provider that answers with replies in order.
func New(replies ...Reply) *Provider {
	return &Provider{Model: "scripted", replies: replies}
}

// Complete returns the next scripted reply.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if len(p.replies) == 0 {
		return nil, ErrExhausted
	}

	r := p.replies[0]
	p.replies = p.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}

	return &llm.Response{
		Model:   p.Model,
		Content: []llm.Block{{Type: llm.BlockText, Text: r.Text}},
		Usage:   r.Usage,
	}, nil
}

// Requests returns a copy of the requests received so far.
func (p *Provider) Requests() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Request(nil), p.requests...)
}
