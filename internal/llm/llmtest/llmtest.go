// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
)

// Response is one scripted reply: either Text or Err.
type Response struct {
	Text string
	Err  error
}

// ScriptedClient returns its responses in order and records every request.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []Response
	requests  []llm.PromptRequest
}

// NewScriptedClient creates a client that replies with responses in order.
func NewScriptedClient(responses ...Response) *ScriptedClient {
	return &ScriptedClient{responses: responses}
}

// Texts is shorthand for a client that replies with plain texts.
func Texts(texts ...string) *ScriptedClient {
	responses := make([]Response, len(texts))
	for i, text := range texts {
		responses[i] = Response{Text: text}
	}
	return NewScriptedClient(responses...)
}

// Complete returns the next scripted response. An empty Text with no Err
// behaves like a provider returning no content.
func (c *ScriptedClient) Complete(ctx context.Context, req llm.PromptRequest) (*llm.ModelReply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, &llm.TransportError{Op: "scripted", Cause: err}
	}

	idx := len(c.requests) - 1
	if idx >= len(c.responses) {
		return nil, fmt.Errorf("llmtest: unexpected call %d", idx+1)
	}

	r := c.responses[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Text == "" {
		return nil, llm.ErrEmptyReply
	}
	return &llm.ModelReply{RawText: r.Text, Model: req.Model}, nil
}

// Close is a no-op.
func (c *ScriptedClient) Close() error { return nil }

// Calls returns how many times Complete was called.
func (c *ScriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Requests returns a copy of the recorded requests.
func (c *ScriptedClient) Requests() []llm.PromptRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.PromptRequest(nil), c.requests...)
}

var _ llm.Client = (*ScriptedClient)(nil)
