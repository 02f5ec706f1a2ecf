package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// OpenAIClient implements Client using an OpenAI-compatible chat completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	config  *Config
	http    *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations,omitempty"`
}

// NewOpenAIClient creates a client. A missing API key is reported on the first
// Complete call rather than here, so servers can start without credentials.
func NewOpenAIClient(config *Config) *OpenAIClient {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	// Timeouts are applied per call through the request context.
	return &OpenAIClient{
		apiKey:  strings.TrimSpace(config.APIKey),
		baseURL: baseURL,
		config:  config,
		http:    &http.Client{},
	}
}

// Complete sends a system+user chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req PromptRequest) (*ModelReply, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	model := req.Model
	if model == "" {
		model = c.config.GetModel(TierStandard)
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider %s", c.config.Provider)
	}

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserInput},
		},
		Temperature: 0.1, // Low temperature for consistent output
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.config.Timeout))
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, newTransportError("chat completion", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if isTimeout(err) {
			return nil, newTransportError("read chat completion", err)
		}
		return nil, fmt.Errorf("%w: undecodable response: %v", ErrEmptyReply, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyReply
	}

	replyModel := out.Model
	if replyModel == "" {
		replyModel = model
	}
	return &ModelReply{
		RawText:   out.Choices[0].Message.Content,
		Model:     replyModel,
		Citations: out.Citations,
	}, nil
}

// Close releases idle connections.
func (c *OpenAIClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
