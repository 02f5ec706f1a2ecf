package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client // nil when no API key is configured
	config *Config
}

// NewGeminiClient creates a new Gemini client. Without an API key the client is
// still returned and every Complete call fails with ErrMissingCredential.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return &GeminiClient{config: config}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete generates a reply with the system prompt set as the model's system instruction.
func (c *GeminiClient) Complete(ctx context.Context, req PromptRequest) (*ModelReply, error) {
	if c.client == nil {
		return nil, ErrMissingCredential
	}

	modelName := req.Model
	if modelName == "" {
		modelName = c.config.GetModel(TierStandard)
	}
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for provider %s", c.config.Provider)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.config.Timeout))
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserInput))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return &ModelReply{RawText: text, Model: modelName}, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Message
		if body == "" {
			body = apiErr.Body
		}
		return &UpstreamError{StatusCode: apiErr.Code, Body: body}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %v", ErrEmptyReply, blocked)
	}

	return newTransportError("generate content", err)
}

// extractTextFromResponse joins the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyReply
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyReply
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
