package llm

import (
	"context"
	"fmt"
)

// Client sends one prompt to a model provider and returns its text reply.
// Implementations are safe for concurrent use.
type Client interface {
	// Complete sends the prompt and returns the model's text reply.
	Complete(ctx context.Context, req PromptRequest) (*ModelReply, error)
	Close() error
}

// NewClient builds the client for config.Provider; a nil config selects the
// OpenAI-compatible default. Credentials are not checked here.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", config.Provider)
	}
}
