// Package llm provides a provider-agnostic model client. Callers send a system
// prompt and user input and get text back; vendor request and response shapes
// stay inside this package.
package llm

import (
	"maps"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short answers
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for research and multi-dimension analysis
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderOpenAI is any OpenAI-compatible chat completions endpoint (Perplexity by default)
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultOpenAIBaseURL is the chat completions base URL used when none is configured.
const DefaultOpenAIBaseURL = "https://api.perplexity.ai"

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 30 * time.Second

// Config holds the provider, credentials and model selection for a client.
// It is built once at startup and never mutated.
type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (Perplexity via the OpenAI-compatible API)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI-compatible configuration.
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		BaseURL:  DefaultOpenAIBaseURL,
		Timeout:  DefaultTimeout,
		Models: map[ModelTier]string{
			TierLite:     "sonar",
			TierStandard: "sonar",
			TierAdvanced: "sonar-pro",
		},
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Timeout:  DefaultTimeout,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Tiers lists every model tier from cheapest to most capable.
var Tiers = []ModelTier{TierLite, TierStandard, TierAdvanced}

// GetModel returns the model configured for tier. An unset tier falls back
// to the standard model and then the lite model; "" means nothing is set.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := c.clone()
	out.Models[tier] = model
	return out
}

// WithAllModels returns a copy of c that uses model for every tier.
func (c *Config) WithAllModels(model string) *Config {
	out := c.clone()
	for _, tier := range Tiers {
		out.Models[tier] = model
	}
	return out
}

func (c *Config) clone() *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = make(map[ModelTier]string, len(Tiers))
	}
	return &out
}
