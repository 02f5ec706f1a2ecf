package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, DefaultOpenAIBaseURL, config.BaseURL)
	assert.Equal(t, "sonar", config.GetModel(TierLite))
	assert.Equal(t, "sonar", config.GetModel(TierStandard))
	assert.Equal(t, "sonar-pro", config.GetModel(TierAdvanced))
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderOpenAI,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "sonar-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "sonar", newConfig.GetModel(TierStandard))
}

func TestWithAllModels(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithAllModels("sonar-reasoning")

	for _, tier := range Tiers {
		assert.Equal(t, "sonar-reasoning", newConfig.GetModel(tier))
	}
	assert.Equal(t, "sonar-pro", config.GetModel(TierAdvanced))
}

func TestNewClient(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		client, err := NewClient(context.Background(), DefaultOpenAIConfig())
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
	})

	t.Run("nil config uses default", func(t *testing.T) {
		client, err := NewClient(context.Background(), nil)
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
	})

	t.Run("gemini without key", func(t *testing.T) {
		client, err := NewClient(context.Background(), DefaultGeminiConfig())
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), PromptRequest{UserInput: "hi"})
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.NoError(t, client.Close())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient(context.Background(), &Config{Provider: "acme"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported llm provider")
	})
}
