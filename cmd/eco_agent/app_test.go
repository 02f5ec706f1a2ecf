package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sustainability-evaluator/internal/config"
	"github.com/jonathan/sustainability-evaluator/internal/llm"
)

func TestLLMConfig(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*config.Config)
		wantProvider llm.Provider
		wantBaseURL  string
		wantModel    string
	}{
		{
			name:         "openai defaults",
			mutate:       func(*config.Config) {},
			wantProvider: llm.ProviderOpenAI,
			wantBaseURL:  config.DefaultBaseURL,
			wantModel:    "sonar-pro",
		},
		{
			name:         "model override applies to every tier",
			mutate:       func(c *config.Config) { c.Model = "custom-model" },
			wantProvider: llm.ProviderOpenAI,
			wantBaseURL:  config.DefaultBaseURL,
			wantModel:    "custom-model",
		},
		{
			name:         "gemini",
			mutate:       func(c *config.Config) { c.Provider = config.ProviderGemini; c.Model = "gemini-2.5-pro" },
			wantProvider: llm.ProviderGemini,
			wantModel:    "gemini-2.5-pro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.APIKey = "key"
			tt.mutate(&cfg)

			c := llmConfig(&cfg)
			assert.Equal(t, tt.wantProvider, c.Provider)
			assert.Equal(t, "key", c.APIKey)
			assert.Equal(t, config.DefaultRequestTimeout, c.Timeout)
			assert.Equal(t, tt.wantModel, c.GetModel(llm.TierAdvanced))
			if tt.wantBaseURL != "" {
				assert.Equal(t, tt.wantBaseURL, c.BaseURL)
			}
		})
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("MODEL_NAME", "env-model")
	t.Setenv("RETRY_ATTEMPTS", "2")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("FETCH_STRATEGY", "")

	flagModel, flagRetries, flagTimeout = "flag-model", 0, 5*time.Second
	t.Cleanup(func() { flagModel, flagRetries, flagTimeout = "", 0, 0 })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag-model", cfg.Model)
	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, config.StrategyDirect, cfg.FetchStrategy)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	flagStrategy = "teleport"
	t.Cleanup(func() { flagStrategy = "" })

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FetchStrategy")
}

func TestRecommendCommand_RequiresAllFields(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"recommend", "--product", "kettle"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		recommendProduct = ""
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "are required")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"text": "Good"}))
	assert.Equal(t, "{\n  \"text\": \"Good\"\n}\n", buf.String())
}
