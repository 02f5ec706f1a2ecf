package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jonathan/sustainability-evaluator/internal/config"
	"github.com/jonathan/sustainability-evaluator/internal/fetch"
	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/logger"
	"github.com/jonathan/sustainability-evaluator/internal/pipeline"
	"github.com/jonathan/sustainability-evaluator/internal/telemetry"
)

// Global flags shared by every command. Non-empty values override the
// environment and config file.
var (
	configPath   string
	flagProvider string
	flagModel    string
	flagAPIKey   string
	flagStrategy string
	flagLogLevel string
	flagRetries  int
	flagTimeout  time.Duration
	verbose      bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to JSON or YAML config file")
	pf.StringVar(&flagProvider, "provider", "", "LLM provider (openai, gemini)")
	pf.StringVar(&flagModel, "model", "", "Model used for every stage")
	pf.StringVar(&flagAPIKey, "api-key", "", "LLM API key (overrides API_KEY env var)")
	pf.StringVar(&flagStrategy, "fetch-strategy", "", "Page retrieval strategy (direct, browser, provider)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&flagRetries, "retry-attempts", 0, "Attempts per stage for transient model failures")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Timeout for each external call")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Print stage progress and summaries to stderr")
}

// app holds the components built from the process configuration.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	client    llm.Client
	metrics   *telemetry.Metrics
	evaluator *pipeline.Evaluator
	analyzer  *pipeline.Analyzer
	advisor   *pipeline.Advisor
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	overrides := config.Config{
		Provider:       flagProvider,
		Model:          flagModel,
		APIKey:         flagAPIKey,
		FetchStrategy:  flagStrategy,
		LogLevel:       flagLogLevel,
		RetryAttempts:  flagRetries,
		RequestTimeout: config.Duration(flagTimeout),
	}
	merged := overrides.MergeWithDefaults(*cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// llmConfig maps the process configuration onto the model client configuration.
func llmConfig(cfg *config.Config) *llm.Config {
	var c *llm.Config
	switch cfg.Provider {
	case config.ProviderGemini:
		c = llm.DefaultGeminiConfig()
	default:
		c = llm.DefaultOpenAIConfig()
		if cfg.BaseURL != "" {
			c.BaseURL = cfg.BaseURL
		}
	}
	c.APIKey = cfg.APIKey
	c.Timeout = cfg.Timeout()
	if cfg.Model != "" {
		c = c.WithAllModels(cfg.Model)
	}
	return c
}

// readerOptions maps the process configuration onto the page reader options.
func readerOptions(cfg *config.Config, log logger.Logger) fetch.ReaderOptions {
	extract := fetch.DefaultExtractOptions()
	extract.MaxChars = cfg.MaxChars

	return fetch.ReaderOptions{
		Strategy: cfg.FetchStrategy,
		HTTP: &fetch.Options{
			Timeout:   cfg.Timeout(),
			UserAgent: cfg.UserAgent,
		},
		Extract: extract,
		Browser: fetch.NewBrowserFetcher(time.Duration(cfg.BrowserTimeout)),
		Log:     log,
	}
}

// newApp builds the logger, model client, page reader and pipelines.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	models := llmConfig(cfg)
	client, err := llm.NewClient(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	reader, err := fetch.NewReader(readerOptions(cfg, log))
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	metrics := telemetry.NewMetrics()
	opts := pipeline.Options{
		Models: models,
		Retry: pipeline.RetryPolicy{
			Attempts: cfg.RetryAttempts,
			Backoff:  time.Duration(cfg.RetryBackoff),
		},
		Log:     log,
		Metrics: metrics,
	}

	return &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		metrics:   metrics,
		evaluator: pipeline.NewEvaluator(client, opts),
		analyzer:  pipeline.NewAnalyzer(client, reader, opts),
		advisor:   pipeline.NewAdvisor(client, opts),
	}, nil
}

func (a *app) Close() {
	_ = a.client.Close()
	_ = a.log.Sync()
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
