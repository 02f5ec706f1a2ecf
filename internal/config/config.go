// Package config provides configuration loading and validation for the evaluator.
// A Config is built once at process start and passed by value into the components
// that need it; nothing reads the environment after startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Fetch strategies.
const (
	StrategyDirect   = "direct"
	StrategyBrowser  = "browser"
	StrategyProvider = "provider"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Defaults.
const (
	DefaultProvider       = ProviderOpenAI
	DefaultBaseURL        = "https://api.perplexity.ai"
	DefaultPort           = 3000
	DefaultRequestTimeout = 30 * time.Second
	DefaultBrowserTimeout = 30 * time.Second
	DefaultMaxChars       = 8000
	DefaultRetryAttempts  = 1
	DefaultRetryBackoff   = 500 * time.Millisecond
	DefaultLogLevel       = "info"
	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 5
	DefaultUserAgent      = "Mozilla/5.0 (compatible; EcoAgent/1.0)"
)

// Timeout bounds for external calls.
const (
	MinRequestTimeout = time.Second
	MaxRequestTimeout = 120 * time.Second
)

// Duration is a time.Duration that reads "30s" style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// UnmarshalYAML accepts either a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" || value.Tag == "!!float" {
		var secs float64
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds every process-wide setting. All fields are optional in the
// config file and environment; missing values fall back to defaults.
type Config struct {
	// Model provider
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"oneof=openai gemini"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"` // Overrides every model tier when set

	// HTTP server
	Port int `json:"port,omitempty" yaml:"port,omitempty" validate:"min=1,max=65535"`

	// Content fetching
	FetchStrategy  string   `json:"fetch_strategy,omitempty" yaml:"fetch_strategy,omitempty" validate:"oneof=direct browser provider"`
	UserAgent      string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	RequestTimeout Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	BrowserTimeout Duration `json:"browser_timeout,omitempty" yaml:"browser_timeout,omitempty"`
	MaxChars       int      `json:"max_chars,omitempty" yaml:"max_chars,omitempty" validate:"min=1"`

	// Orchestrator retry policy; 1 attempt means no retry
	RetryAttempts int      `json:"retry_attempts,omitempty" yaml:"retry_attempts,omitempty" validate:"min=1,max=5"`
	RetryBackoff  Duration `json:"retry_backoff,omitempty" yaml:"retry_backoff,omitempty"`

	// Ambient
	LogLevel         string  `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"oneof=debug info warn error"`
	DisableRateLimit bool    `json:"disable_rate_limit,omitempty" yaml:"disable_rate_limit,omitempty"`
	RateLimitRPS     float64 `json:"rate_limit_rps,omitempty" yaml:"rate_limit_rps,omitempty" validate:"gt=0"`
	RateLimitBurst   int     `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty" validate:"min=1"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:       DefaultProvider,
		BaseURL:        DefaultBaseURL,
		Port:           DefaultPort,
		FetchStrategy:  StrategyDirect,
		UserAgent:      DefaultUserAgent,
		RequestTimeout: Duration(DefaultRequestTimeout),
		BrowserTimeout: Duration(DefaultBrowserTimeout),
		MaxChars:       DefaultMaxChars,
		RetryAttempts:  DefaultRetryAttempts,
		RetryBackoff:   Duration(DefaultRetryBackoff),
		LogLevel:       DefaultLogLevel,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
	}
}

// Load builds the process configuration: environment values win over the
// optional JSON file at path, which wins over defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := FromEnv(os.Getenv)
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*file)
	}
	cfg = cfg.MergeWithDefaults(Default())
	if cfg.APIKey == "" {
		cfg.APIKey = providerKey(cfg.Provider, os.Getenv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables via getenv.
// Unset or unparsable variables leave the field at its zero value.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Provider:      strings.ToLower(strings.TrimSpace(getenv("LLM_PROVIDER"))),
		APIKey:        strings.TrimSpace(getenv("API_KEY")),
		BaseURL:       strings.TrimSpace(getenv("BASE_URL")),
		Model:         strings.TrimSpace(getenv("MODEL_NAME")),
		FetchStrategy: strings.ToLower(strings.TrimSpace(getenv("FETCH_STRATEGY"))),
		UserAgent:     getenv("USER_AGENT"),
		LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL"))),
	}

	cfg.Port = envInt(getenv, "PORT")
	cfg.MaxChars = envInt(getenv, "EXTRACT_MAX_CHARS")
	cfg.RetryAttempts = envInt(getenv, "RETRY_ATTEMPTS")
	cfg.RateLimitBurst = envInt(getenv, "RATE_LIMIT_BURST")
	cfg.RequestTimeout = envDuration(getenv, "REQUEST_TIMEOUT")
	cfg.BrowserTimeout = envDuration(getenv, "BROWSER_TIMEOUT")
	cfg.RetryBackoff = envDuration(getenv, "RETRY_BACKOFF")

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := getenv("RATE_LIMIT_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DisableRateLimit = b
		}
	}

	return cfg
}

// providerKey returns the vendor-specific key variable for provider.
func providerKey(provider string, getenv func(string) string) string {
	switch provider {
	case ProviderGemini:
		return strings.TrimSpace(getenv("GEMINI_API_KEY"))
	default:
		if key := strings.TrimSpace(getenv("PERPLEXITY_API_KEY")); key != "" {
			return key
		}
		return strings.TrimSpace(getenv("OPENAI_API_KEY"))
	}
}

// Validate checks that the configuration has valid values. The API key is not
// required here; it is checked when a model call is made.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	timeout := time.Duration(c.RequestTimeout)
	if timeout < MinRequestTimeout || timeout > MaxRequestTimeout {
		return fmt.Errorf("config error: 'request_timeout' must be between %s and %s, got %s",
			MinRequestTimeout, MaxRequestTimeout, timeout)
	}
	if c.BrowserTimeout <= 0 {
		return fmt.Errorf("config error: 'browser_timeout' must be positive")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("config error: 'retry_backoff' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.FetchStrategy == "" {
		result.FetchStrategy = defaults.FetchStrategy
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxChars == 0 {
		result.MaxChars = defaults.MaxChars
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = defaults.RetryAttempts
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.BrowserTimeout == 0 {
		result.BrowserTimeout = defaults.BrowserTimeout
	}
	if result.RetryBackoff == 0 {
		result.RetryBackoff = defaults.RetryBackoff
	}

	// Bools cannot distinguish unset from false; either source may disable.
	result.DisableRateLimit = result.DisableRateLimit || defaults.DisableRateLimit

	return result
}

// Timeout returns the per-call timeout for external requests.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

func envInt(getenv func(string) string, key string) int {
	if v := getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return 0
}

func envDuration(getenv func(string) string, key string) Duration {
	if v := getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return Duration(d)
		}
	}
	return 0
}
