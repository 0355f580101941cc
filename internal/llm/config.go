package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
	ProviderNone       = "none"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterHeaders identify the app in OpenRouter's usage rankings.
var openRouterHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/Emily9121/WifeyMOOC",
	"X-Title":      "WifeyMOOC",
}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend. An empty value or "none" disables
	// AI explanations entirely.
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds configuration for OpenAI and OpenAI-compatible APIs.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string

	// Headers are added to every request.
	Headers map[string]string

	// SchemaInPrompt sends the response schema in the system prompt with
	// json_object mode instead of strict json_schema output.
	SchemaInPrompt bool
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a disabled Config with default models and retry
// settings filled in.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderNone,
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// ConfigFromEnv builds a Config from WIFEYMOOC_* environment variables.
// When WIFEYMOOC_LLM_PROVIDER is unset the standard vendor key variables
// are checked, see DiscoverConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	p := os.Getenv("WIFEYMOOC_LLM_PROVIDER")
	if p == "" {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = p
	}

	setFromEnv(&cfg.Anthropic.APIKey, "WIFEYMOOC_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "WIFEYMOOC_ANTHROPIC_MODEL")
	setFromEnv(&cfg.OpenAI.APIKey, "WIFEYMOOC_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "WIFEYMOOC_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "WIFEYMOOC_OPENAI_BASE_URL")
	setFromEnv(&cfg.Gemini.APIKey, "WIFEYMOOC_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "WIFEYMOOC_GEMINI_MODEL")

	if v := os.Getenv("WIFEYMOOC_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring invalid WIFEYMOOC_LLM_TIMEOUT %q\n", v)
		}
	}

	if cfg.Provider == ProviderOpenRouter {
		cfg.openRouterDefaults()
	}
	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// openRouterDefaults points the OpenAI client at OpenRouter, which speaks
// the OpenAI chat completions API.
func (c *Config) openRouterDefaults() {
	setFromEnv(&c.OpenAI.APIKey, "WIFEYMOOC_OPENROUTER_API_KEY")
	setFromEnv(&c.OpenAI.Model, "WIFEYMOOC_OPENROUTER_MODEL")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenRouterBaseURL
	}
	c.OpenAI.Headers = openRouterHeaders
	c.OpenAI.SchemaInPrompt = true
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenAI.APIKey = k
		cfg.OpenAI.Model = "google/gemini-2.0-flash-exp"
		cfg.openRouterDefaults()
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("WIFEYMOOC_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("WIFEYMOOC_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderOpenRouter:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("WIFEYMOOC_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("WIFEYMOOC_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderMock, ProviderNone, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
