package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Emily9121/WifeyMOOC/internal/store"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WIFEYMOOC_LLM_PROVIDER", "WIFEYMOOC_LLM_TIMEOUT",
		"WIFEYMOOC_ANTHROPIC_API_KEY", "WIFEYMOOC_ANTHROPIC_MODEL",
		"WIFEYMOOC_OPENAI_API_KEY", "WIFEYMOOC_OPENAI_MODEL", "WIFEYMOOC_OPENAI_BASE_URL",
		"WIFEYMOOC_GEMINI_API_KEY", "WIFEYMOOC_GEMINI_MODEL",
		"WIFEYMOOC_OPENROUTER_API_KEY", "WIFEYMOOC_OPENROUTER_MODEL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_DisabledByDefault(t *testing.T) {
	clearLLMEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Enabled() {
		t.Fatalf("expected disabled config, got provider %q", cfg.Provider)
	}
	if _, err := NewProvider(context.Background(), cfg, nil); !errors.Is(err, ErrDisabled) {
		t.Fatalf("NewProvider() error = %v, want ErrDisabled", err)
	}
}

func TestConfigFromEnv_Explicit(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("WIFEYMOOC_LLM_PROVIDER", "anthropic")
	t.Setenv("WIFEYMOOC_ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("WIFEYMOOC_ANTHROPIC_MODEL", "claude-sonnet")
	t.Setenv("WIFEYMOOC_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderAnthropic {
		t.Fatalf("Provider = %q", cfg.Provider)
	}
	if cfg.Anthropic.APIKey != "sk-test" || cfg.Anthropic.Model != "claude-sonnet" {
		t.Errorf("Anthropic = %+v", cfg.Anthropic)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigFromEnv_OpenRouterUsesOpenAIClient(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("WIFEYMOOC_LLM_PROVIDER", "openrouter")
	t.Setenv("WIFEYMOOC_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("WIFEYMOOC_OPENROUTER_MODEL", "meta-llama/llama-3-8b")

	cfg := ConfigFromEnv()
	if cfg.OpenAI.BaseURL != defaultOpenRouterBaseURL {
		t.Errorf("BaseURL = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.APIKey != "sk-or" || cfg.OpenAI.Model != "meta-llama/llama-3-8b" {
		t.Errorf("OpenAI = %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.Headers["X-Title"] != "WifeyMOOC" || cfg.OpenAI.Headers["HTTP-Referer"] == "" {
		t.Errorf("Headers = %v", cfg.OpenAI.Headers)
	}
	if !cfg.OpenAI.SchemaInPrompt {
		t.Error("expected OpenRouter to send the schema in the prompt")
	}

	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.ModelID() != "meta-llama/llama-3-8b" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI {
		t.Fatalf("DiscoverConfig() = %q, %v; want openai", cfg.Provider, ok)
	}

	t.Setenv("GEMINI_API_KEY", "g")
	if cfg, _ := DiscoverConfig(); cfg.Provider != ProviderGemini {
		t.Fatalf("Provider = %q, want gemini", cfg.Provider)
	}
}

func TestNewProvider_MockIsLogged(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	p := WithLogging(mock, ProviderMock, s.EventRepo())

	ctx := WithPurpose(context.Background(), "explanation")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error from exhausted mock")
	}

	events, err := s.EventRepo().QueryLLMRequests(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Success || events[0].ErrorMessage == "" {
		t.Errorf("failed request logged as %+v", events[0].LLMRequestEventData)
	}
	ok := events[1]
	if !ok.Success || ok.Purpose != "explanation" || ok.Provider != ProviderMock || ok.InputTokens != 12 {
		t.Errorf("successful request logged as %+v", ok.LLMRequestEventData)
	}
}

func TestNewProvider_MockExplainsOffline(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("WIFEYMOOC_LLM_PROVIDER", "mock")

	p, err := NewProviderFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewProviderFromEnv() error = %v", err)
	}
	schema := &Schema{
		Name: "offline-explanation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{"type": "string", "description": "What went wrong"},
				"tip":     map[string]any{"type": "string"},
			},
			"required":             []any{"summary", "tip"},
			"additionalProperties": false,
		},
	}
	resp, err := p.Generate(context.Background(), Request{Prompt: "Why?", Schema: schema})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		t.Fatalf("content %s: %v", resp.Content, err)
	}
	if out["summary"] != "What went wrong" || out["tip"] != "sample" {
		t.Errorf("content = %v", out)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Generate() error = %v, want deadline exceeded", err)
	}
	if p.ModelID() != "blocking" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}

	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Error("expected zero timeout to return the provider unchanged")
	}
}
