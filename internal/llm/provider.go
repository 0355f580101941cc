package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion per call. Explanations are
// single-turn, so a request carries one system prompt and one user prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider asks for JSON in that shape; the validation
	// decorator checks the result.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the single user message.
	Prompt string

	// Schema is the JSON Schema the response must conform to. When nil the
	// response Content is the raw model text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness in [0, 1]. Zero leaves the provider
	// default in place.
	Temperature float64
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema. It is the compiled-schema cache key and
	// the schema name sent to OpenAI. Kebab-case, e.g. "answer-explanation".
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the LLM's output.
type Response struct {
	// Content is the model output. After validation it is the bare JSON
	// object with any surrounding prose or code fence removed.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
