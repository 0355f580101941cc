package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockProvider returns canned responses in FIFO order and records every
// request. Once the queue is empty it fails with ErrProviderUnavailable,
// unless it was created by NewOfflineProvider.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	offline   bool
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewOfflineProvider returns a provider that answers every structured
// request with a sample object built from the request schema. It backs
// the "mock" provider setting so explanations can be tried without an
// API key.
func NewOfflineProvider() *MockProvider {
	return &MockProvider{offline: true}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.offline:
		content, err := json.Marshal(sample(req.Schema))
		if err != nil {
			return nil, err
		}
		next = MockResponse{Content: content}
	default:
		return nil, &ErrProviderUnavailable{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: stop}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// sample builds a value satisfying the common subset of JSON Schema used
// by request schemas: typed properties, required lists and string enums.
// Strings take the property description so the output reads sensibly.
func sample(s *Schema) any {
	if s == nil {
		return "This is an offline sample response."
	}
	return sampleValue(s.Definition)
}

func sampleValue(def map[string]any) any {
	if enum, ok := def["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	switch def["type"] {
	case "object":
		out := map[string]any{}
		props, _ := def["properties"].(map[string]any)
		for name, v := range props {
			if pd, ok := v.(map[string]any); ok {
				out[name] = sampleValue(pd)
			}
		}
		return out
	case "array":
		items, _ := def["items"].(map[string]any)
		if items == nil {
			return []any{}
		}
		return []any{sampleValue(items)}
	case "integer", "number":
		switch lo := def["minimum"].(type) {
		case int, float64:
			return lo
		}
		return 0
	case "boolean":
		return false
	}
	if desc, ok := def["description"].(string); ok && desc != "" {
		return desc
	}
	return "sample"
}
