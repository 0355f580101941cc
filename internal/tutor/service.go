// Package tutor asks an LLM to explain wrong quiz answers. Requests run in
// the background so the quiz screen never blocks on the provider.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Emily9121/WifeyMOOC/internal/llm"
	"github.com/Emily9121/WifeyMOOC/internal/question"
)

// ErrNotReady is returned by Consume while no result is waiting.
var ErrNotReady = errors.New("explanation not ready")

// Input is the context for one explanation.
type Input struct {
	// Key is the scoring key of the question, e.g. "3" or "2-1".
	Key        string
	Spec       question.Spec
	UserAnswer any
	Message    string
}

// Explanation is a generated explanation for one wrong answer.
type Explanation struct {
	Key         string
	Summary     string
	Explanation string
	Tip         string
}

// Service generates explanations asynchronously. Only the most recent
// request is kept; results of older requests are discarded.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	gen     int
	pending *Explanation
	err     error
	ready   bool
	busy    bool
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Request starts generating an explanation for in, replacing any request
// still in flight.
func (s *Service) Request(ctx context.Context, in Input) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending, s.err, s.ready, s.busy = nil, nil, false, true
	s.mu.Unlock()

	go func() {
		exp, err := s.Explain(ctx, in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.pending = exp
		s.err = err
		s.ready = true
		s.busy = false
	}()
}

// Busy reports whether a request is in flight.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Consume returns the finished explanation and clears the slot. It returns
// ErrNotReady while nothing has finished.
func (s *Service) Consume() (*Explanation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	exp, err := s.pending, s.err
	s.pending, s.err, s.ready = nil, nil, false
	return exp, err
}

// Reset drops any pending or in-flight result.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.pending, s.err, s.ready, s.busy = nil, nil, false, false
}

type explanationOutput struct {
	Summary     string `json:"summary"`
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explain generates an explanation synchronously.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(in),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	return &Explanation{
		Key:         in.Key,
		Summary:     out.Summary,
		Explanation: out.Explanation,
		Tip:         out.Tip,
	}, nil
}

// Describe turns an Explain error into a short line for the quiz screen.
func Describe(err error) string {
	var (
		auth      *llm.ErrAuth
		rateLimit *llm.ErrRateLimit
		truncated *llm.ErrMaxTokensExceeded
		invalid   *llm.ErrInvalidResponse
		down      *llm.ErrProviderUnavailable
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "the tutor took too long to answer"
	case errors.As(err, &auth):
		return "the LLM provider rejected the API key; check your configuration"
	case errors.As(err, &rateLimit):
		return "the LLM provider is rate limiting requests; try again shortly"
	case errors.As(err, &truncated):
		return "the explanation was cut off; raise tutor max tokens"
	case errors.As(err, &invalid):
		return "the tutor replied in an unexpected format"
	case errors.As(err, &down):
		return "the LLM provider is unreachable"
	}
	return err.Error()
}
