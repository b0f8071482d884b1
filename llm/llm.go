package llm

import (
	"context"
	"errors"
	"fmt"

	"directdm/models"
)

// Generation defaults. Replies are short by design: comment and DM responses
// have to fit the platform's tone, not an essay.
const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
)

var ErrUnsupportedProvider = errors.New("unsupported llm provider")

// Request is one single-turn generation call.
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	TopP         float64
}

// Response carries the generated text plus token usage and the computed cost.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	CostUsd      float64
	Model        string
	Provider     string
}

// Provider is one model backend. Adapters do a single round trip per call;
// transport failures surface to the caller untouched.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Resolve maps a tenant's provider name to a concrete adapter. Called once
// per event at config-resolution time so the hot path never switches on
// strings again.
func Resolve(provider, model, apiKey string) (Provider, error) {
	switch provider {
	case models.LLM_PROVIDER_GEMINI:
		return NewGeminiProvider(apiKey, model), nil
	case models.LLM_PROVIDER_CLAUDE:
		return NewClaudeProvider(apiKey, model), nil
	case models.LLM_PROVIDER_OPENAI:
		return NewOpenAIProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// GenerateReply resolves the provider and runs one generation call.
func GenerateReply(ctx context.Context, provider, model, apiKey string, req Request) (*Response, error) {
	p, err := Resolve(provider, model, apiKey)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, req.withDefaults())
}

func (r Request) withDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}
	if r.TopP <= 0 {
		r.TopP = DefaultTopP
	}
	return r
}
