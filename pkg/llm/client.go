package llm

import (
	"context"
	"fmt"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderAnthropic   = "anthropic"
)

// Provider turns a prompt into raw completion text. Each implementation only
// knows its own request/response envelope.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type ProviderSettings struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
}

func NewProvider(ctx context.Context, s ProviderSettings) (Provider, error) {
	switch s.Name {
	case ProviderHuggingFace:
		return NewHuggingFaceClient(s.APIKey, s.Model, s.BaseURL), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, s.APIKey, s.Model, s.BaseURL)
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, s.Model, s.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Name)
	}
}

// NewProviders builds providers in the given order. Entries without an API
// key are skipped.
func NewProviders(ctx context.Context, settings []ProviderSettings) ([]Provider, error) {
	var providers []Provider
	for _, s := range settings {
		if s.APIKey == "" {
			continue
		}
		p, err := NewProvider(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("init %s provider: %w", s.Name, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}
