package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends one system + user message pair and returns the text of
	// the first choice.
	Complete(ctx context.Context, system, user string) (string, error)
	// Model returns the provider model the client talks to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderGateway:
		return NewGatewayClient(config)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}
