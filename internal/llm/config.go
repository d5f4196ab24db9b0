// Package llm provides a provider-neutral text completion client used by the
// AI assist endpoints. Two providers are supported: an OpenAI-compatible
// chat-completions gateway and Google Gemini.
package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGateway is any OpenAI-compatible chat completions endpoint
	ProviderGateway Provider = "gateway"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the hosted gateway.
const (
	DefaultGatewayURL   = "https://ai.gateway.lovable.dev/v1"
	DefaultGatewayModel = "google/gemini-3-flash-preview"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultTemperature  = 0.7
)

// Config holds the provider selection and credentials for a Client.
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string // gateway only
	APIKey      string
	Temperature float64
}

// DefaultConfig returns the gateway configuration without credentials.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGateway,
		Model:       DefaultGatewayModel,
		BaseURL:     DefaultGatewayURL,
		Temperature: DefaultTemperature,
	}
}

// ConfigFromEnv reads AI_PROVIDER, AI_MODEL, AI_TEMPERATURE and the
// provider's credentials (AI_GATEWAY_URL + AI_GATEWAY_API_KEY, or
// GEMINI_API_KEY). A missing key is not an error here; NewClient rejects it.
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if p := strings.TrimSpace(os.Getenv("AI_PROVIDER")); p != "" {
		cfg.Provider = Provider(strings.ToLower(p))
	}

	switch cfg.Provider {
	case ProviderGateway:
		if u := os.Getenv("AI_GATEWAY_URL"); u != "" {
			cfg.BaseURL = u
		}
		cfg.APIKey = os.Getenv("AI_GATEWAY_API_KEY")
	case ProviderGemini:
		cfg.Model = DefaultGeminiModel
		cfg.BaseURL = ""
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if m := os.Getenv("AI_MODEL"); m != "" {
		cfg.Model = m
	}

	if t := os.Getenv("AI_TEMPERATURE"); t != "" {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AI_TEMPERATURE: %v", err)
		}
		cfg.Temperature = v
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	switch c.Provider {
	case ProviderGateway, ProviderGemini:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q (want gateway or gemini)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("no model configured for provider %s", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %v (must be 0-2)", c.Temperature)
	}
	return nil
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
