package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GatewayClient implements Client for OpenAI-compatible chat completion APIs.
type GatewayClient struct {
	client *openai.Client
	config *Config
}

// NewGatewayClient creates a client for config.BaseURL.
func NewGatewayClient(config *Config) (*GatewayClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		// Paths are resolved relative to the base, so it needs the slash.
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}

	return &GatewayClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Complete implements Client.
func (c *GatewayClient) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(openai.ChatModel(c.config.Model)),
		Temperature: openai.F(c.config.Temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", gatewayError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Model implements Client.
func (c *GatewayClient) Model() string {
	return c.config.Model
}

// Close implements Client. The HTTP client holds no resources.
func (c *GatewayClient) Close() error {
	return nil
}

func gatewayError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: ProviderGateway, StatusCode: apiErr.StatusCode, Cause: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UpstreamError{Provider: ProviderGateway, Cause: err}
}
