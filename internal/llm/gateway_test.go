package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newGatewayTestClient(t *testing.T, handler http.HandlerFunc) *GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewGatewayClient(&Config{
		Provider:    ProviderGateway,
		Model:       "test/model",
		BaseURL:     srv.URL + "/v1",
		APIKey:      "test-key",
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)
	return c
}

func TestGatewayClient_Complete(t *testing.T) {
	var got chatRequest
	var auth, path string
	c := newGatewayTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test/model",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"A concise summary."}}]}`)
	})

	out, err := c.Complete(context.Background(), "be brief", "summarize me")
	require.NoError(t, err)
	assert.Equal(t, "A concise summary.", out)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "test/model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "summarize me", got.Messages[1].Content)
}

func TestGatewayClient_NoChoices(t *testing.T) {
	c := newGatewayTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test/model","choices":[]}`)
	})

	out, err := c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGatewayClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"credits exhausted", http.StatusPaymentRequired, ErrCreditsExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := newGatewayTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope"}}`)
			})

			_, err := c.Complete(context.Background(), "s", "u")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tt.status, upstream.StatusCode)
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestGatewayClient_ServerError(t *testing.T) {
	c := newGatewayTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.False(t, errors.Is(err, ErrCreditsExhausted))
	assert.True(t, strings.Contains(err.Error(), "gateway"))
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("boom")
	err := &UpstreamError{Provider: ProviderGemini, StatusCode: 429, Cause: cause}
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrCreditsExhausted)
	assert.Equal(t, "gemini request failed with status 429: boom", err.Error())

	plain := &UpstreamError{Provider: ProviderGateway, Cause: cause}
	assert.Equal(t, "gateway request failed: boom", plain.Error())
}
