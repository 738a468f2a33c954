package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var gotReq anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content":[{"type":"text","text":"the answer"}],
			"stop_reason":"end_turn",
			"usage":{"input_tokens":12,"output_tokens":7}
		}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	got, err := p.Complete(context.Background(), "be helpful", "what is it?", 1024)
	require.NoError(t, err)

	assert.Equal(t, "the answer", got.Text)
	assert.Equal(t, 12, got.InputTokens)
	assert.Equal(t, 7, got.OutputTokens)

	assert.Equal(t, "be helpful", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "what is it?", gotReq.Messages[0].Content)
	assert.Equal(t, 1024, gotReq.MaxTokens)
	assert.Zero(t, gotReq.Temperature)
}

func TestAnthropicProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "", "question", 256)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}
