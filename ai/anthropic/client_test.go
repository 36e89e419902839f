package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/errors"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.ModelName())
}

func TestComplete(t *testing.T) {
	var gotReq messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, APIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]interface{}{
			"id":          "msg_1",
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": "end_turn",
			"content": []map[string]string{
				{"type": "text", "text": "def add(a, b):\n    return a + b"},
			},
			"usage": map[string]int{"input_tokens": 120, "output_tokens": 40},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "test-key", MaxTokens: 2048})
	require.NoError(t, err)
	c.SetBaseURL(server.URL)

	completion, err := c.Complete(context.Background(), ai.UserMessage("you are helpful", "write add", 0, nil))
	require.NoError(t, err)

	assert.Equal(t, "def add(a, b):\n    return a + b", completion.Text)
	assert.Equal(t, 120, completion.Usage.PromptTokens)
	assert.Equal(t, 160, completion.Usage.TotalTokens)
	assert.Equal(t, "end_turn", completion.FinishReason)

	assert.Equal(t, "you are helpful", gotReq.System)
	assert.Equal(t, 2048, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestCompleteNonRetryableError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"type":"invalid_request_error"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	c.SetBaseURL(server.URL)

	_, err = c.Complete(context.Background(), ai.UserMessage("", "hi", 0, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAIService))
	assert.Equal(t, 1, calls, "4xx errors must not retry")
}

func TestCompleteRetriesOnOverload(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "ok"}},
			"usage":   map[string]int{"input_tokens": 1, "output_tokens": 1},
		})
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	c.SetBaseURL(server.URL)

	completion, err := c.Complete(context.Background(), ai.UserMessage("", "hi", 0, nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Text)
	assert.Equal(t, 3, calls)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"overloaded", errors.New("status 529: overloaded"), true},
		{"rate limited", errors.New("status 429: rate limit"), true},
		{"bad request", errors.New("status 400: invalid model"), false},
		{"auth failure", errors.New("status 401: unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}
