package local

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
	"github.com/teranos/lingua/internal/util"
)

func TestComplete(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "qwen2.5-coder:7b",
			"choices": []map[string]interface{}{
				{
					"message":       map[string]string{"role": "assistant", "content": "print('hi')"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, ContextSize: util.Ptr(8192)})

	completion, err := c.Complete(context.Background(), ai.UserMessage("system prompt", "user prompt", 512, nil))
	require.NoError(t, err)

	assert.Equal(t, "print('hi')", completion.Text)
	assert.Equal(t, 15, completion.Usage.TotalTokens)
	assert.Equal(t, "stop", completion.FinishReason)

	// system prompt becomes the leading message
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 512, gotReq.Options.MaxTokens)
	assert.Equal(t, 8192, gotReq.Options.NumCtx)
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Complete(context.Background(), ai.UserMessage("", "hi", 0, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAIService))
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Complete(context.Background(), ai.UserMessage("", "hi", 0, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAIService))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultModel, c.ModelName())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
