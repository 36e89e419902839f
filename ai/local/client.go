// Package local implements the ai.Client boundary against any
// OpenAI-compatible chat-completions endpoint (Ollama, LocalAI, vLLM).
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
)

const (
	// DefaultBaseURL targets a local Ollama server
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is a reasonable local code model
	DefaultModel = "qwen2.5-coder:7b"
)

// Config holds local inference client configuration.
type Config struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
	ContextSize    *int // nil = model default
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	model      string
	config     Config
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a local inference client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	timeout := 600 * time.Second
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		model:      config.Model,
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.ComponentLogger("ai.local"),
	}
}

// chatCompletionRequest matches the OpenAI API format (Ollama compatible).
type chatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []ai.Message    `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *completionOpts `json:"options,omitempty"`
}

type completionOpts struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"num_predict,omitempty"` // Ollama uses num_predict
	NumCtx      int      `json:"num_ctx,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      ai.Message `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// ModelName returns the configured model.
func (c *Client) ModelName() string {
	return c.model
}

// Complete sends a chat-completions request. Local inference gets no
// retry loop; a dead local server fails the same way every time.
func (c *Client) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	messages := req.Messages
	if req.System != "" {
		messages = append([]ai.Message{{Role: "system", Content: req.System}}, messages...)
	}

	opts := &completionOpts{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if c.config.ContextSize != nil {
		opts.NumCtx = *c.config.ContextSize
	}

	body := chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  opts,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrAIService, err), "local inference request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.Wrapf(errors.ErrAIService,
			"local inference status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrAIService, err), "decoding response")
	}

	if len(completion.Choices) == 0 {
		return nil, errors.Wrap(errors.ErrAIService, "no completion choices returned")
	}

	result := &ai.Completion{
		Text:         strings.TrimSpace(completion.Choices[0].Message.Content),
		Model:        completion.Model,
		FinishReason: completion.Choices[0].FinishReason,
	}
	if result.Model == "" {
		result.Model = c.model
	}
	if completion.Usage != nil {
		result.Usage = ai.Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}
	return result, nil
}
