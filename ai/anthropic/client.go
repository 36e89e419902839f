// Package anthropic implements the ai.Client boundary against the
// Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
)

const (
	// DefaultModel is the default Claude model
	DefaultModel = "claude-sonnet-4-20250514"

	// DefaultBaseURL is the Anthropic API endpoint
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is the required Anthropic API version header
	APIVersion = "2023-06-01"

	maxRetries = 3
)

// Config holds Anthropic client configuration.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	Temperature    *float64
	TimeoutSeconds int
}

// Client talks to the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	config     Config
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates an Anthropic API client. A missing API key is a
// configuration error raised here, not at first use.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.NewConfigError("anthropic api key not set")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	timeout := 120 * time.Second
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.ComponentLogger("ai.anthropic"),
	}, nil
}

// messagesRequest is the Anthropic Messages API request body.
type messagesRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Messages    []ai.Message `json:"messages"`
	System      string       `json:"system,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ModelName returns the configured model.
func (c *Client) ModelName() string {
	return c.config.Model
}

// Complete sends the request, retrying on transient network errors with
// linear backoff.
func (c *Client) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}
	temperature := req.Temperature
	if temperature == nil {
		temperature = c.config.Temperature
	}

	body := messagesRequest{
		Model:       c.config.Model,
		MaxTokens:   maxTokens,
		Messages:    req.Messages,
		System:      req.System,
		Temperature: temperature,
	}

	var resp *messagesResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * time.Second
			c.logger.Warnw("retrying anthropic request",
				logger.FieldAttempt, attempt+1,
				logger.FieldError, err.Error())
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(wrapCtxErr(ctx.Err()), "anthropic request")
			case <-time.After(delay):
			}
		}

		resp, err = c.createMessages(ctx, body)
		if err == nil {
			break
		}
		if !isRetryableError(err) {
			return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrAIService, err), "anthropic request")
		}
	}
	if err != nil {
		return nil, errors.Wrapf(errors.WithSecondaryError(errors.ErrAIService, err), "anthropic request failed after %d attempts", maxRetries)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &ai.Completion{
		Text:         strings.TrimSpace(text.String()),
		Model:        resp.Model,
		FinishReason: resp.StopReason,
		Usage: ai.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

func (c *Client) createMessages(ctx context.Context, req messagesRequest) (*messagesResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var messagesResp messagesResponse
	if err := json.Unmarshal(respBody, &messagesResp); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	return &messagesResp, nil
}

// wrapCtxErr maps a context error to the domain timeout sentinel.
func wrapCtxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.WithSecondaryError(errors.ErrTimeout, err)
	}
	return err
}

// isRetryableError reports whether an error is transient network trouble
// or an overloaded upstream, both worth retrying.
func isRetryableError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT:
				return true
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection reset by peer",
		"connection refused",
		"temporary failure",
		"network is unreachable",
		"i/o timeout",
		"overloaded",
		"status 429",
		"status 529",
		"status 500",
		"status 502",
		"status 503",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

// SetHTTPClient overrides the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetBaseURL overrides the API endpoint for testing.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}
