// Package ai defines the completion client boundary used by validation
// and code generation, plus the factory that selects a concrete backend.
package ai

import (
	"context"
)

// Message is one turn in a conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// CompletionRequest is a provider-neutral completion request.
type CompletionRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64 // nil = provider default
}

// Usage reports token consumption for one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is a provider-neutral completion result.
type Completion struct {
	Text         string
	Usage        Usage
	Model        string
	FinishReason string
}

// Client is the completion boundary. Implementations must be safe for
// sequential reuse; errors are typed via the errors package, never panics.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	ModelName() string
}

// UserMessage builds a single-user-turn request, the common case for
// prompt-template callers.
func UserMessage(system, user string, maxTokens int, temperature *float64) CompletionRequest {
	return CompletionRequest{
		System:      system,
		Messages:    []Message{{Role: "user", Content: user}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
