package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	calls int
}

func (s *stubClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	s.calls++
	return &Completion{Text: "ok"}, nil
}

func (s *stubClient) ModelName() string { return "stub" }

func TestRateLimitedDelegates(t *testing.T) {
	stub := &stubClient{}
	limited := NewRateLimited(stub, 0)

	completion, err := limited.Complete(context.Background(), UserMessage("", "hi", 0, nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Text)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "stub", limited.ModelName())
}

func TestRateLimitedBlocksSecondCall(t *testing.T) {
	stub := &stubClient{}
	// 1 request/minute: first call passes, second must wait past the deadline
	limited := NewRateLimited(stub, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := limited.Complete(ctx, UserMessage("", "first", 0, nil))
	require.NoError(t, err)

	_, err = limited.Complete(ctx, UserMessage("", "second", 0, nil))
	assert.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestUserMessage(t *testing.T) {
	req := UserMessage("sys", "usr", 1024, nil)
	assert.Equal(t, "sys", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "usr", req.Messages[0].Content)
	assert.Equal(t, 1024, req.MaxTokens)
}
