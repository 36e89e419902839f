package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrToolUnavailable, "python3 not found on PATH")

	assert.True(t, Is(err, ErrToolUnavailable))
	assert.False(t, Is(err, ErrTimeout))
	assert.True(t, IsToolUnavailableError(err))
	assert.False(t, IsToolUnavailableError(nil))
}

func TestNewNoProviderError(t *testing.T) {
	err := NewNoProviderError("cobol")

	require.NotNil(t, err)
	assert.True(t, Is(err, ErrNoProvider))
	assert.True(t, IsNoProviderError(err))
	assert.Contains(t, err.Error(), `"cobol"`)
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("max_retries must be >= 0, got %d", -1)

	require.NotNil(t, err)
	assert.True(t, Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "got -1")
}

func TestIsTimeoutError(t *testing.T) {
	wrapped := Wrap(ErrTimeout, "test run exceeded 120s")

	assert.True(t, IsTimeoutError(wrapped))
	assert.False(t, IsTimeoutError(New("unrelated")))
	assert.False(t, IsTimeoutError(nil))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "install node to enable javascript syntax checks")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "install node to enable javascript syntax checks", hints[0])
}
