package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "he", Truncate("hello", 2))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo\nthree"))
	assert.Equal(t, "one", FirstLine("one\r\ntwo"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine("\nrest"))
}
