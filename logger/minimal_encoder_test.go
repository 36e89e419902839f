package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "detect", abbreviateName("detect"))
	assert.Equal(t, "v.pipeline", abbreviateName("validation.pipeline"))
	assert.Equal(t, "g.orchestrator", abbreviateName("generate.orchestrator"))
}

func TestSetTheme(t *testing.T) {
	orig := currentTheme
	defer SetTheme(orig)

	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)

	SetTheme("everforest")
	assert.Equal(t, "everforest", currentTheme)

	// Unknown themes are ignored
	SetTheme("solarized")
	assert.Equal(t, "everforest", currentTheme)
}

func TestEncodeEntryFormat(t *testing.T) {
	enc := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 15, 13, 4, 35, 0, time.UTC),
		LoggerName: "validation.pipeline",
		Message:    "Stage completed [syntax]",
	}
	fields := []zapcore.Field{
		zap.String(FieldRunID, "run_abc123"),
		zap.Int("files", 42),
		zap.Int("issues", 3),
	}

	buf, err := enc.EncodeEntry(entry, fields)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "v.pipeline")
	assert.Contains(t, out, "Stage completed")
	assert.Contains(t, out, "run_abc123")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "files")
	// INFO level marker is suppressed
	assert.NotContains(t, out, "INFO")
}

func TestEncodeEntryWarnLevel(t *testing.T) {
	enc := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Time:    time.Now(),
		Message: "syntax tool missing, using heuristic check",
	}

	buf, err := enc.EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "WARN")
}

func TestExtractFieldValues(t *testing.T) {
	out := extractFieldValues([]zapcore.Field{
		zap.String(FieldLanguage, "python"),
		zap.Int64(FieldDurationMS, 42),
	})

	assert.Contains(t, out, "python")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "ms")
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}
