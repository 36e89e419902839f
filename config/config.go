// Package config provides lingua configuration loading via Viper.
//
// Configuration is merged from (lowest to highest precedence):
// system config, user config (~/.lingua), project config found by
// walking up from the working directory, then LINGUA_* environment
// variables.
package config

import (
	"os"
)

// Default file permissions for created directories
const DefaultDirPermissions os.FileMode = 0o755

// Config represents the core lingua configuration
type Config struct {
	AI         AIConfig         `mapstructure:"ai"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Validation ValidationConfig `mapstructure:"validation"`
	Generation GenerationConfig `mapstructure:"generation"`
	Metadata   MetadataConfig   `mapstructure:"metadata"`
	Log        LogConfig        `mapstructure:"log"`
}

// AIConfig selects and configures the AI provider used for logic
// validation and code generation
type AIConfig struct {
	Provider          string          `mapstructure:"provider"`            // "anthropic" or "local"
	RequestsPerMinute int             `mapstructure:"requests_per_minute"` // client-side rate limit (default: 30)
	Anthropic         AnthropicConfig `mapstructure:"anthropic"`
	Local             LocalConfig     `mapstructure:"local"`
}

// AnthropicConfig configures the Anthropic Messages API client
type AnthropicConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	Model          string   `mapstructure:"model"`
	BaseURL        string   `mapstructure:"base_url"`
	MaxTokens      int      `mapstructure:"max_tokens"`
	Temperature    *float64 `mapstructure:"temperature"` // nil = API default
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// LocalConfig configures local model inference (Ollama, LocalAI, etc.)
type LocalConfig struct {
	BaseURL        string `mapstructure:"base_url"` // e.g., "http://localhost:11434" for Ollama
	Model          string `mapstructure:"model"`    // e.g., "qwen2.5-coder:7b"
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ContextSize    *int   `mapstructure:"context_size"` // nil = model default
}

// DetectionConfig configures project scanning
type DetectionConfig struct {
	MaxFileSizeBytes int64    `mapstructure:"max_file_size_bytes"` // files larger than this are skipped (default: 10 MiB)
	Exclude          []string `mapstructure:"exclude"`             // extra gitignore-style patterns on top of the built-ins
}

// ValidationConfig configures the validation pipeline
type ValidationConfig struct {
	StopOnFirstError   bool `mapstructure:"stop_on_first_error"` // short-circuit after the first invalid stage
	SkipTests          bool `mapstructure:"skip_tests"`
	SkipAI             bool `mapstructure:"skip_ai"`
	ToolTimeoutSeconds int  `mapstructure:"tool_timeout_seconds"` // per syntax tool invocation
	TestTimeoutSeconds int  `mapstructure:"test_timeout_seconds"` // per test runner invocation
}

// GenerationConfig configures AI code generation
type GenerationConfig struct {
	MaxRetries        int    `mapstructure:"max_retries"` // validation-gated regeneration attempts (default: 3)
	OutputDir         string `mapstructure:"output_dir"`
	EmitTestSkeletons bool   `mapstructure:"emit_test_skeletons"`
}

// MetadataConfig configures metadata and status persistence
type MetadataConfig struct {
	OutputPath    string `mapstructure:"output_path"`     // codebase metadata JSON
	StatusLogPath string `mapstructure:"status_log_path"` // pipeline status history
}

// LogConfig configures console log rendering
type LogConfig struct {
	Theme string `mapstructure:"theme"` // Color theme: gruvbox, everforest
}
