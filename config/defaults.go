package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// AI defaults
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.requests_per_minute", 30)

	v.SetDefault("ai.anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("ai.anthropic.max_tokens", 4096)
	v.SetDefault("ai.anthropic.timeout_seconds", 120)

	v.SetDefault("ai.local.base_url", "http://localhost:11434")
	v.SetDefault("ai.local.model", "qwen2.5-coder:7b")
	v.SetDefault("ai.local.timeout_seconds", 600)

	// Detection defaults
	v.SetDefault("detection.max_file_size_bytes", int64(10*1024*1024)) // 10 MiB

	// Validation defaults
	v.SetDefault("validation.stop_on_first_error", false)
	v.SetDefault("validation.tool_timeout_seconds", 30)
	v.SetDefault("validation.test_timeout_seconds", 120)

	// Generation defaults
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.output_dir", "generated")
	v.SetDefault("generation.emit_test_skeletons", true)

	// Metadata defaults
	v.SetDefault("metadata.output_path", "codebase_metadata.json")
	v.SetDefault("metadata.status_log_path", "status_log.json")

	// Log defaults
	v.SetDefault("log.theme", "everforest")
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("ai.anthropic.api_key", "LINGUA_AI_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
}
