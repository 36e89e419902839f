package config

import "github.com/teranos/lingua/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "anthropic", "local":
	case "":
		return errors.New("ai.provider cannot be empty (use \"anthropic\" or \"local\")")
	default:
		return errors.Newf("ai.provider must be \"anthropic\" or \"local\", got %q", c.AI.Provider)
	}

	if c.AI.RequestsPerMinute < 0 {
		return errors.Newf("ai.requests_per_minute must be >= 0, got %d", c.AI.RequestsPerMinute)
	}

	if c.AI.Provider == "anthropic" {
		if c.AI.Anthropic.Model == "" {
			return errors.New("ai.anthropic.model cannot be empty")
		}
		if c.AI.Anthropic.MaxTokens <= 0 {
			return errors.Newf("ai.anthropic.max_tokens must be > 0, got %d", c.AI.Anthropic.MaxTokens)
		}
		if c.AI.Anthropic.TimeoutSeconds <= 0 {
			return errors.Newf("ai.anthropic.timeout_seconds must be > 0, got %d", c.AI.Anthropic.TimeoutSeconds)
		}
	}

	if c.AI.Provider == "local" {
		if c.AI.Local.BaseURL == "" {
			return errors.New("ai.local.base_url cannot be empty")
		}
		if c.AI.Local.Model == "" {
			return errors.New("ai.local.model cannot be empty")
		}
		if c.AI.Local.TimeoutSeconds <= 0 {
			return errors.Newf("ai.local.timeout_seconds must be > 0, got %d", c.AI.Local.TimeoutSeconds)
		}
	}

	if c.Detection.MaxFileSizeBytes < 0 {
		return errors.Newf("detection.max_file_size_bytes must be >= 0, got %d", c.Detection.MaxFileSizeBytes)
	}

	if c.Validation.ToolTimeoutSeconds <= 0 {
		return errors.Newf("validation.tool_timeout_seconds must be > 0, got %d", c.Validation.ToolTimeoutSeconds)
	}
	if c.Validation.TestTimeoutSeconds <= 0 {
		return errors.Newf("validation.test_timeout_seconds must be > 0, got %d", c.Validation.TestTimeoutSeconds)
	}

	// Retries: 0 = single attempt, negative = invalid
	if c.Generation.MaxRetries < 0 {
		return errors.Newf("generation.max_retries must be >= 0, got %d", c.Generation.MaxRetries)
	}

	return nil
}
