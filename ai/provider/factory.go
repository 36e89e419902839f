// Package provider selects and constructs the configured AI client.
package provider

import (
	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/ai/anthropic"
	"github.com/teranos/lingua/ai/local"
	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
)

// NewClient builds the client named by cfg.Provider, wrapped with the
// configured request rate limit. Missing credentials for the selected
// provider fail here, before any pipeline work starts.
func NewClient(cfg *config.AIConfig) (ai.Client, error) {
	var client ai.Client

	switch cfg.Provider {
	case "anthropic":
		c, err := anthropic.NewClient(anthropic.Config{
			APIKey:         cfg.Anthropic.APIKey,
			Model:          cfg.Anthropic.Model,
			BaseURL:        cfg.Anthropic.BaseURL,
			MaxTokens:      cfg.Anthropic.MaxTokens,
			Temperature:    cfg.Anthropic.Temperature,
			TimeoutSeconds: cfg.Anthropic.TimeoutSeconds,
		})
		if err != nil {
			return nil, err
		}
		client = c
	case "local":
		client = local.NewClient(local.Config{
			BaseURL:        cfg.Local.BaseURL,
			Model:          cfg.Local.Model,
			TimeoutSeconds: cfg.Local.TimeoutSeconds,
			ContextSize:    cfg.Local.ContextSize,
		})
	default:
		return nil, errors.NewConfigError("unknown ai provider %q (expected anthropic or local)", cfg.Provider)
	}

	logger.Debugw("ai client configured",
		logger.FieldProvider, cfg.Provider,
		logger.FieldModel, client.ModelName())

	return ai.NewRateLimited(client, cfg.RequestsPerMinute), nil
}
