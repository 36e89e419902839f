// Package commands implements the lingua subcommands.
package commands

import (
	"time"

	"github.com/teranos/lingua/ai"
	aiprovider "github.com/teranos/lingua/ai/provider"
	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/lang/providers"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/state"
	"github.com/teranos/lingua/toolrun"
)

// deps is the wired component graph shared by the subcommands.
type deps struct {
	cfg       *config.Config
	runner    *toolrun.Runner
	registry  *lang.Registry
	detector  *detect.Detector
	generator *metadata.Generator
	store     *state.Store
}

// buildDeps loads configuration and wires the pipeline components.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := toolrun.NewRunner()
	registry := providers.NewDefaultRegistry(providers.Options{
		Runner:      runner,
		ToolTimeout: time.Duration(cfg.Validation.ToolTimeoutSeconds) * time.Second,
	})

	detector := detect.NewDetector(registry, cfg.Detection.Exclude)
	detector.MaxFileSize = cfg.Detection.MaxFileSizeBytes

	return &deps{
		cfg:       cfg,
		runner:    runner,
		registry:  registry,
		detector:  detector,
		generator: metadata.NewGenerator(detector, registry),
		store:     state.NewStore(cfg.Metadata),
	}, nil
}

// aiClient builds the configured AI client. Returns a ConfigurationError
// when the selected provider is missing credentials.
func (d *deps) aiClient() (ai.Client, error) {
	return aiprovider.NewClient(&d.cfg.AI)
}
