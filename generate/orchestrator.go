// Package generate turns actionable requirements into source files via
// AI code generation with validation-gated retries.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/toolrun"
)

// Result summarizes one generation run.
type Result struct {
	RunID          string        `json:"run_id"`
	Language       string        `json:"language"`
	GeneratedFiles []string      `json:"generated_files"`
	TestFiles      []string      `json:"test_files,omitempty"`
	Implemented    int           `json:"implemented"`
	Failed         int           `json:"failed"`
	TokensUsed     int           `json:"tokens_used"`
	Errors         []string      `json:"errors,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
}

// Orchestrator drives per-requirement code generation.
type Orchestrator struct {
	registry *lang.Registry
	client   ai.Client
	runner   *toolrun.Runner
	cfg      config.GenerationConfig
	logger   *zap.SugaredLogger
}

// NewOrchestrator wires a generation orchestrator.
func NewOrchestrator(registry *lang.Registry, client ai.Client, runner *toolrun.Runner, cfg config.GenerationConfig) *Orchestrator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "generated"
	}
	return &Orchestrator{
		registry: registry,
		client:   client,
		runner:   runner,
		cfg:      cfg,
		logger:   logger.ComponentLogger("generate"),
	}
}

// Run generates code for every actionable requirement in the target
// language. Requirements that exhaust their retries are counted failed
// and recorded in the result, never silently dropped.
func (o *Orchestrator) Run(ctx context.Context, language string, reqs []requirements.Requirement, gctx lang.GenerationContext) (*Result, error) {
	provider, ok := o.registry.Get(language)
	if !ok {
		return nil, errors.NewNoProviderError(language)
	}

	start := time.Now()
	result := &Result{
		RunID:    uuid.NewString(),
		Language: provider.Name(),
	}
	runLog := logger.ChildLogger(o.logger, logger.FieldRunID, result.RunID)

	if gctx.OutputDir == "" {
		gctx.OutputDir = o.cfg.OutputDir
	}
	if err := os.MkdirAll(gctx.OutputDir, config.DefaultDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "creating output dir %s", gctx.OutputDir)
	}

	actionable := 0
	for _, req := range reqs {
		if !req.Actionable() {
			runLog.Debugw("skipping non-actionable requirement",
				logger.FieldRequirement, req.ID,
				logger.FieldStatus, req.Status)
			continue
		}
		actionable++

		path, testPath, err := o.generateOne(ctx, provider, req, gctx, result, runLog)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", req.ID, err.Error()))
			runLog.Warnw("requirement generation failed",
				logger.FieldRequirement, req.ID,
				logger.FieldError, err.Error())
			continue
		}

		result.Implemented++
		result.GeneratedFiles = append(result.GeneratedFiles, path)
		if testPath != "" {
			result.TestFiles = append(result.TestFiles, testPath)
		}
	}

	result.Duration = time.Since(start)
	result.DurationMS = result.Duration.Milliseconds()

	runLog.Infow("generation run complete",
		logger.FieldLanguage, result.Language,
		logger.FieldCount, actionable,
		"implemented", result.Implemented,
		"failed", result.Failed,
		logger.FieldTokens, result.TokensUsed)

	return result, nil
}

// generateOne runs the prompt-generate-validate cycle for a single
// requirement, feeding each attempt's validation errors into the next
// prompt.
func (o *Orchestrator) generateOne(
	ctx context.Context,
	provider lang.Provider,
	req requirements.Requirement,
	gctx lang.GenerationContext,
	result *Result,
	runLog *zap.SugaredLogger,
) (path, testPath string, err error) {
	path = o.outputPath(provider, req, gctx.OutputDir)

	var feedback []string
	var previousCode string

	for attempt := 1; attempt <= o.cfg.MaxRetries; attempt++ {
		attemptCtx := gctx
		attemptCtx.ValidationFeedback = feedback
		attemptCtx.PreviousCode = previousCode

		prompt := provider.BuildCodePrompt(req, attemptCtx)
		completion, aiErr := o.client.Complete(ctx, ai.UserMessage("", prompt, 0, nil))
		if aiErr != nil {
			return "", "", aiErr
		}
		result.TokensUsed += completion.Usage.TotalTokens

		code := provider.ExtractCode(completion.Text)
		if code == "" {
			feedback = []string{"the response contained no extractable code block"}
			previousCode = ""
			runLog.Warnw("no code in response",
				logger.FieldRequirement, req.ID,
				logger.FieldAttempt, attempt)
			continue
		}

		if writeErr := os.WriteFile(path, []byte(code+"\n"), 0o644); writeErr != nil {
			return "", "", errors.Wrapf(writeErr, "writing %s", path)
		}

		code = o.formatFile(ctx, provider.Name(), path, code, runLog)

		check := provider.ValidateSyntax(ctx, path, []byte(code))
		if check.Status == lang.SyntaxInvalid {
			feedback = []string{check.Detail}
			previousCode = code
			runLog.Warnw("generated code failed syntax check",
				logger.FieldRequirement, req.ID,
				logger.FieldAttempt, attempt)
			continue
		}

		if o.cfg.EmitTestSkeletons {
			testPath = o.emitTestSkeleton(provider, req, code, path, gctx, result, runLog)
		}

		runLog.Infow("requirement implemented",
			logger.FieldRequirement, req.ID,
			logger.FieldFile, path,
			logger.FieldAttempt, attempt)
		return path, testPath, nil
	}

	return "", "", errors.Newf("no valid code after %d attempts: %s",
		o.cfg.MaxRetries, strings.Join(feedback, "; "))
}

// formatters maps languages to in-place formatting commands. Formatting
// is best-effort: a missing or failing formatter leaves the file as
// written.
var formatters = map[string][]string{
	"go":     {"gofmt", "-w"},
	"python": {"black", "-q"},
}

func (o *Orchestrator) formatFile(ctx context.Context, language, path, code string, runLog *zap.SugaredLogger) string {
	argv, ok := formatters[language]
	if !ok || o.runner == nil {
		return code
	}
	if !toolrun.Available(argv[0]) {
		return code
	}

	res := o.runner.Run(ctx, filepath.Dir(path), append(append([]string{}, argv...), filepath.Base(path)), 15*time.Second)
	if !res.Ok() {
		runLog.Debugw("formatter failed, keeping unformatted output",
			logger.FieldFile, path)
		return code
	}

	formatted, err := os.ReadFile(path)
	if err != nil {
		return code
	}
	return string(formatted)
}

// emitTestSkeleton writes a test file with one skeleton per generated
// function. Failure to emit is a warning, never fatal.
func (o *Orchestrator) emitTestSkeleton(
	provider lang.Provider,
	req requirements.Requirement,
	code, codePath string,
	gctx lang.GenerationContext,
	result *Result,
	runLog *zap.SugaredLogger,
) string {
	meta := provider.ParseFile(codePath, []byte(code))
	if len(meta.Functions) == 0 {
		return ""
	}

	var b strings.Builder
	for i, fn := range meta.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(provider.BuildTestSkeleton(fn, gctx))
	}

	testPath := testFileName(provider, codePath)
	if err := os.WriteFile(testPath, []byte(b.String()), 0o644); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: could not write test skeleton: %s", req.ID, err.Error()))
		runLog.Warnw("test skeleton emission failed",
			logger.FieldRequirement, req.ID,
			logger.FieldError, err.Error())
		return ""
	}
	return testPath
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9_]+`)

// outputPath derives a deterministic file name from the requirement ID.
func (o *Orchestrator) outputPath(provider lang.Provider, req requirements.Requirement, dir string) string {
	base := unsafeFileChars.ReplaceAllString(strings.ToLower(req.ID), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "requirement"
	}
	return filepath.Join(dir, "req_"+base+provider.Extensions()[0])
}

// testFileName applies each language's test naming convention.
func testFileName(provider lang.Provider, codePath string) string {
	dir := filepath.Dir(codePath)
	ext := filepath.Ext(codePath)
	base := strings.TrimSuffix(filepath.Base(codePath), ext)

	switch provider.Name() {
	case "go":
		return filepath.Join(dir, base+"_test"+ext)
	case "javascript", "typescript":
		return filepath.Join(dir, base+".test"+ext)
	case "java", "csharp":
		return filepath.Join(dir, base+"Test"+ext)
	default:
		return filepath.Join(dir, "test_"+base+ext)
	}
}
