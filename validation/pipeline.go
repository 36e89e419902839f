package validation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/toolrun"
)

// Pipeline runs the validation stages in fixed order:
// syntax, then tests, then AI-logic. It never returns an error for stage
// failures; every run produces a Report.
type Pipeline struct {
	detector   *detect.Detector
	registry   *lang.Registry
	generator  *metadata.Generator
	testRunner *toolrun.TestRunner
	client     ai.Client // nil disables the AI-logic stage
	cfg        config.ValidationConfig
	logger     *zap.SugaredLogger
}

// NewPipeline wires a validation pipeline. client may be nil when AI
// validation is unavailable or disabled.
func NewPipeline(
	detector *detect.Detector,
	registry *lang.Registry,
	generator *metadata.Generator,
	testRunner *toolrun.TestRunner,
	client ai.Client,
	cfg config.ValidationConfig,
) *Pipeline {
	return &Pipeline{
		detector:   detector,
		registry:   registry,
		generator:  generator,
		testRunner: testRunner,
		client:     client,
		cfg:        cfg,
		logger:     logger.ComponentLogger("validation.pipeline"),
	}
}

// Run validates the project at root against reqs. Stages that are
// short-circuited or disabled are absent from the report.
func (p *Pipeline) Run(ctx context.Context, root string, reqs []requirements.Requirement) *Report {
	start := time.Now()
	report := &Report{Timestamp: start.UTC()}

	defer func() {
		report.DurationMS = time.Since(start).Milliseconds()
		p.logger.Infow("validation complete",
			logger.FieldStatus, report.OverallStatus,
			logger.FieldDurationMS, report.DurationMS,
			logger.FieldCount, report.TotalIssues())
	}()

	syntax := &syntaxStage{
		detector:         p.detector,
		registry:         p.registry,
		stopOnFirstError: p.cfg.StopOnFirstError,
		logger:           p.logger.Named("syntax"),
	}
	report.Syntax = p.runStage(StageSyntax, func() *StageResult {
		return syntax.run(ctx, root)
	})
	if p.cfg.StopOnFirstError && report.Syntax.Status != StatusValid {
		report.OverallStatus = OverallFailed
		return report
	}

	if !p.cfg.SkipTests {
		tests := &testStage{
			runner:  p.testRunner,
			timeout: p.testTimeout(),
			logger:  p.logger.Named("test"),
		}
		report.Test = p.runStage(StageTest, func() *StageResult {
			return tests.run(ctx, root, p.mainLanguage(root))
		})
		if p.cfg.StopOnFirstError && report.Test.Status != StatusValid {
			report.OverallStatus = OverallFailed
			return report
		}
	}

	if !p.cfg.SkipAI && p.client != nil && len(reqs) > 0 {
		logic := &aiLogicStage{
			client: p.client,
			logger: p.logger.Named("ailogic"),
		}
		report.AILogic = p.runStage(StageAILogic, func() *StageResult {
			meta, err := p.generator.Generate(root)
			if err != nil {
				return &StageResult{
					Stage:  StageAILogic,
					Status: StatusError,
					Issues: []Issue{{Message: err.Error(), Severity: "error"}},
				}
			}
			return logic.run(ctx, meta, reqs)
		})
	}

	report.OverallStatus = aggregate(report.Syntax, report.Test, report.AILogic)
	return report
}

// runStage times a stage and converts panics into an error-status result
// so the pipeline always completes.
func (p *Pipeline) runStage(name string, fn func() *StageResult) (result *StageResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("stage panicked",
				logger.FieldStage, name,
				logger.FieldError, fmt.Sprint(r))
			result = &StageResult{
				Stage:  name,
				Status: StatusError,
				Issues: []Issue{{
					Message:  fmt.Sprintf("unexpected error: %v", r),
					Severity: "error",
				}},
			}
		}
		result.DurationMS = time.Since(start).Milliseconds()
	}()
	return fn()
}

func (p *Pipeline) testTimeout() time.Duration {
	if p.cfg.TestTimeoutSeconds > 0 {
		return time.Duration(p.cfg.TestTimeoutSeconds) * time.Second
	}
	return 120 * time.Second
}

// mainLanguage resolves the dominant language for test-runner detection.
func (p *Pipeline) mainLanguage(root string) string {
	structure, err := p.detector.AnalyzeStructure(root)
	if err != nil {
		return ""
	}
	return structure.MainLanguage
}
