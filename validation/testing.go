package validation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/internal/util"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/toolrun"
)

// testStage delegates to the project's test runner and mirrors its verdict.
type testStage struct {
	runner  *toolrun.TestRunner
	timeout time.Duration
	logger  *zap.SugaredLogger
}

func (s *testStage) run(ctx context.Context, root, language string) *StageResult {
	result := &StageResult{
		Stage:    StageTest,
		Metadata: map[string]interface{}{},
	}

	tr := s.runner.Run(ctx, root, language, s.timeout)

	result.Metadata["passed"] = tr.Passed
	result.Metadata["failed"] = tr.Failed
	result.Metadata["skipped"] = tr.Skipped
	if len(tr.Command) > 0 {
		result.Metadata["command"] = strings.Join(tr.Command, " ")
	}

	switch tr.Outcome {
	case toolrun.TestPassed:
		result.Status = StatusValid
	case toolrun.TestSkipped:
		result.Status = StatusValid
		result.Metadata["skipped_run"] = true
		s.logger.Infow("no tests to run", logger.FieldLanguage, language)
	case toolrun.TestFailed:
		result.Status = StatusInvalid
		result.Issues = append(result.Issues, Issue{
			Message:  testFailureMessage(tr),
			Severity: "error",
		})
	case toolrun.TestErrored:
		result.Status = StatusError
		result.Issues = append(result.Issues, Issue{
			Message:  "test runner error: " + util.Truncate(strings.TrimSpace(tr.Output), 500),
			Severity: "error",
		})
	}

	return result
}

func testFailureMessage(tr toolrun.TestResult) string {
	var b strings.Builder
	b.WriteString("tests failed")
	if tr.Failed > 0 {
		b.WriteString(": ")
		b.WriteString(util.Truncate(strings.TrimSpace(tr.Output), 1000))
	}
	return b.String()
}
