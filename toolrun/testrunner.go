package toolrun

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/lingua/logger"
)

// TestOutcome is the runner-level verdict of a test execution.
type TestOutcome string

const (
	TestPassed  TestOutcome = "passed"
	TestFailed  TestOutcome = "failed"
	TestErrored TestOutcome = "error"   // runner crashed or could not start
	TestSkipped TestOutcome = "skipped" // no runner or no tests found
)

// TestResult captures a test runner invocation with parsed counts.
type TestResult struct {
	Outcome  TestOutcome
	Passed   int
	Failed   int
	Skipped  int
	Output   string
	Command  []string
	Duration time.Duration
}

// TestRunner detects and executes the project's test command.
type TestRunner struct {
	runner *Runner
	logger *zap.SugaredLogger

	// Command overrides auto-detection when set (shell-style string).
	Command string
}

// NewTestRunner creates a test runner on top of the given tool runner.
func NewTestRunner(runner *Runner) *TestRunner {
	return &TestRunner{
		runner: runner,
		logger: logger.ComponentLogger("toolrun.tests"),
	}
}

// DetectCommand picks a test command for the project directory and its main
// language. Returns nil when no suitable runner is available.
func (t *TestRunner) DetectCommand(dir, language string) []string {
	if t.Command != "" {
		if argv, err := splitConfigured(t.Command); err == nil {
			return argv
		}
		t.logger.Warnw("ignoring unparseable test command", "command", t.Command)
	}

	switch language {
	case "python":
		if Available("pytest") {
			return []string{"pytest", "--tb=short", "-q"}
		}
		if Available("python3") {
			return []string{"python3", "-m", "unittest", "discover", "-v"}
		}
	case "go":
		if Available("go") {
			return []string{"go", "test", "./..."}
		}
	case "javascript", "typescript":
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil && Available("npm") {
			return []string{"npm", "test", "--silent"}
		}
	}
	return nil
}

// Run executes the detected test command and parses its output.
func (t *TestRunner) Run(ctx context.Context, dir, language string, timeout time.Duration) TestResult {
	argv := t.DetectCommand(dir, language)
	if argv == nil {
		t.logger.Infow("no test runner available", logger.FieldLanguage, language)
		return TestResult{Outcome: TestSkipped}
	}

	res := t.runner.Run(ctx, dir, argv, timeout)
	tr := TestResult{
		Output:   res.Stdout + res.Stderr,
		Command:  argv,
		Duration: res.Duration,
	}

	switch {
	case res.NotFound:
		tr.Outcome = TestSkipped
	case res.TimedOut:
		tr.Outcome = TestErrored
	default:
		parseTestCounts(tr.Output, &tr)
		switch {
		case noTestsRan(tr.Output, tr):
			tr.Outcome = TestSkipped
		case res.ExitCode == 0:
			tr.Outcome = TestPassed
		case tr.Failed > 0:
			tr.Outcome = TestFailed
		default:
			// Non-zero exit without parseable failures: collection or
			// runner error
			tr.Outcome = TestErrored
		}
	}

	t.logger.Infow("test run finished",
		"outcome", string(tr.Outcome),
		"passed", tr.Passed,
		"failed", tr.Failed,
		logger.FieldDurationMS, tr.Duration.Milliseconds())
	return tr
}

var (
	pytestCountRe = regexp.MustCompile(`(\d+) (passed|failed|skipped|error(?:s)?)`)
	goFailRe      = regexp.MustCompile(`(?m)^--- FAIL`)
	goPassRe      = regexp.MustCompile(`(?m)^--- PASS`)
	unittestRanRe = regexp.MustCompile(`Ran (\d+) tests?`)
	unittestBadRe = regexp.MustCompile(`failures=(\d+)`)
)

// parseTestCounts extracts pass/fail/skip counts from common runner output.
// Unrecognized output leaves counts at zero; the exit code still decides
// the outcome.
func parseTestCounts(output string, tr *TestResult) {
	// pytest style: "3 passed, 1 failed, 2 skipped in 0.42s"
	for _, m := range pytestCountRe.FindAllStringSubmatch(output, -1) {
		n, _ := strconv.Atoi(m[1])
		switch {
		case m[2] == "passed":
			tr.Passed = n
		case m[2] == "failed":
			tr.Failed = n
		case m[2] == "skipped":
			tr.Skipped = n
		}
	}

	// go test style: verbose "--- PASS"/"--- FAIL" markers
	if fails := len(goFailRe.FindAllString(output, -1)); fails > 0 {
		tr.Failed = fails
	}
	if passes := len(goPassRe.FindAllString(output, -1)); passes > 0 {
		tr.Passed = passes
	}

	// unittest style: "Ran 5 tests" + "FAILED (failures=2)"
	if m := unittestRanRe.FindStringSubmatch(output); m != nil {
		total, _ := strconv.Atoi(m[1])
		failed := 0
		if fm := unittestBadRe.FindStringSubmatch(output); fm != nil {
			failed, _ = strconv.Atoi(fm[1])
		}
		tr.Failed = failed
		tr.Passed = total - failed
	}
}

// noTestsRan detects empty test suites across runner styles.
func noTestsRan(output string, tr TestResult) bool {
	if tr.Passed > 0 || tr.Failed > 0 {
		return false
	}
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no tests ran") ||
		strings.Contains(lower, "ran 0 tests") ||
		strings.Contains(lower, "no test files")
}

func splitConfigured(command string) ([]string, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, os.ErrInvalid
	}
	return argv, nil
}
