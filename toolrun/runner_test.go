package toolrun

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	r := NewRunner()

	res := r.Run(context.Background(), t.TempDir(), []string{"true"}, 5*time.Second)

	assert.True(t, res.Ok())
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.False(t, res.NotFound)
}

func TestRun_NonZeroExit(t *testing.T) {
	r := NewRunner()

	res := r.Run(context.Background(), t.TempDir(), []string{"false"}, 5*time.Second)

	assert.False(t, res.Ok())
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.NotFound)
}

func TestRun_NotFound(t *testing.T) {
	r := NewRunner()

	res := r.Run(context.Background(), t.TempDir(), []string{"definitely-not-a-real-binary-xyz"}, 5*time.Second)

	assert.True(t, res.NotFound)
	assert.False(t, res.Ok())
}

func TestRun_Timeout(t *testing.T) {
	r := NewRunner()

	res := r.Run(context.Background(), t.TempDir(), []string{"sleep", "10"}, 100*time.Millisecond)

	assert.True(t, res.TimedOut)
	assert.False(t, res.Ok())
}

func TestRun_CapturesOutput(t *testing.T) {
	r := NewRunner()

	res := r.Run(context.Background(), t.TempDir(), []string{"echo", "hello"}, 5*time.Second)

	require.True(t, res.Ok())
	assert.Contains(t, res.Stdout, "hello")
}

func TestRunCommand_Quoting(t *testing.T) {
	r := NewRunner()

	res, err := r.RunCommand(context.Background(), t.TempDir(), `echo "two words"`, 5*time.Second)

	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "two words")
}

func TestRunCommand_Invalid(t *testing.T) {
	r := NewRunner()

	_, err := r.RunCommand(context.Background(), t.TempDir(), `echo "unterminated`, 5*time.Second)
	assert.Error(t, err)

	_, err = r.RunCommand(context.Background(), t.TempDir(), "", 5*time.Second)
	assert.Error(t, err)
}

func TestParseTestCounts_Pytest(t *testing.T) {
	var tr TestResult
	parseTestCounts("..... 3 passed, 1 failed, 2 skipped in 0.42s", &tr)

	assert.Equal(t, 3, tr.Passed)
	assert.Equal(t, 1, tr.Failed)
	assert.Equal(t, 2, tr.Skipped)
}

func TestParseTestCounts_GoTest(t *testing.T) {
	output := `--- PASS: TestOne (0.00s)
--- PASS: TestTwo (0.00s)
--- FAIL: TestThree (0.01s)
FAIL`
	var tr TestResult
	parseTestCounts(output, &tr)

	assert.Equal(t, 2, tr.Passed)
	assert.Equal(t, 1, tr.Failed)
}

func TestParseTestCounts_Unittest(t *testing.T) {
	output := `Ran 5 tests in 0.003s

FAILED (failures=2)`
	var tr TestResult
	parseTestCounts(output, &tr)

	assert.Equal(t, 3, tr.Passed)
	assert.Equal(t, 2, tr.Failed)
}

func TestNoTestsRan(t *testing.T) {
	assert.True(t, noTestsRan("no tests ran in 0.01s", TestResult{}))
	assert.True(t, noTestsRan("Ran 0 tests in 0.000s", TestResult{}))
	assert.False(t, noTestsRan("1 passed", TestResult{Passed: 1}))
}

func TestTestRunner_ConfiguredCommand(t *testing.T) {
	tr := NewTestRunner(NewRunner())
	tr.Command = "echo ok"

	argv := tr.DetectCommand(t.TempDir(), "python")
	assert.Equal(t, []string{"echo", "ok"}, argv)
}
