package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/lang/providers"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/toolrun"
)

// mockClient returns a canned response or error for the AI-logic stage.
type mockClient struct {
	response string
	err      error
	prompts  []string
}

func (m *mockClient) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	for _, msg := range req.Messages {
		m.prompts = append(m.prompts, msg.Content)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &ai.Completion{Text: m.response, Usage: ai.Usage{TotalTokens: 42}}, nil
}

func (m *mockClient) ModelName() string { return "mock" }

type fixture struct {
	root     string
	pipeline *Pipeline
	client   *mockClient
}

func newFixture(t *testing.T, cfg config.ValidationConfig, client *mockClient) *fixture {
	t.Helper()
	registry := providers.NewDefaultRegistry(providers.Options{})
	detector := detect.NewDetector(registry, nil)
	generator := metadata.NewGenerator(detector, registry)
	testRunner := toolrun.NewTestRunner(toolrun.NewRunner())

	var aiClient ai.Client
	if client != nil {
		aiClient = client
	}
	return &fixture{
		root:     t.TempDir(),
		pipeline: NewPipeline(detector, registry, generator, testRunner, aiClient, cfg),
		client:   client,
	}
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunMalformedFileFailsSyntax(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipTests: true, SkipAI: true}, nil)
	f.write(t, "bad.py", "def f(:\n    pass\n")

	report := f.pipeline.Run(context.Background(), f.root, nil)

	require.NotNil(t, report.Syntax)
	assert.Equal(t, StatusInvalid, report.Syntax.Status)
	require.Len(t, report.Syntax.Issues, 1)
	assert.Equal(t, "bad.py", report.Syntax.Issues[0].File)
	assert.Equal(t, 1, report.Syntax.Issues[0].Line)
	assert.Equal(t, OverallFailed, report.OverallStatus)
	assert.False(t, report.IsValid())
}

func TestRunSyntaxIssueCarriesLineNumber(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipTests: true, SkipAI: true}, nil)
	f.write(t, "bad.py", "x = 1\ny = (2\n")

	report := f.pipeline.Run(context.Background(), f.root, nil)

	require.NotNil(t, report.Syntax)
	require.Len(t, report.Syntax.Issues, 1)
	assert.Equal(t, "bad.py", report.Syntax.Issues[0].File)
	assert.Equal(t, 2, report.Syntax.Issues[0].Line)
}

func TestRunEmptyProjectPasses(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipTests: true, SkipAI: true}, nil)

	report := f.pipeline.Run(context.Background(), f.root, nil)

	require.NotNil(t, report.Syntax)
	assert.Equal(t, StatusValid, report.Syntax.Status)
	assert.Equal(t, 0, report.Syntax.Metadata["files_checked"])
	assert.Equal(t, OverallPassed, report.OverallStatus)
	assert.True(t, report.IsValid())
}

func TestRunShortCircuitSkipsLaterStages(t *testing.T) {
	client := &mockClient{response: "REQ-1: supported - fine"}
	f := newFixture(t, config.ValidationConfig{StopOnFirstError: true}, client)
	f.write(t, "broken.py", "def f():\n    x = [1, 2\n")

	reqs := []requirements.Requirement{{ID: "REQ-1", Description: "adds numbers", Status: "new"}}
	report := f.pipeline.Run(context.Background(), f.root, reqs)

	assert.Equal(t, OverallFailed, report.OverallStatus)
	require.NotNil(t, report.Syntax)
	assert.Equal(t, StatusInvalid, report.Syntax.Status)
	assert.Nil(t, report.Test, "short-circuited stage must be absent")
	assert.Nil(t, report.AILogic, "short-circuited stage must be absent")
	assert.Empty(t, client.prompts, "no AI call after short-circuit")
}

func TestRunSyntaxIdempotent(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipTests: true, SkipAI: true}, nil)
	f.write(t, "a.py", "def ok():\n    return 1\n")
	f.write(t, "b.py", "def broken(:\n")

	first := f.pipeline.Run(context.Background(), f.root, nil)
	second := f.pipeline.Run(context.Background(), f.root, nil)

	assert.Equal(t, first.Syntax.Status, second.Syntax.Status)
	assert.Equal(t, len(first.Syntax.Issues), len(second.Syntax.Issues))
	assert.Equal(t, first.OverallStatus, second.OverallStatus)
}

func TestRunAILogicVerdicts(t *testing.T) {
	client := &mockClient{response: "REQ-1: supported - matches add()"}
	f := newFixture(t, config.ValidationConfig{SkipTests: true}, client)
	f.write(t, "calc.py", "def add(a, b):\n    return a + b\n")

	reqs := []requirements.Requirement{
		{ID: "REQ-1", Description: "adds two numbers", Status: "new"},
		{ID: "REQ-2", Description: "subtracts two numbers", Status: "new"},
	}
	report := f.pipeline.Run(context.Background(), f.root, reqs)

	require.NotNil(t, report.AILogic)
	findings, ok := report.AILogic.Metadata["findings"].([]Finding)
	require.True(t, ok)
	require.Len(t, findings, 2)

	assert.Equal(t, VerdictSupported, findings[0].Verdict)
	assert.Equal(t, "matches add()", findings[0].Rationale)
	assert.Equal(t, VerdictUncertain, findings[1].Verdict)
	assert.Equal(t, "no analysis provided", findings[1].Rationale)

	// the uncertain finding downgrades the run to warnings
	assert.Equal(t, StatusWarning, report.AILogic.Status)
	assert.Equal(t, OverallWarnings, report.OverallStatus)
}

func TestRunAILogicContradicted(t *testing.T) {
	client := &mockClient{response: "REQ-1: contradicted - add() multiplies instead"}
	f := newFixture(t, config.ValidationConfig{SkipTests: true}, client)
	f.write(t, "calc.py", "def add(a, b):\n    return a * b\n")

	reqs := []requirements.Requirement{{ID: "REQ-1", Description: "adds two numbers", Status: "new"}}
	report := f.pipeline.Run(context.Background(), f.root, reqs)

	require.NotNil(t, report.AILogic)
	assert.Equal(t, StatusInvalid, report.AILogic.Status)
	assert.Equal(t, OverallFailed, report.OverallStatus)
}

func TestRunAIServiceErrorBecomesStageError(t *testing.T) {
	client := &mockClient{err: errors.Wrap(errors.ErrAIService, "quota exhausted")}
	f := newFixture(t, config.ValidationConfig{SkipTests: true}, client)
	f.write(t, "a.py", "x = 1\n")

	reqs := []requirements.Requirement{{ID: "REQ-1", Description: "does things", Status: "new"}}
	report := f.pipeline.Run(context.Background(), f.root, reqs)

	require.NotNil(t, report.AILogic)
	assert.Equal(t, StatusError, report.AILogic.Status)
	require.Len(t, report.AILogic.Issues, 1)
	// errored stage: not failed, but not clean either
	assert.Equal(t, OverallWarnings, report.OverallStatus)
	assert.False(t, report.IsValid())
}

func TestRunAISkippedWithoutRequirements(t *testing.T) {
	client := &mockClient{response: "unused"}
	f := newFixture(t, config.ValidationConfig{SkipTests: true}, client)
	f.write(t, "a.py", "x = 1\n")

	report := f.pipeline.Run(context.Background(), f.root, nil)

	assert.Nil(t, report.AILogic)
	assert.Empty(t, client.prompts)
	assert.Equal(t, OverallPassed, report.OverallStatus)
}

func TestRunTestStageFailure(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipAI: true}, nil)
	f.pipeline.testRunner.Command = `sh -c "echo '2 passed, 1 failed'; exit 1"`
	f.write(t, "a.py", "x = 1\n")

	report := f.pipeline.Run(context.Background(), f.root, nil)

	require.NotNil(t, report.Test)
	assert.Equal(t, StatusInvalid, report.Test.Status)
	assert.Equal(t, 1, report.Test.Metadata["failed"])
	assert.Equal(t, OverallFailed, report.OverallStatus)
}

func TestRunTestStagePassing(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{SkipAI: true}, nil)
	f.pipeline.testRunner.Command = `sh -c "echo '3 passed'"`
	f.write(t, "a.py", "x = 1\n")

	report := f.pipeline.Run(context.Background(), f.root, nil)

	require.NotNil(t, report.Test)
	assert.Equal(t, StatusValid, report.Test.Status)
	assert.Equal(t, OverallPassed, report.OverallStatus)
}

func TestAggregate(t *testing.T) {
	valid := func(stage string) *StageResult { return &StageResult{Stage: stage, Status: StatusValid} }
	invalid := func(stage string) *StageResult { return &StageResult{Stage: stage, Status: StatusInvalid} }

	tests := []struct {
		name    string
		syntax  *StageResult
		test    *StageResult
		ailogic *StageResult
		want    string
	}{
		{"all valid", valid(StageSyntax), valid(StageTest), valid(StageAILogic), OverallPassed},
		{"syntax invalid", invalid(StageSyntax), nil, nil, OverallFailed},
		{"test invalid", valid(StageSyntax), invalid(StageTest), nil, OverallFailed},
		{"ai invalid", valid(StageSyntax), valid(StageTest), invalid(StageAILogic), OverallFailed},
		{"only syntax, absent others", valid(StageSyntax), nil, nil, OverallPassed},
		{
			"ai warning",
			valid(StageSyntax), nil,
			&StageResult{Stage: StageAILogic, Status: StatusWarning},
			OverallWarnings,
		},
		{
			"syntax issues without invalid status",
			&StageResult{Stage: StageSyntax, Status: StatusError, Issues: []Issue{{Message: "unreadable"}}},
			nil, nil,
			OverallWarnings,
		},
		{
			"test failures with clean verdict",
			valid(StageSyntax),
			&StageResult{Stage: StageTest, Status: StatusValid, Metadata: map[string]interface{}{"failed": 2}},
			nil,
			OverallWarnings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(tt.syntax, tt.test, tt.ailogic))
		})
	}
}

func TestParseFindings(t *testing.T) {
	reqs := []requirements.Requirement{
		{ID: "REQ-1"}, {ID: "REQ-2"}, {ID: "REQ-3"},
	}
	response := `Let me analyze each requirement.

REQ-1: supported - add() implements this directly
REQ-2: CONTRADICTED - the subtract function adds instead
Some commentary in between.
REQ-1: contradicted - duplicate line must be ignored
`

	findings := parseFindings(response, reqs)
	require.Len(t, findings, 3)

	assert.Equal(t, VerdictSupported, findings[0].Verdict)
	assert.Equal(t, VerdictContradicted, findings[1].Verdict)
	assert.Equal(t, "the subtract function adds instead", findings[1].Rationale)
	assert.Equal(t, VerdictUncertain, findings[2].Verdict)
	assert.Equal(t, "no analysis provided", findings[2].Rationale)
}

func TestBuildLogicPromptCapsDigest(t *testing.T) {
	meta := &metadata.ProjectMetadata{
		ProjectName:  "big",
		ProjectType:  "python",
		MainLanguage: "python",
		TotalFiles:   15,
	}
	for i := 0; i < 15; i++ {
		meta.Files = append(meta.Files, fileWithFunctions(i))
	}

	prompt := buildLogicPrompt(meta, []requirements.Requirement{{ID: "REQ-1", Description: "does x"}})

	assert.Contains(t, prompt, "REQ-1: does x")
	assert.Contains(t, prompt, "... and 5 more files")
	assert.Contains(t, prompt, "... and 3 more functions")
}

// fileWithFunctions builds a digest fixture with more functions than the
// per-file cap.
func fileWithFunctions(i int) lang.FileMetadata {
	f := lang.FileMetadata{
		Path:      fmt.Sprintf("file%02d.py", i),
		Language:  "python",
		CodeLines: 100 - i,
	}
	for j := 0; j < 8; j++ {
		f.Functions = append(f.Functions, lang.FunctionInfo{Name: fmt.Sprintf("fn%d", j)})
	}
	return f
}

func TestRunStagePanicRecovery(t *testing.T) {
	f := newFixture(t, config.ValidationConfig{}, nil)

	result := f.pipeline.runStage("syntax", func() *StageResult {
		panic("boom")
	})

	assert.Equal(t, StatusError, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "boom")
}
