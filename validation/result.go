// Package validation runs the syntax, test, and AI-logic stages over a
// project and aggregates their results.
package validation

import (
	"time"
)

// Stage names, in execution order.
const (
	StageSyntax  = "syntax"
	StageTest    = "test"
	StageAILogic = "ai_logic"
)

// Status is a per-stage verdict.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// Overall statuses for a full pipeline run.
const (
	OverallPassed   = "passed"
	OverallFailed   = "failed"
	OverallWarnings = "warnings"
)

// Issue is one finding inside a stage.
type Issue struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning, info
}

// StageResult is the immutable outcome of one stage.
type StageResult struct {
	Stage      string                 `json:"stage"`
	Status     Status                 `json:"status"`
	Issues     []Issue                `json:"issues,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Report is the aggregate of a pipeline run. Short-circuited stages are
// nil, not empty successes.
type Report struct {
	OverallStatus string       `json:"overall_status"`
	Syntax        *StageResult `json:"syntax,omitempty"`
	Test          *StageResult `json:"test,omitempty"`
	AILogic       *StageResult `json:"ai_logic,omitempty"`
	DurationMS    int64        `json:"duration_ms"`
	Timestamp     time.Time    `json:"timestamp"`
}

// IsValid reports whether no stage ended invalid or errored. Warnings do
// not affect validity.
func (r *Report) IsValid() bool {
	for _, stage := range []*StageResult{r.Syntax, r.Test, r.AILogic} {
		if stage != nil && (stage.Status == StatusInvalid || stage.Status == StatusError) {
			return false
		}
	}
	return true
}

// Stages returns the non-nil stage results in execution order.
func (r *Report) Stages() []*StageResult {
	var stages []*StageResult
	for _, stage := range []*StageResult{r.Syntax, r.Test, r.AILogic} {
		if stage != nil {
			stages = append(stages, stage)
		}
	}
	return stages
}

// TotalIssues counts issues across present stages.
func (r *Report) TotalIssues() int {
	n := 0
	for _, stage := range r.Stages() {
		n += len(stage.Issues)
	}
	return n
}

// aggregate recomputes the overall status from stage results. A nil
// stage contributes nothing.
func aggregate(syntax, test, ailogic *StageResult) string {
	failed := stageHasStatus(syntax, StatusInvalid) ||
		stageHasStatus(test, StatusInvalid) ||
		stageHasStatus(ailogic, StatusInvalid)
	if failed {
		return OverallFailed
	}

	warnings := stageHasIssues(syntax) ||
		stageHasStatus(ailogic, StatusWarning) ||
		testFailuresWithoutFailedVerdict(test) ||
		stageHasStatus(syntax, StatusError) ||
		stageHasStatus(test, StatusError) ||
		stageHasStatus(ailogic, StatusError)
	if warnings {
		return OverallWarnings
	}
	return OverallPassed
}

func stageHasStatus(stage *StageResult, status Status) bool {
	return stage != nil && stage.Status == status
}

func stageHasIssues(stage *StageResult) bool {
	return stage != nil && len(stage.Issues) > 0
}

// testFailuresWithoutFailedVerdict catches runners that report failure
// counts while still exiting clean.
func testFailuresWithoutFailedVerdict(test *StageResult) bool {
	if test == nil || test.Status == StatusInvalid {
		return false
	}
	failedCount, ok := test.Metadata["failed"].(int)
	return ok && failedCount > 0
}
