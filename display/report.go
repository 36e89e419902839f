package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/generate"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/state"
	"github.com/teranos/lingua/validation"
)

// maxIssuesShown caps per-stage issue output in human reports.
const maxIssuesShown = 3

// RenderValidationReport prints a human-readable validation summary.
func RenderValidationReport(report *validation.Report) {
	switch report.OverallStatus {
	case validation.OverallPassed:
		pterm.Success.Println("validation passed")
	case validation.OverallWarnings:
		pterm.Warning.Println("validation passed with warnings")
	default:
		pterm.Error.Println("validation failed")
	}

	rows := pterm.TableData{{"Stage", "Status", "Issues", "Duration"}}
	for _, stage := range report.Stages() {
		rows = append(rows, []string{
			stage.Stage,
			statusLabel(stage.Status),
			fmt.Sprint(len(stage.Issues)),
			fmt.Sprintf("%dms", stage.DurationMS),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	for _, stage := range report.Stages() {
		renderStageIssues(stage)
	}
}

func renderStageIssues(stage *validation.StageResult) {
	if len(stage.Issues) == 0 {
		return
	}

	pterm.DefaultSection.Println(stage.Stage + " issues")
	for i, issue := range stage.Issues {
		if i >= maxIssuesShown {
			pterm.Info.Printfln("... and %d more", len(stage.Issues)-maxIssuesShown)
			break
		}
		loc := issue.File
		if issue.Line > 0 {
			loc = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		}
		if loc != "" {
			pterm.Printfln("  %s  %s", pterm.Gray(loc), issue.Message)
		} else {
			pterm.Printfln("  %s", issue.Message)
		}
	}
}

func statusLabel(status validation.Status) string {
	switch status {
	case validation.StatusValid:
		return pterm.Green(string(status))
	case validation.StatusWarning:
		return pterm.Yellow(string(status))
	default:
		return pterm.Red(string(status))
	}
}

// RenderGenerationResult prints a human-readable generation summary.
func RenderGenerationResult(result *generate.Result) {
	if result.Failed == 0 {
		pterm.Success.Printfln("implemented %d requirement(s) in %s", result.Implemented, result.Language)
	} else {
		pterm.Warning.Printfln("implemented %d requirement(s), %d failed", result.Implemented, result.Failed)
	}

	for _, f := range result.GeneratedFiles {
		pterm.Printfln("  %s %s", pterm.Green("+"), f)
	}
	for _, f := range result.TestFiles {
		pterm.Printfln("  %s %s", pterm.Cyan("+"), f)
	}

	for i, e := range result.Errors {
		if i >= maxIssuesShown {
			pterm.Info.Printfln("... and %d more errors", len(result.Errors)-maxIssuesShown)
			break
		}
		pterm.Error.Printfln("  %s", e)
	}

	pterm.Info.Printfln("run %s: %d tokens, %dms", result.RunID, result.TokensUsed, result.DurationMS)
}

// RenderProjectMetadata prints a per-language project summary.
func RenderProjectMetadata(meta *metadata.ProjectMetadata) {
	pterm.DefaultSection.Printfln("%s (%s)", meta.ProjectName, meta.ProjectType)
	pterm.Printfln("main language: %s, %d files, %d lines", meta.MainLanguage, meta.TotalFiles, meta.TotalLines)

	languages := make([]string, 0, len(meta.Languages))
	for name := range meta.Languages {
		languages = append(languages, name)
	}
	sort.Strings(languages)

	rows := pterm.TableData{{"Language", "Files", "Lines", "Bytes"}}
	for _, name := range languages {
		s := meta.Languages[name]
		rows = append(rows, []string{
			name,
			fmt.Sprint(s.Files),
			fmt.Sprint(s.CodeLines),
			fmt.Sprint(s.SizeBytes),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// RenderProjectStructure prints the analyze-time view of a project.
func RenderProjectStructure(structure *detect.ProjectStructure) {
	pterm.DefaultSection.Printfln("%s (%s)", structure.Root, structure.ProjectType)
	pterm.Printfln("main language: %s, %d files, %d lines",
		structure.MainLanguage, structure.TotalFiles, structure.TotalLines)

	languages := make([]string, 0, len(structure.Languages))
	for name := range structure.Languages {
		languages = append(languages, name)
	}
	sort.Strings(languages)

	rows := pterm.TableData{{"Language", "Files", "Lines"}}
	for _, name := range languages {
		s := structure.Languages[name]
		rows = append(rows, []string{name, fmt.Sprint(s.FileCount), fmt.Sprint(s.CodeLines)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// RenderStatusSummary prints the latest run plus recent aggregates.
func RenderStatusSummary(summary *state.StatusSummary) {
	if summary.Latest == nil {
		pterm.Info.Println("no pipeline runs recorded")
		return
	}

	pterm.DefaultSection.Println("latest run")
	pterm.Printfln("  %s %s (%s)",
		summary.Latest.Operation,
		statusWord(summary.Latest.Status),
		summary.Latest.Timestamp.Format("2006-01-02 15:04:05"))

	statuses := make([]string, 0, len(summary.Counts))
	for status := range summary.Counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%d %s", summary.Counts[status], status))
	}
	pterm.Printfln("last %d runs: %s (%d retained)", summary.Recent, strings.Join(parts, ", "), summary.Total)
}

func statusWord(status string) string {
	switch status {
	case "passed", "completed":
		return pterm.Green(status)
	case "warnings":
		return pterm.Yellow(status)
	default:
		return pterm.Red(status)
	}
}
