package validation

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/requirements"
)

// Verdicts the AI-logic stage recognizes.
const (
	VerdictSupported    = "supported"
	VerdictContradicted = "contradicted"
	VerdictUncertain    = "uncertain"
)

// Digest caps keep the prompt bounded on large projects.
const (
	digestMaxFiles   = 10
	digestMaxMembers = 5
)

// Finding is one requirement's verdict from the AI-logic stage.
type Finding struct {
	RequirementID string `json:"requirement_id"`
	Verdict       string `json:"verdict"`
	Rationale     string `json:"rationale"`
}

// verdictRe matches "<id>: <verdict> - <rationale>" response lines.
var verdictRe = regexp.MustCompile(`(?mi)^\s*([^\s:]+)\s*:\s*(supported|contradicted|uncertain)\s*-\s*(.+)$`)

// aiLogicStage checks the project's structure against its requirements
// with a single AI call.
type aiLogicStage struct {
	client ai.Client
	logger *zap.SugaredLogger
}

func (s *aiLogicStage) run(ctx context.Context, meta *metadata.ProjectMetadata, reqs []requirements.Requirement) *StageResult {
	result := &StageResult{
		Stage:    StageAILogic,
		Metadata: map[string]interface{}{},
	}

	prompt := buildLogicPrompt(meta, reqs)
	completion, err := s.client.Complete(ctx, ai.UserMessage(logicSystemPrompt, prompt, 0, nil))
	if err != nil {
		s.logger.Errorw("ai logic check failed", logger.FieldError, err.Error())
		result.Status = StatusError
		result.Issues = append(result.Issues, Issue{
			Message:  "ai analysis failed: " + err.Error(),
			Severity: "error",
		})
		return result
	}

	findings := parseFindings(completion.Text, reqs)

	contradicted := 0
	uncertain := 0
	for _, f := range findings {
		switch f.Verdict {
		case VerdictContradicted:
			contradicted++
			result.Issues = append(result.Issues, Issue{
				Message:  fmt.Sprintf("%s contradicted: %s", f.RequirementID, f.Rationale),
				Severity: "error",
			})
		case VerdictUncertain:
			uncertain++
			result.Issues = append(result.Issues, Issue{
				Message:  fmt.Sprintf("%s uncertain: %s", f.RequirementID, f.Rationale),
				Severity: "warning",
			})
		}
	}

	switch {
	case contradicted > 0:
		result.Status = StatusInvalid
	case uncertain > 0:
		result.Status = StatusWarning
	default:
		result.Status = StatusValid
	}

	result.Metadata["findings"] = findings
	result.Metadata["raw_response"] = completion.Text
	result.Metadata["model"] = completion.Model
	result.Metadata["tokens"] = completion.Usage.TotalTokens

	s.logger.Infow("ai logic stage complete",
		logger.FieldStatus, string(result.Status),
		logger.FieldCount, len(findings),
		logger.FieldTokens, completion.Usage.TotalTokens)

	return result
}

const logicSystemPrompt = `You are a code reviewer checking whether a codebase implements its requirements.
For every requirement, answer with exactly one line in the form:
<requirement-id>: <verdict> - <rationale>
where <verdict> is one of: supported, contradicted, uncertain.`

// buildLogicPrompt renders all requirements plus a size-capped digest of
// the project's structure.
func buildLogicPrompt(meta *metadata.ProjectMetadata, reqs []requirements.Requirement) string {
	var b strings.Builder

	b.WriteString("Requirements:\n")
	for _, req := range reqs {
		fmt.Fprintf(&b, "- %s: %s", req.ID, req.Description)
		if len(req.AcceptanceCriteria) > 0 {
			fmt.Fprintf(&b, " (acceptance: %s)", strings.Join(req.AcceptanceCriteria, "; "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nCodebase: %s (%s, main language %s, %d files)\n",
		meta.ProjectName, meta.ProjectType, meta.MainLanguage, meta.TotalFiles)

	files := digestFiles(meta)
	for _, f := range files {
		fmt.Fprintf(&b, "\nFile %s (%s, %d lines)\n", f.Path, f.Language, f.CodeLines)
		for i, fn := range f.Functions {
			if i >= digestMaxMembers {
				fmt.Fprintf(&b, "  ... and %d more functions\n", len(f.Functions)-digestMaxMembers)
				break
			}
			fmt.Fprintf(&b, "  func %s(%s)\n", fn.Name, strings.Join(fn.Parameters, ", "))
		}
		for i, cls := range f.Classes {
			if i >= digestMaxMembers {
				fmt.Fprintf(&b, "  ... and %d more classes\n", len(f.Classes)-digestMaxMembers)
				break
			}
			fmt.Fprintf(&b, "  class %s [%s]\n", cls.Name, strings.Join(cls.Methods, ", "))
		}
	}
	if meta.TotalFiles > len(files) {
		fmt.Fprintf(&b, "\n... and %d more files\n", meta.TotalFiles-len(files))
	}

	b.WriteString("\nAnswer one line per requirement id.\n")
	return b.String()
}

// digestFiles picks the largest files up to the digest cap, ordered by
// code lines so the most substantial code is what the model sees.
func digestFiles(meta *metadata.ProjectMetadata) []lang.FileMetadata {
	files := make([]lang.FileMetadata, len(meta.Files))
	copy(files, meta.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CodeLines > files[j].CodeLines
	})
	if len(files) > digestMaxFiles {
		files = files[:digestMaxFiles]
	}
	return files
}

// parseFindings maps response lines to per-requirement findings. Every
// requirement gets exactly one finding; requirements the model did not
// mention default to uncertain.
func parseFindings(response string, reqs []requirements.Requirement) []Finding {
	byID := make(map[string]Finding)
	for _, m := range verdictRe.FindAllStringSubmatch(response, -1) {
		id := m[1]
		if _, seen := byID[id]; seen {
			continue // first line wins
		}
		byID[id] = Finding{
			RequirementID: id,
			Verdict:       strings.ToLower(m[2]),
			Rationale:     strings.TrimSpace(m[3]),
		}
	}

	findings := make([]Finding, 0, len(reqs))
	for _, req := range reqs {
		if f, ok := byID[req.ID]; ok {
			findings = append(findings, f)
			continue
		}
		findings = append(findings, Finding{
			RequirementID: req.ID,
			Verdict:       VerdictUncertain,
			Rationale:     "no analysis provided",
		})
	}
	return findings
}
