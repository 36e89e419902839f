// Package providers contains the built-in language providers.
package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/toolrun"
)

// Options configure the built-in providers.
type Options struct {
	// Runner executes syntax tools. nil disables tool checks and every
	// provider degrades to the heuristic.
	Runner *toolrun.Runner

	// ToolTimeout bounds each syntax tool invocation (default 15s).
	ToolTimeout time.Duration
}

func (o Options) toolTimeout() time.Duration {
	if o.ToolTimeout <= 0 {
		return 15 * time.Second
	}
	return o.ToolTimeout
}

// base carries the behavior shared by all built-in providers: identity,
// code extraction, syntax validation plumbing, and the prompt template.
type base struct {
	name            string
	displayName     string
	exts            []string
	commentPrefixes []string
	fenceTags       []string
	anchors         []string
	stdImports      []string

	runner      *toolrun.Runner
	toolTimeout time.Duration
	logger      *zap.SugaredLogger

	// syntaxArgv builds the tool command for checking a file on disk.
	// nil means no tool exists and the heuristic is always used.
	syntaxArgv func(path string) []string
}

func newBase(name, displayName string, opts Options) base {
	return base{
		name:        name,
		displayName: displayName,
		runner:      opts.Runner,
		toolTimeout: opts.toolTimeout(),
		logger:      logger.ComponentLogger("lang." + name),
	}
}

func (b *base) Name() string              { return b.name }
func (b *base) Extensions() []string      { return b.exts }
func (b *base) CommentPrefixes() []string { return b.commentPrefixes }
func (b *base) StandardImports() []string { return b.stdImports }

// ExtractCode pulls source out of an AI response: tagged fence, then any
// fence, then keyword-anchored raw text.
func (b *base) ExtractCode(aiText string) string {
	if code := lang.ExtractFenced(aiText, b.fenceTags...); code != "" {
		return code
	}
	return lang.ExtractAnchored(aiText, b.anchors)
}

// ValidateSyntax writes content to a scratch file, runs the language's
// syntax tool, and falls back to the balanced-delimiter heuristic when the
// tool is missing or times out.
func (b *base) ValidateSyntax(ctx context.Context, path string, content []byte) lang.SyntaxResult {
	if b.syntaxArgv != nil && b.runner != nil {
		if result, ran := b.runSyntaxTool(ctx, path, content); ran {
			return result
		}
	}
	return b.heuristicCheck(content)
}

func (b *base) runSyntaxTool(ctx context.Context, path string, content []byte) (lang.SyntaxResult, bool) {
	tmpDir, err := os.MkdirTemp("", "lingua-syntax-")
	if err != nil {
		b.logger.Warnw("cannot create scratch dir for syntax check", logger.FieldError, err.Error())
		return lang.SyntaxResult{}, false
	}
	defer os.RemoveAll(tmpDir)

	// Keep the original base name: some tools (javac) care about it
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "snippet" + b.exts[0]
	}
	tmpFile := filepath.Join(tmpDir, name)
	if err := os.WriteFile(tmpFile, content, 0o644); err != nil {
		b.logger.Warnw("cannot write scratch file for syntax check", logger.FieldError, err.Error())
		return lang.SyntaxResult{}, false
	}

	res := b.runner.Run(ctx, tmpDir, b.syntaxArgv(tmpFile), b.toolTimeout)
	if res.NotFound || res.TimedOut {
		reason := "tool not found"
		if res.TimedOut {
			reason = "tool timed out"
		}
		b.logger.Debugw("syntax tool unavailable, using heuristic",
			logger.FieldLanguage, b.name,
			"reason", reason)
		return lang.SyntaxResult{}, false
	}

	if res.ExitCode == 0 {
		return lang.SyntaxResult{Status: lang.SyntaxValid}, true
	}

	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	// Scratch paths leak into tool output; map them back to the real file
	detail = strings.ReplaceAll(detail, tmpFile, path)
	return lang.SyntaxResult{
		Status: lang.SyntaxInvalid,
		Detail: detail,
		Line:   parseToolLine(detail, path),
	}, true
}

// toolLinePatterns cover the common error-location formats: "file:LINE",
// python's `File "...", line N`, and a bare "line N".
var toolLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`, line (\d+)`),
	regexp.MustCompile(`:(\d+)(?::\d+)?\b`),
	regexp.MustCompile(`(?i)\bline (\d+)`),
}

// parseToolLine extracts the first line number a syntax tool reported,
// or 0 when the output carries none.
func parseToolLine(detail, path string) int {
	candidates := detail
	if idx := strings.Index(detail, path); idx >= 0 {
		candidates = detail[idx+len(path):]
	}
	for _, re := range toolLinePatterns {
		if m := re.FindStringSubmatch(candidates); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func (b *base) heuristicCheck(content []byte) lang.SyntaxResult {
	ok, line, detail := lang.CheckBalanced(string(content), b.commentPrefixes)
	if ok {
		return lang.SyntaxResult{
			Status:    lang.SyntaxValid,
			Detail:    "delimiter check only (no syntax tool available)",
			Heuristic: true,
		}
	}
	return lang.SyntaxResult{
		Status:    lang.SyntaxInvalid,
		Detail:    detail,
		Line:      line,
		Heuristic: true,
	}
}

// BuildCodePrompt renders the deterministic generation prompt. The template
// is shared across providers; only language identity and imports vary.
func (b *base) BuildCodePrompt(req requirements.Requirement, gctx lang.GenerationContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert %s developer. Implement the following requirement as production-quality %s code.\n\n",
		b.displayName, b.displayName)

	fmt.Fprintf(&sb, "Requirement %s", req.ID)
	if req.Name != "" {
		fmt.Fprintf(&sb, " (%s)", req.Name)
	}
	sb.WriteString(":\n")
	fmt.Fprintf(&sb, "%s\n", req.Description)

	if len(req.AcceptanceCriteria) > 0 {
		sb.WriteString("\nAcceptance criteria:\n")
		for _, c := range req.AcceptanceCriteria {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}

	if gctx.ProjectName != "" || gctx.ProjectType != "" {
		sb.WriteString("\nProject context:\n")
		if gctx.ProjectName != "" {
			fmt.Fprintf(&sb, "- Project: %s\n", gctx.ProjectName)
		}
		if gctx.ProjectType != "" {
			fmt.Fprintf(&sb, "- Type: %s\n", gctx.ProjectType)
		}
		if gctx.MainLanguage != "" {
			fmt.Fprintf(&sb, "- Main language: %s\n", gctx.MainLanguage)
		}
	}

	if len(gctx.ExistingFiles) > 0 {
		sb.WriteString("\nExisting files (do not duplicate):\n")
		for _, f := range gctx.ExistingFiles {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}

	if len(b.stdImports) > 0 {
		sb.WriteString("\nUse these standard imports where applicable:\n")
		for _, imp := range b.stdImports {
			fmt.Fprintf(&sb, "- %s\n", imp)
		}
	}

	if len(gctx.ValidationFeedback) > 0 {
		sb.WriteString("\nYour previous attempt failed validation with these errors:\n")
		for _, msg := range gctx.ValidationFeedback {
			fmt.Fprintf(&sb, "- %s\n", msg)
		}
		if gctx.PreviousCode != "" {
			fmt.Fprintf(&sb, "\nPrevious attempt:\n```%s\n%s\n```\n", b.fenceTags[0], strings.TrimRight(gctx.PreviousCode, "\n"))
		}
		sb.WriteString("\nFix every listed error in the new implementation.\n")
	}

	fmt.Fprintf(&sb, "\nRespond with a single fenced code block tagged `%s` containing the complete file. No explanations outside the block.\n",
		b.fenceTags[0])

	return sb.String()
}
