package lang

import (
	"context"

	"github.com/teranos/lingua/requirements"
)

// Provider implements language-specific behavior for one programming
// language. Implementations live in lang/providers.
//
// Providers must be stateless: the same inputs always produce the same
// outputs, and a single instance is shared across the whole pipeline.
type Provider interface {
	// Name returns the canonical lowercase language name ("python", "go").
	Name() string

	// Extensions returns the file extensions claimed by this language,
	// each with a leading dot, primary extension first.
	Extensions() []string

	// CommentPrefixes returns the line comment markers for the language.
	CommentPrefixes() []string

	// ParseFile extracts structural metadata from source content.
	// It never fails: on any internal error it returns metadata degraded
	// to raw line counts with empty structural lists.
	ParseFile(path string, content []byte) *FileMetadata

	// ValidateSyntax checks content with the language's external tool,
	// falling back to a balanced-delimiter heuristic when the tool is
	// missing or times out.
	ValidateSyntax(ctx context.Context, path string, content []byte) SyntaxResult

	// BuildCodePrompt renders the deterministic generation prompt for a
	// requirement.
	BuildCodePrompt(req requirements.Requirement, gctx GenerationContext) string

	// ExtractCode pulls source code out of an AI response: tagged fence
	// first, then untagged fence, then keyword-anchored raw text.
	ExtractCode(aiText string) string

	// BuildTestSkeleton renders a unit test skeleton for a function.
	BuildTestSkeleton(fn FunctionInfo, gctx GenerationContext) string

	// StandardImports returns the conventional import block for generated
	// files, in emission order.
	StandardImports() []string
}
