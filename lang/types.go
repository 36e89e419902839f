// Package lang defines the language provider contract and the registry that
// maps languages and file extensions to providers.
package lang

// FunctionInfo describes a top-level function or method found by a provider's
// best-effort parse.
type FunctionInfo struct {
	Name       string   `json:"name"`
	Signature  string   `json:"signature,omitempty"`
	Parameters []string `json:"parameters,omitempty"`
	ReturnType string   `json:"return_type,omitempty"`
	Line       int      `json:"line"`
	DocComment string   `json:"doc_comment,omitempty"`
}

// ClassInfo describes a class, struct, or type declaration.
type ClassInfo struct {
	Name    string   `json:"name"`
	Bases   []string `json:"bases,omitempty"`
	Methods []string `json:"methods,omitempty"`
	Line    int      `json:"line"`
}

// FileMetadata is the structural summary of a single source file.
// ParseFile never fails: when extraction is impossible the metadata degrades
// to raw line counts with empty structural lists and Degraded set.
type FileMetadata struct {
	Path         string         `json:"path"`
	Language     string         `json:"language"`
	CodeLines    int            `json:"code_lines"`
	TotalLines   int            `json:"total_lines"`
	CommentLines int            `json:"comment_lines"`
	SizeBytes    int            `json:"size_bytes"`
	Functions    []FunctionInfo `json:"functions"`
	Classes      []ClassInfo    `json:"classes"`
	Imports      []string       `json:"imports"`
	Constants    []string       `json:"constants"`
	Docstring    string         `json:"docstring,omitempty"`
	Degraded     bool           `json:"degraded,omitempty"`
}

// SyntaxStatus is the verdict of a syntax check.
type SyntaxStatus string

const (
	SyntaxValid   SyntaxStatus = "valid"
	SyntaxInvalid SyntaxStatus = "invalid"
)

// SyntaxResult carries the verdict plus how it was reached and any tool detail.
type SyntaxResult struct {
	Status SyntaxStatus
	// Detail holds tool output for invalid results, or a note when the
	// heuristic fallback was used.
	Detail string
	// Line is the failing line number for invalid results, 0 when unknown.
	Line int
	// Heuristic is true when no external tool could run and the verdict
	// came from the balanced-delimiter check.
	Heuristic bool
}

// GenerationContext carries project knowledge into prompt construction.
type GenerationContext struct {
	ProjectName  string
	ProjectType  string
	MainLanguage string
	OutputDir    string

	// ExistingFiles lists project-relative paths the model should not
	// duplicate.
	ExistingFiles []string

	// ValidationFeedback holds validator messages from the previous
	// attempt; a non-empty slice turns the prompt into a repair prompt.
	ValidationFeedback []string

	// PreviousCode is the rejected output of the previous attempt.
	PreviousCode string
}
