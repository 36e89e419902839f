package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/lingua/requirements"
)

// mockProvider implements Provider for registry tests.
type mockProvider struct {
	name string
	exts []string
}

func (m *mockProvider) Name() string              { return m.name }
func (m *mockProvider) Extensions() []string      { return m.exts }
func (m *mockProvider) CommentPrefixes() []string { return []string{"//"} }
func (m *mockProvider) ParseFile(path string, content []byte) *FileMetadata {
	return &FileMetadata{Path: path, Language: m.name}
}
func (m *mockProvider) ValidateSyntax(ctx context.Context, path string, content []byte) SyntaxResult {
	return SyntaxResult{Status: SyntaxValid}
}
func (m *mockProvider) BuildCodePrompt(req requirements.Requirement, gctx GenerationContext) string {
	return req.ID
}
func (m *mockProvider) ExtractCode(aiText string) string { return aiText }
func (m *mockProvider) BuildTestSkeleton(fn FunctionInfo, gctx GenerationContext) string {
	return fn.Name
}
func (m *mockProvider) StandardImports() []string { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	py := &mockProvider{name: "python", exts: []string{".py", ".pyi"}}
	reg.Register(py)

	got, ok := reg.Get("python")
	require.True(t, ok)
	assert.Equal(t, py, got)

	// Case-insensitive lookup
	got, ok = reg.Get("Python")
	require.True(t, ok)
	assert.Equal(t, py, got)

	_, ok = reg.Get("cobol")
	assert.False(t, ok)
}

func TestRegistry_GetForFile(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockProvider{name: "python", exts: []string{".py"}})
	reg.Register(&mockProvider{name: "go", exts: []string{".go"}})

	p, ok := reg.GetForFile("/src/app/main.py")
	require.True(t, ok)
	assert.Equal(t, "python", p.Name())

	p, ok = reg.GetForFile("server.go")
	require.True(t, ok)
	assert.Equal(t, "go", p.Name())

	_, ok = reg.GetForFile("README.md")
	assert.False(t, ok)

	_, ok = reg.GetForFile("Makefile")
	assert.False(t, ok)
}

func TestRegistry_ReregisterReplaces(t *testing.T) {
	reg := NewRegistry()
	first := &mockProvider{name: "python", exts: []string{".py"}}
	second := &mockProvider{name: "python", exts: []string{".py", ".pyw"}}

	reg.Register(first)
	reg.Register(second)

	got, ok := reg.Get("python")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"python"}, reg.SupportedLanguages())
}

func TestRegistry_ExtensionCollisionLastWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockProvider{name: "javascript", exts: []string{".js"}})
	reg.Register(&mockProvider{name: "typescript", exts: []string{".ts", ".js"}})

	p, ok := reg.GetForFile("app.js")
	require.True(t, ok)
	assert.Equal(t, "typescript", p.Name())
}

func TestRegistry_SortedListings(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockProvider{name: "python", exts: []string{".py"}})
	reg.Register(&mockProvider{name: "go", exts: []string{".go"}})
	reg.Register(&mockProvider{name: "java", exts: []string{".java"}})

	assert.Equal(t, []string{"go", "java", "python"}, reg.SupportedLanguages())
	assert.Equal(t, []string{".go", ".java", ".py"}, reg.SupportedExtensions())
}
