package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/lang/providers"
)

func newTestGenerator() *Generator {
	registry := providers.NewDefaultRegistry(providers.Options{})
	return NewGenerator(detect.NewDetector(registry, nil), registry)
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "def main():\n    print('hi')\n")
	writeFile(t, root, "src/app.js", "function run() {\n  return 1;\n}\n")

	g := newTestGenerator()
	meta, err := g.Generate(root)
	require.NoError(t, err)

	assert.Equal(t, 2, meta.TotalFiles)
	assert.Equal(t, filepath.Base(root), meta.ProjectName)
	assert.Contains(t, meta.Languages, "python")
	assert.Contains(t, meta.Languages, "javascript")
	assert.Equal(t, 1, meta.Languages["python"].Files)
	assert.Positive(t, meta.Languages["python"].SizeBytes)
	assert.False(t, meta.GeneratedAt.IsZero())

	// paths are project-relative, forward-slashed
	paths := make([]string, 0, len(meta.Files))
	for _, f := range meta.Files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "main.py")
	assert.Contains(t, paths, "src/app.js")
}

func TestGenerateTotalLinesCountsAllLines(t *testing.T) {
	root := t.TempDir()
	// 4 lines total, 2 of them code
	writeFile(t, root, "app.py", "# header\n\ndef main():\n    pass")

	g := newTestGenerator()
	meta, err := g.Generate(root)
	require.NoError(t, err)

	assert.Equal(t, 4, meta.TotalLines)
	assert.Equal(t, 2, meta.Languages["python"].CodeLines)
}

func TestGenerateEmptyProject(t *testing.T) {
	root := t.TempDir()

	g := newTestGenerator()
	meta, err := g.Generate(root)
	require.NoError(t, err)

	assert.Zero(t, meta.TotalFiles)
	assert.Empty(t, meta.Files)
	assert.Empty(t, meta.Languages)
	assert.Equal(t, "unknown", meta.ProjectType)
}

func TestGenerateMissingRoot(t *testing.T) {
	g := newTestGenerator()
	_, err := g.Generate(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGenerateInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "weird.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n\xff\xfe\ny = 2\n"), 0o644))

	g := newTestGenerator()
	meta, err := g.Generate(root)
	require.NoError(t, err)

	require.Len(t, meta.Files, 1)
	assert.False(t, meta.Files[0].Degraded)
	assert.Equal(t, "python", meta.Files[0].Language)
}

func TestGenerateFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "lib/helpers.py", "def add(a, b):\n    return a + b\n")

	g := newTestGenerator()
	meta, err := g.GenerateFile(root, path)
	require.NoError(t, err)

	assert.Equal(t, "lib/helpers.py", meta.Path)
	assert.Equal(t, "python", meta.Language)
	require.Len(t, meta.Functions, 1)
	assert.Equal(t, "add", meta.Functions[0].Name)
	assert.Equal(t, len("def add(a, b):\n    return a + b\n"), meta.SizeBytes)
}

func TestGenerateFileNoProvider(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "notes.txt", "just notes\n")

	g := newTestGenerator()
	_, err := g.GenerateFile(root, path)
	assert.Error(t, err)
}
