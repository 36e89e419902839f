// Package metadata builds structural metadata for whole projects and
// single files by running each source file through its language provider.
package metadata

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
)

// LanguageSummary aggregates one language's files in a project.
type LanguageSummary struct {
	Files     int   `json:"files"`
	CodeLines int   `json:"code_lines"`
	SizeBytes int64 `json:"size_bytes"`
}

// ProjectMetadata is the full structural picture of a project.
type ProjectMetadata struct {
	ProjectName  string                     `json:"project_name"`
	Root         string                     `json:"root"`
	ProjectType  string                     `json:"project_type"`
	MainLanguage string                     `json:"main_language"`
	GeneratedAt  time.Time                  `json:"generated_at"`
	TotalFiles   int                        `json:"total_files"`
	TotalLines   int                        `json:"total_lines"`
	Languages    map[string]LanguageSummary `json:"languages"`
	Files        []lang.FileMetadata        `json:"files"`
}

// Generator produces project and file metadata.
type Generator struct {
	detector *detect.Detector
	registry *lang.Registry
	logger   *zap.SugaredLogger
}

// NewGenerator creates a metadata generator.
func NewGenerator(detector *detect.Detector, registry *lang.Registry) *Generator {
	return &Generator{
		detector: detector,
		registry: registry,
		logger:   logger.ComponentLogger("metadata"),
	}
}

// Generate analyzes every source file under root. Files that cannot be
// read are recorded as degraded partial entries rather than failing the
// run; an empty project yields valid empty metadata.
func (g *Generator) Generate(root string) (*ProjectMetadata, error) {
	structure, err := g.detector.AnalyzeStructure(root)
	if err != nil {
		return nil, err
	}

	byLanguage, err := g.detector.FindProjectFiles(root)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	meta := &ProjectMetadata{
		ProjectName:  filepath.Base(absRoot),
		Root:         absRoot,
		ProjectType:  structure.ProjectType,
		MainLanguage: structure.MainLanguage,
		GeneratedAt:  time.Now().UTC(),
		Languages:    make(map[string]LanguageSummary),
		Files:        []lang.FileMetadata{},
	}

	languages := make([]string, 0, len(byLanguage))
	for name := range byLanguage {
		languages = append(languages, name)
	}
	sort.Strings(languages)

	for _, language := range languages {
		summary := meta.Languages[language]
		for _, path := range byLanguage[language] {
			fileMeta := g.analyzeFile(root, path, language)
			meta.Files = append(meta.Files, *fileMeta)

			summary.Files++
			summary.CodeLines += fileMeta.CodeLines
			summary.SizeBytes += int64(fileMeta.SizeBytes)
			meta.TotalFiles++
			meta.TotalLines += fileMeta.TotalLines
		}
		meta.Languages[language] = summary
	}

	g.logger.Infow("generated project metadata",
		logger.FieldDirectory, root,
		logger.FieldCount, meta.TotalFiles,
		logger.FieldLanguage, meta.MainLanguage)

	return meta, nil
}

// GenerateFile analyzes a single file. The stored path is relative to
// root when the file lives under it.
func (g *Generator) GenerateFile(root, path string) (*lang.FileMetadata, error) {
	provider, ok := g.registry.GetForFile(path)
	if !ok {
		return nil, errors.NewNoProviderError(filepath.Ext(path))
	}
	return g.analyzeFile(root, path, provider.Name()), nil
}

// analyzeFile reads and parses one file, degrading to a partial entry
// when the file cannot be read. Invalid UTF-8 passes through untouched;
// the regex parsers operate on bytes-as-string.
func (g *Generator) analyzeFile(root, path, language string) *lang.FileMetadata {
	rel := relPath(root, path)

	content, err := os.ReadFile(path)
	if err != nil {
		g.logger.Warnw("file unreadable, recording partial entry",
			logger.FieldFile, rel, logger.FieldError, err.Error())
		return &lang.FileMetadata{
			Path:     rel,
			Language: language,
			Degraded: true,
		}
	}

	provider, ok := g.registry.Get(language)
	if !ok {
		return &lang.FileMetadata{
			Path:     rel,
			Language: language,
			Degraded: true,
		}
	}

	fileMeta := provider.ParseFile(path, content)
	fileMeta.Path = rel
	fileMeta.SizeBytes = len(content)
	return fileMeta
}

func relPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
