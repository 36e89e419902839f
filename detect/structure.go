package detect

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/lingua/logger"
)

// LanguageStats summarizes one language's footprint in a project.
type LanguageStats struct {
	FileCount int `json:"file_count"`
	CodeLines int `json:"code_lines"`
}

// ProjectStructure is the result of analyzing a project directory.
type ProjectStructure struct {
	Root         string                   `json:"root"`
	ProjectType  string                   `json:"project_type"`
	MainLanguage string                   `json:"main_language"`
	TotalFiles   int                      `json:"total_files"`
	TotalLines   int                      `json:"total_lines"`
	Languages    map[string]LanguageStats `json:"languages"`
}

// AnalyzeStructure scans root and reports language distribution, the
// dominant language by lines of code, and an inferred project type.
// Unreadable files are logged and skipped rather than failing the scan.
func (d *Detector) AnalyzeStructure(root string) (*ProjectStructure, error) {
	byLanguage, err := d.FindProjectFiles(root)
	if err != nil {
		return nil, err
	}

	structure := &ProjectStructure{
		Root:      root,
		Languages: make(map[string]LanguageStats),
	}

	for language, paths := range byLanguage {
		stats := LanguageStats{FileCount: len(paths)}
		for _, path := range paths {
			content, err := os.ReadFile(path)
			if err != nil {
				d.logger.Warnw("skipping unreadable file", logger.FieldFile, path, logger.FieldError, err.Error())
				stats.FileCount--
				continue
			}
			stats.CodeLines += countCodeLines(string(content))
		}
		if stats.FileCount > 0 {
			structure.Languages[language] = stats
			structure.TotalFiles += stats.FileCount
			structure.TotalLines += stats.CodeLines
		}
	}

	structure.MainLanguage = mainLanguage(structure.Languages)
	structure.ProjectType = detectProjectType(root, structure.MainLanguage)

	d.logger.Infow("analyzed project structure",
		logger.FieldDirectory, root,
		logger.FieldCount, structure.TotalFiles,
		logger.FieldLanguage, structure.MainLanguage,
		"project_type", structure.ProjectType)

	return structure, nil
}

// countCodeLines counts non-blank lines. Language-aware comment stripping
// happens during metadata parsing; the structure scan only needs relative
// weight between languages.
func countCodeLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// mainLanguage picks the language with the most code lines, ties broken
// alphabetically for determinism.
func mainLanguage(languages map[string]LanguageStats) string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestLines := -1
	for _, name := range names {
		if languages[name].CodeLines > bestLines {
			best = name
			bestLines = languages[name].CodeLines
		}
	}
	return best
}

// typeMarkers maps build-system marker files to a project type, checked
// in order so web tooling wins for mixed repos that carry a package.json.
var typeMarkers = []struct {
	file        string
	projectType string
}{
	{"package.json", "web"},
	{"setup.py", "python"},
	{"pyproject.toml", "python"},
	{"pom.xml", "java"},
	{"build.gradle", "java"},
	{"build.gradle.kts", "java"},
}

// detectProjectType infers a project type from marker files at the root,
// falling back to the main language, then "unknown".
func detectProjectType(root, mainLang string) string {
	for _, marker := range typeMarkers {
		if _, err := os.Stat(filepath.Join(root, marker.file)); err == nil {
			return marker.projectType
		}
	}

	// .NET solutions use per-project file names, so glob instead
	for _, pattern := range []string{"*.csproj", "*.sln"} {
		if matches, err := filepath.Glob(filepath.Join(root, pattern)); err == nil && len(matches) > 0 {
			return "dotnet"
		}
	}

	if mainLang != "" {
		return mainLang
	}
	return "unknown"
}
