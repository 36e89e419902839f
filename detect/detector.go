// Package detect walks project trees, classifying source files by language
// and excluding build artifacts and vendored code.
package detect

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
)

// defaultExcludePatterns covers VCS metadata, dependency trees, build output,
// caches, and editor state across the supported ecosystems.
var defaultExcludePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"bower_components/",
	"__pycache__/",
	".pytest_cache/",
	".mypy_cache/",
	".tox/",
	"venv/",
	".venv/",
	"env/",
	"*.egg-info/",
	"dist/",
	"build/",
	"target/",
	"out/",
	"bin/",
	"obj/",
	"vendor/",
	".idea/",
	".vscode/",
	".DS_Store",
	"*.min.js",
	"*.pyc",
	"*.class",
	"*.o",
	"*.so",
	"*.dll",
	"*.exe",
	"coverage/",
	".coverage",
	".next/",
	".nuxt/",
}

// Detector finds project source files and summarizes project structure.
type Detector struct {
	registry *lang.Registry
	logger   *zap.SugaredLogger

	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64

	matcher *ignore.GitIgnore
}

// NewDetector creates a detector over the given provider registry.
// extraPatterns are config-supplied gitignore-style patterns added to the
// built-in exclusions.
func NewDetector(registry *lang.Registry, extraPatterns []string) *Detector {
	patterns := make([]string, 0, len(defaultExcludePatterns)+len(extraPatterns))
	patterns = append(patterns, defaultExcludePatterns...)
	patterns = append(patterns, extraPatterns...)

	return &Detector{
		registry: registry,
		logger:   logger.ComponentLogger("detect"),
		matcher:  ignore.CompileIgnoreLines(patterns...),
	}
}

// ShouldExclude reports whether a project-relative path matches the
// exclusion patterns.
func (d *Detector) ShouldExclude(relPath string) bool {
	return d.matcher.MatchesPath(filepath.ToSlash(relPath))
}

// FindProjectFiles walks root and groups source files by language.
// Only the requested languages are returned; an empty languages list means
// all registered languages. A missing or unreadable root logs an error and
// returns an empty map alongside the error.
func (d *Detector) FindProjectFiles(root string, languages ...string) (map[string][]string, error) {
	files := make(map[string][]string)

	info, err := os.Stat(root)
	if err != nil {
		d.logger.Errorw("project root not accessible", logger.FieldDirectory, root, logger.FieldError, err.Error())
		return files, errors.Wrapf(err, "project root %s", root)
	}
	if !info.IsDir() {
		d.logger.Errorw("project root is not a directory", logger.FieldDirectory, root)
		return files, errors.Newf("project root %s is not a directory", root)
	}

	want := make(map[string]bool, len(languages))
	for _, l := range languages {
		want[strings.ToLower(l)] = true
	}

	projectMatcher := d.projectIgnoreRules(root)

	walkErr := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			d.logger.Warnw("skipping unreadable entry", logger.FieldFile, path, logger.FieldError, err.Error())
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			// Prune excluded directories instead of descending
			if d.matcher.MatchesPath(rel+"/") || (projectMatcher != nil && projectMatcher.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.matcher.MatchesPath(rel) || (projectMatcher != nil && projectMatcher.MatchesPath(rel)) {
			return nil
		}

		if d.MaxFileSize > 0 {
			if fi, err := entry.Info(); err == nil && fi.Size() > d.MaxFileSize {
				d.logger.Debugw("skipping oversized file", logger.FieldFile, rel, logger.FieldSize, fi.Size())
				return nil
			}
		}

		provider, ok := d.registry.GetForFile(path)
		if !ok {
			return nil
		}
		if len(want) > 0 && !want[provider.Name()] {
			return nil
		}
		files[provider.Name()] = append(files[provider.Name()], path)
		return nil
	})
	if walkErr != nil {
		return files, errors.Wrapf(walkErr, "walking %s", root)
	}

	for name := range files {
		sort.Strings(files[name])
	}
	return files, nil
}

// projectIgnoreRules compiles the project's own .gitignore if present.
func (d *Detector) projectIgnoreRules(root string) *ignore.GitIgnore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
