package validation

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/lingua/detect"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
)

// syntaxStage checks every discovered source file with its language's
// syntax validator.
type syntaxStage struct {
	detector         *detect.Detector
	registry         *lang.Registry
	stopOnFirstError bool
	logger           *zap.SugaredLogger
}

func (s *syntaxStage) run(ctx context.Context, root string) *StageResult {
	result := &StageResult{
		Stage:    StageSyntax,
		Status:   StatusValid,
		Metadata: map[string]interface{}{},
	}

	byLanguage, err := s.detector.FindProjectFiles(root)
	if err != nil {
		result.Status = StatusError
		result.Issues = append(result.Issues, Issue{
			Message:  err.Error(),
			Severity: "error",
		})
		return result
	}

	languages := make([]string, 0, len(byLanguage))
	for name := range byLanguage {
		languages = append(languages, name)
	}
	sort.Strings(languages)

	filesChecked := 0
	filesInvalid := 0
	heuristicChecks := 0

fileLoop:
	for _, language := range languages {
		provider, ok := s.registry.Get(language)
		if !ok {
			continue
		}
		for _, path := range byLanguage[language] {
			rel := relTo(root, path)

			content, readErr := os.ReadFile(path)
			if readErr != nil {
				result.Status = StatusError
				result.Issues = append(result.Issues, Issue{
					File:     rel,
					Message:  "could not read file: " + readErr.Error(),
					Severity: "error",
				})
				continue
			}

			filesChecked++
			check := provider.ValidateSyntax(ctx, path, content)
			if check.Heuristic {
				heuristicChecks++
			}
			if check.Status == lang.SyntaxInvalid {
				filesInvalid++
				result.Status = StatusInvalid
				result.Issues = append(result.Issues, Issue{
					File:     rel,
					Line:     check.Line,
					Message:  check.Detail,
					Severity: "error",
				})
				s.logger.Warnw("syntax check failed",
					logger.FieldFile, rel,
					logger.FieldLanguage, language)
				if s.stopOnFirstError {
					break fileLoop
				}
			}
		}
	}

	result.Metadata["files_checked"] = filesChecked
	result.Metadata["files_invalid"] = filesInvalid
	result.Metadata["heuristic_checks"] = heuristicChecks

	s.logger.Infow("syntax stage complete",
		logger.FieldStatus, string(result.Status),
		logger.FieldCount, filesChecked)

	return result
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
