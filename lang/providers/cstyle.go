package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
	"go.uber.org/zap"

	"github.com/teranos/lingua/logger"
)

// cstyleRules parameterize the shared brace-language parse used by the
// Java, C#, and C++ providers.
type cstyleRules struct {
	classRe    *regexp.Regexp // group 1: name, optional group 2: bases
	methodRe   *regexp.Regexp // group 1: return type, group 2: name, group 3: params
	importRe   *regexp.Regexp // group 1: import target
	constantRe *regexp.Regexp // group 1: constant name
}

// parseCStyle walks a brace-structured source file line by line, counting
// code and comment lines and extracting declarations. Methods found while a
// class is open are attached to it; free functions (C++) become functions.
func parseCStyle(log *zap.SugaredLogger, language, path string, content []byte, rules cstyleRules) (md *lang.FileMetadata) {
	md = &lang.FileMetadata{
		Path:      path,
		Language:  language,
		SizeBytes: len(content),
		Functions: []lang.FunctionInfo{},
		Classes:   []lang.ClassInfo{},
		Imports:   []string{},
		Constants: []string{},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warnw("parse failed, degrading to line counts",
				logger.FieldFile, path, logger.FieldError, r)
			md = degradedMetadata(path, language, content)
		}
	}()

	lines := strings.Split(string(content), "\n")
	md.TotalLines = len(lines)

	inBlockComment := false
	braceDepth := 0
	classDepth := -1
	var currentClass *lang.ClassInfo

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlockComment {
			md.CommentLines++
			if strings.Contains(trimmed, "*/") {
				inBlockComment = false
			}
			continue
		}
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			md.CommentLines++
			continue
		}
		if strings.HasPrefix(trimmed, "/*") {
			md.CommentLines++
			if !strings.Contains(trimmed[2:], "*/") {
				inBlockComment = true
			}
			continue
		}
		md.CodeLines++

		if rules.importRe != nil {
			if m := rules.importRe.FindStringSubmatch(trimmed); m != nil {
				md.Imports = append(md.Imports, m[1])
				braceDepth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
				continue
			}
		}

		if m := rules.classRe.FindStringSubmatch(trimmed); m != nil {
			cls := lang.ClassInfo{Name: m[1], Line: i + 1}
			if len(m) > 2 && m[2] != "" {
				for _, b := range strings.Split(m[2], ",") {
					if b = strings.TrimSpace(b); b != "" {
						cls.Bases = append(cls.Bases, b)
					}
				}
			}
			md.Classes = append(md.Classes, cls)
			currentClass = &md.Classes[len(md.Classes)-1]
			classDepth = braceDepth
			braceDepth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
			continue
		}

		if m := rules.methodRe.FindStringSubmatch(trimmed); m != nil {
			name := m[2]
			if currentClass != nil && braceDepth > classDepth {
				currentClass.Methods = append(currentClass.Methods, name)
			} else {
				md.Functions = append(md.Functions, lang.FunctionInfo{
					Name:       name,
					Signature:  condenseSignature(trimmed),
					ReturnType: strings.TrimSpace(m[1]),
					Line:       i + 1,
					Parameters: splitParams(m[3]),
				})
			}
		}

		if rules.constantRe != nil {
			if m := rules.constantRe.FindStringSubmatch(trimmed); m != nil {
				md.Constants = append(md.Constants, m[1])
			}
		}

		braceDepth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
		if currentClass != nil && braceDepth <= classDepth {
			currentClass = nil
			classDepth = -1
		}
	}

	return md
}
