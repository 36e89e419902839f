package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
)

// JavaScript provider. Syntax checking uses node's parse-only mode.
type JavaScript struct {
	base
}

// NewJavaScript creates the javascript provider.
func NewJavaScript(opts Options) *JavaScript {
	p := &JavaScript{base: newBase("javascript", "JavaScript", opts)}
	p.exts = []string{".js", ".mjs", ".cjs", ".jsx"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"javascript", "js", "jsx"}
	p.anchors = []string{"import ", "export ", "const ", "function ", "class ", "require("}
	p.stdImports = nil // no conventional import block for plain JS
	p.syntaxArgv = func(path string) []string {
		return []string{"node", "--check", path}
	}
	return p
}

var (
	jsFuncRe  = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(([^)]*)\)`)
	jsArrowRe = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*=>`)
	jsClassRe = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?class\s+(\w+)(?:\s+extends\s+([\w.]+))?`)
	jsImpRe   = regexp.MustCompile(`^import\s+(?:.+\s+from\s+)?['"]([^'"]+)['"]`)
	jsReqRe   = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsConstRe = regexp.MustCompile(`^(?:export\s+)?const\s+([A-Z][A-Z0-9_]*)\s*=`)
)

// ParseFile extracts functions (declarations and arrow assignments), classes,
// imports (ESM and CommonJS), and SCREAMING_CASE constants.
func (p *JavaScript) ParseFile(path string, content []byte) (md *lang.FileMetadata) {
	md = &lang.FileMetadata{
		Path:      path,
		Language:  p.name,
		SizeBytes: len(content),
		Functions: []lang.FunctionInfo{},
		Classes:   []lang.ClassInfo{},
		Imports:   []string{},
		Constants: []string{},
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("parse failed, degrading to line counts",
				logger.FieldFile, path, logger.FieldError, r)
			md = degradedMetadata(path, p.name, content)
		}
	}()

	lines := strings.Split(string(content), "\n")
	md.TotalLines = len(lines)
	inBlockComment := false

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

		if m := jsClassRe.FindStringSubmatch(trimmed); m != nil {
			cls := lang.ClassInfo{Name: m[1], Line: i + 1}
			if m[2] != "" {
				cls.Bases = []string{m[2]}
			}
			md.Classes = append(md.Classes, cls)
			continue
		}
		if m := jsFuncRe.FindStringSubmatch(trimmed); m != nil {
			fn := lang.FunctionInfo{Name: m[1], Line: i + 1, Signature: condenseSignature(trimmed)}
			fn.Parameters = splitParams(m[2])
			md.Functions = append(md.Functions, fn)
			continue
		}
		if m := jsArrowRe.FindStringSubmatch(trimmed); m != nil {
			md.Functions = append(md.Functions, lang.FunctionInfo{
				Name: m[1], Line: i + 1, Signature: condenseSignature(trimmed),
			})
			continue
		}
		if m := jsImpRe.FindStringSubmatch(trimmed); m != nil {
			md.Imports = append(md.Imports, m[1])
			continue
		}
		if m := jsReqRe.FindStringSubmatch(trimmed); m != nil {
			md.Imports = append(md.Imports, m[1])
		}
		if m := jsConstRe.FindStringSubmatch(trimmed); m != nil {
			md.Constants = append(md.Constants, m[1])
		}
	}

	return md
}

// BuildTestSkeleton renders a jest-style skeleton.
func (p *JavaScript) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	var sb strings.Builder
	sb.WriteString("describe('" + fn.Name + "', () => {\n")
	sb.WriteString("  test('behaves as specified', () => {\n")
	if fn.Signature != "" {
		sb.WriteString("    // " + fn.Signature + "\n")
	}
	sb.WriteString("    throw new Error('not implemented');\n")
	sb.WriteString("  });\n")
	sb.WriteString("});\n")
	return sb.String()
}

// splitParams breaks a parameter list into trimmed names.
func splitParams(params string) []string {
	var out []string
	for _, param := range strings.Split(params, ",") {
		if param = strings.TrimSpace(param); param != "" {
			out = append(out, param)
		}
	}
	return out
}

// condenseSignature trims a declaration line down to a one-line signature.
func condenseSignature(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, "{")
	return strings.TrimSpace(line)
}
