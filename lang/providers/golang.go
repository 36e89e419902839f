package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
)

// Go provider. Syntax checking uses gofmt's parse-and-report mode.
type Go struct {
	base
}

// NewGo creates the go provider.
func NewGo(opts Options) *Go {
	p := &Go{base: newBase("go", "Go", opts)}
	p.exts = []string{".go"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"go", "golang"}
	p.anchors = []string{"package ", "import ", "func ", "type ", "var ", "const "}
	p.stdImports = []string{"context", "fmt", "errors"}
	p.syntaxArgv = func(path string) []string {
		return []string{"gofmt", "-e", path}
	}
	return p
}

var (
	goFuncRe   = regexp.MustCompile(`^func\s+(?:\(([^)]+)\)\s+)?(\w+)\s*\(([^)]*)\)\s*(?:\(([^)]*)\)|([\w\[\]*.]+))?`)
	goTypeRe   = regexp.MustCompile(`^type\s+(\w+)\s+(struct|interface)\b`)
	goImportRe = regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"`)
	goConstRe  = regexp.MustCompile(`^\s*([A-Z]\w*)\s*(?:[\w\[\]*.]+\s*)?=`)
)

// ParseFile extracts functions (top-level and methods), struct/interface
// types, imports, and exported constants.
func (p *Go) ParseFile(path string, content []byte) (md *lang.FileMetadata) {
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

	inImportBlock := false
	inConstBlock := false
	var currentType *lang.ClassInfo

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			md.CommentLines++
			continue
		}
		md.CodeLines++

		if inImportBlock {
			if trimmed == ")" {
				inImportBlock = false
				continue
			}
			if m := goImportRe.FindStringSubmatch(line); m != nil {
				md.Imports = append(md.Imports, m[1])
			}
			continue
		}
		if inConstBlock {
			if trimmed == ")" {
				inConstBlock = false
				continue
			}
			if m := goConstRe.FindStringSubmatch(line); m != nil {
				md.Constants = append(md.Constants, m[1])
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inImportBlock = true
			continue
		case strings.HasPrefix(trimmed, "import "):
			if m := goImportRe.FindStringSubmatch(strings.TrimPrefix(trimmed, "import ")); m != nil {
				md.Imports = append(md.Imports, m[1])
			}
			continue
		case strings.HasPrefix(trimmed, "const ("):
			inConstBlock = true
			continue
		case strings.HasPrefix(trimmed, "const "):
			if m := goConstRe.FindStringSubmatch(strings.TrimPrefix(trimmed, "const ")); m != nil {
				md.Constants = append(md.Constants, m[1])
			}
			continue
		}

		if m := goTypeRe.FindStringSubmatch(trimmed); m != nil {
			md.Classes = append(md.Classes, lang.ClassInfo{Name: m[1], Line: i + 1})
			currentType = &md.Classes[len(md.Classes)-1]
			continue
		}

		if m := goFuncRe.FindStringSubmatch(trimmed); m != nil {
			receiver, name, params := m[1], m[2], m[3]
			ret := m[4]
			if ret == "" {
				ret = m[5]
			}
			if receiver != "" {
				// Method: attach to the receiver type when known
				recvType := receiverTypeName(receiver)
				attached := false
				for idx := range md.Classes {
					if md.Classes[idx].Name == recvType {
						md.Classes[idx].Methods = append(md.Classes[idx].Methods, name)
						attached = true
						break
					}
				}
				if !attached && currentType != nil {
					currentType.Methods = append(currentType.Methods, name)
				}
				continue
			}
			fn := lang.FunctionInfo{
				Name:       name,
				Signature:  condenseSignature(trimmed),
				ReturnType: strings.TrimSpace(ret),
				Line:       i + 1,
				Parameters: splitParams(params),
			}
			md.Functions = append(md.Functions, fn)
		}
	}

	return md
}

// BuildTestSkeleton renders a standard Go test skeleton.
func (p *Go) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	var sb strings.Builder
	sb.WriteString("func Test" + exportName(fn.Name) + "(t *testing.T) {\n")
	if fn.Signature != "" {
		sb.WriteString("\t// " + fn.Signature + "\n")
	}
	sb.WriteString("\tt.Skip(\"not implemented\")\n")
	sb.WriteString("}\n")
	return sb.String()
}

// receiverTypeName extracts the type name from a receiver like "s *Server".
func receiverTypeName(receiver string) string {
	fields := strings.Fields(receiver)
	if len(fields) == 0 {
		return ""
	}
	t := fields[len(fields)-1]
	t = strings.TrimPrefix(t, "*")
	if i := strings.Index(t, "["); i > 0 {
		t = t[:i]
	}
	return t
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
