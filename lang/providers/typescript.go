package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
)

// TypeScript provider. Reuses the JavaScript structural parse and adds
// interface/type-alias extraction; syntax checking uses tsc in no-emit mode.
type TypeScript struct {
	js *JavaScript
	base
}

// NewTypeScript creates the typescript provider.
func NewTypeScript(opts Options) *TypeScript {
	p := &TypeScript{
		js:   NewJavaScript(opts),
		base: newBase("typescript", "TypeScript", opts),
	}
	p.exts = []string{".ts", ".tsx"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"typescript", "ts", "tsx"}
	p.anchors = []string{"import ", "export ", "const ", "function ", "class ", "interface ", "type "}
	p.stdImports = nil
	p.syntaxArgv = func(path string) []string {
		return []string{"tsc", "--noEmit", "--skipLibCheck", path}
	}
	return p
}

var tsInterfaceRe = regexp.MustCompile(`^(?:export\s+)?(?:interface|type)\s+(\w+)`)

// ParseFile runs the JavaScript parse, then records interfaces and type
// aliases as classes.
func (p *TypeScript) ParseFile(path string, content []byte) *lang.FileMetadata {
	md := p.js.ParseFile(path, content)
	md.Language = p.name
	if md.Degraded {
		return md
	}

	for i, line := range strings.Split(string(content), "\n") {
		if m := tsInterfaceRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			md.Classes = append(md.Classes, lang.ClassInfo{Name: m[1], Line: i + 1})
		}
	}
	return md
}

// BuildTestSkeleton renders a jest-style skeleton.
func (p *TypeScript) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	return p.js.BuildTestSkeleton(fn, gctx)
}
