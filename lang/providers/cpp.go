package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
)

// Cpp provider. Syntax checking uses gcc in syntax-only mode.
type Cpp struct {
	base
	rules cstyleRules
}

// NewCpp creates the cpp provider.
func NewCpp(opts Options) *Cpp {
	p := &Cpp{base: newBase("cpp", "C++", opts)}
	p.exts = []string{".cpp", ".cc", ".cxx", ".hpp", ".h"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"cpp", "c++", "cxx"}
	p.anchors = []string{"#include", "namespace ", "class ", "template", "int main", "void ", "auto "}
	p.stdImports = []string{"<vector>", "<string>", "<memory>", "<algorithm>"}
	p.syntaxArgv = func(path string) []string {
		return []string{"gcc", "-fsyntax-only", "-x", "c++", path}
	}
	p.rules = cstyleRules{
		classRe:    regexp.MustCompile(`^(?:class|struct)\s+(\w+)(?:\s*:\s*(?:public\s+|private\s+|protected\s+)?([\w:,\s<>]+?))?\s*\{?$`),
		methodRe:   regexp.MustCompile(`^(?:static\s+|inline\s+|virtual\s+|constexpr\s+)*([\w:<>*&]+)\s+(\w+)\s*\(([^)]*)\)\s*(?:const\s*)?(?:noexcept\s*)?(?:\{|;)?\s*$`),
		importRe:   regexp.MustCompile(`^#include\s+[<"]([^>"]+)[>"]`),
		constantRe: regexp.MustCompile(`^(?:static\s+)?(?:constexpr|const)\s+[\w:<>]+\s+([A-Za-z]\w*)\s*=`),
	}
	return p
}

// ParseFile extracts classes/structs, functions, includes, and constants.
func (p *Cpp) ParseFile(path string, content []byte) *lang.FileMetadata {
	return parseCStyle(p.logger, p.name, path, content, p.rules)
}

// BuildTestSkeleton renders a GoogleTest skeleton.
func (p *Cpp) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	var sb strings.Builder
	sb.WriteString("#include <gtest/gtest.h>\n\n")
	sb.WriteString("TEST(" + exportName(fn.Name) + "Test, BehavesAsSpecified) {\n")
	if fn.Signature != "" {
		sb.WriteString("  // " + fn.Signature + "\n")
	}
	sb.WriteString("  FAIL() << \"not implemented\";\n")
	sb.WriteString("}\n")
	return sb.String()
}
