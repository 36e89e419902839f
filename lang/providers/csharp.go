package providers

import (
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
)

// CSharp provider. No standalone syntax tool is assumed (csc needs a project
// context), so syntax checks always use the delimiter heuristic.
type CSharp struct {
	base
	rules cstyleRules
}

// NewCSharp creates the csharp provider.
func NewCSharp(opts Options) *CSharp {
	p := &CSharp{base: newBase("csharp", "C#", opts)}
	p.exts = []string{".cs"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"csharp", "cs", "c#"}
	p.anchors = []string{"using ", "namespace ", "public class ", "class ", "public interface "}
	p.stdImports = []string{"System", "System.Collections.Generic", "System.Linq"}
	p.syntaxArgv = nil // heuristic only
	p.rules = cstyleRules{
		classRe:    regexp.MustCompile(`^(?:public\s+|internal\s+|sealed\s+|abstract\s+|partial\s+|static\s+)*(?:class|interface|struct|record|enum)\s+(\w+)(?:\s*:\s*([\w<>,.\s]+?))?\s*\{?$`),
		methodRe:   regexp.MustCompile(`^(?:public|private|protected|internal)\s+(?:static\s+)?(?:async\s+)?(?:virtual\s+|override\s+)?([\w<>\[\].?]+)\s+(\w+)\s*\(([^)]*)\)`),
		importRe:   regexp.MustCompile(`^using\s+(?:static\s+)?([\w.]+);`),
		constantRe: regexp.MustCompile(`^(?:public\s+|private\s+|internal\s+)?const\s+[\w<>\[\].?]+\s+(\w+)\s*=`),
	}
	return p
}

// ParseFile extracts classes, methods, using directives, and constants.
func (p *CSharp) ParseFile(path string, content []byte) *lang.FileMetadata {
	return parseCStyle(p.logger, p.name, path, content, p.rules)
}

// BuildTestSkeleton renders an xUnit skeleton.
func (p *CSharp) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	var sb strings.Builder
	sb.WriteString("using Xunit;\n\n")
	sb.WriteString("public class " + exportName(fn.Name) + "Tests\n{\n")
	sb.WriteString("    [Fact]\n")
	sb.WriteString("    public void " + exportName(fn.Name) + "BehavesAsSpecified()\n    {\n")
	if fn.Signature != "" {
		sb.WriteString("        // " + fn.Signature + "\n")
	}
	sb.WriteString("        Assert.Fail(\"not implemented\");\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	return sb.String()
}
