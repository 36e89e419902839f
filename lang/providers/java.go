package providers

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/teranos/lingua/lang"
)

// Java provider. Syntax checking compiles the file with javac into a scratch
// directory.
type Java struct {
	base
	rules cstyleRules
}

// NewJava creates the java provider.
func NewJava(opts Options) *Java {
	p := &Java{base: newBase("java", "Java", opts)}
	p.exts = []string{".java"}
	p.commentPrefixes = []string{"//"}
	p.fenceTags = []string{"java"}
	p.anchors = []string{"package ", "import ", "public class ", "class ", "public interface "}
	p.stdImports = []string{"java.util.List", "java.util.Map", "java.util.Optional"}
	p.syntaxArgv = func(path string) []string {
		// Compile into the scratch dir so class files never land in the project
		return []string{"javac", "-d", filepath.Dir(path), path}
	}
	p.rules = cstyleRules{
		classRe:    regexp.MustCompile(`^(?:public\s+|final\s+|abstract\s+)*(?:class|interface|enum|record)\s+(\w+)(?:\s+(?:extends|implements)\s+([\w<>,.\s]+?))?\s*\{?$`),
		methodRe:   regexp.MustCompile(`^(?:public|private|protected)\s+(?:static\s+)?(?:final\s+)?([\w<>\[\].]+)\s+(\w+)\s*\(([^)]*)\)`),
		importRe:   regexp.MustCompile(`^import\s+(?:static\s+)?([\w.*]+);`),
		constantRe: regexp.MustCompile(`^(?:public\s+|private\s+|protected\s+)?static\s+final\s+[\w<>\[\].]+\s+([A-Z][A-Z0-9_]*)\s*=`),
	}
	return p
}

// ParseFile extracts classes, methods, imports, and static final constants.
func (p *Java) ParseFile(path string, content []byte) *lang.FileMetadata {
	return parseCStyle(p.logger, p.name, path, content, p.rules)
}

// BuildTestSkeleton renders a JUnit skeleton.
func (p *Java) BuildTestSkeleton(fn lang.FunctionInfo, gctx lang.GenerationContext) string {
	var sb strings.Builder
	sb.WriteString("import org.junit.jupiter.api.Test;\n")
	sb.WriteString("import static org.junit.jupiter.api.Assertions.*;\n\n")
	sb.WriteString("class " + exportName(fn.Name) + "Test {\n\n")
	sb.WriteString("    @Test\n")
	sb.WriteString("    void " + fn.Name + "BehavesAsSpecified() {\n")
	if fn.Signature != "" {
		sb.WriteString("        // " + fn.Signature + "\n")
	}
	sb.WriteString("        fail(\"not implemented\");\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	return sb.String()
}
