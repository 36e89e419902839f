package lang

import "fmt"

// CheckBalanced verifies that (), [] and {} nest correctly in content,
// skipping string literals and line comments. It is the fallback syntax
// check when a language's external tool is unavailable. On failure it
// returns the offending line number alongside the description.
//
// The check is deliberately shallow: it catches truncated AI output and
// gross structural damage, not real syntax errors.
func CheckBalanced(content string, lineCommentPrefixes []string) (bool, int, string) {
	type open struct {
		ch   byte
		line int
	}
	var stack []open
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}

	line := 1
	inString := byte(0)
	escaped := false

	isCommentStart := func(s string, i int) bool {
		for _, p := range lineCommentPrefixes {
			if len(p) > 0 && i+len(p) <= len(s) && s[i:i+len(p)] == p {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(content); i++ {
		c := content[i]

		if c == '\n' {
			line++
			inString = pickMultilineState(inString)
			escaped = false
			continue
		}

		if inString != 0 {
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}

		if c == '"' || c == '\'' || c == '`' {
			inString = c
			continue
		}

		if isCommentStart(content, i) {
			// Skip to end of line
			for i < len(content) && content[i] != '\n' {
				i++
			}
			line++
			continue
		}

		switch c {
		case '(', '[', '{':
			stack = append(stack, open{ch: c, line: line})
		case ')', ']', '}':
			if len(stack) == 0 {
				return false, line, fmt.Sprintf("unmatched %q at line %d", string(c), line)
			}
			top := stack[len(stack)-1]
			if top.ch != pairs[c] {
				return false, line, fmt.Sprintf("mismatched %q at line %d (opened %q at line %d)",
					string(c), line, string(top.ch), top.line)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return false, top.line, fmt.Sprintf("unclosed %q opened at line %d", string(top.ch), top.line)
	}
	return true, 0, ""
}

// pickMultilineState decides whether a string state survives a newline.
// Backtick strings span lines; quote strings do not (unterminated quotes
// would otherwise swallow the rest of the file).
func pickMultilineState(inString byte) byte {
	if inString == '`' {
		return inString
	}
	return 0
}
