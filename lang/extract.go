package lang

import (
	"regexp"
	"strings"
)

// fenceOpenRe matches an opening code fence, optionally prefixed by
// blockquote markers, capturing the language tag.
var fenceOpenRe = regexp.MustCompile("^\\s*[>|]*\\s*```(\\S*)\\s*$")

type fencedBlock struct {
	tag  string
	body string
}

// fencedBlocks splits text into its fenced code blocks.
func fencedBlocks(text string) []fencedBlock {
	var blocks []fencedBlock
	var current []string
	var tag string
	inFence := false

	for _, line := range strings.Split(text, "\n") {
		m := fenceOpenRe.FindStringSubmatch(line)
		if m != nil {
			if inFence {
				blocks = append(blocks, fencedBlock{tag: tag, body: strings.Join(current, "\n")})
				current = nil
				inFence = false
			} else {
				tag = strings.ToLower(m[1])
				inFence = true
			}
			continue
		}
		if inFence {
			current = append(current, line)
		}
	}

	// Unterminated fence: treat the remainder as the block
	if inFence && len(current) > 0 {
		blocks = append(blocks, fencedBlock{tag: tag, body: strings.Join(current, "\n")})
	}

	return blocks
}

// ExtractFenced returns the body of the first fenced code block whose tag
// matches one of tags. If no tagged block matches, the first block of any
// tag is returned. Empty string when the text contains no fences.
func ExtractFenced(text string, tags ...string) string {
	blocks := fencedBlocks(text)
	if len(blocks) == 0 {
		return ""
	}

	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = true
	}

	for _, b := range blocks {
		if want[b.tag] {
			return strings.TrimSpace(b.body)
		}
	}
	return strings.TrimSpace(blocks[0].body)
}

// ExtractAnchored finds the first line beginning with one of the anchor
// keywords and returns the text from that line onward. Used when a response
// contains raw code without fences.
func ExtractAnchored(text string, anchors []string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		for _, anchor := range anchors {
			if strings.HasPrefix(trimmed, anchor) {
				return strings.TrimRight(strings.Join(lines[i:], "\n"), " \t\n")
			}
		}
	}
	return ""
}
