package parse

import (
	"regexp"
	"strings"
)

// fenceRe matches fenced code blocks with an optional language tag.
var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\\s*(.*?)```")

// fencedBlocks returns the trimmed contents of fenced code blocks that look
// like JSON objects, plus the input with all fenced blocks stripped so the
// same block is never yielded twice by the bare-span scan.
func fencedBlocks(text string) ([]string, string) {
	var blocks []string
	for _, match := range fenceRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(match[1])
		if strings.HasPrefix(body, "{") {
			blocks = append(blocks, body)
		}
	}
	remainder := fenceRe.ReplaceAllString(text, "")
	return blocks, remainder
}

// braceSpans scans text for balanced top-level {...} spans, respecting JSON
// string literals and escapes. Unterminated spans are dropped.
func braceSpans(text string) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, text[start:i+1])
				start = -1
			}
		}
	}
	return spans
}
