package assembler

import (
	"strings"
	"unicode"
)

// StripComment drops a trailing // comment and the surrounding whitespace.
func StripComment(line string) string {
	line, _, _ = strings.Cut(line, "//")
	return strings.TrimSpace(line)
}

// Normalize drops a trailing // comment and every whitespace character.
// Blank and comment-only lines come back empty.
func Normalize(line string) string {
	line, _, _ = strings.Cut(line, "//")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
}

// splitLines breaks source text into lines, accepting CRLF endings.
func splitLines(src string) []string {
	return strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
}
