package extractor

import (
	"regexp"
	"strings"
)

const tocScanWindow = 3000

var (
	tocHeading  = regexp.MustCompile(`(?im)^[ \t]*(?:table of contents|contents|index)[ \t]*$`)
	dotLeaders  = regexp.MustCompile(`\.{4,}\d+`)
	pageMarkers = regexp.MustCompile(`-\s*\d+\s*-`)
)

// cleanText strips table-of-contents blocks, dot-leader page references and
// "- 15 -" style page markers from extracted text. Runs before chunking, so
// chunk offsets always index the cleaned text.
func cleanText(text string) string {
	out := stripTOCBlocks(text)
	out = dotLeaders.ReplaceAllString(out, "")
	out = pageMarkers.ReplaceAllString(out, "")
	return out
}

// stripTOCBlocks removes each contents heading and the lines after it up to
// the next line that starts with an uppercase letter or digit. A heading
// with no such resume point within the scan window is left alone.
func stripTOCBlocks(text string) string {
	var b strings.Builder
	rest := text
	for {
		loc := tocHeading.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		end := tocBlockEnd(rest, loc[1])
		if end < 0 {
			b.WriteString(rest[:loc[1]])
			rest = rest[loc[1]:]
			continue
		}
		b.WriteString(rest[:loc[0]])
		rest = rest[end:]
	}
}

// tocBlockEnd finds where document body resumes after a contents heading:
// the first newline within the window whose next non-blank character is an
// uppercase letter or a digit. The newline itself is kept.
func tocBlockEnd(text string, from int) int {
	limit := from + tocScanWindow
	if limit > len(text) {
		limit = len(text)
	}
	for i := from; i < limit; i++ {
		if text[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\r' || text[j] == '\n') {
			j++
		}
		if j < len(text) {
			c := text[j]
			if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				return i
			}
		}
	}
	return -1
}
