// Package chunker splits extracted text into ordered, offset-tracked spans
// sized for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config controls chunking behavior. Sizes are in bytes of UTF-8 text.
type Config struct {
	MaxChars int // Hard upper bound for a chunk.
	MinChars int // Boundaries closer than this to the chunk start are ignored.
	Overlap  int // Context carried over into the next chunk.
}

// DefaultConfig returns sensible defaults for legal prose.
func DefaultConfig() Config {
	return Config{
		MaxChars: 1000,
		MinChars: 200,
		Overlap:  200,
	}
}

// Span is one chunk of the source text. Text is always the verbatim
// substring text[Start:End] of the input.
type Span struct {
	Text  string
	Start int
	End   int
}

// headingPattern matches the start of a legal structural unit at the
// beginning of a line. Breaking before these keeps clauses intact.
var headingPattern = regexp.MustCompile(`(?m)^[ \t]*(SECTION|Section|ARTICLE|Article|CLAUSE|Clause)\b`)

// sentence and weaker separators, strongest first. A chunk is cut after the
// last occurrence of the strongest separator found inside the size window.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Chunk splits text into ordered spans. Deterministic: the same text and
// config always produce the same spans. No span is empty, every span is a
// verbatim substring of text, and adjacent spans overlap by roughly
// cfg.Overlap bytes to preserve cross-boundary context.
func Chunk(text string, cfg Config) []Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.MinChars < 0 {
		cfg.MinChars = 0
	}
	if cfg.MinChars >= cfg.MaxChars {
		cfg.MinChars = cfg.MaxChars / 2
	}
	if cfg.Overlap >= cfg.MaxChars {
		cfg.Overlap = cfg.MaxChars / 4
	}

	var spans []Span
	start := 0
	for start < len(text) {
		end := cut(text, start, cfg)
		if end <= start {
			break
		}

		if s, ok := trimSpan(text, start, end); ok {
			spans = append(spans, s)
		}

		if end >= len(text) {
			break
		}

		next := overlapStart(text, start, end, cfg.Overlap)
		if next <= start {
			next = end
		}
		start = next
	}

	return spans
}

// cut picks the end offset for the chunk beginning at start. It prefers, in
// order: a legal heading, a paragraph break, a line break, a sentence end,
// and finally a plain word boundary nearest the size limit. Only boundaries
// at least MinChars into the chunk are considered.
func cut(text string, start int, cfg Config) int {
	limit := start + cfg.MaxChars
	if limit >= len(text) {
		return len(text)
	}
	limit = snapRuneStart(text, limit)

	lo := start + cfg.MinChars
	if lo > limit {
		lo = start
	}
	window := text[lo:limit]

	// A heading inside the window starts a new chunk there.
	if locs := headingPattern.FindAllStringIndex(window, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		if lo+last[0] > start {
			return lo + last[0]
		}
	}

	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			boundary := lo + i + len(sep)
			if sep == "\n\n" || sep == "\n" || sep == " " {
				// Cut before trailing whitespace, not after it.
				boundary = lo + i
			}
			if boundary > start {
				return boundary
			}
		}
	}

	// No boundary at all inside the window; hard cut at the limit.
	return limit
}

// overlapStart computes where the next chunk begins so that roughly
// cfg.Overlap bytes of context repeat, snapped forward to a word start so
// the overlap never begins mid-word.
func overlapStart(text string, start, end, overlap int) int {
	if overlap <= 0 {
		return end
	}
	next := end - overlap
	if next <= start {
		return end
	}
	next = snapRuneStart(text, next)

	// Advance to the next word start.
	for next < end {
		r, size := utf8.DecodeRuneInString(text[next:])
		if unicode.IsSpace(r) {
			next += size
			break
		}
		next += size
	}
	for next < end {
		r, size := utf8.DecodeRuneInString(text[next:])
		if !unicode.IsSpace(r) {
			break
		}
		next += size
	}
	if next >= end {
		return end
	}
	return next
}

// trimSpan shrinks [start,end) to exclude surrounding whitespace while
// keeping the span a verbatim substring of text.
func trimSpan(text string, start, end int) (Span, bool) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if end <= start {
		return Span{}, false
	}
	return Span{Text: text[start:end], Start: start, End: end}, true
}

// snapRuneStart moves i backward to the nearest rune boundary.
func snapRuneStart(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
