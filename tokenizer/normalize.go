package tokenizer

import (
	"strings"
	"unicode"
)

// Normalize prepares raw source text for line-completion tokenization.
// - Trims leading whitespace, including line breaks
// - Trims trailing spaces and tabs; a trailing line break is kept as <EOL>
// - Collapses each run of line breaks into a single <EOL>
// - Wraps the result in <s> ... </s>
//
// Blank-line counts are not preserved.
func Normalize(raw string) string {
	text := strings.TrimRightFunc(strings.TrimLeftFunc(raw, unicode.IsSpace), isPadding)

	var builder strings.Builder
	builder.Grow(len(text) + len(BOS) + len(EOS))
	builder.WriteString(BOS)

	inBreak := false
	for _, r := range text {
		if isLineBreak(r) {
			// Only the first break of a run emits a marker
			if !inBreak {
				builder.WriteString(EOL)
				inBreak = true
			}
			continue
		}
		inBreak = false
		builder.WriteRune(r)
	}

	builder.WriteString(EOS)
	return builder.String()
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func isPadding(r rune) bool {
	return unicode.IsSpace(r) && !isLineBreak(r)
}
