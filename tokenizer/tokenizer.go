// Package tokenizer turns source code into the marker-delimited token stream
// used for line-completion examples.
package tokenizer

import (
	"slices"
	"strings"
)

// Marker tokens. They are never split and never merged with adjacent text.
const (
	BOS = "<s>"   // start of sequence
	EOS = "</s>"  // end of sequence
	EOL = "<EOL>" // line boundary
)

// Markers lists the marker tokens in isolation priority order.
var Markers = []string{BOS, EOS, EOL}

// IsMarker reports whether tok is exactly one of the marker tokens.
func IsMarker(tok string) bool {
	return tok == BOS || tok == EOS || tok == EOL
}

// Tokenize splits normalized text into tokens.
//
// Text is first split on single spaces; runs of spaces therefore yield
// zero-length tokens, which are kept. Every occurrence of a marker is then cut
// out into its own token, even when glued to surrounding text, so that
// "abc</s>def" becomes ["abc", "</s>", "def"]. Markers are processed in the
// given order; earlier markers take priority at overlapping positions.
func Tokenize(text string, markers []string) []string {
	parts := strings.Split(text, " ")

	// fixed marks parts already emitted as a marker
	fixed := make([]bool, len(parts))
	for _, marker := range markers {
		if marker == "" || !strings.Contains(text, marker) {
			continue
		}

		for i := 0; i < len(parts); i++ {
			if fixed[i] {
				continue
			}

			part := parts[i]
			if part == marker {
				fixed[i] = true
				continue
			}

			idx := strings.Index(part, marker)
			if idx < 0 {
				continue
			}

			var middle []string
			var middleFixed []bool
			if idx > 0 {
				middle = append(middle, part[:idx])
				middleFixed = append(middleFixed, false)
			}
			middle = append(middle, marker)
			middleFixed = append(middleFixed, true)
			if rest := part[idx+len(marker):]; rest != "" {
				// rest is rescanned on the next iteration
				middle = append(middle, rest)
				middleFixed = append(middleFixed, false)
			}

			parts = slices.Replace(parts, i, i+1, middle...)
			fixed = slices.Replace(fixed, i, i+1, middleFixed...)
		}
	}

	return parts
}

// Encode normalizes raw text and tokenizes it with the default markers.
func Encode(raw string) []string {
	return Tokenize(Normalize(raw), Markers)
}

// NonEmpty returns the tokens with zero-length entries removed.
func NonEmpty(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
