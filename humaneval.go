package codesplit

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"github.com/jamesainslie/go-codesplit/tokenizer"
)

// HumanEval file conventions.
const (
	// SplitSymbol marks hand-picked split points in HumanEval solutions.
	SplitSymbol = "⭐️"

	// ImplementationHeader precedes the solution code in a HumanEval file.
	ImplementationHeader = "-- Haskell Implementation:"
)

var lineBreaks = regexp.MustCompile(`\n+`)

// HumanEvalPairs cuts one HumanEval solution at up to maxSplits of its
// SplitSymbol positions, sampled with rng. The ground truth runs to the end
// of the line; split symbols are removed from both sides.
func HumanEvalPairs(content string, rng *rand.Rand, maxSplits int) ([]Pair, error) {
	parts := strings.Split(content, ImplementationHeader)
	if len(parts) < 2 {
		return nil, ErrMissingImplementation
	}
	code := strings.TrimSpace(parts[1])
	code = tokenizer.BOS + code + tokenizer.EOS
	code = lineBreaks.ReplaceAllString(code, " "+tokenizer.EOL+" ")

	var positions []int
	for i := 0; i < len(code); {
		idx := strings.Index(code[i:], SplitSymbol)
		if idx < 0 {
			break
		}
		positions = append(positions, i+idx)
		i += idx + 1
	}

	// Sample without replacement
	k := min(max(maxSplits, 0), len(positions))
	perm := rng.Perm(len(positions))

	pairs := make([]Pair, 0, k)
	for _, p := range perm[:k] {
		pos := positions[p]
		left := strings.TrimRightFunc(code[:pos], unicode.IsSpace)
		right := strings.TrimLeftFunc(code[pos+len(SplitSymbol):], unicode.IsSpace)
		right = readToEOL(right)

		pairs = append(pairs, Pair{
			Input: removeSplitSymbols(left),
			GT:    removeSplitSymbols(right),
		})
	}
	return pairs, nil
}

func readToEOL(text string) string {
	line, _, _ := strings.Cut(text, tokenizer.EOS)
	line, _, _ = strings.Cut(line, tokenizer.EOL)
	return line
}

// removeSplitSymbols drops split symbols, collapsing the whitespace around
// each into a single space.
func removeSplitSymbols(text string) string {
	splits := strings.Split(text, SplitSymbol)
	for i := range splits {
		if i > 0 {
			splits[i] = strings.TrimLeftFunc(splits[i], unicode.IsSpace)
		}
		if i < len(splits)-1 {
			splits[i] = strings.TrimRightFunc(splits[i], unicode.IsSpace)
		}
	}
	return strings.Join(splits, " ")
}
