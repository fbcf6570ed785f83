// Package splitpoint selects the indices at which a token sequence can be cut
// into a model-input prefix and a single-line ground-truth continuation.
package splitpoint

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jamesainslie/go-codesplit/tokenizer"
)

// CommentPrefix is the line-comment opener checked by ExcludeCommentPrefixLines.
const CommentPrefix = "--"

var (
	// ErrNoSplitPoint indicates no index satisfies the constraints.
	// Callers skip the sample.
	ErrNoSplitPoint = errors.New("splitpoint: no valid split point")

	// ErrInvalidConstraints indicates a constraint value out of range.
	ErrInvalidConstraints = errors.New("splitpoint: invalid constraints")
)

// Constraints configures which indices are valid cut points.
//
// MinPrefixTokens must be at least 1. Setting MinPrefixLineTokens or
// MinSuffixLineTokens to 0 switches that constraint off; Validate accepts 0
// for them and rejects negative values with ErrInvalidConstraints.
type Constraints struct {
	// MinPrefixTokens is the minimum number of non-empty tokens before the cut.
	MinPrefixTokens int
	// MinPrefixLineTokens is the minimum number of non-empty tokens between the
	// start of the current line and the cut.
	MinPrefixLineTokens int
	// MinSuffixLineTokens is the minimum number of non-empty tokens between the
	// cut and the end of the current line.
	MinSuffixLineTokens int
	// ExcludeCommentPrefixLines rejects cuts on lines starting with "--".
	ExcludeCommentPrefixLines bool
}

// DefaultConstraints returns the constraints used by the dataset builder:
// at least one token of context and at least one token left to predict.
func DefaultConstraints() Constraints {
	return Constraints{
		MinPrefixTokens:     1,
		MinSuffixLineTokens: 1,
	}
}

// Validate checks the constraint values.
func (c Constraints) Validate() error {
	if c.MinPrefixTokens < 1 {
		return fmt.Errorf("%w: min prefix tokens must be at least 1, got %d", ErrInvalidConstraints, c.MinPrefixTokens)
	}
	if c.MinPrefixLineTokens < 0 {
		return fmt.Errorf("%w: min prefix line tokens must not be negative, got %d", ErrInvalidConstraints, c.MinPrefixLineTokens)
	}
	if c.MinSuffixLineTokens < 0 {
		return fmt.Errorf("%w: min suffix line tokens must not be negative, got %d", ErrInvalidConstraints, c.MinSuffixLineTokens)
	}
	return nil
}

// ToBeginningOfLine returns the non-empty tokens between the nearest
// preceding <EOL> or <s> and index i, in order.
func ToBeginningOfLine(tokens []string, i int) []string {
	var line []string
	for j := min(i, len(tokens)) - 1; j >= 0; j-- {
		tok := tokens[j]
		if tok == tokenizer.EOL || tok == tokenizer.BOS {
			break
		}
		if tok != "" {
			line = append(line, tok)
		}
	}

	// Reverse to restore order
	for l, r := 0, len(line)-1; l < r; l, r = l+1, r-1 {
		line[l], line[r] = line[r], line[l]
	}
	return line
}

// ToEndOfLine returns the non-empty tokens from index i up to, but not
// including, the next <EOL> or </s>.
func ToEndOfLine(tokens []string, i int) []string {
	var line []string
	for j := max(i, 0); j < len(tokens); j++ {
		tok := tokens[j]
		if tok == tokenizer.EOL || tok == tokenizer.EOS {
			break
		}
		if tok != "" {
			line = append(line, tok)
		}
	}
	return line
}

// Select returns every valid cut index in ascending order. An empty result
// means the sequence has no valid split.
//
// Each index is judged on its own; picking one of them is left to the caller.
func Select(tokens []string, c Constraints) []int {
	var valid []int
	prefixCount := 0
	for i := range tokens {
		if i > 0 && tokens[i-1] != "" {
			prefixCount++
		}
		if i == 0 || prefixCount < c.MinPrefixTokens {
			continue
		}
		if lineOK(tokens, i, c) {
			valid = append(valid, i)
		}
	}
	return valid
}

// Valid reports whether i is a valid cut index for tokens.
func Valid(tokens []string, i int, c Constraints) bool {
	if i <= 0 || i >= len(tokens) {
		return false
	}
	if len(tokenizer.NonEmpty(tokens[:i])) < c.MinPrefixTokens {
		return false
	}
	return lineOK(tokens, i, c)
}

// lineOK checks the line-position constraints for index i.
func lineOK(tokens []string, i int, c Constraints) bool {
	if c.MinSuffixLineTokens > 0 && len(ToEndOfLine(tokens, i)) < c.MinSuffixLineTokens {
		return false
	}
	if c.MinPrefixLineTokens == 0 && !c.ExcludeCommentPrefixLines {
		return true
	}

	line := ToBeginningOfLine(tokens, i)
	if len(line) < c.MinPrefixLineTokens {
		return false
	}
	if c.ExcludeCommentPrefixLines && len(line) > 0 && strings.HasPrefix(line[0], CommentPrefix) {
		return false
	}
	return true
}

// Prefix returns the model input for a cut at i: the non-empty tokens before
// i joined by single spaces.
func Prefix(tokens []string, i int) string {
	i = min(max(i, 0), len(tokens))
	return strings.Join(tokenizer.NonEmpty(tokens[:i]), " ")
}

// GroundTruth returns the target for a cut at i: the rest of the current
// line joined by single spaces. It never spans a line boundary.
func GroundTruth(tokens []string, i int) string {
	return strings.Join(ToEndOfLine(tokens, i), " ")
}

// Choose picks one valid cut index uniformly at random using rng.
func Choose(tokens []string, c Constraints, rng *rand.Rand) (int, error) {
	valid := Select(tokens, c)
	if len(valid) == 0 {
		return 0, ErrNoSplitPoint
	}
	return valid[rng.IntN(len(valid))], nil
}
