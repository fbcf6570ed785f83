package bench

import (
	"sort"

	"github.com/jamesainslie/go-codesplit/splitpoint"
)

// SweepResult holds metrics for one MinPrefixTokens value.
type SweepResult struct {
	MinPrefixTokens int
	Metrics         Metrics
}

// SweepValues generates MinPrefixTokens values from min to max with given step.
func SweepValues(min, max, step int) []int {
	if step <= 0 {
		return nil
	}
	var values []int
	for v := min; v <= max; v += step {
		values = append(values, v)
	}
	return values
}

// Sweep evaluates base with each MinPrefixTokens value and returns results
// sorted by value. Values below 1 are skipped.
func Sweep(seqs [][]string, base splitpoint.Constraints, values []int) []SweepResult {
	var results []SweepResult
	for _, v := range values {
		c := base
		c.MinPrefixTokens = v
		if c.Validate() != nil {
			continue
		}
		results = append(results, SweepResult{
			MinPrefixTokens: v,
			Metrics:         Evaluate(seqs, c),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].MinPrefixTokens < results[j].MinPrefixTokens
	})
	return results
}
