// Package bench measures how split-point constraints behave on a corpus.
package bench

import (
	"github.com/samber/lo"

	"github.com/jamesainslie/go-codesplit/splitpoint"
)

// Metrics summarizes split-point availability over a set of sequences.
type Metrics struct {
	Samples     int
	WithSplit   int     // sequences with at least one valid split point
	SplitPoints int     // valid split points over all sequences
	Coverage    float64 // WithSplit / Samples
	MeanPoints  float64 // SplitPoints / Samples
	MeanGTLen   float64 // mean ground-truth length in tokens over all valid cuts
}

// Evaluate applies c to every sequence and aggregates the results.
func Evaluate(seqs [][]string, c splitpoint.Constraints) Metrics {
	m := Metrics{Samples: len(seqs)}

	gtTokens := 0
	for _, seq := range seqs {
		valid := splitpoint.Select(seq, c)
		if len(valid) == 0 {
			continue
		}
		m.WithSplit++
		m.SplitPoints += len(valid)
		gtTokens += lo.SumBy(valid, func(i int) int {
			return len(splitpoint.ToEndOfLine(seq, i))
		})
	}

	if m.Samples > 0 {
		m.Coverage = float64(m.WithSplit) / float64(m.Samples)
		m.MeanPoints = float64(m.SplitPoints) / float64(m.Samples)
	}
	if m.SplitPoints > 0 {
		m.MeanGTLen = float64(gtTokens) / float64(m.SplitPoints)
	}
	return m
}
