package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	codesplit "github.com/jamesainslie/go-codesplit"
	"github.com/jamesainslie/go-codesplit/dedup"
	"github.com/jamesainslie/go-codesplit/internal/bench"
	"github.com/jamesainslie/go-codesplit/internal/corpus"
	"github.com/jamesainslie/go-codesplit/splitpoint"
	"github.com/jamesainslie/go-codesplit/tokenizer"
)

func newStatsCmd() *cobra.Command {
	var (
		path            string
		field           string
		sweep           []int
		sweepRange      string
		minSuffix       int
		minPrefixLine   int
		excludeComments bool
		workers         int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report duplicates and split-point coverage for a corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--corpus is required")
			}

			base := splitpoint.Constraints{
				MinPrefixTokens:           1,
				MinPrefixLineTokens:       minPrefixLine,
				MinSuffixLineTokens:       minSuffix,
				ExcludeCommentPrefixLines: excludeComments,
			}
			if err := base.Validate(); err != nil {
				return fmt.Errorf("%w: %w", codesplit.ErrInvalidConfig, err)
			}

			values := sweep
			if sweepRange != "" {
				var err error
				if values, err = parseSweepRange(sweepRange); err != nil {
					return err
				}
			}

			c, err := corpus.LoadJSONL(path, field)
			if err != nil {
				return err
			}

			codes := corpus.Codes(c.Samples)
			flags, err := dedup.Samples(cmd.Context(), codes, dedup.WithWorkers(workers))
			if err != nil {
				return err
			}
			unique := dedup.Apply(codes, flags)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Samples:    %d\n", len(c.Samples))
			fmt.Fprintf(out, "Skipped:    %d\n", c.Skipped)
			fmt.Fprintf(out, "Duplicates: %d\n\n", len(c.Samples)-len(unique))

			seqs := lo.Map(unique, func(code string, _ int) []string {
				return tokenizer.Encode(code)
			})
			renderSweep(out, bench.Sweep(seqs, base, values))
			return nil
		},
	}

	defaults := splitpoint.DefaultConstraints()
	f := cmd.Flags()
	f.StringVar(&path, "corpus", "", "JSONL corpus file (required)")
	f.StringVar(&field, "field", corpus.DefaultField, "JSON field holding the source code")
	f.IntSliceVar(&sweep, "sweep", []int{1, 3, 5, 10}, "MinPrefixTokens values to evaluate")
	f.StringVar(&sweepRange, "sweep-range", "", "MinPrefixTokens values as min:max:step")
	f.IntVar(&minPrefixLine, "min-prefix-line-tokens", defaults.MinPrefixLineTokens, "Minimum tokens on the split line before the split point")
	f.IntVar(&minSuffix, "min-suffix-line-tokens", defaults.MinSuffixLineTokens, "Minimum tokens on the split line after the split point")
	f.BoolVar(&excludeComments, "exclude-comments", false, "Never split lines starting with a -- comment")
	f.IntVar(&workers, "workers", 0, "Deduplication workers (default: number of CPUs)")
	cmd.MarkFlagsMutuallyExclusive("sweep", "sweep-range")

	return cmd
}

// parseSweepRange parses "min:max:step" into the values bench.SweepValues yields.
func parseSweepRange(s string) ([]int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: sweep range %q must be min:max:step", codesplit.ErrInvalidConfig, s)
	}

	var bounds [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: sweep range %q: %w", codesplit.ErrInvalidConfig, s, err)
		}
		bounds[i] = n
	}

	values := bench.SweepValues(bounds[0], bounds[1], bounds[2])
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: sweep range %q is empty", codesplit.ErrInvalidConfig, s)
	}
	return values, nil
}

func renderSweep(out io.Writer, results []bench.SweepResult) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Min Prefix", "With Split", "Coverage", "Points/Sample", "Mean GT Len"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		m := r.Metrics
		table.Append([]string{
			strconv.Itoa(r.MinPrefixTokens),
			fmt.Sprintf("%d/%d", m.WithSplit, m.Samples),
			formatPercent(m.Coverage),
			strconv.FormatFloat(m.MeanPoints, 'f', 2, 64),
			strconv.FormatFloat(m.MeanGTLen, 'f', 2, 64),
		})
	}
	table.Render()
}

func formatPercent(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v*100, 'f', 1, 64), ".0") + "%"
}
