package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	codesplit "github.com/jamesainslie/go-codesplit"
	"github.com/jamesainslie/go-codesplit/internal/artifact"
	"github.com/jamesainslie/go-codesplit/internal/corpus"
)

func newHumanEvalCmd() *cobra.Command {
	var (
		input     string
		out       string
		seed      int64
		maxSplits int
	)

	cmd := &cobra.Command{
		Use:   "humaneval",
		Short: "Cut annotated HumanEval solutions into test pairs",
		Long: `Reads every .hs file in --input, cuts each solution at up to --max-splits
of its marked split points and writes the pairs to test-humaneval.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			files, err := corpus.LoadHaskellDir(input)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
			var pairs []codesplit.Pair
			for _, f := range files {
				filePairs, err := codesplit.HumanEvalPairs(f.Content, rng, maxSplits)
				if err != nil {
					return fmt.Errorf("%s: %w", f.Name, err)
				}
				slog.Debug("cut solution", "file", f.Name, "pairs", len(filePairs))
				pairs = append(pairs, filePairs...)
			}

			w, err := artifact.NewWriter(out)
			if err != nil {
				return err
			}
			if err := w.WritePairs(artifact.HumanEval, pairs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pairs from %d files to %s\n",
				len(pairs), len(files), w.Path(artifact.HumanEval))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "Directory of annotated .hs solutions (required)")
	flags.StringVarP(&out, "out", "o", "data", "Output directory")
	flags.Int64VarP(&seed, "seed", "s", 42, "Random seed")
	flags.IntVar(&maxSplits, "max-splits", 5, "Maximum pairs per solution")

	return cmd
}
