package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-codesplit/internal/bench"
)

type evaluateResult struct {
	name   string
	scores bench.Scores
}

func newEvaluateCmd() *cobra.Command {
	var predictions []string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score model predictions against ground truth",
		Long: `Reads one or more JSON Lines files of {"prediction", "gt"} objects and
reports exact match and edit similarity for each. Rows are named after the
file, without its extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(predictions) == 0 {
				return fmt.Errorf("--predictions is required")
			}

			results := make([]evaluateResult, 0, len(predictions))
			for _, path := range predictions {
				preds, err := bench.LoadPredictions(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results = append(results, evaluateResult{
					name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
					scores: bench.ScorePredictions(preds),
				})
			}

			renderScores(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&predictions, "predictions", "p", nil, "Predictions file (repeatable)")
	return cmd
}

func renderScores(out io.Writer, results []evaluateResult) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Model", "Samples", "EM", "ES"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		table.Append([]string{
			r.name,
			strconv.Itoa(r.scores.Samples),
			strconv.FormatFloat(100*r.scores.ExactMatch, 'f', 4, 64),
			strconv.FormatFloat(100*r.scores.EditSimilarity, 'f', 4, 64),
		})
	}
	table.Render()
}
