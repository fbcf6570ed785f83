package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	codesplit "github.com/jamesainslie/go-codesplit"
	"github.com/jamesainslie/go-codesplit/internal/artifact"
	"github.com/jamesainslie/go-codesplit/internal/config"
	"github.com/jamesainslie/go-codesplit/internal/corpus"
	"github.com/jamesainslie/go-codesplit/splitpoint"
)

type prepareOptions struct {
	configPath string

	corpus    string
	field     string
	out       string
	seed      int64
	testRatio float64
	workers   int
	noDedup   bool

	minPrefixTokens     int
	minPrefixLineTokens int
	minSuffixLineTokens int
	excludeComments     bool

	maxASTErrors     int
	requireSignature bool
}

func newPrepareCmd() *cobra.Command {
	opts := prepareOptions{}
	defaults := splitpoint.DefaultConstraints()

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Write train.txt, dev.txt and dev.json from a JSONL corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				applyConfig(cmd, cfg, &opts)
			}
			return runPrepare(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file with default settings")
	flags.StringVar(&opts.corpus, "corpus", "", "JSONL corpus file (required)")
	flags.StringVar(&opts.field, "field", corpus.DefaultField, "JSON field holding the source code")
	flags.StringVarP(&opts.out, "out", "o", "data", "Output directory")
	flags.Int64VarP(&opts.seed, "seed", "s", 42, "Random seed")
	flags.Float64VarP(&opts.testRatio, "test-ratio", "t", 0.2, "Share of samples in the dev set")
	flags.IntVar(&opts.workers, "workers", 0, "Deduplication workers (default: number of CPUs)")
	flags.BoolVar(&opts.noDedup, "no-dedup", false, "Keep duplicate samples")
	flags.IntVar(&opts.minPrefixTokens, "min-prefix-tokens", defaults.MinPrefixTokens, "Minimum tokens before the split point")
	flags.IntVar(&opts.minPrefixLineTokens, "min-prefix-line-tokens", defaults.MinPrefixLineTokens, "Minimum tokens on the split line before the split point (0 disables)")
	flags.IntVar(&opts.minSuffixLineTokens, "min-suffix-line-tokens", defaults.MinSuffixLineTokens, "Minimum tokens on the split line after the split point (0 disables)")
	flags.BoolVar(&opts.excludeComments, "exclude-comments", false, "Never split lines starting with a -- comment")
	flags.IntVar(&opts.maxASTErrors, "max-ast-errors", -1, "Drop samples with more parse errors than this (-1 disables)")
	flags.BoolVar(&opts.requireSignature, "require-signature", false, "Drop samples marked as having no type signature")

	return cmd
}

// applyConfig copies config values into opts for flags not set explicitly.
func applyConfig(cmd *cobra.Command, cfg *config.Config, opts *prepareOptions) {
	flags := cmd.Flags()
	unset := func(name string) bool { return !flags.Changed(name) }

	if cfg.Corpus != "" && unset("corpus") {
		opts.corpus = cfg.Corpus
	}
	if cfg.Field != "" && unset("field") {
		opts.field = cfg.Field
	}
	if cfg.Out != "" && unset("out") {
		opts.out = cfg.Out
	}
	if cfg.Seed != nil && unset("seed") {
		opts.seed = *cfg.Seed
	}
	if cfg.TestRatio != nil && unset("test-ratio") {
		opts.testRatio = *cfg.TestRatio
	}
	if cfg.Workers > 0 && unset("workers") {
		opts.workers = cfg.Workers
	}
	if cfg.Dedup != nil && unset("no-dedup") {
		opts.noDedup = !*cfg.Dedup
	}

	c := cfg.Constraints(splitpoint.Constraints{
		MinPrefixTokens:           opts.minPrefixTokens,
		MinPrefixLineTokens:       opts.minPrefixLineTokens,
		MinSuffixLineTokens:       opts.minSuffixLineTokens,
		ExcludeCommentPrefixLines: opts.excludeComments,
	})
	if unset("min-prefix-tokens") {
		opts.minPrefixTokens = c.MinPrefixTokens
	}
	if unset("min-prefix-line-tokens") {
		opts.minPrefixLineTokens = c.MinPrefixLineTokens
	}
	if unset("min-suffix-line-tokens") {
		opts.minSuffixLineTokens = c.MinSuffixLineTokens
	}
	if unset("exclude-comments") {
		opts.excludeComments = c.ExcludeCommentPrefixLines
	}

	if cfg.Filter.MaxASTErrors != nil && unset("max-ast-errors") {
		opts.maxASTErrors = *cfg.Filter.MaxASTErrors
	}
	if cfg.Filter.RequireSignature && unset("require-signature") {
		opts.requireSignature = true
	}
}

func (o prepareOptions) constraints() splitpoint.Constraints {
	return splitpoint.Constraints{
		MinPrefixTokens:           o.minPrefixTokens,
		MinPrefixLineTokens:       o.minPrefixLineTokens,
		MinSuffixLineTokens:       o.minSuffixLineTokens,
		ExcludeCommentPrefixLines: o.excludeComments,
	}
}

func (o prepareOptions) filter() corpus.Filter {
	f := corpus.Filter{RequireSignature: o.requireSignature}
	if o.maxASTErrors >= 0 {
		maxErrs := o.maxASTErrors
		f.MaxASTErrors = &maxErrs
	}
	return f
}

func runPrepare(cmd *cobra.Command, opts prepareOptions) error {
	if opts.corpus == "" {
		return errors.New("--corpus is required")
	}
	logger := slog.Default()

	// Validate configuration before touching the corpus
	builder, err := codesplit.New(
		codesplit.WithConstraints(opts.constraints()),
		codesplit.WithTestRatio(opts.testRatio),
		codesplit.WithSeed(opts.seed),
		codesplit.WithWorkers(opts.workers),
		codesplit.WithDedup(!opts.noDedup),
		codesplit.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	c, err := corpus.LoadJSONL(opts.corpus, opts.field)
	if err != nil {
		return err
	}
	samples := opts.filter().Apply(c.Samples)
	logger.Info("corpus loaded",
		"path", opts.corpus,
		"samples", len(c.Samples),
		"skipped", c.Skipped,
		"filtered", len(c.Samples)-len(samples),
	)

	ds, err := builder.Build(cmd.Context(), samples)
	if err != nil {
		return err
	}

	w, err := artifact.NewWriter(opts.out)
	if err != nil {
		return err
	}
	if err := w.WriteLines(artifact.TrainText, ds.Train); err != nil {
		return err
	}
	if err := w.WriteLines(artifact.DevText, ds.Dev); err != nil {
		return err
	}
	if err := w.WritePairs(artifact.DevPairs, ds.Pairs); err != nil {
		return err
	}

	m := artifact.NewManifest(opts.corpus)
	m.Seed = opts.seed
	m.TestRatio = opts.testRatio
	m.Dedup = !opts.noDedup
	m.Constraints = builder.Constraints()
	m.Stats = ds.Stats
	if err := w.WriteManifest(m); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d train, %d dev, %d pairs to %s\n",
		ds.Stats.Train, ds.Stats.Dev, ds.Stats.Pairs, w.Dir())
	return nil
}
