package codesplit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jamesainslie/go-codesplit/dedup"
	"github.com/jamesainslie/go-codesplit/internal/corpus"
	"github.com/jamesainslie/go-codesplit/partition"
	"github.com/jamesainslie/go-codesplit/splitpoint"
	"github.com/jamesainslie/go-codesplit/tokenizer"
)

// choiceStream separates the split-point RNG from the partition shuffle.
const choiceStream = 0x9e3779b97f4a7c15

// Pair is one line-completion example.
type Pair struct {
	Input string `json:"input"`
	GT    string `json:"gt"`
}

// Stats counts what happened to the samples of one Build.
type Stats struct {
	Samples        int // input samples
	Duplicates     int // dropped as duplicates
	Train          int
	Dev            int
	Pairs          int
	SkippedNoSplit int // dev samples without a valid split point
}

// Dataset is the output of Build. Train and Dev hold normalized samples.
type Dataset struct {
	Train []string
	Dev   []string
	Pairs []Pair
	Stats Stats
}

// Builder turns a corpus into a line-completion dataset.
// It is safe for concurrent use.
type Builder struct {
	constraints splitpoint.Constraints
	testRatio   float64
	seed        int64
	workers     int
	dedup       bool
	logger      *slog.Logger
}

// New creates a Builder. It fails with ErrInvalidConfig when an option is
// out of range.
func New(opts ...Option) (*Builder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.constraints.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := partition.ValidateRatio(cfg.testRatio); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Builder{
		constraints: cfg.constraints,
		testRatio:   cfg.testRatio,
		seed:        cfg.seed,
		workers:     cfg.workers,
		dedup:       cfg.dedup,
		logger:      cfg.logger,
	}, nil
}

// Constraints returns the split-point constraints in use.
func (b *Builder) Constraints() splitpoint.Constraints {
	return b.constraints
}

// Build normalizes, deduplicates and partitions samples, then cuts every dev
// sample into a Pair. Dev samples without a valid split point still appear
// in Dev but produce no Pair.
func (b *Builder) Build(ctx context.Context, samples []corpus.Sample) (*Dataset, error) {
	stats := Stats{Samples: len(samples)}

	normalized := make([]string, len(samples))
	seqs := make([][]string, len(samples))
	for i, s := range samples {
		normalized[i] = tokenizer.Normalize(s.Code)
		seqs[i] = tokenizer.Tokenize(normalized[i], tokenizer.Markers)
	}

	// Positions of samples that survive deduplication
	kept := make([]int, 0, len(samples))
	if b.dedup {
		flags, err := dedup.Flags(ctx, seqs, dedup.WithWorkers(b.workers), dedup.WithLogger(b.logger))
		if err != nil {
			return nil, err
		}
		for i, keep := range flags {
			if keep {
				kept = append(kept, i)
			}
		}
		stats.Duplicates = len(samples) - len(kept)
	} else {
		for i := range samples {
			kept = append(kept, i)
		}
	}

	trainIdx, devIdx, err := partition.Split(kept, b.testRatio, b.seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ds := &Dataset{
		Train: make([]string, 0, len(trainIdx)),
		Dev:   make([]string, 0, len(devIdx)),
	}
	for _, i := range trainIdx {
		ds.Train = append(ds.Train, normalized[i])
	}

	rng := rand.New(rand.NewPCG(uint64(b.seed), choiceStream))
	for _, i := range devIdx {
		ds.Dev = append(ds.Dev, normalized[i])

		pair, err := cut(seqs[i], b.constraints, rng)
		if err != nil {
			if errors.Is(err, splitpoint.ErrNoSplitPoint) {
				b.logger.Debug("skipping sample without split point", "id", samples[i].ID)
				stats.SkippedNoSplit++
				continue
			}
			return nil, err
		}
		ds.Pairs = append(ds.Pairs, pair)
	}

	stats.Train = len(ds.Train)
	stats.Dev = len(ds.Dev)
	stats.Pairs = len(ds.Pairs)
	ds.Stats = stats

	b.logger.Info("dataset built",
		"samples", stats.Samples,
		"duplicates", stats.Duplicates,
		"train", stats.Train,
		"dev", stats.Dev,
		"pairs", stats.Pairs,
		"skipped", stats.SkippedNoSplit,
	)
	return ds, nil
}

// MakePair normalizes code and cuts it at a split point chosen with rng.
// It returns splitpoint.ErrNoSplitPoint when no index is valid.
func MakePair(code string, c splitpoint.Constraints, rng *rand.Rand) (Pair, error) {
	return cut(tokenizer.Encode(code), c, rng)
}

func cut(tokens []string, c splitpoint.Constraints, rng *rand.Rand) (Pair, error) {
	i, err := splitpoint.Choose(tokens, c, rng)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Input: splitpoint.Prefix(tokens, i),
		GT:    splitpoint.GroundTruth(tokens, i),
	}, nil
}
