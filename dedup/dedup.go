// Package dedup removes exact duplicates from a tokenized corpus, keeping
// the last occurrence of every duplicate group.
package dedup

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-codesplit/tokenizer"
)

// Option configures deduplication.
type Option func(*config)

type config struct {
	workers       int
	chunkSize     int
	progressEvery int64
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		workers:   runtime.NumCPU(),
		chunkSize: 256,
		logger:    slog.Default(),
	}
}

// WithWorkers sets the number of parallel workers (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithChunkSize sets how many positions one task evaluates (default: 256).
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithProgressEvery logs progress at debug level every n evaluated positions.
// Zero disables progress logging.
func WithProgressEvery(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.progressEvery = int64(n)
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Flags returns one keep flag per input position. Position i is kept iff no
// position j > i holds an element-wise identical sequence, so only the last
// member of each duplicate group survives.
//
// The only error is ctx's, when it is cancelled before all positions are
// evaluated.
func Flags(ctx context.Context, seqs [][]string, opts ...Option) ([]bool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	keep := make([]bool, len(seqs))
	if len(seqs) == 0 {
		return keep, nil
	}

	snap := NewSnapshot(seqs)
	pool := NewPool(snap, min(cfg.workers, len(seqs)))
	defer pool.Close()
	cfg.logger.Debug("dedup started", "samples", snap.Len(), "workers", pool.Size())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	var done atomic.Int64
	for start := 0; start < len(seqs); start += cfg.chunkSize {
		if gctx.Err() != nil {
			break
		}
		end := min(start+cfg.chunkSize, len(seqs))

		g.Go(func() error {
			w, err := pool.Acquire(gctx)
			if err != nil {
				return err
			}
			defer pool.Release(w)

			// Each task writes only its own slots
			for i := start; i < end; i++ {
				keep[i] = w.Keep(i)
			}

			n := done.Add(int64(end - start))
			if cfg.progressEvery > 0 && n/cfg.progressEvery != (n-int64(end-start))/cfg.progressEvery {
				cfg.logger.Debug("dedup progress", "done", n, "total", len(seqs))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg.logger.Debug("dedup complete",
		"samples", len(seqs),
		"kept", count(keep),
		"comparisons", pool.Compared(),
	)
	return keep, nil
}

// Samples normalizes and tokenizes raw code strings and returns their keep
// flags.
func Samples(ctx context.Context, codes []string, opts ...Option) ([]bool, error) {
	seqs := make([][]string, len(codes))
	for i, code := range codes {
		seqs[i] = tokenizer.Encode(code)
	}
	return Flags(ctx, seqs, opts...)
}

// Apply returns the items whose flag is set, in order.
func Apply[T any](items []T, keep []bool) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		if i < len(keep) && keep[i] {
			out = append(out, item)
		}
	}
	return out
}

func count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
