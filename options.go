package codesplit

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-codesplit/splitpoint"
)

// Option configures a Builder.
type Option func(*config)

type config struct {
	constraints splitpoint.Constraints
	testRatio   float64
	seed        int64
	workers     int
	dedup       bool
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		constraints: splitpoint.DefaultConstraints(),
		testRatio:   0.2,
		seed:        42,
		workers:     runtime.NumCPU(),
		dedup:       true,
		logger:      slog.Default(),
	}
}

// WithConstraints sets the split-point constraints
// (default: splitpoint.DefaultConstraints()).
func WithConstraints(c splitpoint.Constraints) Option {
	return func(cfg *config) {
		cfg.constraints = c
	}
}

// WithTestRatio sets the share of samples in the dev set (default: 0.2).
func WithTestRatio(r float64) Option {
	return func(c *config) {
		c.testRatio = r
	}
}

// WithSeed sets the seed for partitioning and split-point choice (default: 42).
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithWorkers sets the deduplication worker count (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithDedup enables or disables duplicate removal (default: true).
func WithDedup(enabled bool) Option {
	return func(c *config) {
		c.dedup = enabled
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
