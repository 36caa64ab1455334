// SPDX-License-Identifier: MIT

package calc

import (
	"log/slog"
)

const (
	// DefaultWorkers evaluates bulk calls on the calling goroutine's tree without splitting.
	DefaultWorkers = 1

	// DefaultWrtBlockSize of zero keeps every derivative column in one block.
	DefaultWrtBlockSize = 0

	// DefaultCheckTol is the relative and absolute tolerance of WithCheck comparisons.
	DefaultCheckTol = 1e-6
)

// Option configures a Calculator.
type Option func(*config)

type config struct {
	workers      int
	wrtBlockSize int
	check        bool
	checkTol     float64
	strict       bool
	logger       *slog.Logger
	metrics      *Metrics
}

func newConfig(opts []Option) config {
	cfg := config{
		workers:      DefaultWorkers,
		wrtBlockSize: DefaultWrtBlockSize,
		checkTol:     DefaultCheckTol,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithWorkers sets how many goroutines a bulk call may use. The tree is split
// into that many sub-trees. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("calc: WithWorkers(n): n must be >= 1")
	}

	return func(c *config) { c.workers = n }
}

// WithWrtBlockSize bounds how many derivative columns (second-derivative
// columns for Hessians) a bulk task holds at once; each block is an
// independent task. Zero means all columns. Panics if n < 0.
func WithWrtBlockSize(n int) Option {
	if n < 0 {
		panic("calc: WithWrtBlockSize(n): n must be >= 0")
	}

	return func(c *config) { c.wrtBlockSize = n }
}

// WithCheck re-evaluates bulk probabilities and derivatives string by string
// and reports any disagreement beyond DefaultCheckTol.
func WithCheck(check bool) Option {
	return func(c *config) { c.check = check }
}

// WithStrict turns check disagreements into returned errors instead of warnings.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithLogger routes warnings and debug records to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("calc: WithLogger(nil)")
	}

	return func(c *config) { c.logger = l }
}

// WithMetrics records bulk-call metrics into m (see NewMetrics).
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}
