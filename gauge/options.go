// SPDX-License-Identifier: MIT

package gauge

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTol is the singular-value cut for the nullspace of [dP | dG].
	DefaultTol = 1e-7

	// DefaultPinvRcond is the relative cut of the pseudo-inverse that
	// normalizes the gauge projector.
	DefaultPinvRcond = 1e-7

	// DefaultRankTol is the singular-value cut of the postcondition rank checks.
	DefaultRankTol = 1e-7
)

// Option configures Compute.
type Option func(*config)

type config struct {
	tol       float64
	pinvRcond float64
	rankTol   float64
	mix       mat.Matrix
	strict    bool
	logger    *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		tol:       DefaultTol,
		pinvRcond: DefaultPinvRcond,
		rankTol:   DefaultRankTol,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func mustPositive(name string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic("gauge: " + name + " must be positive and finite")
	}
}

// WithTol sets the nullspace tolerance. Panics unless tol is positive and finite.
func WithTol(tol float64) Option {
	mustPositive("WithTol", tol)

	return func(c *config) { c.tol = tol }
}

// WithPinvRcond sets the pseudo-inverse cut. Panics unless rcond is positive and finite.
func WithPinvRcond(rcond float64) Option {
	mustPositive("WithPinvRcond", rcond)

	return func(c *config) { c.pinvRcond = rcond }
}

// WithRankTol sets the tolerance of the rank checks. Panics unless tol is positive and finite.
func WithRankTol(tol float64) Option {
	mustPositive("WithRankTol", tol)

	return func(c *config) { c.rankTol = tol }
}

// WithNonGaugeMix adds mix-weighted non-gauge directions to the gauge
// generators before projecting: genDG += N·mix, where the columns of N span
// the orthogonal complement of the generators. mix must be
// (NumParams - rank) × (number of generators).
func WithNonGaugeMix(mix mat.Matrix) Option {
	return func(c *config) { c.mix = mix }
}

// WithStrict turns failed rank checks into returned errors instead of warnings.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithLogger routes warnings and debug records to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("gauge: WithLogger(nil)")
	}

	return func(c *config) { c.logger = l }
}
