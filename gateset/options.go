// SPDX-License-Identifier: MIT

package gateset

import (
	"log/slog"

	"github.com/katalvlaran/lvgst/operator"
)

const (
	// DefaultParam is the parameterization used by the raw-value setters.
	DefaultParam = operator.Full

	// DefaultRemainderLabel names the complement effect and the "1 - others" SPAM label.
	DefaultRemainderLabel = "remainder"

	// DefaultBasisName is reported until a basis is recorded with SetBasis.
	DefaultBasisName = "unknown"
)

// Option configures a GateSet at construction.
type Option func(gs *GateSet)

// WithDefaultParam sets the parameterization used by SetPrepVector,
// SetEffectVector and SetGateMatrix. Effects are never TP: a TP default
// stores effects as Full.
func WithDefaultParam(kind operator.Kind) Option {
	return func(gs *GateSet) { gs.defaultParam = kind }
}

// WithRemainderLabel replaces DefaultRemainderLabel. Panics on an empty name.
func WithRemainderLabel(name string) Option {
	if name == "" {
		panic("gateset: WithRemainderLabel(\"\"): empty label")
	}

	return func(gs *GateSet) { gs.remainder = name }
}

// WithStrictIndexing disables the generic Set/Get accessors so that every
// access names its kind explicitly.
func WithStrictIndexing() Option {
	return func(gs *GateSet) { gs.strict = true }
}

// WithLogger routes the model's debug records to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("gateset: WithLogger(nil)")
	}

	return func(gs *GateSet) { gs.logger = l }
}

// effectParam maps the default parameterization onto the one used for effects.
func effectParam(kind operator.Kind) operator.Kind {
	if kind == operator.TP {
		return operator.Full
	}

	return kind
}
