// SPDX-License-Identifier: MIT

package calc

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gsterr"
)

var (
	// ErrUnknownGate indicates a gate label absent from the model.
	ErrUnknownGate = fmt.Errorf("calc: unknown gate label: %w", gsterr.ErrDimension)

	// ErrUnknownSpamLabel indicates a SPAM label absent from the model.
	ErrUnknownSpamLabel = fmt.Errorf("calc: unknown SPAM label: %w", gsterr.ErrDimension)

	// ErrNoIdentity indicates a remainder effect on a model without an identity vector.
	ErrNoIdentity = fmt.Errorf("calc: remainder effect needs an identity vector: %w", gsterr.ErrDimension)

	// ErrEmptyModel indicates a gate set with no operators.
	ErrEmptyModel = fmt.Errorf("calc: gate set has no dimension: %w", gsterr.ErrDimension)

	// ErrShape indicates a destination buffer of the wrong shape.
	ErrShape = fmt.Errorf("calc: destination shape mismatch: %w", gsterr.ErrDimension)

	// ErrOverflow indicates an unscaled product that is no longer finite.
	ErrOverflow = fmt.Errorf("calc: product overflow: %w", gsterr.ErrNumericalDegeneracy)

	// ErrCheckMismatch indicates a bulk result that disagrees with the
	// single-string evaluation (WithCheck).
	ErrCheckMismatch = fmt.Errorf("calc: bulk and single-string results differ: %w", gsterr.ErrNumericalDegeneracy)
)

func calcErrorf(tag string, err error) error {
	return gsterr.Errorf(tag, err)
}
