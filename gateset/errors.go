// SPDX-License-Identifier: MIT

package gateset

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gsterr"
)

var (
	// ErrUnknownLabel indicates a lookup of a label the model does not hold.
	ErrUnknownLabel = fmt.Errorf("gateset: unknown label: %w", gsterr.ErrDimension)

	// ErrDimMismatch indicates an operator whose size differs from the model dimension.
	ErrDimMismatch = fmt.Errorf("gateset: operator dimension mismatch: %w", gsterr.ErrDimension)

	// ErrReservedLabel indicates that the remainder label was used to name an operator.
	ErrReservedLabel = fmt.Errorf("gateset: reserved label: %w", gsterr.ErrDimension)

	// ErrStrictIndexing indicates generic Set/Get on a model built WithStrictIndexing.
	ErrStrictIndexing = fmt.Errorf("gateset: generic indexing disabled: %w", gsterr.ErrDimension)

	// ErrParamCount indicates a parameter vector of the wrong length.
	ErrParamCount = fmt.Errorf("gateset: parameter vector length mismatch: %w: %w",
		gsterr.ErrParameterization, gsterr.ErrDimension)

	// ErrRotation indicates a rotation whose angle count does not fit the model,
	// or a model dimension that is not the square of a power of two.
	ErrRotation = fmt.Errorf("gateset: rotation does not match dimension: %w", gsterr.ErrDimension)

	// ErrUnknownBasis indicates an operation that needs the model's basis
	// while none is recorded.
	ErrUnknownBasis = fmt.Errorf("gateset: basis not recorded: %w", gsterr.ErrBasis)
)

func gatesetErrorf(tag string, err error) error {
	return gsterr.Errorf(tag, err)
}
