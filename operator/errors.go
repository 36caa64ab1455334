// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gsterr"
)

var (
	// ErrUnknownKind is returned by ParseKind for names other than "full", "TP", "static".
	ErrUnknownKind = fmt.Errorf("operator: unknown parameterization: %w", gsterr.ErrParameterization)

	// ErrParamCount is returned by FromVector when the parameter vector has the
	// wrong length. It matches both ErrParameterization and ErrDimension.
	ErrParamCount = fmt.Errorf("operator: parameter vector length mismatch: %w: %w",
		gsterr.ErrParameterization, gsterr.ErrDimension)

	// ErrNotTracePreserving is returned when a TP operator would receive a value
	// whose fixed part (first gate row, first vector element) differs from the constraint.
	ErrNotTracePreserving = fmt.Errorf("operator: value violates trace-preserving constraint: %w",
		gsterr.ErrParameterization)

	// ErrShape is returned when a raw value has the wrong shape.
	ErrShape = fmt.Errorf("operator: shape mismatch: %w", gsterr.ErrDimension)
)

func operatorErrorf(tag string, err error) error {
	return gsterr.Errorf(tag, err)
}
