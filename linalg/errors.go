// SPDX-License-Identifier: MIT
// Package linalg: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the linalg
// package. Each sentinel wraps one class of the lvgst error taxonomy so that
// callers may match either the precise condition or the broad class.

package linalg

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gsterr"
)

// Every message is prefixed with "linalg: ..." for easy grepping across logs.
var (
	// ErrNilMatrix indicates that a nil matrix argument was used.
	ErrNilMatrix = fmt.Errorf("linalg: nil matrix: %w", gsterr.ErrDimension)

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = fmt.Errorf("linalg: dimension mismatch: %w", gsterr.ErrDimension)

	// ErrNaNInf signals a NaN or ±Inf tolerance or value where finite values are required.
	ErrNaNInf = fmt.Errorf("linalg: NaN or Inf encountered: %w", gsterr.ErrDimension)

	// ErrSingular is returned when an inversion meets a singular operand.
	ErrSingular = fmt.Errorf("linalg: singular matrix: %w", gsterr.ErrNumericalDegeneracy)

	// ErrSVDFailed is returned when the singular value decomposition does not converge.
	ErrSVDFailed = fmt.Errorf("linalg: svd did not converge: %w", gsterr.ErrNumericalDegeneracy)

	// ErrEigenFailed is returned when a symmetric eigendecomposition does not converge.
	ErrEigenFailed = fmt.Errorf("linalg: eigendecomposition did not converge: %w", gsterr.ErrNumericalDegeneracy)
)

// linalgErrorf wraps an underlying error with the given operation tag.
func linalgErrorf(tag string, err error) error {
	return gsterr.Errorf(tag, err)
}
