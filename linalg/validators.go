// SPDX-License-Identifier: MIT
// Package: linalg
//
// Purpose:
//   - Provide a single source of truth for shape/nil validation of gonum operands.
//   - Keep kernels minimal by delegating guard logic here.
//   - Return tagged sentinel errors so call sites can match via errors.Is.
//
// Determinism & Performance:
//   - All checks are pure, deterministic and allocate nothing.

package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return linalgErrorf(tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// A typed nil (*mat.Dense)(nil) stored in the interface is also rejected.
func ValidateNotNil(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures a and b have equal dimensions.
// Assumes a and b are not nil.
func ValidateSameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if ac != bc {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is square.
func ValidateSquare(m mat.Matrix) error {
	r, c := m.Dims()
	if r != c {
		return validatorErrorf("ValidateSquare", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquareDim checks that m is n×n.
func ValidateSquareDim(m mat.Matrix, n int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareDim", err)
	}
	r, c := m.Dims()
	if r != n || c != n {
		return validatorErrorf("ValidateSquareDim", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil && n != 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateCSquare checks that a complex matrix is non-nil and square.
func ValidateCSquare(m mat.CMatrix) error {
	if m == nil {
		return validatorErrorf("ValidateCSquare", ErrNilMatrix)
	}
	r, c := m.Dims()
	if r != c {
		return validatorErrorf("ValidateCSquare", ErrDimensionMismatch)
	}

	return nil
}
